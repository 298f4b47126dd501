// Package cli provides the cobra-based command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/meridian-labs/harvest/internal/adapters/driven/config/file"
	"github.com/meridian-labs/harvest/internal/adapters/driven/embedding/gemini"
	"github.com/meridian-labs/harvest/internal/adapters/driven/embedding/ollama"
	"github.com/meridian-labs/harvest/internal/adapters/driven/embedding/openai"
	"github.com/meridian-labs/harvest/internal/adapters/driven/importer"
	"github.com/meridian-labs/harvest/internal/adapters/driven/snapshot"
	"github.com/meridian-labs/harvest/internal/adapters/driven/storage/memory"
	"github.com/meridian-labs/harvest/internal/adapters/driven/storage/sqlite"
	"github.com/meridian-labs/harvest/internal/connectors/filesystem"
	"github.com/meridian-labs/harvest/internal/connectors/github"
	"github.com/meridian-labs/harvest/internal/connectors/google/drive"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
	"github.com/meridian-labs/harvest/internal/core/services"
	"github.com/meridian-labs/harvest/internal/extractors"
	"github.com/meridian-labs/harvest/internal/logger"
	"github.com/meridian-labs/harvest/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Incremental document harvester",
	Long: `Harvest lists a document source, detects changed files, extracts and
chunks their text, embeds the chunks, and persists the result as an
append-only corpus plus a per-run JSONL snapshot.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.harvest/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// app bundles the wired pipeline with the resources it borrowed.
type app struct {
	pipeline *services.Pipeline
	store    *sqlite.Store
	tree     driven.SourceTree
	embedder driven.EmbeddingService
	cfg      *configfile.Config
}

// close releases the app's resources in reverse construction order.
func (a *app) close() {
	if a.embedder != nil {
		a.embedder.Close()
	}
	if a.tree != nil {
		a.tree.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}

// buildApp loads the configuration and wires every adapter into a ready
// pipeline. The caller owns the returned app and must close it.
//
// A dry run swaps the SQLite store for an in-memory one and writes its
// snapshot under the system temp directory, so a full pipeline pass leaves
// the persisted corpus untouched. The downstream importer is skipped too.
func buildApp(ctx context.Context, dryRun bool) (*app, error) {
	cfg, err := configfile.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	var (
		index      driven.HashIndex
		chunkStore driven.ChunkStore
	)
	snapshotDir := cfg.Snapshot.Dir
	if dryRun {
		mem := memory.NewStore()
		index, chunkStore = mem, mem
		snapshotDir = filepath.Join(os.TempDir(), "harvest-dryrun")
	} else {
		a.store, err = sqlite.NewStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		index, chunkStore = a.store, a.store
	}

	a.tree, err = buildTree(ctx, cfg)
	if err != nil {
		a.close()
		return nil, err
	}

	a.embedder, err = buildEmbedder(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("creating embedding service: %w", err)
	}

	registry := extractors.Defaults(cfg.OCR.ServiceURL)
	loader := services.NewTextLoader(a.tree, registry)

	var snapshotOpts []snapshot.Option
	if cfg.Snapshot.EmbeddingField != "" {
		snapshotOpts = append(snapshotOpts, snapshot.WithEmbeddingField(cfg.Snapshot.EmbeddingField))
	}
	writer := snapshot.NewWriter(snapshotDir, snapshotOpts...)

	var pipelineOpts []services.PipelineOption
	if cfg.Importer.Command != "" && !dryRun {
		pipelineOpts = append(pipelineOpts,
			services.WithImporter(importer.NewCommand(cfg.Importer.Command, cfg.Importer.Args...)))
	}

	a.pipeline = services.NewPipeline(
		services.NewLister(a.tree),
		index,
		services.NewDetector(loader),
		loader,
		postprocessors.Defaults(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap),
		services.NewBatcher(a.embedder, services.WithBatchSize(cfg.Embedding.BatchSize)),
		services.NewSink(chunkStore, writer),
		chunkStore,
		rootFolderID(cfg),
		pipelineOpts...,
	)
	return a, nil
}

// buildEmbedder creates the configured embedding service.
func buildEmbedder(ctx context.Context, cfg *configfile.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case configfile.ProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
	case configfile.ProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		}), nil
	default:
		return gemini.NewEmbeddingService(ctx, gemini.Config{
			APIKey: cfg.Embedding.APIKey,
			Model:  cfg.Embedding.Model,
		})
	}
}

// buildTree creates the configured source tree.
func buildTree(ctx context.Context, cfg *configfile.Config) (driven.SourceTree, error) {
	switch cfg.Source.Kind {
	case configfile.SourceDrive:
		return drive.New(ctx, &drive.Config{
			FolderID:          cfg.Drive.FolderID,
			CredentialsFile:   cfg.Drive.CredentialsFile,
			ImpersonationUser: cfg.Drive.ImpersonationUser,
			PageSize:          cfg.Drive.PageSize,
			MimeTypeFilter:    cfg.Drive.MimeTypes,
		})
	case configfile.SourceFilesystem:
		return filesystem.New(cfg.Local.Root)
	case configfile.SourceGitHub:
		return github.New(ctx, &github.Config{
			Owner:  cfg.GitHub.Owner,
			Repo:   cfg.GitHub.Repo,
			Branch: cfg.GitHub.Branch,
			Token:  cfg.GitHub.Token,
		})
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// rootFolderID returns the tree root identifier for the configured source.
// Every connector treats the empty ID as its configured root.
func rootFolderID(*configfile.Config) string {
	return ""
}
