package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/services"
	"github.com/meridian-labs/harvest/internal/postprocessors/chunker"
)

// Source kinds accepted in [source].kind.
const (
	SourceDrive      = "drive"
	SourceFilesystem = "filesystem"
	SourceGitHub     = "github"
)

// Embedding providers accepted in [embedding].provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config is the full harvester configuration, loaded from a TOML file.
// Secrets (API keys, tokens) are taken from the environment, never from
// the file.
type Config struct {
	Source    SourceConfig    `toml:"source"`
	Drive     DriveConfig     `toml:"drive"`
	Local     LocalConfig     `toml:"local"`
	GitHub    GitHubConfig    `toml:"github"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Storage   StorageConfig   `toml:"storage"`
	Snapshot  SnapshotConfig  `toml:"snapshot"`
	OCR       OCRConfig       `toml:"ocr"`
	Importer  ImporterConfig  `toml:"importer"`
}

// SourceConfig selects which source tree the harvester reads.
type SourceConfig struct {
	// Kind is "drive", "filesystem" or "github".
	Kind string `toml:"kind"`
}

// DriveConfig configures the Google Drive source.
type DriveConfig struct {
	FolderID          string   `toml:"folder_id"`
	CredentialsFile   string   `toml:"credentials_file"`
	ImpersonationUser string   `toml:"impersonation_user"`
	PageSize          int64    `toml:"page_size"`
	MimeTypes         []string `toml:"mime_types"`
}

// LocalConfig configures the filesystem source.
type LocalConfig struct {
	Root string `toml:"root"`
}

// GitHubConfig configures the GitHub repository source.
type GitHubConfig struct {
	Owner  string `toml:"owner"`
	Repo   string `toml:"repo"`
	Branch string `toml:"branch"`
	// Token is populated from the GITHUB_TOKEN environment variable.
	Token string `toml:"-"`
}

// ChunkingConfig configures the text chunker.
type ChunkingConfig struct {
	ChunkSize int `toml:"chunk_size"`
	Overlap   int `toml:"overlap"`
}

// EmbeddingConfig configures the embedding service.
type EmbeddingConfig struct {
	// Provider is "gemini", "openai" or "ollama".
	Provider  string `toml:"provider"`
	Model     string `toml:"model"`
	BatchSize int    `toml:"batch_size"`
	// BaseURL overrides the provider endpoint (Ollama host, Azure OpenAI).
	BaseURL string `toml:"base_url"`
	// APIKey is populated from GEMINI_API_KEY or OPENAI_API_KEY, depending
	// on the provider.
	APIKey string `toml:"-"`
}

// StorageConfig configures the SQLite store.
type StorageConfig struct {
	DataDir string `toml:"data_dir"`
}

// SnapshotConfig configures the JSONL snapshot writer.
type SnapshotConfig struct {
	Dir            string `toml:"dir"`
	EmbeddingField string `toml:"embedding_field"`
}

// OCRConfig configures the image text extraction sidecar.
type OCRConfig struct {
	ServiceURL string `toml:"service_url"`
}

// ImporterConfig configures the optional downstream snapshot importer.
// When Command is empty, snapshots are written but not handed off.
type ImporterConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// Default returns the configuration defaults. They describe a local
// harvest of the current directory into ~/.harvest.
func Default() *Config {
	return &Config{
		Source: SourceConfig{Kind: SourceFilesystem},
		Local:  LocalConfig{Root: "."},
		Chunking: ChunkingConfig{
			ChunkSize: chunker.DefaultChunkSize,
			Overlap:   chunker.DefaultChunkOverlap,
		},
		Embedding: EmbeddingConfig{
			Provider:  ProviderGemini,
			BatchSize: services.DefaultBatchSize,
		},
		Snapshot: SnapshotConfig{
			Dir: "snapshots",
		},
	}
}

// Load reads the configuration file at path, layering it over the
// defaults. An empty path loads ~/.harvest/config.toml when present and
// otherwise returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".harvest", "config.toml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file; defaults apply.
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	switch cfg.Embedding.Provider {
	case ProviderOpenAI:
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	case ProviderOllama:
		// Local inference, no key.
	default:
		cfg.Embedding.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints and applies fallback values.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceDrive:
		if c.Drive.FolderID == "" {
			return fmt.Errorf("%w: drive.folder_id is required for the drive source", domain.ErrInvalidInput)
		}
	case SourceFilesystem:
		if c.Local.Root == "" {
			return fmt.Errorf("%w: local.root is required for the filesystem source", domain.ErrInvalidInput)
		}
	case SourceGitHub:
		if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
			return fmt.Errorf("%w: github.owner and github.repo are required for the github source", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidInput, c.Source.Kind)
	}

	switch c.Embedding.Provider {
	case "":
		c.Embedding.Provider = ProviderGemini
	case ProviderGemini, ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, c.Embedding.Provider)
	}

	if c.Chunking.ChunkSize <= 0 {
		c.Chunking.ChunkSize = chunker.DefaultChunkSize
	}
	if c.Chunking.Overlap < 0 {
		c.Chunking.Overlap = chunker.DefaultChunkOverlap
	}
	if c.Chunking.Overlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("%w: chunking.overlap must be smaller than chunking.chunk_size", domain.ErrInvalidInput)
	}
	if c.Embedding.BatchSize <= 0 {
		c.Embedding.BatchSize = services.DefaultBatchSize
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = "snapshots"
	}
	return nil
}
