package github

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
	"github.com/meridian-labs/harvest/internal/logger"
)

// Tree is a GitHub repository implementation of the source tree. Folder IDs
// are repository-relative paths; the empty ID is the repository root.
//
// GitHub does not report per-file modification times on directory listings,
// so every file carries the head commit time of the branch: any new commit
// marks the whole tree suspect and content hashing settles what actually
// changed.
type Tree struct {
	gh      *gh.Client
	cfg     *Config
	limiter *RateLimiter

	branch   string // resolved branch, set on first root listing
	headTime string // head commit time of the branch, RFC 3339
}

var _ driven.SourceTree = (*Tree)(nil)

// New creates a GitHub source tree from the given configuration.
func New(ctx context.Context, cfg *Config) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var client *gh.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		client = gh.NewClient(oauth2.NewClient(ctx, ts))
	} else {
		client = gh.NewClient(nil)
	}

	return &Tree{
		gh:      client,
		cfg:     cfg,
		limiter: NewRateLimiter(),
		branch:  cfg.Branch,
	}, nil
}

// ListFolder returns all immediate children of a repository directory.
// Listing the root also refreshes the branch head, so a run always sees a
// consistent head commit time across its whole traversal.
func (t *Tree) ListFolder(ctx context.Context, folderID string) ([]driven.TreeEntry, error) {
	if folderID == "" {
		if err := t.refreshHead(ctx); err != nil {
			return nil, err
		}
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	opts := &gh.RepositoryContentGetOptions{Ref: t.branch}
	file, dir, resp, err := t.gh.Repositories.GetContents(ctx, t.cfg.Owner, t.cfg.Repo, folderID, opts)
	t.updateRateLimit(resp)
	if err != nil {
		return nil, fmt.Errorf("list folder %q: %w", folderID, WrapError(err))
	}
	if file != nil {
		return nil, fmt.Errorf("list folder %q: %w: path is a file", folderID, domain.ErrInvalidInput)
	}

	entries := make([]driven.TreeEntry, 0, len(dir))
	for _, item := range dir {
		name := item.GetName()
		if strings.HasPrefix(name, ".") {
			continue
		}

		switch item.GetType() {
		case "dir":
			entries = append(entries, driven.TreeEntry{
				ID:           item.GetPath(),
				Name:         name,
				ContentType:  "inode/directory",
				ModifiedTime: t.headTime,
				WebLink:      item.GetHTMLURL(),
				Folder:       true,
			})
		case "file":
			if item.GetSize() > MaxFileSize {
				logger.Debug("skipping %s (%d bytes exceeds limit)", item.GetPath(), item.GetSize())
				continue
			}
			entries = append(entries, driven.TreeEntry{
				ID:           item.GetPath(),
				Name:         name,
				ContentType:  contentType(name),
				ModifiedTime: t.headTime,
				WebLink:      item.GetHTMLURL(),
			})
		default:
			// Symlinks and submodules are not harvestable content.
		}
	}
	return entries, nil
}

// Fetch downloads a file's raw bytes from the branch head.
func (t *Tree) Fetch(ctx context.Context, file domain.FileDescriptor) ([]byte, error) {
	if t.branch == "" {
		if err := t.refreshHead(ctx); err != nil {
			return nil, err
		}
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	opts := &gh.RepositoryContentGetOptions{Ref: t.branch}
	rc, resp, err := t.gh.Repositories.DownloadContents(ctx, t.cfg.Owner, t.cfg.Repo, file.ID, opts)
	t.updateRateLimit(resp)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", file.ID, WrapError(err))
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.ID, err)
	}
	return data, nil
}

// Export is not supported: repository files are always fetched raw.
func (t *Tree) Export(_ context.Context, file domain.FileDescriptor, targetMIME string) ([]byte, error) {
	return nil, fmt.Errorf("%w: cannot export %s as %s", domain.ErrUnsupportedType, file.ID, targetMIME)
}

// Close releases resources. The GitHub client holds no connections that
// need explicit shutdown.
func (t *Tree) Close() error {
	return nil
}

// refreshHead resolves the branch (when the config left it empty) and
// records the head commit time used as the mtime for every listed file.
func (t *Tree) refreshHead(ctx context.Context) error {
	if t.branch == "" {
		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}
		repo, resp, err := t.gh.Repositories.Get(ctx, t.cfg.Owner, t.cfg.Repo)
		t.updateRateLimit(resp)
		if err != nil {
			return fmt.Errorf("get repository: %w", WrapError(err))
		}
		t.branch = repo.GetDefaultBranch()
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	commits, resp, err := t.gh.Repositories.ListCommits(ctx, t.cfg.Owner, t.cfg.Repo, &gh.CommitsListOptions{
		SHA:         t.branch,
		ListOptions: gh.ListOptions{PerPage: 1},
	})
	t.updateRateLimit(resp)
	if err != nil {
		return fmt.Errorf("get head commit: %w", WrapError(err))
	}
	if len(commits) == 0 {
		return fmt.Errorf("branch %s has no commits", t.branch)
	}

	t.headTime = commits[0].GetCommit().GetCommitter().GetDate().UTC().Format(time.RFC3339)
	return nil
}

func (t *Tree) updateRateLimit(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	t.limiter.UpdateFromResponse(resp.Response)
}
