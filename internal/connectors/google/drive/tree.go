package drive

import (
	"context"
	"fmt"
	"io"

	drivev3 "google.golang.org/api/drive/v3"

	"github.com/meridian-labs/harvest/internal/connectors/google"
	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
	"github.com/meridian-labs/harvest/internal/logger"
)

// MimeTypeFolder marks Drive folder entries.
const MimeTypeFolder = "application/vnd.google-apps.folder"

// listFields limits Files.List responses to the fields the harvester uses.
const listFields = "nextPageToken, files(id, name, mimeType, modifiedTime, webViewLink)"

// Tree is a Google Drive implementation of the source tree. All API calls
// go through a shared rate limiter; listing handles pagination internally.
type Tree struct {
	svc     *drivev3.Service
	cfg     *Config
	limiter *google.RateLimiter
}

var _ driven.SourceTree = (*Tree)(nil)

// New creates a Drive source tree from the given configuration.
func New(ctx context.Context, cfg *Config) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	svc, err := google.NewDriveService(ctx, cfg.CredentialsFile, cfg.ImpersonationUser)
	if err != nil {
		return nil, err
	}

	return &Tree{
		svc:     svc,
		cfg:     cfg,
		limiter: google.NewRateLimiter(),
	}, nil
}

// ListFolder returns all immediate children of a folder, following page
// tokens until the listing is exhausted. Trashed files are excluded at the
// query level. Non-folder entries that fail the MIME type filter are
// dropped; folders always pass so traversal can reach nested matches.
func (t *Tree) ListFolder(ctx context.Context, folderID string) ([]driven.TreeEntry, error) {
	if folderID == "" {
		folderID = t.cfg.FolderID
	}

	var entries []driven.TreeEntry
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)
	pageToken := ""

	for {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := t.svc.Files.List().
			Q(query).
			Fields(listFields).
			PageSize(t.cfg.PageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list folder %s: %w", folderID, google.WrapError(err))
		}

		for _, file := range page.Files {
			isFolder := file.MimeType == MimeTypeFolder
			if !isFolder && !t.cfg.allowsMimeType(file.MimeType) {
				logger.Debug("filtered out %s (%s)", file.Name, file.MimeType)
				continue
			}
			entries = append(entries, driven.TreeEntry{
				ID:           file.Id,
				Name:         file.Name,
				ContentType:  file.MimeType,
				ModifiedTime: file.ModifiedTime,
				WebLink:      ResolveWebURL(file.Id, file.WebViewLink),
				Folder:       isFolder,
			})
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			return entries, nil
		}
	}
}

// Fetch downloads a file's raw bytes.
func (t *Tree) Fetch(ctx context.Context, file domain.FileDescriptor) ([]byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := t.svc.Files.Get(file.ID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", file.ID, google.WrapError(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxExportSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.ID, err)
	}
	return data, nil
}

// Export converts a Google Workspace file to the target MIME type.
func (t *Tree) Export(ctx context.Context, file domain.FileDescriptor, targetMIME string) ([]byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := t.svc.Files.Export(file.ID, targetMIME).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("export %s as %s: %w", file.ID, targetMIME, google.WrapError(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxExportSize))
	if err != nil {
		return nil, fmt.Errorf("read export of %s: %w", file.ID, err)
	}
	return data, nil
}

// Close releases resources. The Drive client holds no connections that
// need explicit shutdown.
func (t *Tree) Close() error {
	return nil
}
