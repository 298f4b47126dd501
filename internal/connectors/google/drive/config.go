package drive

import (
	"fmt"
	"strings"
)

// DefaultPageSize is the Files.List page size used when none is configured.
const DefaultPageSize = 100

// MaxExportSize is the maximum size for downloaded or exported content (50MB).
const MaxExportSize = 50 * 1024 * 1024

// Config holds Google Drive connector configuration.
type Config struct {
	// FolderID is the Drive folder to harvest. Required.
	FolderID string
	// CredentialsFile is the path to a service account JSON key.
	// When empty, Application Default Credentials are used.
	CredentialsFile string
	// ImpersonationUser enables domain-wide delegation as this user.
	ImpersonationUser string
	// PageSize is the Files.List page size.
	PageSize int64
	// MimeTypeFilter limits harvesting to specific MIME types (optional).
	// Folders are always traversed regardless of the filter.
	MimeTypeFilter []string
}

// Validate checks the configuration and applies defaults.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.FolderID) == "" {
		return fmt.Errorf("drive: folder_id is required")
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	for i := range c.MimeTypeFilter {
		c.MimeTypeFilter[i] = strings.TrimSpace(c.MimeTypeFilter[i])
	}
	return nil
}

// allowsMimeType checks a MIME type against the filter. An empty filter
// allows everything.
func (c *Config) allowsMimeType(mimeType string) bool {
	if len(c.MimeTypeFilter) == 0 {
		return true
	}
	for _, filter := range c.MimeTypeFilter {
		if mimeType == filter {
			return true
		}
	}
	return false
}
