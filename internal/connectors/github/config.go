package github

import (
	"fmt"
	"strings"
)

// MaxFileSize is the largest file fetched from a repository (1 MB).
// Larger blobs are skipped during listing.
const MaxFileSize = 1024 * 1024

// Config holds configuration for a GitHub repository source.
type Config struct {
	// Owner is the repository owner (user or organisation). Required.
	Owner string

	// Repo is the repository name. Required.
	Repo string

	// Branch is the branch to read. Empty means the repository's
	// default branch.
	Branch string

	// Token is a personal access token. Empty means unauthenticated
	// access, which only works for public repositories and carries a
	// much lower rate limit.
	Token string
}

// Validate checks required fields and normalises the config.
func (c *Config) Validate() error {
	c.Owner = strings.TrimSpace(c.Owner)
	c.Repo = strings.TrimSpace(c.Repo)
	c.Branch = strings.TrimSpace(c.Branch)

	if c.Owner == "" {
		return fmt.Errorf("github: owner is required")
	}
	if c.Repo == "" {
		return fmt.Errorf("github: repo is required")
	}
	return nil
}
