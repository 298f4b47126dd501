// Package connectors provides source tree implementations for the
// supported document sources. Each connector knows how to list and fetch
// files from a specific backend (Google Drive, local filesystem, GitHub).
package connectors
