package github

import (
	"mime"
	"path/filepath"
	"strings"
)

// extMIMETypes maps file extensions to MIME types for common repository
// content not covered by Go's registry. Source and config files are plain
// text as far as extraction is concerned.
var extMIMETypes = map[string]string{
	".md": "text/markdown", ".markdown": "text/markdown",
	".txt": "text/plain", ".rst": "text/plain",
	".csv": "text/csv",
	".go": "text/plain", ".py": "text/plain", ".rs": "text/plain",
	".ts": "text/plain", ".js": "text/plain",
	".yaml": "text/plain", ".yml": "text/plain", ".toml": "text/plain",
	".sh": "text/plain", ".sql": "text/plain", ".json": "text/plain",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// contentType derives a MIME type from a file name. Unknown extensions map
// to application/octet-stream, which downstream treats as unsupported.
func contentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := extMIMETypes[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		if i := strings.Index(mt, ";"); i >= 0 {
			mt = mt[:i]
		}
		return mt
	}
	return "application/octet-stream"
}
