package filesystem

import "strings"

// ResolveWebURL converts a filesystem web link to a local path for
// opening. Handles file:// URIs and bare paths.
func ResolveWebURL(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		return strings.TrimPrefix(uri, "file://")
	}
	return uri
}
