package entry

import (
	"net/url"
	"regexp"
	"strings"
)

// multiSlashRegex matches runs of two or more slashes.
var multiSlashRegex = regexp.MustCompile(`/{2,}`)

// unsafeFilenameRegex matches characters outside the stored-filename alphabet.
var unsafeFilenameRegex = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// NormalizePath reduces a full URL or bare path to the canonical page path
// used for grouping and matching:
// 1. Strip scheme/host/query/fragment, keeping only the path component
// 2. Collapse repeated slashes
// 3. Drop the trailing slash (except for the root path)
// An empty or unparsable input normalizes to "/".
func NormalizePath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "/"
	}

	path := raw
	if u, err := url.Parse(raw); err == nil {
		path = u.Path
	} else {
		// Not a URL; strip query/fragment by hand
		if i := strings.IndexAny(path, "?#"); i >= 0 {
			path = path[:i]
		}
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	path = multiSlashRegex.ReplaceAllString(path, "/")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with "_".
// The result is safe to place in an on-disk attachment filename.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "file"
	}
	return unsafeFilenameRegex.ReplaceAllString(name, "_")
}
