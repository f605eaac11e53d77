package sanitizer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	separators   = regexp.MustCompile(`[/\\]+`)
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	underscores  = regexp.MustCompile(`_+`)
)

// SanitizeSegment cleans a configured folder name so it can be used as a
// single path segment. Returns the cleaned name and whether it changed.
func SanitizeSegment(name string) (string, bool) {
	original := name

	cleaned := strings.TrimSpace(name)
	cleaned = controlChars.ReplaceAllString(cleaned, "")
	cleaned = separators.ReplaceAllString(cleaned, "_")
	cleaned = underscores.ReplaceAllString(cleaned, "_")

	// "." and ".." must never survive as a segment
	cleaned = strings.Trim(cleaned, ".")
	cleaned = strings.TrimSpace(cleaned)

	return cleaned, cleaned != original
}

// NeedsSanitization checks if a segment needs to be sanitized
func NeedsSanitization(name string) bool {
	_, changed := SanitizeSegment(name)
	return changed
}

// IsUnset reports whether an optional folder name holds no value. Older
// records store the literal "None" for a missing job folder.
func IsUnset(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed == "" || trimmed == "None"
}

// SafeJoin joins a slash separated relative path onto root and rejects
// results that would escape root.
func SafeJoin(root, rel string) (string, error) {
	joined := filepath.Join(root, filepath.FromSlash(strings.TrimLeft(rel, "/")))
	back, err := filepath.Rel(filepath.Clean(root), joined)
	if err != nil {
		return "", fmt.Errorf("resolve %q under %q: %w", rel, root, err)
	}
	if back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes %q", rel, root)
	}
	return joined, nil
}
