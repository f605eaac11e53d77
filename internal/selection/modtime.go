// Package selection decides which entries of a remote listing a job transfers.
package selection

import (
	"strings"
	"time"

	"ferryman/internal/models"
)

// FTPTimeLayout is the MLSD "modify" fact layout.
const FTPTimeLayout = "20060102150405"

// ParseModified parses the raw modify timestamp reported for protocol.
// FTP values must carry at least the 14 digit YYYYMMDDHHMMSS prefix; SFTP
// and NFS values are ISO-8601. The second return is false when the entry
// has no usable timestamp.
func ParseModified(protocol models.Protocol, raw string) (time.Time, bool) {
	if protocol == models.ProtocolFTP {
		if len(raw) < 14 {
			return time.Time{}, false
		}
		t, err := time.ParseInLocation(FTPTimeLayout, raw[:14], time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	if raw == "" {
		return time.Time{}, false
	}
	if strings.HasSuffix(raw, "Z") {
		raw = strings.TrimSuffix(raw, "Z") + "+00:00"
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InRange reports from <= t <= to.
func InRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// FilterByModified keeps files whose modify time lies inside [from, to].
// Files without a parseable timestamp are dropped. Directories are kept so
// a recursive walk can still descend into them.
func FilterByModified(protocol models.Protocol, entries []models.DirectoryEntry, from, to time.Time) []models.DirectoryEntry {
	var kept []models.DirectoryEntry
	for _, e := range entries {
		if e.IsDir() {
			kept = append(kept, e)
			continue
		}
		mtime, ok := ParseModified(protocol, e.Modified)
		if !ok {
			continue
		}
		if InRange(mtime, from, to) {
			kept = append(kept, e)
		}
	}
	return kept
}
