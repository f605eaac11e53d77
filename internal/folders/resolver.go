// Package folders computes the local directories jobs read from and write to.
package folders

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ferryman/internal/models"
	"ferryman/internal/sanitizer"
)

const DefaultGroupFormat = "YYYY-MM"

// groupLayouts maps the group date format tokens to Go layouts. YYYY-Q is
// handled separately since quarters have no layout.
var groupLayouts = map[string]string{
	"YYYY-MM":    "2006-01",
	"YYYY-MM-DD": "2006-01-02",
	"YYYY_MM":    "2006_01",
	"YYYY":       "2006",
	"MM-YYYY":    "01-2006",
	"Month_YYYY": "January_2006",
}

// PathResolutionError is returned when a resolved directory cannot be created.
type PathResolutionError struct {
	Path string
	Err  error
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("cannot create directory %s: %v", e.Path, e.Err)
}

func (e *PathResolutionError) Unwrap() error {
	return e.Err
}

// Resolution is a resolved path plus enough of its structure to look for
// sibling dated folders.
type Resolution struct {
	Path string
	// Prefix is everything before the date segment.
	Prefix string
	// DateSegment is empty when no date organization applied.
	DateSegment string
	DateFormat  string
	// Suffix holds the segments after the date segment.
	Suffix []string
}

// Resolve builds base[/date][/group folder][/job folder]. The date segment
// is only added when group enables date organization.
func Resolve(base string, group *models.JobGroup, jobFolder string, ref time.Time) Resolution {
	res := Resolution{Path: base, Prefix: base}

	if group != nil {
		if group.EnableDateOrganization {
			res.DateFormat = normalizeGroupFormat(group.DateFolderFormat)
			res.DateSegment = FormatGroupDate(ref, res.DateFormat)
		}
		if name, _ := sanitizer.SanitizeSegment(group.FolderName); name != "" {
			res.Suffix = append(res.Suffix, name)
		}
	}
	if !sanitizer.IsUnset(jobFolder) {
		if name, _ := sanitizer.SanitizeSegment(jobFolder); name != "" {
			res.Suffix = append(res.Suffix, name)
		}
	}

	res.Path = res.join(res.DateSegment)
	return res
}

// ResolveJob resolves the working directory of job. Without a group the
// job's own date folder setting adds one segment under base.
func ResolveJob(job *models.JobSpec, base string, group *models.JobGroup, ref time.Time) Resolution {
	if group != nil {
		return Resolve(base, group, job.JobFolderName, ref)
	}

	res := Resolve(base, nil, job.JobFolderName, ref)
	if job.UseDateFolders {
		res.DateFormat = job.DateFolderFormat
		if res.DateFormat == "" {
			res.DateFormat = "YYYY-MM-DD"
		}
		res.DateSegment = FormatJobDate(ref, res.DateFormat)
		res.Path = res.join(res.DateSegment)
	}
	return res
}

func (r Resolution) join(date string) string {
	parts := []string{r.Prefix}
	if date != "" {
		parts = append(parts, date)
	}
	parts = append(parts, r.Suffix...)
	return filepath.Join(parts...)
}

// Ensure creates the resolved directory.
func (r Resolution) Ensure() error {
	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return &PathResolutionError{Path: r.Path, Err: err}
	}
	return nil
}

// Siblings lists the existing directories that differ from r only in the
// date segment, newest date first. Folders whose segment does not parse
// with r's date format are ignored.
func (r Resolution) Siblings() ([]string, error) {
	if r.DateSegment == "" {
		return nil, nil
	}

	matches, err := filepath.Glob(r.join(dateGlob(r.DateFormat)))
	if err != nil {
		return nil, fmt.Errorf("glob sibling folders: %w", err)
	}

	type dated struct {
		path string
		at   time.Time
	}
	var found []dated
	for _, m := range matches {
		rel, err := filepath.Rel(r.Prefix, m)
		if err != nil {
			continue
		}
		segment := strings.SplitN(rel, string(filepath.Separator), 2)[0]
		at, ok := ParseDateSegment(segment, r.DateFormat)
		if !ok {
			continue
		}
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			found = append(found, dated{path: m, at: at})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].at.After(found[j].at) })

	paths := make([]string, len(found))
	for i, d := range found {
		paths[i] = d.path
	}
	return paths, nil
}

func normalizeGroupFormat(format string) string {
	if format == "YYYY-Q" {
		return format
	}
	if _, ok := groupLayouts[format]; ok {
		return format
	}
	return DefaultGroupFormat
}

// FormatGroupDate renders ref with a group date format. Unknown formats
// fall back to YYYY-MM.
func FormatGroupDate(ref time.Time, format string) string {
	format = normalizeGroupFormat(format)
	if format == "YYYY-Q" {
		return fmt.Sprintf("%d-Q%d", ref.Year(), (int(ref.Month())-1)/3+1)
	}
	return ref.Format(groupLayouts[format])
}

// FormatJobDate substitutes the tokens YYYY, MM, DD and YY in format.
func FormatJobDate(ref time.Time, format string) string {
	r := strings.NewReplacer(
		"YYYY", fmt.Sprintf("%04d", ref.Year()),
		"MM", fmt.Sprintf("%02d", int(ref.Month())),
		"DD", fmt.Sprintf("%02d", ref.Day()),
		"YY", fmt.Sprintf("%02d", ref.Year()%100),
	)
	return r.Replace(format)
}

// ParseDateSegment reverses FormatGroupDate and FormatJobDate.
func ParseDateSegment(segment, format string) (time.Time, bool) {
	if format == "YYYY-Q" {
		var year, quarter int
		if _, err := fmt.Sscanf(segment, "%4d-Q%1d", &year, &quarter); err != nil || quarter < 1 || quarter > 4 {
			return time.Time{}, false
		}
		return time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC), true
	}
	if layout, ok := groupLayouts[format]; ok {
		t, err := time.Parse(layout, segment)
		return t, err == nil
	}

	layout := strings.NewReplacer("YYYY", "2006", "MM", "01", "DD", "02", "YY", "06").Replace(format)
	t, err := time.Parse(layout, segment)
	return t, err == nil
}

// dateGlob turns a date format into a shell pattern matching any date.
func dateGlob(format string) string {
	if format == "Month_YYYY" {
		return "*_[0-9][0-9][0-9][0-9]"
	}
	if format == "YYYY-Q" {
		return "[0-9][0-9][0-9][0-9]-Q[1-4]"
	}
	r := strings.NewReplacer(
		"YYYY", strings.Repeat("[0-9]", 4),
		"MM", strings.Repeat("[0-9]", 2),
		"DD", strings.Repeat("[0-9]", 2),
		"YY", strings.Repeat("[0-9]", 2),
	)
	return r.Replace(format)
}

// GroupPreview returns the directory a group writes to at ref.
func GroupPreview(base string, group *models.JobGroup, ref time.Time) string {
	return Resolve(base, group, "", ref).Path
}

