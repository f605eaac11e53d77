package selection

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ferryman/internal/models"
)

// FilenamePattern extracts a date embedded in a file name, e.g. the
// pattern "YYYYMMDD" matches "cdr_20240315.csv".
type FilenamePattern struct {
	raw string
	re  *regexp.Regexp
}

// CompileFilenamePattern turns the tokens YYYY, YY, MM and DD into capture
// groups; every other character matches literally. YYYY or YY and MM are
// required; a missing DD means the first of the month.
func CompileFilenamePattern(pattern string) (*FilenamePattern, error) {
	var b strings.Builder
	var hasYear, hasMonth bool

	for i := 0; i < len(pattern); {
		rest := pattern[i:]
		switch {
		case strings.HasPrefix(rest, "YYYY"):
			b.WriteString(`(?P<year>\d{4})`)
			hasYear = true
			i += 4
		case strings.HasPrefix(rest, "YY"):
			b.WriteString(`(?P<yy>\d{2})`)
			hasYear = true
			i += 2
		case strings.HasPrefix(rest, "MM"):
			b.WriteString(`(?P<month>\d{2})`)
			hasMonth = true
			i += 2
		case strings.HasPrefix(rest, "DD"):
			b.WriteString(`(?P<day>\d{2})`)
			i += 2
		default:
			b.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			i++
		}
	}
	if !hasYear || !hasMonth {
		return nil, fmt.Errorf("filename date pattern %q needs a year and a month token", pattern)
	}

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compile filename date pattern %q: %w", pattern, err)
	}
	return &FilenamePattern{raw: pattern, re: re}, nil
}

func (p *FilenamePattern) String() string {
	return p.raw
}

// Extract returns the first valid date found in name. A match must not be
// part of a longer run of digits.
func (p *FilenamePattern) Extract(name string) (time.Time, bool) {
	for start := 0; start < len(name); {
		loc := p.re.FindStringSubmatchIndex(name[start:])
		if loc == nil {
			break
		}
		begin, end := start+loc[0], start+loc[1]
		if !isDigitAt(name, begin-1) && !isDigitAt(name, end) {
			m := make([]string, len(loc)/2)
			for i := range m {
				if loc[2*i] >= 0 {
					m[i] = name[start+loc[2*i] : start+loc[2*i+1]]
				}
			}
			if t, ok := p.dateFromMatch(m); ok {
				return t, true
			}
		}
		start = begin + 1
	}
	return time.Time{}, false
}

func isDigitAt(s string, i int) bool {
	return i >= 0 && i < len(s) && s[i] >= '0' && s[i] <= '9'
}

func (p *FilenamePattern) dateFromMatch(m []string) (time.Time, bool) {
	year, month, day := 0, 0, 1
	for i, group := range p.re.SubexpNames() {
		if group == "" || m[i] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i])
		if err != nil {
			return time.Time{}, false
		}
		switch group {
		case "year":
			year = n
		case "yy":
			year = 2000 + n
		case "month":
			month = n
		case "day":
			day = n
		}
	}
	if month < 1 || month > 12 || day < 1 || day > daysIn(year, time.Month(month)) {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// FilterByFilenameDate keeps files whose name carries a parseable date. When
// from and to are both set the extracted date must also lie inside the
// inclusive range, compared by calendar day. Directories are kept.
func FilterByFilenameDate(entries []models.DirectoryEntry, pattern *FilenamePattern, from, to *time.Time) []models.DirectoryEntry {
	var kept []models.DirectoryEntry
	for _, e := range entries {
		if e.IsDir() {
			kept = append(kept, e)
			continue
		}
		d, ok := pattern.Extract(e.Name)
		if !ok {
			continue
		}
		if from != nil && to != nil && !InRange(d, calendarDay(*from), calendarDay(*to)) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
