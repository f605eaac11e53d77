package selection

import (
	"fmt"
	"time"

	"ferryman/internal/models"
)

type Mode string

const (
	// ModeListed transfers whatever the listing returns; it is the plain
	// "download files" job with no filtering configured.
	ModeListed   Mode = "listed"
	ModeAll      Mode = "all"
	ModeStatic   Mode = "static_range"
	ModeRolling  Mode = "rolling_range"
	ModeFilename Mode = "filename_date"
)

// Plan is the selection a job applies during one execution.
type Plan struct {
	Mode        Mode
	From        *time.Time
	To          *time.Time
	Filename    *FilenamePattern
	Description string
}

// PlanFor builds the selection plan of job evaluated at now. DownloadAll
// disables every filter. A rolling range takes precedence over a static
// one. A filename date pattern consumes the range instead of the modify
// time filter.
func PlanFor(job *models.JobSpec, now time.Time) (*Plan, error) {
	if job.DownloadAll {
		return &Plan{Mode: ModeAll, Description: "Downloading all files"}, nil
	}

	plan := &Plan{Mode: ModeListed}

	switch {
	case job.UseRollingDateRange && job.RollingPattern != "":
		from, to, err := RollingRange(job.RollingPattern, now, job.DateOffsetFrom, job.DateOffsetTo)
		if err != nil {
			return nil, err
		}
		plan.Mode, plan.From, plan.To = ModeRolling, &from, &to
		plan.Description = fmt.Sprintf("Using rolling date range: %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	case job.UseDateRange:
		if job.DateFrom == nil || job.DateTo == nil {
			return nil, fmt.Errorf("static date range is incomplete")
		}
		plan.Mode, plan.From, plan.To = ModeStatic, job.DateFrom, job.DateTo
		plan.Description = fmt.Sprintf("Using static date range: %s to %s", job.DateFrom.Format("2006-01-02"), job.DateTo.Format("2006-01-02"))
	}

	if job.FilenameDatePattern != "" {
		pattern, err := CompileFilenamePattern(job.FilenameDatePattern)
		if err != nil {
			return nil, err
		}
		plan.Filename = pattern
		plan.Mode = ModeFilename
		if plan.Description == "" {
			plan.Description = fmt.Sprintf("Selecting files by name date %s", pattern)
		} else {
			plan.Description += fmt.Sprintf(" (matched on name date %s)", pattern)
		}
	}

	return plan, nil
}

// HasRange reports whether the plan filters on a date window.
func (p *Plan) HasRange() bool {
	return p.From != nil && p.To != nil
}

// Select applies the plan to one directory listing.
func (p *Plan) Select(protocol models.Protocol, entries []models.DirectoryEntry) []models.DirectoryEntry {
	switch p.Mode {
	case ModeFilename:
		return FilterByFilenameDate(entries, p.Filename, p.From, p.To)
	case ModeStatic, ModeRolling:
		return FilterByModified(protocol, entries, *p.From, *p.To)
	}
	return entries
}
