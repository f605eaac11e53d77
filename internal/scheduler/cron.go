package scheduler

import (
	"fmt"
	"strconv"
	"strings"
)

type cronField struct {
	name     string
	min, max int
}

// Day of week runs 0-6 with 0 meaning Sunday.
var cronFields = []cronField{
	{"minute", 0, 59},
	{"hour", 0, 23},
	{"day of month", 1, 31},
	{"month", 1, 12},
	{"day of week", 0, 6},
}

// ValidateCron checks a five field expression (minute hour day month
// weekday). Each field is *, a value, a range a-b, or a comma separated
// list of values and ranges.
func ValidateCron(expr string) error {
	fields := strings.Fields(expr)
	if len(fields) != len(cronFields) {
		return fmt.Errorf("cron expression must have %d fields, got %d", len(cronFields), len(fields))
	}

	for i, field := range fields {
		if err := validateCronField(field, cronFields[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateCronField(field string, bounds cronField) error {
	if field == "*" {
		return nil
	}

	for _, part := range strings.Split(field, ",") {
		lo, hi, isRange := strings.Cut(part, "-")
		from, err := cronValue(lo, bounds)
		if err != nil {
			return err
		}
		if !isRange {
			continue
		}
		to, err := cronValue(hi, bounds)
		if err != nil {
			return err
		}
		if from > to {
			return fmt.Errorf("invalid %s range %q", bounds.name, part)
		}
	}
	return nil
}

func cronValue(s string, bounds cronField) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", bounds.name, s)
	}
	if v < bounds.min || v > bounds.max {
		return 0, fmt.Errorf("%s value %d out of range %d-%d", bounds.name, v, bounds.min, bounds.max)
	}
	return v, nil
}
