package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"ferryman/internal/selection"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

var (
	rangeRef      string
	rangeTimezone string
	rangeFrom     int
	rangeTo       int
)

var rangeCmd = &cobra.Command{
	Use:   "range <pattern>",
	Short: "Print the window a rolling date pattern covers",
	Long: fmt.Sprintf(`Print the window a rolling date pattern covers on a reference day.

Patterns: %s`, strings.Join(selection.RollingPatterns, ", ")),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var from, to *int
		if cmd.Flags().Changed("from") {
			from = &rangeFrom
		}
		if cmd.Flags().Changed("to") {
			to = &rangeTo
		}
		return printRange(cmd.OutOrStdout(), args[0], rangeRef, rangeTimezone, from, to)
	},
}

func init() {
	rangeCmd.Flags().StringVar(&rangeRef, "ref", "", "reference day as YYYY-MM-DD (default today)")
	rangeCmd.Flags().StringVar(&rangeTimezone, "tz", "", "timezone of the reference day (default local)")
	rangeCmd.Flags().IntVar(&rangeFrom, "from", 0, "day of the previous month (custom pattern)")
	rangeCmd.Flags().IntVar(&rangeTo, "to", 0, "day of the current month (custom pattern)")
	rootCmd.AddCommand(rangeCmd)
}

func printRange(out io.Writer, pattern, ref, tz string, offsetFrom, offsetTo *int) error {
	loc := time.Local
	if tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
	}

	day := time.Now().In(loc)
	if ref != "" {
		var err error
		if day, err = time.ParseInLocation(dateLayout, ref, loc); err != nil {
			return fmt.Errorf("invalid reference day %q, expected YYYY-MM-DD", ref)
		}
	}

	from, to, err := selection.RollingRange(pattern, day, offsetFrom, offsetTo)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "pattern: %s\nref:     %s\nfrom:    %s\nto:      %s\n",
		pattern, day.Format(dateLayout), from.Format(time.DateTime), to.Format(time.DateTime))
	return nil
}
