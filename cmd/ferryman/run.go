package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ferryman/internal/models"
	"ferryman/internal/runner"

	"github.com/spf13/cobra"
)

var runJSON bool

var runCmd = &cobra.Command{
	Use:   "run <job-id>",
	Short: "Execute one job immediately and wait for the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runJob(cmd.Context(), cmd.OutOrStdout(), jobID)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the transfer result as JSON")
	rootCmd.AddCommand(runCmd)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job id %q", arg)
	}
	return id, nil
}

func runJob(ctx context.Context, out io.Writer, jobID int64) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.repo.Close()
	defer eng.mounts.Close(context.Background())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := eng.runner.Run(ctx, jobID)
	if err != nil {
		return err
	}

	job, err := eng.repo.GetJob(jobID)
	if err != nil {
		return err
	}
	if err := printResult(out, job, result, runJSON); err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("job %d failed: %s", jobID, result.Error)
	}
	return nil
}

func printResult(out io.Writer, job *models.JobSpec, result *models.TransferResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	for _, line := range result.Log {
		fmt.Fprintln(out, line)
	}
	_, body := runner.Summary(job, result)
	fmt.Fprintf(out, "\n%s\nDuration: %s\n", body, result.Duration().Round(time.Millisecond))
	return nil
}
