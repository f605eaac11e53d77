package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"ferryman/internal/interfaces"
	"ferryman/internal/models"
)

var ErrGroupInactive = errors.New("group is not active")

// GroupService runs the jobs of a group one after another.
type GroupService struct {
	store  interfaces.GroupStore
	runner interfaces.JobRunner
}

func NewGroupService(store interfaces.GroupStore, runner interfaces.JobRunner) *GroupService {
	return &GroupService{
		store:  store,
		runner: runner,
	}
}

// RunGroup executes the jobs of groupID sequentially in name order and
// returns one entry per job. Jobs that are already running are skipped. A
// failing job does not stop the jobs after it; a cancelled ctx does.
func (s *GroupService) RunGroup(ctx context.Context, groupID int64) ([]models.GroupRunEntry, error) {
	group, err := s.store.GetGroup(groupID)
	if err != nil {
		return nil, fmt.Errorf("group not found: %w", err)
	}
	if !group.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrGroupInactive, group.Name)
	}

	jobs, err := s.store.ListGroupJobs(groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs of group %s: %w", group.Name, err)
	}
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })

	slog.Info("running group", "group_id", groupID, "group", group.Name, "jobs", len(jobs))

	entries := make([]models.GroupRunEntry, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return entries, err
		}

		entry := models.GroupRunEntry{JobID: job.ID, JobName: job.Name}
		if job.Status == models.JobStatusRunning {
			entry.Error = "job is already running"
			entries = append(entries, entry)
			slog.Warn("skipping running job in group", "group_id", groupID, "job_id", job.ID)
			continue
		}

		result, err := s.runner.Run(ctx, job.ID)
		entry.Result = result
		switch {
		case err != nil:
			entry.Error = err.Error()
		case result != nil && !result.Success:
			entry.Error = result.Error
		}
		entries = append(entries, entry)
	}

	failed := 0
	for _, e := range entries {
		if e.Error != "" {
			failed++
		}
	}
	slog.Info("group run finished", "group_id", groupID, "jobs", len(entries), "failed", failed)

	return entries, nil
}

func (s *GroupService) GroupStats(groupID int64) (*models.GroupStats, error) {
	if _, err := s.store.GetGroup(groupID); err != nil {
		return nil, fmt.Errorf("group not found: %w", err)
	}
	return s.store.GetGroupStats(groupID)
}
