package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ferryman/internal/config"
	"ferryman/internal/interfaces"
	"ferryman/internal/metrics"
	"ferryman/internal/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

var ErrStopped = errors.New("scheduler is stopped")

// Scheduler owns one gocron engine holding a trigger per registered job
// plus the log retention task.
type Scheduler struct {
	cron   gocron.Scheduler
	store  interfaces.JobStore
	runner interfaces.JobRunner
	config *config.Config
	logger *slog.Logger
	now    func() time.Time

	// regMu serializes Register and Unregister; mu guards triggers only
	// and is never held across a call into gocron.
	regMu    sync.Mutex
	mu       sync.RWMutex
	triggers map[int64]gocron.Job

	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
	manual  sync.WaitGroup
}

func New(cfg *config.Config, store interfaces.JobStore, runner interfaces.JobRunner) (*Scheduler, error) {
	schedulerCfg := cfg.GetScheduler()
	loc, err := schedulerCfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone: %w", err)
	}

	logger := slog.Default().With("component", "scheduler")
	opts := []gocron.SchedulerOption{
		gocron.WithLocation(loc),
		gocron.WithLogger(logger),
	}
	if timeout := cfg.GetServer().ShutdownTimeout; timeout > 0 {
		opts = append(opts, gocron.WithStopTimeout(timeout))
	}

	cron, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     cron,
		store:    store,
		runner:   runner,
		config:   cfg,
		logger:   logger,
		now:      time.Now,
		triggers: make(map[int64]gocron.Job),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start begins firing triggers, recovers the jobs left behind by a previous
// process and installs the retention task. Runs started by the scheduler
// inherit ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.cron.Start()

	if err := s.RescheduleExisting(); err != nil {
		return err
	}

	schedulerCfg := s.config.GetScheduler()
	if schedulerCfg.LogRetention > 0 && schedulerCfg.CleanupInterval > 0 {
		_, err := s.cron.NewJob(
			gocron.DurationJob(schedulerCfg.CleanupInterval),
			gocron.NewTask(s.housekeeping),
			gocron.WithName("log-retention"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule log retention: %w", err)
		}
	}

	s.logger.Info("scheduler started", "jobs", s.count())
	return nil
}

// Stop cancels in-flight runs, waits for them and shuts the engine down.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.cancel()
	s.mu.Unlock()

	err := s.cron.Shutdown()
	s.manual.Wait()
	s.logger.Info("scheduler stopped")
	return err
}

// rescheduledStatuses are loaded on Start. Finished one-time jobs are
// skipped after loading; finished recurring jobs still have future fires.
var rescheduledStatuses = []models.JobStatus{
	models.JobStatusPending,
	models.JobStatusRunning,
	models.JobStatusCompleted,
	models.JobStatusFailed,
}

// RescheduleExisting resets jobs stuck in running to pending and registers
// every pending job and every recurring job once. A job that cannot be
// registered stays pending.
func (s *Scheduler) RescheduleExisting() error {
	jobs, err := s.store.ListJobsByStatus(rescheduledStatuses...)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	for _, job := range jobs {
		if !job.IsActive() && job.Schedule != models.ScheduleRecurring {
			continue
		}
		if job.Status == models.JobStatusRunning {
			job.MarkPending()
			if err := s.store.UpdateJobStatus(job); err != nil {
				s.logger.Error("failed to reset orphaned job", "job_id", job.ID, "error", err)
			} else {
				s.logger.Info("reset orphaned job to pending", "job_id", job.ID, "job", job.Name)
			}
		}

		if err := s.Register(job); err != nil {
			s.logger.Warn("failed to reschedule job, keeping as pending",
				"job_id", job.ID, "job", job.Name, "error", err)
			continue
		}
		s.logger.Info("rescheduled job", "job_id", job.ID, "job", job.Name)
	}
	return nil
}

// Register installs the trigger of job, replacing any previous one. A
// one-time job whose time passed fires immediately unless it already ran
// since that time.
func (s *Scheduler) Register(job *models.JobSpec) error {
	def, err := s.definition(job)
	if err != nil {
		return err
	}

	s.regMu.Lock()
	defer s.regMu.Unlock()

	s.unregister(job.ID)

	if def == nil {
		s.logger.Info("one-time job already ran, not scheduling", "job_id", job.ID, "job", job.Name)
		s.writeNextRun(job.ID, nil)
		return nil
	}

	jobID := job.ID
	oneTime := job.Schedule == models.ScheduleOneTime
	trigger, err := s.cron.NewJob(
		def,
		gocron.NewTask(s.fire, jobID),
		gocron.WithName(fmt.Sprintf("job-%d", jobID)),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithEventListeners(
			gocron.AfterJobRuns(func(triggerID uuid.UUID, _ string) {
				s.afterFire(jobID, triggerID, oneTime)
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule job %d: %w", jobID, err)
	}

	s.mu.Lock()
	s.triggers[jobID] = trigger
	n := len(s.triggers)
	s.mu.Unlock()
	metrics.ScheduledJobs.Set(float64(n))

	next, ok := s.NextRun(jobID)
	if ok {
		s.writeNextRun(jobID, &next)
	}
	s.logger.Debug("registered job", "job_id", jobID, "next_run", next)
	return nil
}

// Unregister drops the trigger of jobID, if any.
func (s *Scheduler) Unregister(jobID int64) {
	s.regMu.Lock()
	defer s.regMu.Unlock()
	s.unregister(jobID)
}

func (s *Scheduler) unregister(jobID int64) {
	s.mu.Lock()
	trigger, ok := s.triggers[jobID]
	delete(s.triggers, jobID)
	n := len(s.triggers)
	s.mu.Unlock()

	if !ok {
		return
	}
	metrics.ScheduledJobs.Set(float64(n))
	if err := s.cron.RemoveJob(trigger.ID()); err != nil && !errors.Is(err, gocron.ErrJobNotFound) {
		s.logger.Warn("failed to remove trigger", "job_id", jobID, "error", err)
	}
}

// RunNow executes jobID on its own goroutine and returns immediately. It is
// not serialized against a scheduled fire of the same job.
func (s *Scheduler) RunNow(jobID int64) error {
	s.mu.RLock()
	stopped, ctx := s.stopped, s.ctx
	if !stopped {
		s.manual.Add(1)
	}
	s.mu.RUnlock()
	if stopped {
		return ErrStopped
	}

	go func() {
		defer s.manual.Done()
		s.execute(ctx, jobID)
		if next, ok := s.NextRun(jobID); ok {
			s.writeNextRun(jobID, &next)
		}
	}()
	return nil
}

// NextRun reports the next fire time of jobID.
func (s *Scheduler) NextRun(jobID int64) (time.Time, bool) {
	s.mu.RLock()
	trigger, ok := s.triggers[jobID]
	s.mu.RUnlock()
	if !ok {
		return time.Time{}, false
	}

	next, err := trigger.NextRun()
	if err != nil || next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}

// Registered returns the ids of the jobs holding a trigger.
func (s *Scheduler) Registered() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.triggers))
	for id := range s.triggers {
		ids = append(ids, id)
	}
	return ids
}

func (s *Scheduler) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.triggers)
}

func (s *Scheduler) definition(job *models.JobSpec) (gocron.JobDefinition, error) {
	switch job.Schedule {
	case models.ScheduleOneTime:
		if job.ScheduleAt == nil {
			return nil, fmt.Errorf("job %d: one-time job has no schedule time", job.ID)
		}
		at := *job.ScheduleAt
		if at.After(s.now()) {
			return gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(at)), nil
		}
		if job.LastRun != nil && !job.LastRun.Before(at) {
			return nil, nil
		}
		return gocron.OneTimeJob(gocron.OneTimeJobStartImmediately()), nil

	case models.ScheduleRecurring:
		if err := ValidateCron(job.CronExpression); err != nil {
			return nil, fmt.Errorf("job %d: %w", job.ID, err)
		}
		return gocron.CronJob(job.CronExpression, false), nil
	}
	return nil, fmt.Errorf("job %d: unknown schedule type %q", job.ID, job.Schedule)
}

func (s *Scheduler) fire(jobID int64) {
	s.mu.RLock()
	ctx := s.ctx
	s.mu.RUnlock()
	s.execute(ctx, jobID)
}

// execute never propagates a failure; the scheduler keeps running whatever
// a job does.
func (s *Scheduler) execute(ctx context.Context, jobID int64) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("job run panicked", "job_id", jobID, "panic", p)
		}
	}()

	if _, err := s.runner.Run(ctx, jobID); err != nil {
		s.logger.Error("job run failed", "job_id", jobID, "error", err)
	}
}

// afterFire runs once the trigger triggerID has fired for jobID. The job
// may have been registered again while the run was in flight; the newer
// trigger is then left alone.
func (s *Scheduler) afterFire(jobID int64, triggerID uuid.UUID, oneTime bool) {
	if oneTime {
		if s.unregisterTrigger(jobID, triggerID) {
			s.writeNextRun(jobID, nil)
		}
		return
	}
	if !s.holds(jobID, triggerID) {
		return
	}
	if next, ok := s.NextRun(jobID); ok {
		s.writeNextRun(jobID, &next)
	}
}

// holds reports whether triggerID is still the trigger of jobID.
func (s *Scheduler) holds(jobID int64, triggerID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trigger, ok := s.triggers[jobID]
	return ok && trigger.ID() == triggerID
}

func (s *Scheduler) unregisterTrigger(jobID int64, triggerID uuid.UUID) bool {
	s.regMu.Lock()
	defer s.regMu.Unlock()
	if !s.holds(jobID, triggerID) {
		return false
	}
	s.unregister(jobID)
	return true
}

func (s *Scheduler) writeNextRun(jobID int64, next *time.Time) {
	if err := s.store.UpdateJobNextRun(jobID, next); err != nil {
		s.logger.Warn("failed to record next run", "job_id", jobID, "error", err)
	}
}

func (s *Scheduler) housekeeping() {
	if _, err := s.PruneLogs(); err != nil {
		s.logger.Error("log retention failed", "error", err)
	}
}

// PruneLogs deletes job logs older than the configured retention.
func (s *Scheduler) PruneLogs() (int64, error) {
	retention := s.config.GetScheduler().LogRetention
	if retention <= 0 {
		return 0, nil
	}

	cutoff := s.now().Add(-retention)
	n, err := s.store.DeleteLogsBefore(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete logs before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if n > 0 {
		metrics.LogsPrunedTotal.Add(float64(n))
		s.logger.Info("pruned job logs", "deleted", n, "cutoff", cutoff)
	}
	return n, nil
}
