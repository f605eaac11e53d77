package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"ferryman/internal/config"
	"ferryman/internal/mocks"
	"ferryman/internal/models"
	"ferryman/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *config.Config {
	return &config.Config{
		Scheduler: config.SchedulerConfig{Timezone: "UTC"},
		Server:    config.ServerConfig{ShutdownTimeout: 2 * time.Second},
	}
}

// startScheduler starts a scheduler whose store holds the given
// jobs and stops it when the test ends.
func startScheduler(t *testing.T, store *mocks.MockJobStore, runner *mocks.MockJobRunner, active ...*models.JobSpec) *Scheduler {
	t.Helper()

	store.EXPECT().ListJobsByStatus(models.JobStatusPending, models.JobStatusRunning,
		models.JobStatusCompleted, models.JobStatusFailed).Return(active, nil).Once()

	s, err := New(createTestConfig(), store, runner)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func allowNextRunWrites(store *mocks.MockJobStore) {
	store.EXPECT().UpdateJobNextRun(mock.Anything, mock.Anything).Return(nil).Maybe()
}

func registered(s *Scheduler, id int64) bool {
	for _, r := range s.Registered() {
		if r == id {
			return true
		}
	}
	return false
}

// ========================================
// 1. Cron Validation Tests
// ========================================

func TestValidateCron(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"0 6 * * *", false},
		{"*/5 * * * *", true},
		{"0 6 * * 1-5", false},
		{"0,30 8-18 * * *", false},
		{"0 0 1 1,7 *", false},
		{"59 23 31 12 6", false},
		{"0 6 * *", true},
		{"0 6 * * * *", true},
		{"60 6 * * *", true},
		{"0 24 * * *", true},
		{"0 6 0 * *", true},
		{"0 6 * 13 *", true},
		{"0 6 * * 7", true},
		{"0 6 * * 5-1", true},
		{"0 6 * * mon", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			err := ValidateCron(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// ========================================
// 2. Register Tests
// ========================================

func TestRegister_RecurringSetsNextRun(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	runner := mocks.NewMockJobRunner(t)
	s := startScheduler(t, store, runner)

	var written *time.Time
	store.EXPECT().UpdateJobNextRun(int64(1), mock.Anything).
		Run(func(_ int64, next *time.Time) { written = next }).
		Return(nil)

	job := testutil.CreateTestJob(func(j *models.JobSpec) {
		j.ID = 1
		j.CronExpression = "30 6 * * *"
	})
	require.NoError(t, s.Register(job))

	next, ok := s.NextRun(1)
	require.True(t, ok)
	assert.Equal(t, 6, next.UTC().Hour())
	assert.Equal(t, 30, next.UTC().Minute())
	assert.True(t, next.After(time.Now()))
	require.NotNil(t, written)
	assert.True(t, written.Equal(next))
}

func TestRegister_InvalidCron(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	runner := mocks.NewMockJobRunner(t)
	s := startScheduler(t, store, runner)

	job := testutil.CreateTestJob(func(j *models.JobSpec) {
		j.ID = 1
		j.CronExpression = "every morning"
	})

	err := s.Register(job)
	assert.Error(t, err)
	assert.False(t, registered(s, 1))
}

func TestRegister_ReplacesExistingTrigger(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	runner := mocks.NewMockJobRunner(t)
	s := startScheduler(t, store, runner)
	allowNextRunWrites(store)

	job := testutil.CreateTestJob(func(j *models.JobSpec) {
		j.ID = 1
		j.CronExpression = "0 6 * * *"
	})
	require.NoError(t, s.Register(job))

	job.CronExpression = "45 6 * * *"
	require.NoError(t, s.Register(job))

	assert.Equal(t, []int64{1}, s.Registered())
	next, ok := s.NextRun(1)
	require.True(t, ok)
	assert.Equal(t, 45, next.UTC().Minute())
}

func TestRegister_FutureOneTime(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	runner := mocks.NewMockJobRunner(t)
	s := startScheduler(t, store, runner)
	allowNextRunWrites(store)

	at := time.Now().Add(time.Hour).Truncate(time.Second)
	job := testutil.CreateTestJob(func(j *models.JobSpec) {
		j.ID = 2
		j.Schedule = models.ScheduleOneTime
		j.CronExpression = ""
		j.ScheduleAt = &at
	})
	require.NoError(t, s.Register(job))

	next, ok := s.NextRun(2)
	require.True(t, ok)
	assert.True(t, next.Equal(at))
}

func TestRegister_MissedOneTimeAlreadyRan(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	runner := mocks.NewMockJobRunner(t)
	s := startScheduler(t, store, runner)

	at := time.Now().Add(-2 * time.Hour)
	ran := at.Add(time.Minute)
	job := testutil.CreateTestJob(func(j *models.JobSpec) {
		j.ID = 3
		j.Schedule = models.ScheduleOneTime
		j.ScheduleAt = &at
		j.LastRun = &ran
	})

	store.EXPECT().UpdateJobNextRun(int64(3), (*time.Time)(nil)).Return(nil).Once()

	require.NoError(t, s.Register(job))
	assert.False(t, registered(s, 3))

	// the runner mock has no expectations, so any fire fails the test
	time.Sleep(100 * time.Millisecond)
}

func TestRegister_MissedOneTimeFiresOnce(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	runner := mocks.NewMockJobRunner(t)
	s := startScheduler(t, store, runner)

	cleared := make(chan struct{})
	store.EXPECT().UpdateJobNextRun(int64(4), (*time.Time)(nil)).
		Run(func(int64, *time.Time) { close(cleared) }).
		Return(nil).Once()
	store.EXPECT().UpdateJobNextRun(int64(4), mock.Anything).Return(nil).Maybe()

	runner.EXPECT().Run(mock.Anything, int64(4)).Return(&models.TransferResult{Success: true}, nil).Once()

	at := time.Now().Add(-time.Hour)
	job := testutil.CreateTestJob(func(j *models.JobSpec) {
		j.ID = 4
		j.Schedule = models.ScheduleOneTime
		j.ScheduleAt = &at
	})
	require.NoError(t, s.Register(job))

	select {
	case <-cleared:
	case <-time.After(5 * time.Second):
		t.Fatal("missed one-time job did not fire")
	}
	assert.Eventually(t, func() bool { return !registered(s, 4) }, time.Second, 10*time.Millisecond)
}

func TestAfterFire_StaleTriggerKeepsReplacement(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	runner := mocks.NewMockJobRunner(t)
	s := startScheduler(t, store, runner)

	store.EXPECT().UpdateJobNextRun(int64(6), mock.MatchedBy(func(next *time.Time) bool { return next != nil })).
		Return(nil)

	at := time.Now().Add(time.Hour).Truncate(time.Second)
	job := testutil.CreateTestJob(func(j *models.JobSpec) {
		j.ID = 6
		j.Schedule = models.ScheduleOneTime
		j.CronExpression = ""
		j.ScheduleAt = &at
	})
	require.NoError(t, s.Register(job))
	stale := s.triggers[6].ID()

	later := at.Add(time.Hour)
	job.ScheduleAt = &later
	require.NoError(t, s.Register(job))
	current := s.triggers[6].ID()
	require.NotEqual(t, stale, current)

	s.afterFire(6, stale, true)

	require.True(t, registered(s, 6), "the replacement trigger survives")
	next, ok := s.NextRun(6)
	require.True(t, ok)
	assert.True(t, next.Equal(later))

	store.EXPECT().UpdateJobNextRun(int64(6), (*time.Time)(nil)).Return(nil).Once()
	s.afterFire(6, current, true)

	assert.False(t, registered(s, 6))
}

func TestUnregister(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	runner := mocks.NewMockJobRunner(t)
	s := startScheduler(t, store, runner)
	allowNextRunWrites(store)

	require.NoError(t, s.Register(testutil.CreateTestJob(func(j *models.JobSpec) { j.ID = 5 })))
	require.True(t, registered(s, 5))

	s.Unregister(5)
	s.Unregister(5)

	assert.False(t, registered(s, 5))
	_, ok := s.NextRun(5)
	assert.False(t, ok)
}

// ========================================
// 3. Restart Recovery Tests
// ========================================

func TestStart_ReschedulesActiveJobs(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	runner := mocks.NewMockJobRunner(t)
	allowNextRunWrites(store)

	orphan := testutil.CreateTestJob(func(j *models.JobSpec) {
		j.ID = 1
		j.Status = models.JobStatusRunning
	})
	future := time.Now().Add(time.Hour)
	pending := testutil.CreateTestJob(func(j *models.JobSpec) {
		j.ID = 2
		j.Schedule = models.ScheduleOneTime
		j.ScheduleAt = &future
	})
	broken := testutil.CreateTestJob(func(j *models.JobSpec) {
		j.ID = 3
		j.CronExpression = "not a cron"
	})

	completedRecurring := testutil.CreateTestJob(func(j *models.JobSpec) {
		j.ID = 4
		j.Status = models.JobStatusCompleted
	})
	past := time.Now().Add(-time.Hour)
	completedOneTime := testutil.CreateTestJob(func(j *models.JobSpec) {
		j.ID = 5
		j.Status = models.JobStatusCompleted
		j.Schedule = models.ScheduleOneTime
		j.ScheduleAt = &past
	})

	store.EXPECT().UpdateJobStatus(mock.MatchedBy(func(j *models.JobSpec) bool {
		return j.ID == 1 && j.Status == models.JobStatusPending
	})).Return(nil).Once()

	s := startScheduler(t, store, runner, orphan, pending, broken, completedRecurring, completedOneTime)

	assert.ElementsMatch(t, []int64{1, 2, 4}, s.Registered())
	assert.Equal(t, models.JobStatusCompleted, completedRecurring.Status)
	assert.Equal(t, models.JobStatusPending, broken.Status)
}

func TestStart_ListFailure(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	runner := mocks.NewMockJobRunner(t)
	store.EXPECT().ListJobsByStatus(models.JobStatusPending, models.JobStatusRunning,
		models.JobStatusCompleted, models.JobStatusFailed).
		Return(nil, errors.New("database is locked"))

	s, err := New(createTestConfig(), store, runner)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	err = s.Start(context.Background())
	assert.ErrorContains(t, err, "database is locked")
}

func TestNew_InvalidTimezone(t *testing.T) {
	cfg := createTestConfig()
	cfg.Scheduler.Timezone = "Mars/Olympus"

	_, err := New(cfg, mocks.NewMockJobStore(t), mocks.NewMockJobRunner(t))
	assert.Error(t, err)
}

// ========================================
// 4. Run Now Tests
// ========================================

func TestRunNow_InvokesRunner(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	runner := mocks.NewMockJobRunner(t)
	s := startScheduler(t, store, runner)

	done := make(chan struct{})
	runner.EXPECT().Run(mock.Anything, int64(7)).
		Run(func(context.Context, int64) { close(done) }).
		Return(&models.TransferResult{Success: true}, nil).Once()

	require.NoError(t, s.RunNow(7))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("runner was not invoked")
	}
}

func TestRunNow_RunnerErrorIsContained(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	runner := mocks.NewMockJobRunner(t)
	s := startScheduler(t, store, runner)

	runner.EXPECT().Run(mock.Anything, int64(8)).Return(nil, errors.New("job not found")).Once()

	require.NoError(t, s.RunNow(8))
	require.NoError(t, s.Stop())
}

func TestRunNow_AfterStop(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	runner := mocks.NewMockJobRunner(t)
	s := startScheduler(t, store, runner)

	require.NoError(t, s.Stop())
	assert.ErrorIs(t, s.RunNow(9), ErrStopped)
}

// ========================================
// 5. Log Retention Tests
// ========================================

func TestPruneLogs(t *testing.T) {
	store := mocks.NewMockJobStore(t)
	cfg := createTestConfig()
	cfg.Scheduler.LogRetention = 30 * 24 * time.Hour

	s, err := New(cfg, store, mocks.NewMockJobRunner(t))
	require.NoError(t, err)
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	store.EXPECT().DeleteLogsBefore(time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)).Return(int64(3), nil).Once()

	n, err := s.PruneLogs()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestPruneLogs_Disabled(t *testing.T) {
	s, err := New(createTestConfig(), mocks.NewMockJobStore(t), mocks.NewMockJobRunner(t))
	require.NoError(t, err)

	n, err := s.PruneLogs()
	require.NoError(t, err)
	assert.Zero(t, n)
}
