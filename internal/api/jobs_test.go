package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"ferryman/internal/models"
	"ferryman/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ========================================
// 1. List Tests
// ========================================

func TestGetJobs(t *testing.T) {
	env := setupTestHandlers(t)
	testutil.SeedJob(t, env.repo)
	testutil.SeedJob(t, env.repo)

	rec, response := env.do(t, http.MethodGet, "/api/v1/jobs")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, response.Success)

	var jobs []models.JobSpec
	decodeData(t, response, &jobs)
	assert.Len(t, jobs, 2)
}

func TestGetJobs_StatusFilter(t *testing.T) {
	env := setupTestHandlers(t)
	_, failed := testutil.SeedJob(t, env.repo)
	testutil.SeedJob(t, env.repo)

	failed.MarkFailed("boom")
	require.NoError(t, env.repo.UpdateJobStatus(failed))

	_, response := env.do(t, http.MethodGet, "/api/v1/jobs?status=failed")

	var jobs []models.JobSpec
	decodeData(t, response, &jobs)
	require.Len(t, jobs, 1)
	assert.Equal(t, failed.ID, jobs[0].ID)
}

func TestGetJobs_GroupFilter(t *testing.T) {
	env := setupTestHandlers(t)
	group := testutil.CreateTestGroup()
	require.NoError(t, env.repo.CreateGroup(group))

	_, grouped := testutil.SeedJob(t, env.repo, func(j *models.JobSpec) { j.GroupID = &group.ID })
	testutil.SeedJob(t, env.repo)

	_, response := env.do(t, http.MethodGet, "/api/v1/jobs?group_id="+itoa(group.ID))

	var jobs []models.JobSpec
	decodeData(t, response, &jobs)
	require.Len(t, jobs, 1)
	assert.Equal(t, grouped.ID, jobs[0].ID)
}

func TestGetJobs_InvalidGroupID(t *testing.T) {
	env := setupTestHandlers(t)

	rec, response := env.do(t, http.MethodGet, "/api/v1/jobs?group_id=x")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid group_id", response.Error)
}

func TestGetJobSummary(t *testing.T) {
	env := setupTestHandlers(t)
	testutil.SeedJob(t, env.repo)

	rec, response := env.do(t, http.MethodGet, "/api/v1/jobs/summary")

	assert.Equal(t, http.StatusOK, rec.Code)
	var summary models.JobSummary
	decodeData(t, response, &summary)
	assert.Equal(t, 1, summary.TotalJobs)
	assert.Equal(t, 1, summary.PendingJobs)
}

// ========================================
// 2. Detail Tests
// ========================================

func TestGetJob_WithNextRun(t *testing.T) {
	env := setupTestHandlers(t)
	_, job := testutil.SeedJob(t, env.repo)

	next := time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC)
	env.scheduler.EXPECT().NextRun(job.ID).Return(next, true).Once()

	rec, response := env.do(t, http.MethodGet, "/api/v1/jobs/"+itoa(job.ID))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got models.JobSpec
	decodeData(t, response, &got)
	assert.Equal(t, job.Name, got.Name)
	require.NotNil(t, got.NextRun)
	assert.True(t, got.NextRun.Equal(next))
}

func TestGetJob_NotFound(t *testing.T) {
	env := setupTestHandlers(t)

	rec, response := env.do(t, http.MethodGet, "/api/v1/jobs/999")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, response.Success)
	assert.Equal(t, "Job not found", response.Error)
}

// ========================================
// 3. Run Tests
// ========================================

func TestRunJob_Accepted(t *testing.T) {
	env := setupTestHandlers(t)
	_, job := testutil.SeedJob(t, env.repo)

	env.scheduler.EXPECT().RunNow(job.ID).Return(nil).Once()

	rec, response := env.do(t, http.MethodPost, "/api/v1/jobs/"+itoa(job.ID)+"/run")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, response.Success)
	assert.Equal(t, "Job run started", response.Message)
}

func TestRunJob_AlreadyRunning(t *testing.T) {
	env := setupTestHandlers(t)
	_, job := testutil.SeedJob(t, env.repo)
	job.MarkStarted()
	require.NoError(t, env.repo.UpdateJobStatus(job))

	rec, response := env.do(t, http.MethodPost, "/api/v1/jobs/"+itoa(job.ID)+"/run")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Job is already running", response.Error)
}

func TestRunJob_SchedulerStopped(t *testing.T) {
	env := setupTestHandlers(t)
	_, job := testutil.SeedJob(t, env.repo)

	env.scheduler.EXPECT().RunNow(job.ID).Return(errors.New("scheduler is stopped")).Once()

	rec, _ := env.do(t, http.MethodPost, "/api/v1/jobs/"+itoa(job.ID)+"/run")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunJob_NotFound(t *testing.T) {
	env := setupTestHandlers(t)

	rec, _ := env.do(t, http.MethodPost, "/api/v1/jobs/42/run")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunJob_WrongMethod(t *testing.T) {
	env := setupTestHandlers(t)

	rec, response := env.do(t, http.MethodGet, "/api/v1/jobs/1/run")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", response.Error)
}

func TestRunJob_Preflight(t *testing.T) {
	env := setupTestHandlers(t)

	rec, _ := env.do(t, http.MethodOptions, "/api/v1/jobs/1/run")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

// ========================================
// 4. Log Tests
// ========================================

func TestGetJobLogs(t *testing.T) {
	env := setupTestHandlers(t)
	_, job := testutil.SeedJob(t, env.repo)

	for i := 0; i < 3; i++ {
		result := models.NewTransferResult(uuid.New())
		result.FilesProcessed = i
		result.StartedAt = time.Date(2024, 6, 1+i, 6, 0, 0, 0, time.UTC)
		require.NoError(t, env.repo.CreateJobLog(models.NewJobLog(job.ID, result)))
	}

	rec, response := env.do(t, http.MethodGet, "/api/v1/jobs/"+itoa(job.ID)+"/logs?limit=2")

	assert.Equal(t, http.StatusOK, rec.Code)
	var logs []models.JobLog
	decodeData(t, response, &logs)
	require.Len(t, logs, 2)
	assert.Equal(t, 2, logs[0].FilesProcessed)
}

func TestGetJobLogs_UnknownJob(t *testing.T) {
	env := setupTestHandlers(t)

	rec, _ := env.do(t, http.MethodGet, "/api/v1/jobs/7/logs")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
