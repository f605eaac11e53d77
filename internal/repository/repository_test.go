package repository

import (
	"errors"
	"testing"
	"time"

	"ferryman/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func createEndpoint(t *testing.T, repo *Repository, name string) *models.Endpoint {
	t.Helper()
	e := &models.Endpoint{
		Name:       name,
		Protocol:   models.ProtocolSFTP,
		Host:       "sftp.example.com",
		Username:   "ferry",
		RemotePath: "/outgoing",
	}
	require.NoError(t, repo.CreateEndpoint(e))
	return e
}

func createJob(t *testing.T, repo *Repository, endpointID int64, name string, modify ...func(*models.JobSpec)) *models.JobSpec {
	t.Helper()
	j := &models.JobSpec{
		Name:           name,
		EndpointID:     endpointID,
		Direction:      models.DirectionDownload,
		Schedule:       models.ScheduleRecurring,
		CronExpression: "0 6 * * *",
		LocalPath:      "/srv/incoming",
	}
	for _, m := range modify {
		m(j)
	}
	require.NoError(t, repo.CreateJob(j))
	return j
}

// ========================================
// 1. Constructor Tests
// ========================================

func TestNew(t *testing.T) {
	repo, err := New(":memory:")
	require.NoError(t, err)
	assert.NotNil(t, repo)
	defer repo.Close()

	assert.NoError(t, repo.Ping())
}

func TestMigrations_AreIdempotent(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.runMigrations())
	require.NoError(t, repo.runMigrations())

	var count int
	require.NoError(t, repo.db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('jobs') WHERE name = 'upload_source'").Scan(&count))
	assert.Equal(t, 1, count)
}

// ========================================
// 2. Endpoint Tests
// ========================================

func TestRepository_EndpointCRUD(t *testing.T) {
	repo := setupTestRepo(t)

	e := &models.Endpoint{
		Name:              "nas",
		Protocol:          models.ProtocolNFS,
		Host:              "nas.local",
		PasswordEncrypted: "sealed",
		NFS:               &models.NfsOptions{ExportPath: "/exports", Version: "4"},
	}
	require.NoError(t, repo.CreateEndpoint(e))
	assert.NotZero(t, e.ID)
	assert.Equal(t, models.TransferModeFiles, e.TransferMode)

	got, err := repo.GetEndpoint(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "nas", got.Name)
	assert.Equal(t, "sealed", got.PasswordEncrypted)
	assert.Equal(t, "/", got.RemotePath)
	require.NotNil(t, got.NFS)
	assert.Equal(t, "/exports", got.NFS.ExportPath)

	got.Host = "nas2.local"
	got.NFS = nil
	require.NoError(t, repo.UpdateEndpoint(got))

	byName, err := repo.GetEndpointByName("nas")
	require.NoError(t, err)
	assert.Equal(t, "nas2.local", byName.Host)
	assert.Nil(t, byName.NFS)

	all, err := repo.ListEndpoints()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.DeleteEndpoint(e.ID))
	_, err = repo.GetEndpoint(e.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRepository_EndpointNameIsUnique(t *testing.T) {
	repo := setupTestRepo(t)
	createEndpoint(t, repo, "dup")

	err := repo.CreateEndpoint(&models.Endpoint{Name: "dup", Protocol: models.ProtocolFTP, Host: "h"})
	assert.Error(t, err)
}

// ========================================
// 3. Group Tests
// ========================================

func TestRepository_GroupCRUD(t *testing.T) {
	repo := setupTestRepo(t)

	g := &models.JobGroup{Name: "finance", FolderName: "Finance", IsActive: true, ExecutionOrder: 2}
	require.NoError(t, repo.CreateGroup(g))
	require.NoError(t, repo.CreateGroup(&models.JobGroup{Name: "ops", ExecutionOrder: 1}))

	got, err := repo.GetGroup(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Finance", got.FolderName)
	assert.Equal(t, "YYYY-MM", got.DateFolderFormat)
	assert.True(t, got.IsActive)

	groups, err := repo.ListGroups()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "ops", groups[0].Name)

	got.EnableDateOrganization = true
	got.DateFolderFormat = "YYYY-Q"
	require.NoError(t, repo.UpdateGroup(got))

	byName, err := repo.GetGroupByName("finance")
	require.NoError(t, err)
	assert.True(t, byName.EnableDateOrganization)
	assert.Equal(t, "YYYY-Q", byName.DateFolderFormat)

	require.NoError(t, repo.DeleteGroup(g.ID))
	_, err = repo.GetGroup(g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_GroupJobsAndStats(t *testing.T) {
	repo := setupTestRepo(t)
	e := createEndpoint(t, repo, "src")
	g := &models.JobGroup{Name: "g", IsActive: true}
	require.NoError(t, repo.CreateGroup(g))

	inGroup := func(j *models.JobSpec) { j.GroupID = &g.ID }
	b := createJob(t, repo, e.ID, "b-job", inGroup)
	createJob(t, repo, e.ID, "a-job", inGroup)
	createJob(t, repo, e.ID, "outside")

	jobs, err := repo.ListGroupJobs(g.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "a-job", jobs[0].Name)
	assert.Equal(t, "b-job", jobs[1].Name)

	b.MarkStarted()
	b.MarkFailed("boom")
	require.NoError(t, repo.UpdateJobStatus(b))

	stats, err := repo.GetGroupStats(g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalJobs)
	assert.Equal(t, 1, stats.PendingJobs)
	assert.Equal(t, 1, stats.FailedJobs)
	require.NotNil(t, stats.LastRun)
	assert.WithinDuration(t, *b.LastRun, *stats.LastRun, time.Second)
}

// ========================================
// 4. Job Tests
// ========================================

func TestRepository_CreateAndGetJob(t *testing.T) {
	repo := setupTestRepo(t)
	src := createEndpoint(t, repo, "src")
	dst := createEndpoint(t, repo, "dst")

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	offsetFrom, offsetTo := 7, 1

	j := createJob(t, repo, src.ID, "upload", func(j *models.JobSpec) {
		j.Direction = models.DirectionUpload
		j.TargetEndpointID = &dst.ID
		j.UseDateRange = true
		j.DateFrom = &from
		j.DateTo = &to
		j.UseRollingDateRange = true
		j.RollingPattern = "custom"
		j.DateOffsetFrom = &offsetFrom
		j.DateOffsetTo = &offsetTo
		j.FilenameDatePattern = "report_YYYYMMDD"
		j.PreserveStructure = true
		j.RenameDuplicates = true
		j.JobFolderName = "Daily"
	})
	assert.Equal(t, models.JobStatusPending, j.Status)

	got, err := repo.GetJob(j.ID)
	require.NoError(t, err)
	assert.Equal(t, "upload", got.Name)
	assert.Equal(t, models.DirectionUpload, got.Direction)
	assert.Equal(t, models.UploadSourceRelay, got.UploadSource)
	require.NotNil(t, got.TargetEndpointID)
	assert.Equal(t, dst.ID, *got.TargetEndpointID)
	require.NotNil(t, got.DateFrom)
	assert.True(t, from.Equal(*got.DateFrom))
	assert.True(t, to.Equal(*got.DateTo))
	assert.Equal(t, 7, *got.DateOffsetFrom)
	assert.Equal(t, 1, *got.DateOffsetTo)
	assert.Equal(t, "report_YYYYMMDD", got.FilenameDatePattern)
	assert.True(t, got.PreserveStructure)
	assert.True(t, got.RenameDuplicates)
	assert.False(t, got.Recursive)
	assert.Equal(t, "Daily", got.JobFolderName)
	assert.Nil(t, got.GroupID)
	assert.Nil(t, got.ScheduleAt)
	assert.Nil(t, got.LastRun)

	byName, err := repo.GetJobByName("upload")
	require.NoError(t, err)
	assert.Equal(t, j.ID, byName.ID)
}

func TestRepository_GetJob_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.GetJob(999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "job 999")
}

func TestRepository_UpdateJob(t *testing.T) {
	repo := setupTestRepo(t)
	e := createEndpoint(t, repo, "src")
	j := createJob(t, repo, e.ID, "job")

	at := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	j.Schedule = models.ScheduleOneTime
	j.ScheduleAt = &at
	j.CronExpression = ""
	j.Recursive = true
	require.NoError(t, repo.UpdateJob(j))

	got, err := repo.GetJob(j.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleOneTime, got.Schedule)
	require.NotNil(t, got.ScheduleAt)
	assert.True(t, at.Equal(*got.ScheduleAt))
	assert.Empty(t, got.CronExpression)
	assert.True(t, got.Recursive)
}

func TestRepository_UpdateJobStatusAndNextRun(t *testing.T) {
	repo := setupTestRepo(t)
	e := createEndpoint(t, repo, "src")
	j := createJob(t, repo, e.ID, "job")

	j.MarkStarted()
	require.NoError(t, repo.UpdateJobStatus(j))

	next := time.Now().Add(time.Hour)
	require.NoError(t, repo.UpdateJobNextRun(j.ID, &next))

	got, err := repo.GetJob(j.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusRunning, got.Status)
	require.NotNil(t, got.LastRun)
	require.NotNil(t, got.NextRun)
	assert.WithinDuration(t, next, *got.NextRun, time.Millisecond)

	require.NoError(t, repo.UpdateJobNextRun(j.ID, nil))
	got, err = repo.GetJob(j.ID)
	require.NoError(t, err)
	assert.Nil(t, got.NextRun)

	missing := &models.JobSpec{ID: 4242, Status: models.JobStatusFailed}
	assert.ErrorIs(t, repo.UpdateJobStatus(missing), ErrNotFound)
}

func TestRepository_ListJobsByStatus(t *testing.T) {
	repo := setupTestRepo(t)
	e := createEndpoint(t, repo, "src")
	createJob(t, repo, e.ID, "pending")
	running := createJob(t, repo, e.ID, "running", func(j *models.JobSpec) { j.Status = models.JobStatusRunning })
	createJob(t, repo, e.ID, "done", func(j *models.JobSpec) { j.Status = models.JobStatusCompleted })

	jobs, err := repo.ListJobsByStatus(models.JobStatusPending, models.JobStatusRunning)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "pending", jobs[0].Name)
	assert.Equal(t, running.ID, jobs[1].ID)

	none, err := repo.ListJobsByStatus()
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_GetJobs_Filter(t *testing.T) {
	repo := setupTestRepo(t)
	e := createEndpoint(t, repo, "src")
	for _, name := range []string{"a", "b", "c"} {
		createJob(t, repo, e.ID, name)
	}

	jobs, err := repo.GetJobs(models.JobFilter{SortBy: "name", SortOrder: "asc", Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "b", jobs[0].Name)
	assert.Equal(t, "c", jobs[1].Name)

	// unknown sort columns fall back to created_at
	jobs, err = repo.GetJobs(models.JobFilter{SortBy: "name; DROP TABLE jobs"})
	require.NoError(t, err)
	assert.Len(t, jobs, 3)
}

func TestRepository_GetJobSummary(t *testing.T) {
	repo := setupTestRepo(t)

	summary, err := repo.GetJobSummary()
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalJobs)

	e := createEndpoint(t, repo, "src")
	createJob(t, repo, e.ID, "a")
	createJob(t, repo, e.ID, "b", func(j *models.JobSpec) { j.Status = models.JobStatusFailed })

	summary, err = repo.GetJobSummary()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalJobs)
	assert.Equal(t, 1, summary.PendingJobs)
	assert.Equal(t, 1, summary.FailedJobs)
}

func TestRepository_DeleteEndpointCascades(t *testing.T) {
	repo := setupTestRepo(t)
	e := createEndpoint(t, repo, "src")
	j := createJob(t, repo, e.ID, "job")

	require.NoError(t, repo.DeleteEndpoint(e.ID))

	_, err := repo.GetJob(j.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ========================================
// 5. Job Log Tests
// ========================================

func TestRepository_JobLogs(t *testing.T) {
	repo := setupTestRepo(t)
	e := createEndpoint(t, repo, "src")
	j := createJob(t, repo, e.ID, "job")

	now := time.Now()
	for i, age := range []time.Duration{72 * time.Hour, 48 * time.Hour, time.Hour} {
		end := now.Add(-age).Add(time.Minute)
		l := &models.JobLog{
			JobID:          j.ID,
			RunID:          "run-" + string(rune('a'+i)),
			StartTime:      now.Add(-age),
			EndTime:        &end,
			Status:         models.JobStatusCompleted,
			FilesProcessed: i,
			LogContent:     "Downloaded: x",
		}
		require.NoError(t, repo.CreateJobLog(l))
		assert.NotZero(t, l.ID)
	}

	logs, err := repo.GetJobLogs(j.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "run-c", logs[0].RunID)
	assert.Equal(t, "Downloaded: x", logs[0].LogContent)
	require.NotNil(t, logs[0].EndTime)

	limited, err := repo.GetJobLogs(j.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	deleted, err := repo.DeleteLogsBefore(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	logs, err = repo.GetJobLogs(j.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "run-c", logs[0].RunID)
}
