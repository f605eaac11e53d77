package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"ferryman/internal/models"
	"ferryman/internal/repository"
)

// CreateTestEndpoint creates an SFTP endpoint with default values
func CreateTestEndpoint(overrides ...func(*models.Endpoint)) *models.Endpoint {
	endpoint := &models.Endpoint{
		Name:         "test-endpoint",
		Protocol:     models.ProtocolSFTP,
		Host:         "sftp.example.com",
		Port:         22,
		Username:     "ferry",
		RemotePath:   "/outgoing",
		TransferMode: models.TransferModeFiles,
	}

	for _, override := range overrides {
		override(endpoint)
	}

	return endpoint
}

// CreateTestGroup creates a job group with default values
func CreateTestGroup(overrides ...func(*models.JobGroup)) *models.JobGroup {
	group := &models.JobGroup{
		Name:             "test-group",
		FolderName:       "Reports",
		DateFolderFormat: "YYYY-MM",
		IsActive:         true,
	}

	for _, override := range overrides {
		override(group)
	}

	return group
}

// CreateTestJob creates a recurring download job with default values
func CreateTestJob(overrides ...func(*models.JobSpec)) *models.JobSpec {
	job := &models.JobSpec{
		Name:           "test-job",
		EndpointID:     1,
		Direction:      models.DirectionDownload,
		Schedule:       models.ScheduleRecurring,
		CronExpression: "0 6 * * *",
		LocalPath:      "/srv/incoming",
		Status:         models.JobStatusPending,
	}

	for _, override := range overrides {
		override(job)
	}

	return job
}

var seq atomic.Int64

// SeedJob stores an endpoint and a job referencing it. Names get a
// sequence suffix so a test can seed several jobs.
func SeedJob(t *testing.T, repo *repository.Repository, overrides ...func(*models.JobSpec)) (*models.Endpoint, *models.JobSpec) {
	t.Helper()

	n := seq.Add(1)
	endpoint := CreateTestEndpoint(func(e *models.Endpoint) {
		e.Name = fmt.Sprintf("endpoint-%d", n)
	})
	if err := repo.CreateEndpoint(endpoint); err != nil {
		t.Fatalf("failed to create endpoint: %v", err)
	}

	job := CreateTestJob(append([]func(*models.JobSpec){func(j *models.JobSpec) {
		j.Name = fmt.Sprintf("job-%d", n)
		j.EndpointID = endpoint.ID
	}}, overrides...)...)
	if err := repo.CreateJob(job); err != nil {
		t.Fatalf("failed to create job: %v", err)
	}

	return endpoint, job
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
