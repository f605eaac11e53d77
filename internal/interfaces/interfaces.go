package interfaces

import (
	"context"
	"time"

	"ferryman/internal/models"
)

// JobStore is the persistence the runner and scheduler need
type JobStore interface {
	GetJob(id int64) (*models.JobSpec, error)
	GetEndpoint(id int64) (*models.Endpoint, error)
	GetGroup(id int64) (*models.JobGroup, error)
	ListJobsByStatus(statuses ...models.JobStatus) ([]*models.JobSpec, error)
	ListGroupJobs(groupID int64) ([]*models.JobSpec, error)
	UpdateJobStatus(job *models.JobSpec) error
	UpdateJobNextRun(id int64, next *time.Time) error
	CreateJobLog(log *models.JobLog) error
	DeleteLogsBefore(cutoff time.Time) (int64, error)
}

// GroupStore is the persistence the group service needs
type GroupStore interface {
	GetGroup(id int64) (*models.JobGroup, error)
	ListGroupJobs(groupID int64) ([]*models.JobSpec, error)
	GetGroupStats(groupID int64) (*models.GroupStats, error)
}

// CredentialStore opens stored secrets
type CredentialStore interface {
	Decrypt(ciphertext string) (string, error)
}

// MountManager attaches network drives
type MountManager interface {
	Mount(ctx context.Context, drive models.NetworkDrive) (string, error)
	Unmount(ctx context.Context, path string) error
	IsMounted(path string) bool
	CheckPermissions(path string) error
	DriveFor(path string) (models.NetworkDrive, bool)
}

// Notifier delivers the outcome of a job run
type Notifier interface {
	Notify(ctx context.Context, subject, body string, success bool) error
}

// Gatekeeper decides whether a destination may receive more data
type Gatekeeper interface {
	CanWrite(path string) GateDecision
}

// GateDecision represents whether an operation can proceed
type GateDecision struct {
	Allowed bool                   `json:"allowed"`
	Reason  string                 `json:"reason"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// DiskStatus is the gatekeeper's view of a destination filesystem
type DiskStatus struct {
	Path            string  `json:"path"`
	TotalBytes      uint64  `json:"total_bytes"`
	FreeBytes       uint64  `json:"free_bytes"`
	UsagePercent    float64 `json:"usage_percent"`
	MaxUsagePercent int     `json:"max_usage_percent"`
	MinFreeBytes    uint64  `json:"min_free_bytes"`
}

// JobRunner executes one job to completion
type JobRunner interface {
	Run(ctx context.Context, jobID int64) (*models.TransferResult, error)
}

// JobScheduler keeps the triggers of all jobs
type JobScheduler interface {
	Register(job *models.JobSpec) error
	Unregister(jobID int64)
	RunNow(jobID int64) error
	NextRun(jobID int64) (time.Time, bool)
}

// GroupRunner runs the jobs of a group one after another
type GroupRunner interface {
	RunGroup(ctx context.Context, groupID int64) ([]models.GroupRunEntry, error)
	GroupStats(groupID int64) (*models.GroupStats, error)
}
