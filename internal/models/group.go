package models

import "time"

// JobGroup shares a destination prefix between jobs and lets them be run
// one after another.
type JobGroup struct {
	ID                     int64     `json:"id" yaml:"id" db:"id"`
	Name                   string    `json:"name" yaml:"name" db:"name"`
	Description            string    `json:"description,omitempty" yaml:"description" db:"description"`
	FolderName             string    `json:"folder_name,omitempty" yaml:"folder_name" db:"folder_name"`
	EnableDateOrganization bool      `json:"enable_date_organization" yaml:"enable_date_organization" db:"enable_date_organization"`
	DateFolderFormat       string    `json:"date_folder_format" yaml:"date_folder_format" db:"date_folder_format"`
	ExecutionOrder         int       `json:"execution_order" yaml:"execution_order" db:"execution_order"`
	IsActive               bool      `json:"is_active" yaml:"is_active" db:"is_active"`
	CreatedAt              time.Time `json:"created_at" yaml:"-" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" yaml:"-" db:"updated_at"`
}

// GroupStats summarizes the jobs belonging to a group.
type GroupStats struct {
	GroupID       int64      `json:"group_id"`
	TotalJobs     int        `json:"total_jobs"`
	PendingJobs   int        `json:"pending_jobs"`
	RunningJobs   int        `json:"running_jobs"`
	CompletedJobs int        `json:"completed_jobs"`
	FailedJobs    int        `json:"failed_jobs"`
	LastRun       *time.Time `json:"last_run,omitempty"`
}

// GroupRunEntry is the outcome of one job inside a sequential group run.
type GroupRunEntry struct {
	JobID   int64           `json:"job_id"`
	JobName string          `json:"job_name"`
	Result  *TransferResult `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}
