package models

import (
	"fmt"
	"time"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

type Direction string

const (
	DirectionDownload Direction = "download"
	DirectionUpload   Direction = "upload"
)

type ScheduleType string

const (
	ScheduleOneTime   ScheduleType = "one_time"
	ScheduleRecurring ScheduleType = "recurring"
)

// UploadSource selects where an upload job takes its files from.
type UploadSource string

const (
	UploadSourceRelay       UploadSource = "relay"
	UploadSourceLocalFolder UploadSource = "local_folder"
)

type JobSpec struct {
	ID         int64        `json:"id" yaml:"id" db:"id"`
	Name       string       `json:"name" yaml:"name" db:"name"`
	EndpointID int64        `json:"endpoint_id" yaml:"endpoint_id" db:"site_id"`
	Direction  Direction    `json:"direction" yaml:"direction" db:"job_type"`
	Schedule   ScheduleType `json:"schedule_type" yaml:"schedule_type" db:"schedule_type"`

	ScheduleAt     *time.Time `json:"schedule_at,omitempty" yaml:"schedule_at" db:"schedule_datetime"`
	CronExpression string     `json:"cron_expression,omitempty" yaml:"cron_expression" db:"cron_expression"`

	// Selection
	DownloadAll         bool       `json:"download_all" yaml:"download_all" db:"download_all"`
	UseDateRange        bool       `json:"use_date_range" yaml:"use_date_range" db:"use_date_range"`
	DateFrom            *time.Time `json:"date_from,omitempty" yaml:"date_from" db:"date_from"`
	DateTo              *time.Time `json:"date_to,omitempty" yaml:"date_to" db:"date_to"`
	UseRollingDateRange bool       `json:"use_rolling_date_range" yaml:"use_rolling_date_range" db:"use_rolling_date_range"`
	RollingPattern      string     `json:"rolling_pattern,omitempty" yaml:"rolling_pattern" db:"rolling_pattern"`
	DateOffsetFrom      *int       `json:"date_offset_from,omitempty" yaml:"date_offset_from" db:"date_offset_from"`
	DateOffsetTo        *int       `json:"date_offset_to,omitempty" yaml:"date_offset_to" db:"date_offset_to"`
	FilenameDatePattern string     `json:"filename_date_pattern,omitempty" yaml:"filename_date_pattern" db:"filename_date_pattern"`

	// Organization
	LocalPath         string `json:"local_path" yaml:"local_path" db:"local_path"`
	Recursive         bool   `json:"enable_recursive_download" yaml:"enable_recursive_download" db:"enable_recursive_download"`
	PreserveStructure bool   `json:"preserve_folder_structure" yaml:"preserve_folder_structure" db:"preserve_folder_structure"`
	RenameDuplicates  bool   `json:"rename_duplicates" yaml:"rename_duplicates" db:"rename_duplicates"`
	UseDateFolders    bool   `json:"use_date_folders" yaml:"use_date_folders" db:"use_date_folders"`
	DateFolderFormat  string `json:"date_folder_format,omitempty" yaml:"date_folder_format" db:"date_folder_format"`
	GroupID           *int64 `json:"group_id,omitempty" yaml:"group_id" db:"job_group_id"`
	JobFolderName     string `json:"job_folder_name,omitempty" yaml:"job_folder_name" db:"job_folder_name"`

	// Upload only
	TargetEndpointID *int64       `json:"target_endpoint_id,omitempty" yaml:"target_endpoint_id" db:"target_site_id"`
	UploadSource     UploadSource `json:"upload_source,omitempty" yaml:"upload_source" db:"upload_source"`

	Status       JobStatus  `json:"status" yaml:"-" db:"status"`
	LastRun      *time.Time `json:"last_run,omitempty" yaml:"-" db:"last_run"`
	NextRun      *time.Time `json:"next_run,omitempty" yaml:"-" db:"next_run"`
	ErrorMessage string     `json:"error_message,omitempty" yaml:"-" db:"error_message"`
	CreatedAt    time.Time  `json:"created_at" yaml:"-" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" yaml:"-" db:"updated_at"`
}

// Validate checks the fields the engine relies on before a job can be scheduled.
func (j *JobSpec) Validate() error {
	if j.Name == "" {
		return fmt.Errorf("job name is required")
	}
	if j.EndpointID == 0 {
		return fmt.Errorf("job %q: endpoint is required", j.Name)
	}
	switch j.Direction {
	case DirectionDownload:
	case DirectionUpload:
		if j.TargetEndpointID == nil && j.UploadSource != UploadSourceLocalFolder {
			return fmt.Errorf("job %q: upload job needs a target endpoint", j.Name)
		}
	default:
		return fmt.Errorf("job %q: unknown direction %q", j.Name, j.Direction)
	}
	switch j.Schedule {
	case ScheduleOneTime:
		if j.ScheduleAt == nil {
			return fmt.Errorf("job %q: one-time job needs schedule_at", j.Name)
		}
	case ScheduleRecurring:
		if j.CronExpression == "" {
			return fmt.Errorf("job %q: recurring job needs a cron expression", j.Name)
		}
	default:
		return fmt.Errorf("job %q: unknown schedule type %q", j.Name, j.Schedule)
	}
	if j.UseDateRange && !j.UseRollingDateRange && (j.DateFrom == nil || j.DateTo == nil) {
		return fmt.Errorf("job %q: date range needs both date_from and date_to", j.Name)
	}
	if j.UseRollingDateRange && j.RollingPattern == "" {
		return fmt.Errorf("job %q: rolling date range needs a pattern", j.Name)
	}
	return nil
}

// EffectiveUploadSource defaults upload jobs to relay mode.
func (j *JobSpec) EffectiveUploadSource() UploadSource {
	if j.UploadSource == "" {
		return UploadSourceRelay
	}
	return j.UploadSource
}

func (j *JobSpec) IsActive() bool {
	return j.Status == JobStatusRunning || j.Status == JobStatusPending
}

func (j *JobSpec) MarkStarted() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.LastRun = &now
	j.ErrorMessage = ""
	j.UpdatedAt = now
}

func (j *JobSpec) MarkCompleted() {
	j.Status = JobStatusCompleted
	j.ErrorMessage = ""
	j.UpdatedAt = time.Now()
}

func (j *JobSpec) MarkFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMessage = errorMsg
	j.UpdatedAt = time.Now()
}

// MarkPending is used when an orphaned running job is recovered after a restart.
func (j *JobSpec) MarkPending() {
	j.Status = JobStatusPending
	j.UpdatedAt = time.Now()
}

// JobFilter represents filtering options for job queries
type JobFilter struct {
	Status    []JobStatus `json:"status,omitempty"`
	GroupID   *int64      `json:"group_id,omitempty"`
	Limit     int         `json:"limit,omitempty"`
	Offset    int         `json:"offset,omitempty"`
	SortBy    string      `json:"sort_by,omitempty"`
	SortOrder string      `json:"sort_order,omitempty"`
}

// JobSummary represents aggregated job statistics
type JobSummary struct {
	TotalJobs     int `json:"total_jobs"`
	PendingJobs   int `json:"pending_jobs"`
	RunningJobs   int `json:"running_jobs"`
	CompletedJobs int `json:"completed_jobs"`
	FailedJobs    int `json:"failed_jobs"`
}
