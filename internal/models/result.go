package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EntryType string

const (
	EntryTypeFile      EntryType = "file"
	EntryTypeDirectory EntryType = "dir"
)

// DirectoryEntry is one item of a remote listing. Modified holds the raw
// protocol timestamp and is empty when the server did not report one.
type DirectoryEntry struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified string    `json:"modify,omitempty"`
	Type     EntryType `json:"type"`
}

func (e DirectoryEntry) IsDir() bool {
	return e.Type == EntryTypeDirectory
}

// TransferResult is the outcome of one execution.
type TransferResult struct {
	RunID            uuid.UUID `json:"run_id"`
	JobID            int64     `json:"job_id,omitempty"`
	Success          bool      `json:"success"`
	FilesProcessed   int       `json:"files_processed"`
	BytesTransferred int64     `json:"bytes_transferred"`
	Log              []string  `json:"log"`
	Error            string    `json:"error,omitempty"`
	StartedAt        time.Time `json:"started_at"`
	EndedAt          time.Time `json:"ended_at"`
}

func NewTransferResult(runID uuid.UUID) *TransferResult {
	return &TransferResult{
		RunID:     runID,
		Success:   true,
		StartedAt: time.Now(),
	}
}

func (r *TransferResult) Logf(format string, args ...interface{}) {
	r.Log = append(r.Log, fmt.Sprintf(format, args...))
}

// Fail marks the whole batch as failed.
func (r *TransferResult) Fail(err error) {
	r.Success = false
	if err != nil {
		r.Error = err.Error()
	}
}

// Absorb folds the counters and log of a sub-operation into r. A failed
// sub-operation fails r as well.
func (r *TransferResult) Absorb(other *TransferResult) {
	if other == nil {
		return
	}
	r.FilesProcessed += other.FilesProcessed
	r.BytesTransferred += other.BytesTransferred
	r.Log = append(r.Log, other.Log...)
	if !other.Success {
		r.Success = false
		if r.Error == "" {
			r.Error = other.Error
		}
	}
}

func (r *TransferResult) Finish() {
	r.EndedAt = time.Now()
}

func (r *TransferResult) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.EndedAt.Sub(r.StartedAt)
}

func (r *TransferResult) LogContent() string {
	return strings.Join(r.Log, "\n")
}

// JobLog is the persisted record of one execution.
type JobLog struct {
	ID               int64      `json:"id" db:"id"`
	JobID            int64      `json:"job_id" db:"job_id"`
	RunID            string     `json:"run_id" db:"run_id"`
	StartTime        time.Time  `json:"start_time" db:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty" db:"end_time"`
	Status           JobStatus  `json:"status" db:"status"`
	FilesProcessed   int        `json:"files_processed" db:"files_processed"`
	BytesTransferred int64      `json:"bytes_transferred" db:"bytes_transferred"`
	ErrorMessage     string     `json:"error_message,omitempty" db:"error_message"`
	LogContent       string     `json:"log_content,omitempty" db:"log_content"`
}

// NewJobLog converts a finished result into its persisted form.
func NewJobLog(jobID int64, r *TransferResult) *JobLog {
	status := JobStatusCompleted
	if !r.Success {
		status = JobStatusFailed
	}
	log := &JobLog{
		JobID:            jobID,
		RunID:            r.RunID.String(),
		StartTime:        r.StartedAt,
		Status:           status,
		FilesProcessed:   r.FilesProcessed,
		BytesTransferred: r.BytesTransferred,
		ErrorMessage:     r.Error,
		LogContent:       r.LogContent(),
	}
	if !r.EndedAt.IsZero() {
		end := r.EndedAt
		log.EndTime = &end
	}
	return log
}
