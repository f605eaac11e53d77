package metrics

import (
	"strconv"

	"ferryman/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ferryman_job_runs_total",
		Help: "The total number of job executions by direction and outcome",
	}, []string{"direction", "status"})

	FilesTransferredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ferryman_files_transferred_total",
		Help: "The total number of files transferred by protocol",
	}, []string{"protocol"})

	BytesTransferredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ferryman_bytes_transferred_total",
		Help: "Total bytes transferred by protocol",
	}, []string{"protocol"})

	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ferryman_job_duration_seconds",
		Help:    "Wall time of one job execution",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14), // 1s to ~2h
	}, []string{"direction"})

	ActiveRuns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ferryman_active_runs",
		Help: "Number of job executions currently in flight",
	})

	ScheduledJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ferryman_scheduled_jobs",
		Help: "Number of jobs holding a trigger in the scheduler",
	})

	JobLastRunTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ferryman_job_last_run_timestamp_seconds",
		Help: "Unix time of the last finished execution per job",
	}, []string{"job_id"})

	MountFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ferryman_mount_failures_total",
		Help: "The total number of network drive checks that failed before a run",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ferryman_notification_failures_total",
		Help: "The total number of run notifications that could not be delivered",
	})

	LogsPrunedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ferryman_job_logs_pruned_total",
		Help: "The total number of job logs removed by retention",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ferryman_http_requests_total",
		Help: "API requests by method, route template and status code",
	}, []string{"method", "route", "code"})
)

// ObserveRun records a finished execution.
func ObserveRun(job *models.JobSpec, protocol models.Protocol, result *models.TransferResult) {
	status := string(models.JobStatusCompleted)
	if !result.Success {
		status = string(models.JobStatusFailed)
	}

	JobRunsTotal.WithLabelValues(string(job.Direction), status).Inc()
	JobDuration.WithLabelValues(string(job.Direction)).Observe(result.Duration().Seconds())
	JobLastRunTimestamp.WithLabelValues(strconv.FormatInt(job.ID, 10)).Set(float64(result.EndedAt.Unix()))

	if protocol != "" {
		FilesTransferredTotal.WithLabelValues(string(protocol)).Add(float64(result.FilesProcessed))
		BytesTransferredTotal.WithLabelValues(string(protocol)).Add(float64(result.BytesTransferred))
	}
}
