package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"ferryman/internal/config"
	"ferryman/internal/folders"
	"ferryman/internal/interfaces"
	"ferryman/internal/metrics"
	"ferryman/internal/models"
	"ferryman/internal/selection"
	"ferryman/internal/transfer"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// DefaultLocalPath is used when neither the job nor the configuration name
// a local root.
const DefaultLocalPath = "./downloads"

// ErrSourceNotFound is returned by local folder uploads that find nothing
// to send.
var ErrSourceNotFound = errors.New("source folder not found")

// ClientFactory builds the protocol client of an endpoint.
type ClientFactory func(endpoint *models.Endpoint, password string) (transfer.Client, error)

// Runner executes one job at a time per call to Run. Concurrent calls for
// different jobs are safe; they share the duplicate name reserver.
type Runner struct {
	config     *config.Config
	store      interfaces.JobStore
	creds      interfaces.CredentialStore
	mounts     interfaces.MountManager
	gatekeeper interfaces.Gatekeeper
	notifier   interfaces.Notifier
	reserver   *transfer.Reserver
	newClient  ClientFactory
	now        func() time.Time
	logger     *slog.Logger
}

// Option customizes a Runner.
type Option func(*Runner)

// WithClientFactory replaces the protocol client constructor.
func WithClientFactory(f ClientFactory) Option {
	return func(r *Runner) { r.newClient = f }
}

// WithClock replaces the time source used for date folders and rolling ranges.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithReserver shares a reserver between runners.
func WithReserver(reserver *transfer.Reserver) Option {
	return func(r *Runner) { r.reserver = reserver }
}

// New creates a runner. mounts, gatekeeper and notifier may be nil.
func New(
	cfg *config.Config,
	store interfaces.JobStore,
	creds interfaces.CredentialStore,
	mounts interfaces.MountManager,
	gatekeeper interfaces.Gatekeeper,
	notifier interfaces.Notifier,
	opts ...Option,
) *Runner {
	r := &Runner{
		config:     cfg,
		store:      store,
		creds:      creds,
		mounts:     mounts,
		gatekeeper: gatekeeper,
		notifier:   notifier,
		reserver:   transfer.NewReserver(),
		now:        time.Now,
		logger:     slog.Default().With("component", "runner"),
	}
	r.newClient = r.defaultClient

	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) defaultClient(endpoint *models.Endpoint, password string) (transfer.Client, error) {
	transfersCfg := r.config.GetTransfers()
	opts := transfer.Options{
		ConnectTimeout: transfersCfg.ConnectTimeout,
		KnownHostsFile: transfersCfg.KnownHosts,
		Logger:         r.logger,
	}
	if r.mounts != nil {
		opts.Mounter = r.mounts
	}
	return transfer.New(endpoint, password, opts)
}

// Run executes job jobID: PENDING -> RUNNING -> COMPLETED or FAILED. Only a
// job that cannot be loaded yields an error; every other failure, panics
// included, ends up in the returned result and marks the job failed.
func (r *Runner) Run(ctx context.Context, jobID int64) (*models.TransferResult, error) {
	job, err := r.store.GetJob(jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job %d: %w", jobID, err)
	}

	result := models.NewTransferResult(uuid.New())
	result.JobID = job.ID
	logger := r.logger.With("job_id", job.ID, "job", job.Name, "run_id", result.RunID)

	job.MarkStarted()
	if err := r.store.UpdateJobStatus(job); err != nil {
		logger.Error("failed to mark job running", "error", err)
	}

	metrics.ActiveRuns.Inc()
	defer metrics.ActiveRuns.Dec()
	defer r.reserver.Release(result.RunID)

	logger.Info("executing job", "direction", job.Direction)

	var protocol models.Protocol
	func() {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("job panicked", "panic", p, "stack", string(debug.Stack()))
				result.Logf("Execution aborted: %v", p)
				result.Fail(fmt.Errorf("panic during execution: %v", p))
			}
		}()

		var err error
		protocol, err = r.execute(ctx, job, result, logger)
		if err != nil {
			result.Logf("Error: %v", err)
			result.Fail(err)
		}
	}()
	result.Finish()

	r.finish(ctx, job, protocol, result, logger)
	return result, nil
}

func (r *Runner) execute(ctx context.Context, job *models.JobSpec, result *models.TransferResult, logger *slog.Logger) (models.Protocol, error) {
	source, err := r.store.GetEndpoint(job.EndpointID)
	if err != nil {
		return "", fmt.Errorf("failed to load endpoint: %w", err)
	}

	var group *models.JobGroup
	if job.GroupID != nil {
		group, err = r.store.GetGroup(*job.GroupID)
		if err != nil {
			return source.Protocol, fmt.Errorf("failed to load group: %w", err)
		}
	}

	resolution := folders.ResolveJob(job, r.localBase(job), group, r.now())
	logger.Debug("resolved local path", "path", resolution.Path)

	if err := r.ensureMounted(ctx, resolution.Path); err != nil {
		metrics.MountFailuresTotal.Inc()
		return source.Protocol, err
	}

	if job.Direction == models.DirectionUpload {
		if job.EffectiveUploadSource() == models.UploadSourceLocalFolder {
			return r.uploadLocalFolder(ctx, job, source, resolution, result)
		}
		return r.relay(ctx, job, source, result)
	}

	if err := resolution.Ensure(); err != nil {
		return source.Protocol, err
	}
	if err := r.checkDisk(resolution.Path); err != nil {
		return source.Protocol, err
	}

	sub, err := r.download(ctx, job, source, resolution.Path, result)
	if err != nil {
		return source.Protocol, err
	}
	result.Absorb(sub)
	return source.Protocol, nil
}

func (r *Runner) localBase(job *models.JobSpec) string {
	if job.LocalPath != "" {
		return job.LocalPath
	}
	if p := r.config.GetTransfers().DefaultLocalPath; p != "" {
		return p
	}
	return DefaultLocalPath
}

// ensureMounted checks the network drive holding path, mounting it when
// the drive allows automatic mounts.
func (r *Runner) ensureMounted(ctx context.Context, path string) error {
	if r.mounts == nil {
		return nil
	}
	drive, ok := r.mounts.DriveFor(path)
	if !ok {
		return nil
	}

	if !r.mounts.IsMounted(drive.MountPoint) {
		if !drive.AutoMount {
			return &MountError{Drive: drive.Name, Path: drive.MountPoint, Err: errors.New("drive is not mounted")}
		}
		timeout := r.config.GetMounts().Timeout
		if timeout <= 0 {
			timeout = config.DefaultMountTimeout
		}
		mountCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if _, err := r.mounts.Mount(mountCtx, drive); err != nil {
			return &MountError{Drive: drive.Name, Path: drive.MountPoint, Err: err}
		}
		r.logger.Info("mounted network drive", "drive", drive.Name, "mount_point", drive.MountPoint)
	}

	if err := r.mounts.CheckPermissions(drive.MountPoint); err != nil {
		return &MountError{Drive: drive.Name, Path: drive.MountPoint, Err: err}
	}
	return nil
}

func (r *Runner) checkDisk(path string) error {
	if r.gatekeeper == nil {
		return nil
	}
	if decision := r.gatekeeper.CanWrite(path); !decision.Allowed {
		return fmt.Errorf("destination rejected: %s", decision.Reason)
	}
	return nil
}

func (r *Runner) client(endpoint *models.Endpoint) (transfer.Client, error) {
	password, err := r.creds.Decrypt(endpoint.PasswordEncrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt password for %s: %w", endpoint.Name, err)
	}
	client, err := r.newClient(endpoint, password)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", endpoint.Name, err)
	}
	return client, nil
}

func (r *Runner) batch(client transfer.Client, runID uuid.UUID, job *models.JobSpec) *transfer.Batch {
	transfersCfg := r.config.GetTransfers()
	return &transfer.Batch{
		Client:            client,
		RunID:             runID,
		Recursive:         job.Recursive,
		PreserveStructure: job.PreserveStructure,
		RenameDuplicates:  job.RenameDuplicates,
		Reserver:          r.reserver,
		ReconnectEvery:    transfersCfg.ReconnectEvery,
		Retries:           transfersCfg.Retries,
		Logger:            r.logger.With("job_id", job.ID),
	}
}

// download runs the batch operation selected by the endpoint's transfer
// mode and the job's selection plan. Plan notes are written to result.
func (r *Runner) download(ctx context.Context, job *models.JobSpec, endpoint *models.Endpoint, localDir string, result *models.TransferResult) (*models.TransferResult, error) {
	plan, err := selection.PlanFor(job, r.now())
	if err != nil {
		return nil, fmt.Errorf("invalid file selection: %w", err)
	}
	if job.UseDateRange && plan.Mode == selection.ModeRolling {
		result.Logf("Both static and rolling date ranges are set; the rolling range is used")
	}
	if plan.Description != "" {
		result.Logf("%s", plan.Description)
	}

	client, err := r.client(endpoint)
	if err != nil {
		return nil, err
	}
	b := r.batch(client, result.RunID, job)

	remoteDir := endpoint.RemotePath
	if remoteDir == "" {
		remoteDir = "/"
	}
	walkTree := endpoint.TransferMode == models.TransferModeFolders
	if walkTree {
		b.Recursive = true
	}

	switch plan.Mode {
	case selection.ModeAll:
		if walkTree {
			return b.DownloadFolder(ctx, remoteDir, localDir), nil
		}
		return b.DownloadAll(ctx, remoteDir, localDir), nil
	case selection.ModeStatic, selection.ModeRolling:
		return b.DownloadByDateRange(ctx, remoteDir, localDir, *plan.From, *plan.To), nil
	case selection.ModeFilename:
		return b.DownloadSelected(ctx, remoteDir, localDir, plan), nil
	}

	if walkTree {
		return b.DownloadFolder(ctx, remoteDir, localDir), nil
	}
	return b.DownloadFiles(ctx, remoteDir, localDir), nil
}

// relay downloads from the source endpoint into a per-job scratch
// directory and uploads the result to the target endpoint. The scratch
// directory is always removed.
func (r *Runner) relay(ctx context.Context, job *models.JobSpec, source *models.Endpoint, result *models.TransferResult) (models.Protocol, error) {
	target, err := r.targetEndpoint(job)
	if err != nil {
		return source.Protocol, err
	}

	scratch := filepath.Join(r.config.GetTransfers().ScratchDir, fmt.Sprintf("transfer_%d", job.ID))
	if err := os.MkdirAll(scratch, 0755); err != nil {
		return source.Protocol, &folders.PathResolutionError{Path: scratch, Err: err}
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			r.logger.Warn("failed to remove scratch directory", "path", scratch, "error", err)
		}
	}()

	if err := r.checkDisk(scratch); err != nil {
		return source.Protocol, err
	}

	fetched, err := r.download(ctx, job, source, scratch, result)
	if err != nil {
		return source.Protocol, err
	}
	result.Log = append(result.Log, fetched.Log...)
	if !fetched.Success {
		return source.Protocol, fmt.Errorf("download from %s failed: %s", source.Name, fetched.Error)
	}

	client, err := r.client(target)
	if err != nil {
		return target.Protocol, err
	}
	uploaded := r.batch(client, result.RunID, job).UploadTree(ctx, scratch, remoteRoot(target), false)
	result.Absorb(uploaded)
	return target.Protocol, nil
}

// uploadLocalFolder sends an already populated local directory, flattened,
// to the target endpoint. A missing or empty directory falls back to the
// newest sibling dated folder that holds files.
func (r *Runner) uploadLocalFolder(ctx context.Context, job *models.JobSpec, source *models.Endpoint, resolution folders.Resolution, result *models.TransferResult) (models.Protocol, error) {
	target := source
	if job.TargetEndpointID != nil {
		var err error
		if target, err = r.targetEndpoint(job); err != nil {
			return source.Protocol, err
		}
	}

	dir := resolution.Path
	if !hasFiles(dir) {
		siblings, err := resolution.Siblings()
		if err != nil {
			return target.Protocol, err
		}
		dir = ""
		for _, candidate := range siblings {
			if hasFiles(candidate) {
				dir = candidate
				break
			}
		}
		if dir == "" {
			return target.Protocol, fmt.Errorf("%w: %s", ErrSourceNotFound, resolution.Path)
		}
		result.Logf("Source folder %s is empty; using %s", resolution.Path, dir)
	}

	client, err := r.client(target)
	if err != nil {
		return target.Protocol, err
	}
	uploaded := r.batch(client, result.RunID, job).UploadTree(ctx, dir, remoteRoot(target), true)
	result.Absorb(uploaded)
	return target.Protocol, nil
}

func (r *Runner) targetEndpoint(job *models.JobSpec) (*models.Endpoint, error) {
	if job.TargetEndpointID == nil {
		return nil, errors.New("no target endpoint specified for upload job")
	}
	target, err := r.store.GetEndpoint(*job.TargetEndpointID)
	if err != nil {
		return nil, fmt.Errorf("failed to load target endpoint: %w", err)
	}
	return target, nil
}

func remoteRoot(endpoint *models.Endpoint) string {
	if endpoint.RemotePath == "" {
		return "/"
	}
	return endpoint.RemotePath
}

// hasFiles reports whether dir holds at least one regular file at any depth.
func hasFiles(dir string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return fs.SkipDir
		}
		if d.Type().IsRegular() {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// finish persists the outcome and reports it. Store and notifier failures
// are logged only.
func (r *Runner) finish(ctx context.Context, job *models.JobSpec, protocol models.Protocol, result *models.TransferResult, logger *slog.Logger) {
	if result.Success {
		job.MarkCompleted()
	} else {
		if result.Error == "" {
			result.Error = "Unknown error"
		}
		job.MarkFailed(result.Error)
	}

	if err := r.store.UpdateJobStatus(job); err != nil {
		logger.Error("failed to update job status", "error", err)
	}
	if err := r.store.CreateJobLog(models.NewJobLog(job.ID, result)); err != nil {
		logger.Error("failed to store job log", "error", err)
	}

	metrics.ObserveRun(job, protocol, result)

	if result.Success {
		logger.Info("job completed",
			"files", result.FilesProcessed,
			"bytes", result.BytesTransferred,
			"duration", result.Duration())
	} else {
		logger.Error("job failed", "error", result.Error, "duration", result.Duration())
	}

	r.notify(ctx, job, result, logger)
}

func (r *Runner) notify(ctx context.Context, job *models.JobSpec, result *models.TransferResult, logger *slog.Logger) {
	if r.notifier == nil {
		return
	}

	subject, body := Summary(job, result)
	if err := r.notifier.Notify(ctx, subject, body, result.Success); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		logger.Warn("failed to send notification", "error", err)
	}
}

// Summary renders the notification subject and body for a finished run.
func Summary(job *models.JobSpec, result *models.TransferResult) (string, string) {
	if result.Success {
		return fmt.Sprintf("Job %q completed successfully", job.Name),
			fmt.Sprintf("Job %q has been completed successfully.\n\nFiles processed: %d\nBytes transferred: %s",
				job.Name, result.FilesProcessed, humanize.IBytes(uint64(result.BytesTransferred)))
	}
	return fmt.Sprintf("Job %q failed", job.Name),
		fmt.Sprintf("Job %q has failed.\n\nError: %s", job.Name, result.Error)
}
