package repository

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ferryman/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrNotFound is wrapped by lookups that match no row.
var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sql.DB
}

func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_timeout=5000&_cache_size=2000&_foreign_keys=on", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbPath == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db}

	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return repo, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Ping checks the database connection.
func (r *Repository) Ping() error {
	return r.db.Ping()
}

func (r *Repository) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err := r.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := r.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

type columnMigration struct {
	table  string
	column string
	ddl    string
}

var migrations = []columnMigration{
	{"jobs", "upload_source", "ALTER TABLE jobs ADD COLUMN upload_source TEXT NOT NULL DEFAULT 'relay'"},
}

// runMigrations adds columns introduced after a database was created.
func (r *Repository) runMigrations() error {
	for _, m := range migrations {
		var present bool
		row := r.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM pragma_table_info('%s') WHERE name = ?", m.table), m.column)
		if err := row.Scan(&present); err != nil {
			return fmt.Errorf("failed to check for %s column in %s: %w", m.column, m.table, err)
		}
		if present {
			continue
		}

		slog.Info("migrating database", "table", m.table, "column", m.column)
		if _, err := r.db.Exec(m.ddl); err != nil {
			return fmt.Errorf("failed to add %s column to %s: %w", m.column, m.table, err)
		}
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// Endpoint operations

const endpointColumns = `id, name, protocol, host, port, username, password_encrypted, remote_path,
	transfer_type, encoding, insecure_host_key, nfs_options, created_at, updated_at`

func scanEndpoint(s scanner) (*models.Endpoint, error) {
	var e models.Endpoint
	var nfs sql.NullString
	err := s.Scan(&e.ID, &e.Name, &e.Protocol, &e.Host, &e.Port, &e.Username,
		&e.PasswordEncrypted, &e.RemotePath, &e.TransferMode, &e.Encoding,
		&e.InsecureHostKey, &nfs, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if nfs.Valid && nfs.String != "" {
		e.NFS = &models.NfsOptions{}
		if err := e.NFS.Scan(nfs.String); err != nil {
			slog.Warn("failed to parse nfs_options, ignoring", "endpoint_id", e.ID, "error", err)
			e.NFS = nil
		}
	}
	return &e, nil
}

func (r *Repository) CreateEndpoint(e *models.Endpoint) error {
	if e.TransferMode == "" {
		e.TransferMode = models.TransferModeFiles
	}
	if e.RemotePath == "" {
		e.RemotePath = "/"
	}

	result, err := r.db.Exec(`
		INSERT INTO sites (
			name, protocol, host, port, username, password_encrypted, remote_path,
			transfer_type, encoding, insecure_host_key, nfs_options
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Name, e.Protocol, e.Host, e.Port, e.Username, e.PasswordEncrypted, e.RemotePath,
		e.TransferMode, e.Encoding, e.InsecureHostKey, e.NFS)
	if err != nil {
		return fmt.Errorf("failed to create endpoint: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get endpoint ID: %w", err)
	}

	e.ID = id
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	return nil
}

func (r *Repository) GetEndpoint(id int64) (*models.Endpoint, error) {
	e, err := scanEndpoint(r.db.QueryRow("SELECT "+endpointColumns+" FROM sites WHERE id = ?", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("endpoint %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get endpoint: %w", err)
	}
	return e, nil
}

func (r *Repository) GetEndpointByName(name string) (*models.Endpoint, error) {
	e, err := scanEndpoint(r.db.QueryRow("SELECT "+endpointColumns+" FROM sites WHERE name = ?", name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("endpoint %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get endpoint: %w", err)
	}
	return e, nil
}

func (r *Repository) ListEndpoints() ([]*models.Endpoint, error) {
	rows, err := r.db.Query("SELECT " + endpointColumns + " FROM sites ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query endpoints: %w", err)
	}
	defer rows.Close()

	var endpoints []*models.Endpoint
	for rows.Next() {
		e, err := scanEndpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan endpoint: %w", err)
		}
		endpoints = append(endpoints, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating endpoints: %w", err)
	}
	return endpoints, nil
}

func (r *Repository) UpdateEndpoint(e *models.Endpoint) error {
	_, err := r.db.Exec(`
		UPDATE sites SET
			name = ?, protocol = ?, host = ?, port = ?, username = ?, password_encrypted = ?,
			remote_path = ?, transfer_type = ?, encoding = ?, insecure_host_key = ?,
			nfs_options = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		e.Name, e.Protocol, e.Host, e.Port, e.Username, e.PasswordEncrypted,
		e.RemotePath, e.TransferMode, e.Encoding, e.InsecureHostKey, e.NFS, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update endpoint: %w", err)
	}
	return nil
}

func (r *Repository) DeleteEndpoint(id int64) error {
	if _, err := r.db.Exec("DELETE FROM sites WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete endpoint: %w", err)
	}
	return nil
}

// Group operations

const groupColumns = `id, name, description, folder_name, enable_date_organization,
	date_folder_format, execution_order, is_active, created_at, updated_at`

func scanGroup(s scanner) (*models.JobGroup, error) {
	var g models.JobGroup
	err := s.Scan(&g.ID, &g.Name, &g.Description, &g.FolderName, &g.EnableDateOrganization,
		&g.DateFolderFormat, &g.ExecutionOrder, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *Repository) CreateGroup(g *models.JobGroup) error {
	if g.DateFolderFormat == "" {
		g.DateFolderFormat = "YYYY-MM"
	}

	result, err := r.db.Exec(`
		INSERT INTO job_groups (
			name, description, folder_name, enable_date_organization,
			date_folder_format, execution_order, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.Name, g.Description, g.FolderName, g.EnableDateOrganization,
		g.DateFolderFormat, g.ExecutionOrder, g.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get group ID: %w", err)
	}

	g.ID = id
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	return nil
}

func (r *Repository) GetGroup(id int64) (*models.JobGroup, error) {
	g, err := scanGroup(r.db.QueryRow("SELECT "+groupColumns+" FROM job_groups WHERE id = ?", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("group %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

func (r *Repository) GetGroupByName(name string) (*models.JobGroup, error) {
	g, err := scanGroup(r.db.QueryRow("SELECT "+groupColumns+" FROM job_groups WHERE name = ?", name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("group %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

// ListGroups returns groups in execution order.
func (r *Repository) ListGroups() ([]*models.JobGroup, error) {
	rows, err := r.db.Query("SELECT " + groupColumns + " FROM job_groups ORDER BY execution_order, name")
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.JobGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}
	return groups, nil
}

func (r *Repository) UpdateGroup(g *models.JobGroup) error {
	_, err := r.db.Exec(`
		UPDATE job_groups SET
			name = ?, description = ?, folder_name = ?, enable_date_organization = ?,
			date_folder_format = ?, execution_order = ?, is_active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		g.Name, g.Description, g.FolderName, g.EnableDateOrganization,
		g.DateFolderFormat, g.ExecutionOrder, g.IsActive, g.ID)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

func (r *Repository) DeleteGroup(id int64) error {
	if _, err := r.db.Exec("DELETE FROM job_groups WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

func (r *Repository) GetGroupStats(groupID int64) (*models.GroupStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'running' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)
		FROM jobs WHERE job_group_id = ?
	`

	stats := models.GroupStats{GroupID: groupID}
	err := r.db.QueryRow(query, groupID).Scan(
		&stats.TotalJobs, &stats.PendingJobs, &stats.RunningJobs,
		&stats.CompletedJobs, &stats.FailedJobs)
	if err != nil {
		return nil, fmt.Errorf("failed to get group stats: %w", err)
	}

	// MAX over a DATETIME column comes back as text, so read the newest row instead
	var lastRun sql.NullTime
	err = r.db.QueryRow(`SELECT last_run FROM jobs WHERE job_group_id = ? AND last_run IS NOT NULL
		ORDER BY last_run DESC LIMIT 1`, groupID).Scan(&lastRun)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get group last run: %w", err)
	}
	stats.LastRun = timePtr(lastRun)

	return &stats, nil
}

// Job operations

const jobColumns = `id, name, site_id, job_type, schedule_type, schedule_datetime, cron_expression,
	download_all, use_date_range, date_from, date_to, use_rolling_date_range, rolling_pattern,
	date_offset_from, date_offset_to, filename_date_pattern, local_path,
	enable_recursive_download, preserve_folder_structure, rename_duplicates, use_date_folders,
	date_folder_format, job_group_id, job_folder_name, target_site_id, upload_source,
	status, last_run, next_run, error_message, created_at, updated_at`

func scanJob(s scanner) (*models.JobSpec, error) {
	var (
		j                                          models.JobSpec
		scheduleAt, dateFrom, dateTo               sql.NullTime
		lastRun, nextRun                           sql.NullTime
		cron, rolling, filenamePattern, dateFormat sql.NullString
		jobFolder, uploadSource, errorMessage      sql.NullString
		offsetFrom, offsetTo, groupID, targetID    sql.NullInt64
	)

	err := s.Scan(&j.ID, &j.Name, &j.EndpointID, &j.Direction, &j.Schedule, &scheduleAt, &cron,
		&j.DownloadAll, &j.UseDateRange, &dateFrom, &dateTo, &j.UseRollingDateRange, &rolling,
		&offsetFrom, &offsetTo, &filenamePattern, &j.LocalPath,
		&j.Recursive, &j.PreserveStructure, &j.RenameDuplicates, &j.UseDateFolders,
		&dateFormat, &groupID, &jobFolder, &targetID, &uploadSource,
		&j.Status, &lastRun, &nextRun, &errorMessage, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}

	j.ScheduleAt = timePtr(scheduleAt)
	j.CronExpression = cron.String
	j.DateFrom = timePtr(dateFrom)
	j.DateTo = timePtr(dateTo)
	j.RollingPattern = rolling.String
	j.DateOffsetFrom = intPtr(offsetFrom)
	j.DateOffsetTo = intPtr(offsetTo)
	j.FilenameDatePattern = filenamePattern.String
	j.DateFolderFormat = dateFormat.String
	j.GroupID = int64Ptr(groupID)
	j.JobFolderName = jobFolder.String
	j.TargetEndpointID = int64Ptr(targetID)
	j.UploadSource = models.UploadSource(uploadSource.String)
	j.LastRun = timePtr(lastRun)
	j.NextRun = timePtr(nextRun)
	j.ErrorMessage = errorMessage.String

	return &j, nil
}

func (r *Repository) CreateJob(j *models.JobSpec) error {
	if j.Status == "" {
		j.Status = models.JobStatusPending
	}
	if j.UploadSource == "" {
		j.UploadSource = models.UploadSourceRelay
	}

	result, err := r.db.Exec(`
		INSERT INTO jobs (
			name, site_id, job_type, schedule_type, schedule_datetime, cron_expression,
			download_all, use_date_range, date_from, date_to, use_rolling_date_range, rolling_pattern,
			date_offset_from, date_offset_to, filename_date_pattern, local_path,
			enable_recursive_download, preserve_folder_structure, rename_duplicates, use_date_folders,
			date_folder_format, job_group_id, job_folder_name, target_site_id, upload_source, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.Name, j.EndpointID, j.Direction, j.Schedule, utc(j.ScheduleAt), nullString(j.CronExpression),
		j.DownloadAll, j.UseDateRange, utc(j.DateFrom), utc(j.DateTo), j.UseRollingDateRange, nullString(j.RollingPattern),
		j.DateOffsetFrom, j.DateOffsetTo, nullString(j.FilenameDatePattern), j.LocalPath,
		j.Recursive, j.PreserveStructure, j.RenameDuplicates, j.UseDateFolders,
		nullString(j.DateFolderFormat), j.GroupID, nullString(j.JobFolderName), j.TargetEndpointID, j.UploadSource, j.Status)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get job ID: %w", err)
	}

	j.ID = id
	j.CreatedAt = time.Now()
	j.UpdatedAt = j.CreatedAt
	return nil
}

func (r *Repository) GetJob(id int64) (*models.JobSpec, error) {
	j, err := scanJob(r.db.QueryRow("SELECT "+jobColumns+" FROM jobs WHERE id = ?", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("job %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

func (r *Repository) GetJobByName(name string) (*models.JobSpec, error) {
	j, err := scanJob(r.db.QueryRow("SELECT "+jobColumns+" FROM jobs WHERE name = ?", name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("job %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

var jobSortColumns = map[string]bool{
	"id": true, "name": true, "status": true, "created_at": true,
	"updated_at": true, "last_run": true, "next_run": true,
}

func (r *Repository) GetJobs(filter models.JobFilter) ([]*models.JobSpec, error) {
	query := "SELECT " + jobColumns + " FROM jobs"

	var conditions []string
	var args []interface{}

	if len(filter.Status) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.Status)), ",")
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", placeholders))
		for _, status := range filter.Status {
			args = append(args, status)
		}
	}

	if filter.GroupID != nil {
		conditions = append(conditions, "job_group_id = ?")
		args = append(args, *filter.GroupID)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "created_at"
	if jobSortColumns[filter.SortBy] {
		sortBy = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id %s", sortBy, sortOrder, sortOrder)

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	return r.queryJobs(query, args...)
}

func (r *Repository) queryJobs(query string, args ...interface{}) ([]*models.JobSpec, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.JobSpec
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}
	return jobs, nil
}

// ListJobsByStatus returns the jobs in any of the given states, oldest first.
func (r *Repository) ListJobsByStatus(statuses ...models.JobStatus) ([]*models.JobSpec, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	return r.GetJobs(models.JobFilter{Status: statuses, SortBy: "id", SortOrder: "asc"})
}

// ListGroupJobs returns the jobs of a group ordered by name, which is the
// order a group run executes them in.
func (r *Repository) ListGroupJobs(groupID int64) ([]*models.JobSpec, error) {
	return r.queryJobs("SELECT "+jobColumns+" FROM jobs WHERE job_group_id = ? ORDER BY name", groupID)
}

// UpdateJob rewrites the definition of a job. Run state is left alone.
func (r *Repository) UpdateJob(j *models.JobSpec) error {
	_, err := r.db.Exec(`
		UPDATE jobs SET
			name = ?, site_id = ?, job_type = ?, schedule_type = ?, schedule_datetime = ?, cron_expression = ?,
			download_all = ?, use_date_range = ?, date_from = ?, date_to = ?, use_rolling_date_range = ?,
			rolling_pattern = ?, date_offset_from = ?, date_offset_to = ?, filename_date_pattern = ?,
			local_path = ?, enable_recursive_download = ?, preserve_folder_structure = ?,
			rename_duplicates = ?, use_date_folders = ?, date_folder_format = ?, job_group_id = ?,
			job_folder_name = ?, target_site_id = ?, upload_source = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		j.Name, j.EndpointID, j.Direction, j.Schedule, utc(j.ScheduleAt), nullString(j.CronExpression),
		j.DownloadAll, j.UseDateRange, utc(j.DateFrom), utc(j.DateTo), j.UseRollingDateRange,
		nullString(j.RollingPattern), j.DateOffsetFrom, j.DateOffsetTo, nullString(j.FilenameDatePattern),
		j.LocalPath, j.Recursive, j.PreserveStructure,
		j.RenameDuplicates, j.UseDateFolders, nullString(j.DateFolderFormat), j.GroupID,
		nullString(j.JobFolderName), j.TargetEndpointID, j.EffectiveUploadSource(), j.ID)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

// UpdateJobStatus persists the run state of a job.
func (r *Repository) UpdateJobStatus(j *models.JobSpec) error {
	result, err := r.db.Exec(`
		UPDATE jobs SET status = ?, last_run = ?, error_message = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		j.Status, utc(j.LastRun), nullString(j.ErrorMessage), j.ID)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("job %d: %w", j.ID, ErrNotFound)
	}
	return nil
}

// UpdateJobNextRun records when the scheduler will fire the job next. A
// nil time clears it.
func (r *Repository) UpdateJobNextRun(id int64, next *time.Time) error {
	if _, err := r.db.Exec("UPDATE jobs SET next_run = ? WHERE id = ?", utc(next), id); err != nil {
		return fmt.Errorf("failed to update job next run: %w", err)
	}
	return nil
}

func (r *Repository) DeleteJob(id int64) error {
	if _, err := r.db.Exec("DELETE FROM jobs WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

func (r *Repository) GetJobSummary() (*models.JobSummary, error) {
	query := `
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) as pending,
			COALESCE(SUM(CASE WHEN status = 'running' THEN 1 ELSE 0 END), 0) as running,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) as completed,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) as failed
		FROM jobs
	`

	var summary models.JobSummary
	err := r.db.QueryRow(query).Scan(
		&summary.TotalJobs, &summary.PendingJobs, &summary.RunningJobs,
		&summary.CompletedJobs, &summary.FailedJobs)
	if err != nil {
		return nil, fmt.Errorf("failed to get job summary: %w", err)
	}

	return &summary, nil
}

// Job log operations

func (r *Repository) CreateJobLog(l *models.JobLog) error {
	result, err := r.db.Exec(`
		INSERT INTO job_logs (
			job_id, run_id, start_time, end_time, status, files_processed,
			bytes_transferred, error_message, log_content
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.JobID, l.RunID, l.StartTime.UTC(), utc(l.EndTime), l.Status, l.FilesProcessed,
		l.BytesTransferred, nullString(l.ErrorMessage), nullString(l.LogContent))
	if err != nil {
		return fmt.Errorf("failed to create job log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get job log ID: %w", err)
	}
	l.ID = id
	return nil
}

// GetJobLogs returns the newest logs of a job first. A limit of zero
// returns all of them.
func (r *Repository) GetJobLogs(jobID int64, limit int) ([]*models.JobLog, error) {
	query := `
		SELECT id, job_id, run_id, start_time, end_time, status, files_processed,
			   bytes_transferred, error_message, log_content
		FROM job_logs WHERE job_id = ?
		ORDER BY start_time DESC, id DESC
	`
	args := []interface{}{jobID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query job logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.JobLog
	for rows.Next() {
		var l models.JobLog
		var endTime sql.NullTime
		var errorMessage, content sql.NullString

		err := rows.Scan(&l.ID, &l.JobID, &l.RunID, &l.StartTime, &endTime, &l.Status,
			&l.FilesProcessed, &l.BytesTransferred, &errorMessage, &content)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job log: %w", err)
		}
		l.EndTime = timePtr(endTime)
		l.ErrorMessage = errorMessage.String
		l.LogContent = content.String

		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job logs: %w", err)
	}
	return logs, nil
}

// DeleteLogsBefore removes logs of runs started before cutoff and returns
// how many were deleted.
func (r *Repository) DeleteLogsBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM job_logs WHERE start_time < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old job logs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted job logs: %w", err)
	}
	return n, nil
}
