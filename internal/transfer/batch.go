package transfer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"ferryman/internal/models"
	"ferryman/internal/sanitizer"
	"ferryman/internal/selection"

	"github.com/google/uuid"
)

const (
	DefaultReconnectEvery = 50
	DefaultRetries        = 1
)

// Filter narrows a directory listing.
type Filter interface {
	Select(protocol models.Protocol, entries []models.DirectoryEntry) []models.DirectoryEntry
}

// Batch runs whole-job operations over one client. Every operation
// connects, transfers and disconnects; a failed file is logged and
// skipped, while a failed connect or top level listing fails the batch.
type Batch struct {
	Client Client
	RunID  uuid.UUID

	// Filter applies to every listing of DownloadFiles and DownloadFolder.
	Filter Filter
	// Recursive makes DownloadFiles, DownloadAll and DownloadByDateRange
	// descend into subdirectories.
	Recursive         bool
	PreserveStructure bool
	RenameDuplicates  bool
	Reserver          *Reserver

	ReconnectEvery int
	Retries        int
	Logger         *slog.Logger
}

// tally accumulates the outcome of a traversal.
type tally struct {
	files          int
	bytes          int64
	log            []string
	sinceReconnect int
	// written holds the size of every local file this run produced.
	written map[string]int64
}

// record counts a finished download. Writing a path this run already
// wrote replaces that file, so its earlier count and bytes are dropped.
func (t *tally) record(localPath string, size int64) (replaced bool) {
	if t.written == nil {
		t.written = make(map[string]int64)
	}
	if prev, ok := t.written[localPath]; ok {
		t.files--
		t.bytes -= prev
		replaced = true
	}
	t.written[localPath] = size
	t.files++
	t.bytes += size
	return replaced
}

func (t *tally) logf(format string, args ...interface{}) {
	t.log = append(t.log, fmt.Sprintf(format, args...))
}

// DownloadFiles fetches the files of remoteDir selected by the filter.
func (b *Batch) DownloadFiles(ctx context.Context, remoteDir, localDir string) *models.TransferResult {
	return b.download(ctx, remoteDir, localDir, b.Recursive, b.Filter)
}

// DownloadFolder walks the whole remote tree.
func (b *Batch) DownloadFolder(ctx context.Context, remoteDir, localDir string) *models.TransferResult {
	return b.download(ctx, remoteDir, localDir, true, b.Filter)
}

// DownloadAll ignores the filter.
func (b *Batch) DownloadAll(ctx context.Context, remoteDir, localDir string) *models.TransferResult {
	return b.download(ctx, remoteDir, localDir, b.Recursive, nil)
}

// DownloadByDateRange keeps files modified inside [from, to].
func (b *Batch) DownloadByDateRange(ctx context.Context, remoteDir, localDir string, from, to time.Time) *models.TransferResult {
	return b.download(ctx, remoteDir, localDir, b.Recursive, modifiedRange{from: from, to: to})
}

// DownloadSelected fetches the entries kept by filter, e.g. a filename date
// pattern, instead of the batch filter.
func (b *Batch) DownloadSelected(ctx context.Context, remoteDir, localDir string, filter Filter) *models.TransferResult {
	return b.download(ctx, remoteDir, localDir, b.Recursive, filter)
}

type modifiedRange struct {
	from, to time.Time
}

func (m modifiedRange) Select(protocol models.Protocol, entries []models.DirectoryEntry) []models.DirectoryEntry {
	return selection.FilterByModified(protocol, entries, m.from, m.to)
}

func (b *Batch) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

func (b *Batch) download(ctx context.Context, remoteDir, localDir string, recursive bool, filter Filter) *models.TransferResult {
	result := models.NewTransferResult(b.RunID)
	defer result.Finish()

	if err := b.Client.Connect(ctx); err != nil {
		result.Logf("Connection failed: %v", err)
		result.Fail(err)
		return result
	}
	defer b.disconnect()

	entries, err := b.Client.List(ctx, remoteDir)
	if err != nil {
		result.Logf("Failed to list %s: %v", remoteDir, err)
		result.Fail(err)
		return result
	}

	if err := ensureLocalDir(localDir); err != nil {
		result.Fail(err)
		return result
	}

	w := walker{batch: b, localRoot: localDir, recursive: recursive, filter: filter}
	acc := &tally{}
	w.walk(ctx, remoteDir, "", entries, acc)

	result.FilesProcessed = acc.files
	result.BytesTransferred = acc.bytes
	result.Log = append(result.Log, acc.log...)

	b.logger().Info("download batch finished",
		"run_id", b.RunID,
		"remote", remoteDir,
		"files", acc.files,
		"bytes", acc.bytes)
	return result
}

func (b *Batch) disconnect() {
	if err := b.Client.Disconnect(); err != nil {
		b.logger().Warn("disconnect failed", "error", err)
	}
}

type walker struct {
	batch     *Batch
	localRoot string
	recursive bool
	filter    Filter
}

// walk visits entries depth first in listing order. relDir is the
// slash separated path of remoteDir below the batch root.
func (w *walker) walk(ctx context.Context, remoteDir, relDir string, entries []models.DirectoryEntry, acc *tally) {
	if w.filter != nil {
		entries = w.filter.Select(w.batch.Client.Protocol(), entries)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			acc.logf("Stopped before %s: %v", path.Join(relDir, entry.Name), ctx.Err())
			return
		}

		remotePath := path.Join(remoteDir, entry.Name)
		relPath := path.Join(relDir, entry.Name)

		if entry.IsDir() {
			if !w.recursive {
				continue
			}
			children, err := w.batch.Client.List(ctx, remotePath)
			if err != nil {
				acc.logf("Failed to list: %s - %v", relPath, err)
				continue
			}
			w.walk(ctx, remotePath, relPath, children, acc)
			continue
		}

		targetDir := w.localRoot
		if w.batch.PreserveStructure && relDir != "" {
			dir, err := sanitizer.SafeJoin(w.localRoot, relDir)
			if err != nil {
				acc.logf("Failed to download: %s - %v", relPath, err)
				continue
			}
			targetDir = dir
		}
		w.fetch(ctx, remotePath, targetDir, entry.Name, relPath, acc)
	}
}

func (w *walker) fetch(ctx context.Context, remotePath, targetDir, name, display string, acc *tally) {
	b := w.batch

	if err := ensureLocalDir(targetDir); err != nil {
		acc.logf("Failed to download: %s - %s", display, Reason(err))
		return
	}

	localPath := filepath.Join(targetDir, name)
	if b.RenameDuplicates && b.Reserver != nil {
		localPath = b.Reserver.Claim(b.RunID, targetDir, name)
	}

	for attempt := 0; ; attempt++ {
		size, err := b.Client.Download(ctx, remotePath, localPath)
		if err == nil {
			size, err = verifyLocal(localPath)
		}
		if err == nil {
			if acc.record(localPath, size) {
				acc.logf("Downloaded: %s, overwriting %s from earlier in this run", display, filepath.Base(localPath))
			} else if filepath.Base(localPath) != name {
				acc.logf("Downloaded: %s as %s", display, filepath.Base(localPath))
			} else {
				acc.logf("Downloaded: %s", display)
			}
			break
		}

		if IsDropped(err) && attempt < b.retries() {
			if rerr := b.reconnect(ctx); rerr == nil {
				acc.logf("Retrying %s after reconnect", display)
				acc.sinceReconnect = 0
				continue
			}
		}
		acc.logf("Failed to download: %s - %s", display, Reason(err))
		break
	}

	acc.sinceReconnect++
	if every := b.ReconnectEvery; every > 0 && acc.sinceReconnect >= every {
		if err := b.reconnect(ctx); err != nil {
			acc.logf("Periodic reconnect failed: %v", err)
		}
		acc.sinceReconnect = 0
	}
}

func (b *Batch) retries() int {
	if b.Retries < 0 {
		return 0
	}
	return b.Retries
}

// reconnect is a no-op for clients without session state.
func (b *Batch) reconnect(ctx context.Context) error {
	rc, ok := b.Client.(Reconnector)
	if !ok {
		return nil
	}
	if err := rc.Reconnect(ctx); err != nil {
		b.logger().Warn("reconnect failed", "run_id", b.RunID, "error", err)
		return err
	}
	return nil
}

// verifyLocal confirms a downloaded file is present and not empty. Clients
// stage downloads through Receive, so nothing is removed here.
func verifyLocal(localPath string) (int64, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return 0, &LocalError{Path: localPath, Err: err}
	}
	if info.Size() == 0 {
		return 0, ErrEmptyFile
	}
	return info.Size(), nil
}

// UploadTree sends every regular file under localRoot to remoteRoot. With
// flatten set only file names are kept; otherwise the relative path is
// mirrored on the remote side.
func (b *Batch) UploadTree(ctx context.Context, localRoot, remoteRoot string, flatten bool) *models.TransferResult {
	result := models.NewTransferResult(b.RunID)
	defer result.Finish()

	if err := b.Client.Connect(ctx); err != nil {
		result.Logf("Connection failed: %v", err)
		result.Fail(err)
		return result
	}
	defer b.disconnect()

	acc := &tally{}
	walkErr := filepath.WalkDir(localRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			acc.logf("Failed to read: %s - %v", p, err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(localRoot, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		remotePath := path.Join(remoteRoot, rel)
		if flatten {
			remotePath = path.Join(remoteRoot, d.Name())
		}

		b.upload(ctx, p, remotePath, rel, acc)
		return nil
	})
	if walkErr != nil {
		acc.logf("Stopped upload: %v", walkErr)
	}

	result.FilesProcessed = acc.files
	result.BytesTransferred = acc.bytes
	result.Log = append(result.Log, acc.log...)
	return result
}

func (b *Batch) upload(ctx context.Context, localPath, remotePath, display string, acc *tally) {
	for attempt := 0; ; attempt++ {
		size, err := b.Client.Upload(ctx, localPath, remotePath)
		if err == nil {
			acc.files++
			acc.bytes += size
			acc.logf("Uploaded: %s", display)
			break
		}
		if IsDropped(err) && attempt < b.retries() && b.reconnect(ctx) == nil {
			acc.logf("Retrying %s after reconnect", display)
			continue
		}
		acc.logf("Failed to upload: %s - %s", display, Reason(err))
		break
	}

	acc.sinceReconnect++
	if every := b.ReconnectEvery; every > 0 && acc.sinceReconnect >= every {
		if err := b.reconnect(ctx); err != nil {
			acc.logf("Periodic reconnect failed: %v", err)
		}
		acc.sinceReconnect = 0
	}
}
