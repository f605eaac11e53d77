// Package transfer moves files between remote endpoints and the local disk.
package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ferryman/internal/models"

	"github.com/spf13/afero"
)

const DefaultConnectTimeout = 30 * time.Second

// Client is the capability set shared by every protocol.
type Client interface {
	Protocol() models.Protocol
	Connect(ctx context.Context) error
	// Disconnect is idempotent.
	Disconnect() error
	List(ctx context.Context, path string) ([]models.DirectoryEntry, error)
	Download(ctx context.Context, remotePath, localPath string) (int64, error)
	Upload(ctx context.Context, localPath, remotePath string) (int64, error)
}

// Reconnector is implemented by clients that can drop and re-establish
// their session in place.
type Reconnector interface {
	Reconnect(ctx context.Context) error
}

// Mounter is the part of the mount manager the NFS client needs.
type Mounter interface {
	Mount(ctx context.Context, drive models.NetworkDrive) (string, error)
	Unmount(ctx context.Context, path string) error
}

type Options struct {
	ConnectTimeout time.Duration
	KnownHostsFile string
	Mounter        Mounter
	// NFSRoot replaces the mounted filesystem; used when the export is
	// already reachable locally.
	NFSRoot afero.Fs
	Logger  *slog.Logger
}

// New returns the client implementation for the endpoint's protocol.
func New(endpoint *models.Endpoint, password string, opts Options) (Client, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger.With("endpoint", endpoint.Name, "protocol", endpoint.Protocol)

	switch endpoint.Protocol {
	case models.ProtocolFTP:
		return newFTPClient(endpoint, password, opts.ConnectTimeout, logger)
	case models.ProtocolSFTP:
		return newSFTPClient(endpoint, password, opts.ConnectTimeout, opts.KnownHostsFile, logger), nil
	case models.ProtocolNFS:
		if endpoint.NFS == nil {
			return nil, fmt.Errorf("endpoint %q has no nfs options", endpoint.Name)
		}
		if opts.Mounter == nil && opts.NFSRoot == nil {
			return nil, fmt.Errorf("endpoint %q: nfs needs a mount manager", endpoint.Name)
		}
		return newNFSClient(endpoint, opts.Mounter, opts.NFSRoot, logger), nil
	}
	return nil, fmt.Errorf("unsupported protocol: %s", endpoint.Protocol)
}

// Receive streams a download into a hidden part file next to localPath
// and renames it into place once it holds data. A failed or empty download
// removes only the part file, so an existing localPath is left untouched.
func Receive(localPath string, fill func(w io.Writer) error) (int64, error) {
	f, err := os.CreateTemp(filepath.Dir(localPath), "."+filepath.Base(localPath)+".part-*")
	if err != nil {
		return 0, &LocalError{Path: localPath, Err: err}
	}
	part := f.Name()

	cw := &countingWriter{w: f, path: localPath}
	fillErr := fill(cw)
	if fillErr == nil {
		fillErr = f.Chmod(0644)
		if fillErr != nil {
			fillErr = &LocalError{Path: localPath, Err: fillErr}
		}
	}
	closeErr := f.Close()

	switch {
	case fillErr != nil:
		os.Remove(part)
		return 0, fillErr
	case closeErr != nil:
		os.Remove(part)
		return 0, &LocalError{Path: localPath, Err: closeErr}
	case cw.n == 0:
		os.Remove(part)
		return 0, ErrEmptyFile
	}

	if err := os.Rename(part, localPath); err != nil {
		os.Remove(part)
		return 0, &LocalError{Path: localPath, Err: err}
	}
	return cw.n, nil
}

// countingWriter tags write failures as local so they are not mistaken
// for a dropped connection.
type countingWriter struct {
	w    io.Writer
	path string
	n    int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil {
		return n, &LocalError{Path: c.path, Err: err}
	}
	return n, nil
}

// openLocal opens an upload source and returns its size.
func openLocal(localPath string) (*os.File, int64, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, 0, &LocalError{Path: localPath, Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, &LocalError{Path: localPath, Err: err}
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, &LocalError{Path: localPath, Err: fmt.Errorf("is a directory")}
	}
	return f, info.Size(), nil
}

func ensureLocalDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &LocalError{Path: filepath.Clean(dir), Err: err}
	}
	return nil
}
