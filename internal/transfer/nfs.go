package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"ferryman/internal/models"

	"github.com/spf13/afero"
)

// unmountTimeout bounds Disconnect, which has no caller context.
const unmountTimeout = 30 * time.Second

// nfsClient works on a locally mounted export. Remote paths are resolved
// below the mount point with their leading slash removed.
type nfsClient struct {
	endpoint *models.Endpoint
	mounter  Mounter
	logger   *slog.Logger

	mu         sync.Mutex
	fixedRoot  afero.Fs
	fs         afero.Fs
	mountPoint string
}

func newNFSClient(endpoint *models.Endpoint, mounter Mounter, root afero.Fs, logger *slog.Logger) *nfsClient {
	return &nfsClient{
		endpoint:  endpoint,
		mounter:   mounter,
		fixedRoot: root,
		logger:    logger,
	}
}

func (c *nfsClient) Protocol() models.Protocol {
	return models.ProtocolNFS
}

// Drive describes the export as a mountable network drive.
func (c *nfsClient) Drive() models.NetworkDrive {
	export := c.endpoint.NFS.ExportPath
	if !strings.HasPrefix(export, "/") {
		export = "/" + export
	}
	return models.NetworkDrive{
		Name:   c.endpoint.Name,
		Type:   models.DriveTypeNFS,
		Server: fmt.Sprintf("%s:%s", c.endpoint.Host, export),
		NFS:    c.endpoint.NFS,
	}
}

func (c *nfsClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fs != nil {
		return nil
	}
	if c.fixedRoot != nil {
		c.fs = c.fixedRoot
		return nil
	}

	mountPoint, err := c.mounter.Mount(ctx, c.Drive())
	if err != nil {
		return connectionError("mount "+c.Drive().Server, err)
	}
	c.mountPoint = mountPoint
	c.fs = afero.NewBasePathFs(afero.NewOsFs(), mountPoint)
	c.logger.Info("nfs export mounted", "server", c.Drive().Server, "mount_point", mountPoint)
	return nil
}

func (c *nfsClient) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fs = nil
	if c.mountPoint == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), unmountTimeout)
	defer cancel()

	mountPoint := c.mountPoint
	c.mountPoint = ""
	if err := c.mounter.Unmount(ctx, mountPoint); err != nil {
		return fmt.Errorf("unmount %s: %w", mountPoint, err)
	}
	return nil
}

func (c *nfsClient) root() (afero.Fs, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fs == nil {
		return nil, errors.New("not connected")
	}
	return c.fs, nil
}

// clean strips the leading slash so the path resolves below the root.
func clean(p string) string {
	p = strings.TrimLeft(path.Clean("/"+p), "/")
	if p == "" {
		return "."
	}
	return p
}

func (c *nfsClient) List(ctx context.Context, dir string) ([]models.DirectoryEntry, error) {
	fsys, err := c.root()
	if err != nil {
		return nil, listError(dir, err)
	}

	infos, err := afero.ReadDir(fsys, clean(dir))
	if err != nil {
		return nil, listError(dir, err)
	}

	entries := make([]models.DirectoryEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, entryFromFileInfo(info))
	}
	return entries, nil
}

func (c *nfsClient) Download(ctx context.Context, remotePath, localPath string) (int64, error) {
	fsys, err := c.root()
	if err != nil {
		return 0, transferError("download", remotePath, err)
	}

	src, err := fsys.Open(clean(remotePath))
	if err != nil {
		return 0, transferError("download", remotePath, err)
	}
	defer src.Close()

	n, err := Receive(localPath, func(w io.Writer) error {
		_, err := io.Copy(w, src)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrEmptyFile) || isLocal(err) {
			return 0, err
		}
		return 0, transferError("download", remotePath, err)
	}
	return n, nil
}

func (c *nfsClient) Upload(ctx context.Context, localPath, remotePath string) (int64, error) {
	src, size, err := openLocal(localPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	fsys, err := c.root()
	if err != nil {
		return 0, transferError("upload", remotePath, err)
	}

	target := clean(remotePath)
	if err := fsys.MkdirAll(path.Dir(target), 0755); err != nil {
		return 0, transferError("upload", remotePath, err)
	}

	dst, err := fsys.Create(target)
	if err != nil {
		return 0, transferError("upload", remotePath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return 0, transferError("upload", remotePath, err)
	}
	if err := dst.Close(); err != nil {
		return 0, transferError("upload", remotePath, err)
	}
	return size, nil
}
