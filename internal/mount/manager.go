// Package mount attaches CIFS and NFS shares through the host's mount
// tooling and answers whether a directory is currently a mount point.
package mount

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"ferryman/internal/config"
	"ferryman/internal/models"
	"ferryman/internal/sanitizer"

	"github.com/jellydator/ttlcache/v3"
	"github.com/kballard/go-shellquote"
	"golang.org/x/sys/unix"
)

// Decrypter opens stored share passwords.
type Decrypter interface {
	Decrypt(ciphertext string) (string, error)
}

// commandRunner executes one external command and returns its combined output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

type Manager struct {
	cfg    config.MountsConfig
	creds  Decrypter
	logger *slog.Logger
	run    commandRunner
	prefix []string

	status *ttlcache.Cache[string, bool]

	mu sync.Mutex
	// temp holds mount points created by the manager; they are removed
	// again on unmount.
	temp map[string]bool

	uid, gid int
}

func New(cfg config.MountsConfig, creds Decrypter, logger *slog.Logger) (*Manager, error) {
	prefix, err := shellquote.Split(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("parse mounts.command: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultMountTimeout
	}
	if cfg.StatusCacheTTL <= 0 {
		cfg.StatusCacheTTL = config.DefaultStatusCacheTTL
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		cfg:    cfg,
		creds:  creds,
		logger: logger,
		run:    execRunner,
		prefix: prefix,
		status: ttlcache.New(ttlcache.WithTTL[string, bool](cfg.StatusCacheTTL)),
		temp:   make(map[string]bool),
		uid:    os.Getuid(),
		gid:    os.Getgid(),
	}, nil
}

// Drives returns the configured drives.
func (m *Manager) Drives() []models.NetworkDrive {
	return append([]models.NetworkDrive(nil), m.cfg.Drives...)
}

// DriveFor returns the configured drive whose mount point holds path. The
// most specific mount point wins.
func (m *Manager) DriveFor(path string) (models.NetworkDrive, bool) {
	var (
		best  models.NetworkDrive
		found bool
	)
	for _, d := range m.cfg.Drives {
		if d.Contains(path) && (!found || len(d.MountPoint) > len(best.MountPoint)) {
			best, found = d, true
		}
	}
	return best, found
}

func (m *Manager) command(args ...string) (string, []string) {
	full := append(append([]string(nil), m.prefix...), args...)
	return full[0], full[1:]
}

// Mount attaches drive and returns its mount point. A drive without a
// mount point gets a fresh directory under the temp dir.
func (m *Manager) Mount(ctx context.Context, drive models.NetworkDrive) (string, error) {
	if err := drive.Validate(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	mountPoint, temporary, err := m.prepareMountPoint(drive)
	if err != nil {
		return "", err
	}
	if !temporary && m.IsMounted(mountPoint) {
		return mountPoint, nil
	}

	opts, cleanup, err := m.options(drive)
	if err != nil {
		m.discard(mountPoint, temporary)
		return "", err
	}
	defer cleanup()

	name, args := m.command("mount", "-t", string(drive.Type), "-o", opts, drive.Server, mountPoint)
	m.logger.Info("mounting network drive",
		"drive", drive.Name,
		"server", drive.Server,
		"mount_point", mountPoint,
		"command", shellquote.Join(append([]string{name}, args...)...))

	out, err := m.run(ctx, name, args...)
	if err != nil {
		m.discard(mountPoint, temporary)
		return "", fmt.Errorf("mount %s on %s: %w: %s", drive.Server, mountPoint, err, strings.TrimSpace(string(out)))
	}

	if temporary {
		m.mu.Lock()
		m.temp[mountPoint] = true
		m.mu.Unlock()
	}
	m.status.Set(mountPoint, true, ttlcache.DefaultTTL)
	return mountPoint, nil
}

func (m *Manager) prepareMountPoint(drive models.NetworkDrive) (string, bool, error) {
	if drive.MountPoint != "" {
		if err := os.MkdirAll(drive.MountPoint, 0755); err != nil {
			return "", false, fmt.Errorf("create mount point %s: %w", drive.MountPoint, err)
		}
		return drive.MountPoint, false, nil
	}

	if err := os.MkdirAll(m.cfg.TempDir, 0755); err != nil {
		return "", false, fmt.Errorf("create mount temp dir: %w", err)
	}
	label, _ := sanitizer.SanitizeSegment(drive.Name)
	label = strings.ReplaceAll(label, " ", "_")
	if label == "" {
		label = string(drive.Type)
	}
	dir, err := os.MkdirTemp(m.cfg.TempDir, "mnt_"+label+"_")
	if err != nil {
		return "", false, fmt.Errorf("create temporary mount point: %w", err)
	}
	return dir, true, nil
}

func (m *Manager) discard(mountPoint string, temporary bool) {
	if temporary {
		os.Remove(mountPoint)
	}
}

// options builds the -o argument. CIFS credentials go through a private
// file that cleanup removes.
func (m *Manager) options(drive models.NetworkDrive) (string, func(), error) {
	noop := func() {}

	switch drive.Type {
	case models.DriveTypeNFS:
		return joinOptions(NFSOptions(drive.NFS), drive.Options), noop, nil

	case models.DriveTypeCIFS:
		file, err := m.credentialsFile(drive)
		if err != nil {
			return "", noop, err
		}
		cleanup := func() { os.Remove(file) }
		base := fmt.Sprintf("credentials=%s,uid=%d,gid=%d,iocharset=utf8", file, m.uid, m.gid)
		return joinOptions(base, drive.Options), cleanup, nil
	}
	return "", noop, fmt.Errorf("unsupported drive type: %s", drive.Type)
}

func (m *Manager) credentialsFile(drive models.NetworkDrive) (string, error) {
	password := ""
	if drive.PasswordEncrypted != "" {
		if m.creds == nil {
			return "", fmt.Errorf("drive %q has a password but no credential store is configured", drive.Name)
		}
		p, err := m.creds.Decrypt(drive.PasswordEncrypted)
		if err != nil {
			return "", fmt.Errorf("decrypt password for drive %q: %w", drive.Name, err)
		}
		password = p
	}

	f, err := os.CreateTemp(m.cfg.TempDir, ".cifs-credentials-")
	if err != nil {
		return "", fmt.Errorf("create credentials file: %w", err)
	}
	defer f.Close()

	if err := f.Chmod(0600); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("chmod credentials file: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "username=%s\npassword=%s\n", drive.Username, password)
	if drive.Domain != "" {
		fmt.Fprintf(&b, "domain=%s\n", drive.Domain)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write credentials file: %w", err)
	}
	return f.Name(), nil
}

// NFSOptions renders mount options for an NFS export.
func NFSOptions(opts *models.NfsOptions) string {
	parts := []string{}
	if opts != nil && opts.Version != "" {
		parts = append(parts, "vers="+opts.Version)
	}
	if opts != nil && opts.AuthMethod != "" && opts.AuthMethod != "sys" {
		parts = append(parts, "sec="+opts.AuthMethod)
	}
	parts = append(parts, "rsize=32768", "wsize=32768", "timeo=14", "retrans=2")
	if opts != nil && opts.MountOptions != "" {
		parts = append(parts, opts.MountOptions)
	}
	return strings.Join(parts, ",")
}

func joinOptions(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.Trim(strings.TrimSpace(p), ","); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ",")
}

// Unmount detaches path, forcing it when a plain umount fails.
func (m *Manager) Unmount(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	name, args := m.command("umount", path)
	out, err := m.run(ctx, name, args...)
	if err != nil {
		m.logger.Warn("umount failed, forcing", "path", path, "error", err, "output", strings.TrimSpace(string(out)))
		name, args = m.command("umount", "-f", path)
		if out, ferr := m.run(ctx, name, args...); ferr != nil {
			return fmt.Errorf("umount %s: %w: %s", path, ferr, strings.TrimSpace(string(out)))
		}
	}

	m.status.Delete(path)

	m.mu.Lock()
	temporary := m.temp[path]
	delete(m.temp, path)
	m.mu.Unlock()
	if temporary {
		os.Remove(path)
	}
	m.logger.Info("network drive unmounted", "path", path)
	return nil
}

// IsMounted reports whether path is a mount point, i.e. it lives on a
// different device than its parent. Answers are cached briefly.
func (m *Manager) IsMounted(path string) bool {
	path = filepath.Clean(path)
	if item := m.status.Get(path); item != nil {
		return item.Value()
	}
	mounted := isMountPoint(path)
	m.status.Set(path, mounted, ttlcache.DefaultTTL)
	return mounted
}

func isMountPoint(path string) bool {
	var self, parent unix.Stat_t
	if err := unix.Stat(path, &self); err != nil {
		return false
	}
	if err := unix.Stat(filepath.Dir(path), &parent); err != nil {
		return false
	}
	if self.Dev != parent.Dev {
		return true
	}
	// the root of a filesystem is its own parent
	return self.Ino == parent.Ino
}

// CheckPermissions verifies the process can list and write path.
func (m *Manager) CheckPermissions(path string) error {
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("access %s: %w", path, err)
	}
	marker, err := os.CreateTemp(path, ".ferryman-write-check-")
	if err != nil {
		return fmt.Errorf("write marker in %s: %w", path, err)
	}
	name := marker.Name()
	marker.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("remove marker in %s: %w", path, err)
	}
	return nil
}

// MountAll mounts every auto-mount drive that is not mounted yet.
func (m *Manager) MountAll(ctx context.Context) error {
	var errs []error
	for _, drive := range m.cfg.Drives {
		if !drive.AutoMount {
			continue
		}
		if drive.MountPoint != "" && m.IsMounted(drive.MountPoint) {
			continue
		}
		if _, err := m.Mount(ctx, drive); err != nil {
			m.logger.Error("auto mount failed", "drive", drive.Name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close unmounts every temporary mount point.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	paths := make([]string, 0, len(m.temp))
	for p := range m.temp {
		paths = append(paths, p)
	}
	m.mu.Unlock()
	sort.Strings(paths)

	var errs []error
	for _, p := range paths {
		if err := m.Unmount(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
