package mount

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ferryman/internal/config"
	"ferryman/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	fail  map[string]error
	// seen captures the CIFS credentials file while it still exists.
	seen string
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			for _, opt := range strings.Split(args[i+1], ",") {
				if strings.HasPrefix(opt, "credentials=") {
					data, _ := os.ReadFile(strings.TrimPrefix(opt, "credentials="))
					f.seen = string(data)
				}
			}
		}
	}
	key := name + " " + strings.Join(args, " ")
	for prefix, err := range f.fail {
		if strings.HasPrefix(key, prefix) {
			return []byte("device is busy"), err
		}
	}
	return nil, nil
}

type staticDecrypter map[string]string

func (s staticDecrypter) Decrypt(ciphertext string) (string, error) {
	if p, ok := s[ciphertext]; ok {
		return p, nil
	}
	return "", errors.New("bad ciphertext")
}

func newTestManager(t *testing.T, cfg config.MountsConfig) (*Manager, *fakeRunner) {
	t.Helper()
	if cfg.TempDir == "" {
		cfg.TempDir = t.TempDir()
	}
	m, err := New(cfg, staticDecrypter{"enc": "pa55"}, nil)
	require.NoError(t, err)
	runner := &fakeRunner{fail: map[string]error{}}
	m.run = runner.run
	m.uid, m.gid = 1000, 1000
	return m, runner
}

// ========================================
// 1. Constructor Tests
// ========================================

func TestNew(t *testing.T) {
	m, err := New(config.MountsConfig{Command: "sudo -n"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"sudo", "-n"}, m.prefix)
	assert.Equal(t, config.DefaultMountTimeout, m.cfg.Timeout)

	_, err = New(config.MountsConfig{Command: `sudo "unterminated`}, nil, nil)
	assert.Error(t, err)
}

// ========================================
// 2. Mount Tests
// ========================================

func TestMount_NFS(t *testing.T) {
	mountPoint := filepath.Join(t.TempDir(), "exports")
	m, runner := newTestManager(t, config.MountsConfig{Command: "sudo -n"})

	drive := models.NetworkDrive{
		Name:       "exports",
		Type:       models.DriveTypeNFS,
		Server:     "nas:/exports",
		MountPoint: mountPoint,
		Options:    "ro",
		NFS:        &models.NfsOptions{Version: "4.1", AuthMethod: "krb5", MountOptions: "noatime"},
	}

	got, err := m.Mount(context.Background(), drive)
	require.NoError(t, err)
	assert.Equal(t, mountPoint, got)
	assert.DirExists(t, mountPoint)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "sudo", runner.calls[0].name)
	assert.Equal(t, []string{
		"-n", "mount", "-t", "nfs",
		"-o", "vers=4.1,sec=krb5,rsize=32768,wsize=32768,timeo=14,retrans=2,noatime,ro",
		"nas:/exports", mountPoint,
	}, runner.calls[0].args)
	assert.True(t, m.IsMounted(mountPoint))
}

func TestMount_CIFSCredentialsFile(t *testing.T) {
	m, runner := newTestManager(t, config.MountsConfig{})
	drive := models.NetworkDrive{
		Name:              "archive",
		Type:              models.DriveTypeCIFS,
		Server:            "//nas/archive",
		MountPoint:        filepath.Join(t.TempDir(), "archive"),
		Username:          "svc",
		PasswordEncrypted: "enc",
		Domain:            "CORP",
	}

	_, err := m.Mount(context.Background(), drive)
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "mount", runner.calls[0].name)
	opts := runner.calls[0].args[3]
	assert.Contains(t, opts, "uid=1000,gid=1000,iocharset=utf8")
	assert.Equal(t, "username=svc\npassword=pa55\ndomain=CORP\n", runner.seen)

	file := strings.TrimPrefix(strings.Split(opts, ",")[0], "credentials=")
	assert.NoFileExists(t, file)
}

func TestMount_CIFSBadPassword(t *testing.T) {
	m, runner := newTestManager(t, config.MountsConfig{})
	drive := models.NetworkDrive{
		Name:              "archive",
		Type:              models.DriveTypeCIFS,
		Server:            "//nas/archive",
		MountPoint:        filepath.Join(t.TempDir(), "archive"),
		PasswordEncrypted: "garbage",
	}

	_, err := m.Mount(context.Background(), drive)
	assert.ErrorContains(t, err, "decrypt password")
	assert.Empty(t, runner.calls)
}

func TestMount_TemporaryMountPoint(t *testing.T) {
	tempDir := t.TempDir()
	m, runner := newTestManager(t, config.MountsConfig{TempDir: tempDir})
	drive := models.NetworkDrive{Name: "scratch share", Type: models.DriveTypeNFS, Server: "nas:/x"}

	mountPoint, err := m.Mount(context.Background(), drive)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(mountPoint), "mnt_scratch_share_"))
	assert.Equal(t, tempDir, filepath.Dir(mountPoint))

	require.NoError(t, m.Close(context.Background()))
	assert.NoDirExists(t, mountPoint)
	assert.Equal(t, "umount", runner.calls[1].name)
}

func TestMount_FailureRemovesTemporaryDir(t *testing.T) {
	tempDir := t.TempDir()
	m, runner := newTestManager(t, config.MountsConfig{TempDir: tempDir})
	runner.fail["mount"] = errors.New("exit status 32")

	_, err := m.Mount(context.Background(), models.NetworkDrive{Name: "x", Type: models.DriveTypeNFS, Server: "nas:/x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device is busy")

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMount_InvalidDrive(t *testing.T) {
	m, runner := newTestManager(t, config.MountsConfig{})

	_, err := m.Mount(context.Background(), models.NetworkDrive{Name: "x", Type: models.DriveTypeCIFS, Server: "nas"})
	assert.Error(t, err)
	assert.Empty(t, runner.calls)
}

func TestMountAll(t *testing.T) {
	root := t.TempDir()
	m, runner := newTestManager(t, config.MountsConfig{
		Drives: []models.NetworkDrive{
			{Name: "a", Type: models.DriveTypeNFS, Server: "nas:/a", MountPoint: filepath.Join(root, "a"), AutoMount: true},
			{Name: "b", Type: models.DriveTypeNFS, Server: "nas:/b", MountPoint: filepath.Join(root, "b")},
			{Name: "c", Type: models.DriveTypeNFS, Server: "nas:/c", MountPoint: filepath.Join(root, "c"), AutoMount: true},
		},
	})
	runner.fail["mount -t nfs -o rsize=32768,wsize=32768,timeo=14,retrans=2 nas:/c"] = errors.New("exit status 32")

	err := m.MountAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nas:/c")
	assert.Len(t, runner.calls, 2)
}

// ========================================
// 3. Unmount Tests
// ========================================

func TestUnmount_FallsBackToForce(t *testing.T) {
	m, runner := newTestManager(t, config.MountsConfig{})
	runner.fail["umount /mnt/x"] = errors.New("exit status 16")

	require.NoError(t, m.Unmount(context.Background(), "/mnt/x"))
	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"-f", "/mnt/x"}, runner.calls[1].args)
}

func TestUnmount_ForceFails(t *testing.T) {
	m, runner := newTestManager(t, config.MountsConfig{})
	runner.fail["umount"] = errors.New("exit status 16")

	err := m.Unmount(context.Background(), "/mnt/x")
	assert.ErrorContains(t, err, "umount /mnt/x")
}

// ========================================
// 4. Status Tests
// ========================================

func TestIsMounted(t *testing.T) {
	m, _ := newTestManager(t, config.MountsConfig{StatusCacheTTL: time.Minute})

	assert.False(t, m.IsMounted(t.TempDir()))
	assert.False(t, m.IsMounted("/definitely/not/here"))
	assert.True(t, m.IsMounted("/"))
}

func TestCheckPermissions(t *testing.T) {
	m, _ := newTestManager(t, config.MountsConfig{})
	dir := t.TempDir()

	require.NoError(t, m.CheckPermissions(dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Error(t, m.CheckPermissions(filepath.Join(dir, "missing")))
}

func TestDriveFor(t *testing.T) {
	m, _ := newTestManager(t, config.MountsConfig{
		Drives: []models.NetworkDrive{
			{Name: "outer", MountPoint: "/mnt/share"},
			{Name: "inner", MountPoint: "/mnt/share/deep"},
		},
	})

	d, ok := m.DriveFor("/mnt/share/deep/2024/file")
	require.True(t, ok)
	assert.Equal(t, "inner", d.Name)

	d, ok = m.DriveFor("/mnt/share/other")
	require.True(t, ok)
	assert.Equal(t, "outer", d.Name)

	_, ok = m.DriveFor("/srv/local")
	assert.False(t, ok)
}

func TestNFSOptions(t *testing.T) {
	assert.Equal(t, "rsize=32768,wsize=32768,timeo=14,retrans=2", NFSOptions(nil))
	assert.Equal(t, "vers=3,rsize=32768,wsize=32768,timeo=14,retrans=2",
		NFSOptions(&models.NfsOptions{Version: "3", AuthMethod: "sys"}))
}
