package transfer

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"ferryman/internal/models"

	ftpserver "github.com/fclairamb/ftpserverlib"
	"github.com/secsy/goftp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ftpTestPassword = "s3cret"

// memFTPDriver serves one in-memory filesystem to every login.
type memFTPDriver struct {
	fs afero.Fs
}

func (d *memFTPDriver) GetSettings() (*ftpserver.Settings, error) {
	return &ftpserver.Settings{
		ListenAddr:              "127.0.0.1:0",
		ActiveTransferPortNon20: true,
	}, nil
}

func (d *memFTPDriver) ClientConnected(cc ftpserver.ClientContext) (string, error) {
	return "ferryman test server", nil
}

func (d *memFTPDriver) ClientDisconnected(cc ftpserver.ClientContext) {}

func (d *memFTPDriver) AuthUser(cc ftpserver.ClientContext, user, pass string) (ftpserver.ClientDriver, error) {
	if pass != ftpTestPassword {
		return nil, errors.New("bad password")
	}
	return d.fs, nil
}

func (d *memFTPDriver) GetTLSConfig() (*tls.Config, error) {
	return nil, errors.New("tls not configured")
}

func startFTPServer(t *testing.T) (*models.Endpoint, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	server := ftpserver.NewFtpServer(&memFTPDriver{fs: fs})
	require.NoError(t, server.Listen())
	go server.Serve()
	t.Cleanup(func() { server.Stop() })

	host, portStr, err := net.SplitHostPort(server.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return &models.Endpoint{
		Name:     "acme-ftp",
		Protocol: models.ProtocolFTP,
		Host:     host,
		Port:     port,
		Username: "ferry",
	}, fs
}

func newTestFTPClient(t *testing.T, endpoint *models.Endpoint, password string) *ftpClient {
	t.Helper()
	c, err := newFTPClient(endpoint, password, 5*time.Second, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { c.Disconnect() })
	return c
}

func seedFTP(t *testing.T, fs afero.Fs) time.Time {
	t.Helper()
	modified := time.Date(2024, 3, 14, 9, 26, 53, 0, time.UTC)
	require.NoError(t, fs.MkdirAll("/in/archive", 0755))
	require.NoError(t, afero.WriteFile(fs, "/in/a.csv", []byte("id,amount\n1,20\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/in/b.csv", []byte("id\n"), 0644))
	require.NoError(t, fs.Chtimes("/in/a.csv", modified, modified))
	return modified
}

// ========================================
// 1. Connection Tests
// ========================================

func TestFTP_Connect(t *testing.T) {
	endpoint, _ := startFTPServer(t)
	c := newTestFTPClient(t, endpoint, ftpTestPassword)

	require.NoError(t, c.Connect(context.Background()))
	require.NoError(t, c.Disconnect())
	assert.NoError(t, c.Disconnect(), "disconnect twice")
}

func TestFTP_ConnectWrongPassword(t *testing.T) {
	endpoint, _ := startFTPServer(t)
	c := newTestFTPClient(t, endpoint, "wrong")

	err := c.Connect(context.Background())

	assert.ErrorIs(t, err, ErrConnection)
}

func TestFTP_UnknownEncoding(t *testing.T) {
	_, err := newFTPClient(&models.Endpoint{Name: "legacy", Encoding: "klingon"}, "", time.Second, slog.Default())

	assert.ErrorContains(t, err, `unknown encoding "klingon"`)
}

// ========================================
// 2. Listing Tests
// ========================================

func TestFTP_List(t *testing.T) {
	endpoint, fs := startFTPServer(t)
	modified := seedFTP(t, fs)
	c := newTestFTPClient(t, endpoint, ftpTestPassword)
	require.NoError(t, c.Connect(context.Background()))

	entries, err := c.List(context.Background(), "/in")
	require.NoError(t, err)

	byName := make(map[string]models.DirectoryEntry)
	for _, e := range entries {
		byName[e.Name] = e
	}
	require.Len(t, byName, 3)

	a := byName["a.csv"]
	assert.Equal(t, models.EntryTypeFile, a.Type)
	assert.Equal(t, int64(15), a.Size)
	assert.Equal(t, modified.Format("20060102150405"), a.Modified)

	archive := byName["archive"]
	assert.True(t, archive.IsDir())
	assert.Zero(t, archive.Size)
}

func TestFTP_ListFallsBackToNameList(t *testing.T) {
	endpoint, fs := startFTPServer(t)
	seedFTP(t, fs)
	c := newTestFTPClient(t, endpoint, ftpTestPassword)
	c.readDir = func(conn *goftp.Client, dir string) ([]os.FileInfo, error) {
		return nil, &replyError{code: 502, msg: "MLSD and LIST not implemented"}
	}
	require.NoError(t, c.Connect(context.Background()))

	entries, err := c.List(context.Background(), "/in")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
		assert.Equal(t, models.EntryTypeFile, e.Type, "name lists carry no type")
		assert.Zero(t, e.Size)
		assert.Empty(t, e.Modified)
	}
	assert.ElementsMatch(t, []string{"a.csv", "archive", "b.csv"}, names)
	assert.False(t, c.active, "a 5xx reply keeps passive mode")
}

func TestFTP_ListReportsBothFailures(t *testing.T) {
	endpoint, _ := startFTPServer(t)
	c := newTestFTPClient(t, endpoint, ftpTestPassword)
	detailed := &replyError{code: 502, msg: "MLSD not implemented"}
	names := &replyError{code: 550, msg: "NLST denied"}
	c.readDir = func(conn *goftp.Client, dir string) ([]os.FileInfo, error) { return nil, detailed }
	c.nameList = func(conn *goftp.Client, dir string) ([]string, error) { return nil, names }

	_, err := c.List(context.Background(), "/in")

	require.ErrorIs(t, err, ErrList)
	assert.ErrorIs(t, err, detailed)
	assert.ErrorIs(t, err, names)
}

// ========================================
// 3. Transfer Mode Tests
// ========================================

func TestFTP_PassiveFailureSwitchesToActive(t *testing.T) {
	endpoint, fs := startFTPServer(t)
	seedFTP(t, fs)
	c := newTestFTPClient(t, endpoint, ftpTestPassword)

	calls := 0
	var infos []os.FileInfo
	err := c.do(context.Background(), func(conn *goftp.Client) error {
		calls++
		if calls == 1 {
			return errors.New("dial tcp 127.0.0.1:50123: connect: connection refused")
		}
		var err error
		infos, err = conn.ReadDir("/in")
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, c.active)
	assert.Len(t, infos, 3, "the retry lists over an active data connection")
}

func TestFTP_PermanentReplyKeepsPassive(t *testing.T) {
	endpoint, _ := startFTPServer(t)
	c := newTestFTPClient(t, endpoint, ftpTestPassword)

	calls := 0
	err := c.do(context.Background(), func(conn *goftp.Client) error {
		calls++
		return &replyError{code: 550, msg: "No such file"}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, c.active)
}

func TestIsPermanentReply(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"550", &replyError{code: 550}, true},
		{"502", &replyError{code: 502}, true},
		{"425", &replyError{code: 425}, false},
		{"plain", errors.New("i/o timeout"), false},
		{"local", &permanent{&LocalError{Path: "/x", Err: os.ErrPermission}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPermanentReply(tt.err))
		})
	}
}

// ========================================
// 4. Transfer Tests
// ========================================

func TestFTP_DownloadAndUpload(t *testing.T) {
	endpoint, fs := startFTPServer(t)
	seedFTP(t, fs)
	c := newTestFTPClient(t, endpoint, ftpTestPassword)
	require.NoError(t, c.Connect(context.Background()))

	local := filepath.Join(t.TempDir(), "a.csv")
	n, err := c.Download(context.Background(), "/in/a.csv", local)
	require.NoError(t, err)
	assert.Equal(t, int64(15), n)
	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "id,amount\n1,20\n", string(data))

	n, err = c.Upload(context.Background(), local, "/out/2024/03/a.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(15), n)
	stored, err := afero.ReadFile(fs, "/out/2024/03/a.csv")
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestFTP_DownloadMissingFileKeepsLocalCopy(t *testing.T) {
	endpoint, _ := startFTPServer(t)
	c := newTestFTPClient(t, endpoint, ftpTestPassword)
	require.NoError(t, c.Connect(context.Background()))

	local := filepath.Join(t.TempDir(), "a.csv")
	require.NoError(t, os.WriteFile(local, []byte("yesterday"), 0644))

	_, err := c.Download(context.Background(), "/in/missing.csv", local)

	require.Error(t, err)
	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "yesterday", string(data))
}
