package transfer

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"ferryman/internal/models"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const sftpTestPassword = "s3cret"

// startSFTPServer runs an SSH server on loopback that serves the sftp
// subsystem from the local filesystem.
func startSFTPServer(t *testing.T) (*models.Endpoint, ssh.PublicKey) {
	t.Helper()

	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(key)
	require.NoError(t, err)

	config := &ssh.ServerConfig{
		PasswordCallback: func(meta ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if meta.User() == "ferry" && string(pass) == sftpTestPassword {
				return nil, nil
			}
			return nil, errors.New("access denied")
		},
	}
	config.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveSSH(conn, config)
		}
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return &models.Endpoint{
		Name:            "acme-sftp",
		Protocol:        models.ProtocolSFTP,
		Host:            host,
		Port:            port,
		Username:        "ferry",
		InsecureHostKey: true,
	}, signer.PublicKey()
}

func serveSSH(conn net.Conn, config *ssh.ServerConfig) {
	_, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		conn.Close()
		return
	}
	go ssh.DiscardRequests(reqs)

	for newChannel := range chans {
		if newChannel.ChannelType() != "session" {
			newChannel.Reject(ssh.UnknownChannelType, "session only")
			continue
		}
		channel, requests, err := newChannel.Accept()
		if err != nil {
			continue
		}
		go func(in <-chan *ssh.Request) {
			for req := range in {
				req.Reply(req.Type == "subsystem" && string(req.Payload[4:]) == "sftp", nil)
			}
		}(requests)

		go func() {
			defer channel.Close()
			server, err := sftp.NewServer(channel)
			if err != nil {
				return
			}
			server.Serve()
		}()
	}
}

func newTestSFTPClient(t *testing.T, endpoint *models.Endpoint, password, knownHosts string) *sftpClient {
	t.Helper()
	c := newSFTPClient(endpoint, password, 5*time.Second, knownHosts, slog.Default())
	t.Cleanup(func() { c.Disconnect() })
	return c
}

// ========================================
// 1. Connection Tests
// ========================================

func TestSFTP_Connect(t *testing.T) {
	endpoint, _ := startSFTPServer(t)
	c := newTestSFTPClient(t, endpoint, sftpTestPassword, "")

	require.NoError(t, c.Connect(context.Background()))
	require.NoError(t, c.Reconnect(context.Background()))
	require.NoError(t, c.Disconnect())
	assert.NoError(t, c.Disconnect(), "disconnect twice")
}

func TestSFTP_ConnectWrongPassword(t *testing.T) {
	endpoint, _ := startSFTPServer(t)
	c := newTestSFTPClient(t, endpoint, "wrong", "")

	err := c.Connect(context.Background())

	assert.ErrorIs(t, err, ErrConnection)
}

func TestSFTP_KnownHosts(t *testing.T) {
	endpoint, hostKey := startSFTPServer(t)
	endpoint.InsecureHostKey = false

	t.Run("known key", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "known_hosts")
		line := knownhosts.Line([]string{knownhosts.Normalize(endpoint.Address())}, hostKey)
		require.NoError(t, os.WriteFile(file, []byte(line+"\n"), 0600))

		c := newTestSFTPClient(t, endpoint, sftpTestPassword, file)
		assert.NoError(t, c.Connect(context.Background()))
	})

	t.Run("unknown host", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "known_hosts")
		require.NoError(t, os.WriteFile(file, nil, 0600))

		c := newTestSFTPClient(t, endpoint, sftpTestPassword, file)
		assert.ErrorIs(t, c.Connect(context.Background()), ErrConnection)
	})
}

func TestSFTP_NotConnected(t *testing.T) {
	c := newSFTPClient(&models.Endpoint{Name: "idle"}, "", time.Second, "", slog.Default())

	_, err := c.List(context.Background(), "/")

	assert.ErrorIs(t, err, ErrList)
}

// ========================================
// 2. Listing and Transfer Tests
// ========================================

func TestSFTP_List(t *testing.T) {
	endpoint, _ := startSFTPServer(t)
	root := t.TempDir()
	modified := time.Date(2024, 3, 14, 9, 26, 53, 0, time.UTC)
	require.NoError(t, os.Mkdir(filepath.Join(root, "archive"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.csv"), []byte("id,amount\n1,20\n"), 0644))
	require.NoError(t, os.Chtimes(filepath.Join(root, "a.csv"), modified, modified))

	c := newTestSFTPClient(t, endpoint, sftpTestPassword, "")
	require.NoError(t, c.Connect(context.Background()))

	entries, err := c.List(context.Background(), root)
	require.NoError(t, err)

	byName := make(map[string]models.DirectoryEntry)
	for _, e := range entries {
		byName[e.Name] = e
	}
	require.Len(t, byName, 2)

	assert.Equal(t, models.EntryTypeFile, byName["a.csv"].Type)
	assert.Equal(t, int64(15), byName["a.csv"].Size)
	assert.Equal(t, modified.Format(time.RFC3339Nano), byName["a.csv"].Modified)

	assert.Equal(t, models.EntryTypeDirectory, byName["archive"].Type, "directory from mode bits")
	assert.Zero(t, byName["archive"].Size)
}

func TestSFTP_DownloadAndUpload(t *testing.T) {
	endpoint, _ := startSFTPServer(t)
	remote := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(remote, "a.csv"), []byte("id,amount\n1,20\n"), 0644))

	c := newTestSFTPClient(t, endpoint, sftpTestPassword, "")
	require.NoError(t, c.Connect(context.Background()))

	local := filepath.Join(t.TempDir(), "a.csv")
	n, err := c.Download(context.Background(), filepath.ToSlash(filepath.Join(remote, "a.csv")), local)
	require.NoError(t, err)
	assert.Equal(t, int64(15), n)

	target := filepath.Join(remote, "out", "2024", "a.csv")
	n, err = c.Upload(context.Background(), local, filepath.ToSlash(target))
	require.NoError(t, err)
	assert.Equal(t, int64(15), n)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "id,amount\n1,20\n", string(data))
}

func TestSFTP_DownloadEmptyFileKeepsLocalCopy(t *testing.T) {
	endpoint, _ := startSFTPServer(t)
	remote := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(remote, "a.csv"), nil, 0644))

	c := newTestSFTPClient(t, endpoint, sftpTestPassword, "")
	require.NoError(t, c.Connect(context.Background()))

	local := filepath.Join(t.TempDir(), "a.csv")
	require.NoError(t, os.WriteFile(local, []byte("yesterday"), 0644))

	_, err := c.Download(context.Background(), filepath.ToSlash(filepath.Join(remote, "a.csv")), local)

	assert.ErrorIs(t, err, ErrEmptyFile)
	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "yesterday", string(data))
}

func TestEntryFromFileInfo(t *testing.T) {
	dir := t.TempDir()
	info, err := os.Stat(dir)
	require.NoError(t, err)

	entry := entryFromFileInfo(info)

	assert.True(t, entry.IsDir())
	assert.Equal(t, info.ModTime().UTC().Format(time.RFC3339Nano), entry.Modified)
}
