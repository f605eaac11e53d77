package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"ferryman/internal/models"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

type sftpClient struct {
	endpoint       *models.Endpoint
	password       string
	timeout        time.Duration
	knownHostsFile string
	logger         *slog.Logger

	mu   sync.Mutex
	ssh  *ssh.Client
	sftp *sftp.Client
}

func newSFTPClient(endpoint *models.Endpoint, password string, timeout time.Duration, knownHostsFile string, logger *slog.Logger) *sftpClient {
	return &sftpClient{
		endpoint:       endpoint,
		password:       password,
		timeout:        timeout,
		knownHostsFile: knownHostsFile,
		logger:         logger,
	}
}

func (c *sftpClient) Protocol() models.Protocol {
	return models.ProtocolSFTP
}

func (c *sftpClient) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if c.endpoint.InsecureHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	file := c.knownHostsFile
	if file == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate known_hosts: %w", err)
		}
		file = filepath.Join(home, ".ssh", "known_hosts")
	}
	cb, err := knownhosts.New(file)
	if err != nil {
		return nil, fmt.Errorf("load known_hosts %s: %w", file, err)
	}
	return cb, nil
}

func (c *sftpClient) clientConfig() (*ssh.ClientConfig, error) {
	hostKey, err := c.hostKeyCallback()
	if err != nil {
		return nil, err
	}

	password := c.password
	return &ssh.ClientConfig{
		User: c.endpoint.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: hostKey,
		Timeout:         c.timeout,
	}, nil
}

func (c *sftpClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialLocked(ctx)
}

func (c *sftpClient) dialLocked(ctx context.Context) error {
	if c.sftp != nil {
		return nil
	}

	config, err := c.clientConfig()
	if err != nil {
		return connectionError("ssh config", err)
	}

	sshClient, err := sshDialContext(ctx, "tcp", c.endpoint.Address(), config)
	if err != nil {
		return connectionError("ssh dial "+c.endpoint.Address(), err)
	}

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return connectionError("sftp session", err)
	}

	c.ssh, c.sftp = sshClient, client
	c.logger.Debug("sftp connected", "address", c.endpoint.Address())
	return nil
}

// sshDialContext dials with a context aware dialer and aborts the
// handshake when ctx is cancelled.
func sshDialContext(ctx context.Context, network, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	d := net.Dialer{Timeout: config.Timeout}
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	type result struct {
		client *ssh.Client
		err    error
	}
	done := make(chan result, 1)

	go func() {
		c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
		if err != nil {
			conn.Close()
			done <- result{nil, err}
			return
		}
		done <- result{ssh.NewClient(c, chans, reqs), nil}
	}()

	select {
	case <-ctx.Done():
		conn.Close()
		return nil, ctx.Err()
	case r := <-done:
		return r.client, r.err
	}
}

func (c *sftpClient) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *sftpClient) closeLocked() error {
	var errs []error
	if c.sftp != nil {
		errs = append(errs, c.sftp.Close())
		c.sftp = nil
	}
	if c.ssh != nil {
		errs = append(errs, c.ssh.Close())
		c.ssh = nil
	}
	return errors.Join(errs...)
}

func (c *sftpClient) Reconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	return c.dialLocked(ctx)
}

func (c *sftpClient) session() (*sftp.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sftp == nil {
		return nil, fmt.Errorf("not connected")
	}
	return c.sftp, nil
}

func (c *sftpClient) List(ctx context.Context, dir string) ([]models.DirectoryEntry, error) {
	client, err := c.session()
	if err != nil {
		return nil, listError(dir, err)
	}

	infos, err := client.ReadDir(dir)
	if err != nil {
		return nil, listError(dir, err)
	}

	entries := make([]models.DirectoryEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, entryFromFileInfo(info))
	}
	return entries, nil
}

// entryFromFileInfo converts POSIX attributes into a listing entry.
func entryFromFileInfo(info os.FileInfo) models.DirectoryEntry {
	entry := models.DirectoryEntry{
		Name:     info.Name(),
		Size:     info.Size(),
		Modified: info.ModTime().UTC().Format(time.RFC3339Nano),
		Type:     models.EntryTypeFile,
	}
	if info.Mode().IsDir() {
		entry.Type = models.EntryTypeDirectory
		entry.Size = 0
	}
	return entry
}

func (c *sftpClient) Download(ctx context.Context, remotePath, localPath string) (int64, error) {
	client, err := c.session()
	if err != nil {
		return 0, transferError("download", remotePath, err)
	}

	src, err := client.Open(remotePath)
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

func (c *sftpClient) Upload(ctx context.Context, localPath, remotePath string) (int64, error) {
	src, size, err := openLocal(localPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	client, err := c.session()
	if err != nil {
		return 0, transferError("upload", remotePath, err)
	}

	if dir := path.Dir(remotePath); dir != "." && dir != "/" {
		if err := client.MkdirAll(dir); err != nil {
			c.logger.Debug("sftp mkdir", "path", dir, "error", err)
		}
	}

	dst, err := client.Create(remotePath)
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
