package transfer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"ferryman/internal/models"
	"ferryman/internal/selection"

	"github.com/secsy/goftp"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

type ftpClient struct {
	endpoint *models.Endpoint
	password string
	timeout  time.Duration
	decoder  *encoding.Decoder
	logger   *slog.Logger

	mu     sync.Mutex
	conn   *goftp.Client
	active bool
	// rawPaths maps decoded remote paths back to the bytes the server
	// sent, for servers that do not speak UTF-8.
	rawPaths map[string]string

	readDir  func(conn *goftp.Client, dir string) ([]os.FileInfo, error)
	nameList func(conn *goftp.Client, dir string) ([]string, error)
}

func newFTPClient(endpoint *models.Endpoint, password string, timeout time.Duration, logger *slog.Logger) (*ftpClient, error) {
	c := &ftpClient{
		endpoint: endpoint,
		password: password,
		timeout:  timeout,
		logger:   logger,
		rawPaths: make(map[string]string),
		readDir:  (*goftp.Client).ReadDir,
		nameList: nameList,
	}

	if name := strings.TrimSpace(endpoint.Encoding); name != "" && !strings.EqualFold(name, "utf-8") && !strings.EqualFold(name, "utf8") {
		enc, err := htmlindex.Get(name)
		if err != nil {
			return nil, fmt.Errorf("endpoint %q: unknown encoding %q: %w", endpoint.Name, name, err)
		}
		c.decoder = enc.NewDecoder()
	}
	return c, nil
}

func (c *ftpClient) Protocol() models.Protocol {
	return models.ProtocolFTP
}

func (c *ftpClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialLocked(ctx)
}

func (c *ftpClient) dialLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	user := c.endpoint.Username
	if user == "" {
		user = "anonymous"
	}
	cfg := goftp.Config{
		User:               user,
		Password:           c.password,
		ConnectionsPerHost: 1,
		Timeout:            c.timeout,
		ActiveTransfers:    c.active,
	}

	conn, err := goftp.DialConfig(cfg, c.endpoint.Address())
	if err != nil {
		return connectionError("dial "+c.endpoint.Address(), err)
	}

	// DialConfig is lazy; Getwd forces the control connection and login.
	done := make(chan error, 1)
	go func() {
		_, err := conn.Getwd()
		done <- err
	}()
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		conn.Close()
		return connectionError("login "+c.endpoint.Address(), err)
	}

	c.conn = conn
	c.logger.Debug("ftp connected", "address", c.endpoint.Address(), "active", c.active)
	return nil
}

func (c *ftpClient) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *ftpClient) closeLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *ftpClient) Reconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.closeLocked(); err != nil {
		c.logger.Debug("ftp close before reconnect failed", "error", err)
	}
	return c.dialLocked(ctx)
}

// do runs op in the current mode. A failure that is not a permanent
// server reply switches a passive session to active mode and retries once.
func (c *ftpClient) do(ctx context.Context, op func(conn *goftp.Client) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.dialLocked(ctx); err != nil {
		return err
	}

	err := op(c.conn)
	if err == nil || c.active || isPermanentReply(err) {
		return err
	}

	c.logger.Warn("passive mode failed, switching to active mode", "error", err)
	c.closeLocked()
	c.active = true
	if derr := c.dialLocked(ctx); derr != nil {
		return derr
	}
	return op(c.conn)
}

func isPermanentReply(err error) bool {
	var p *permanent
	if errors.As(err, &p) {
		return true
	}
	var coder replyCoder
	if errors.As(err, &coder) {
		return coder.Code() >= 500 && coder.Code() < 600
	}
	return false
}

func (c *ftpClient) List(ctx context.Context, dir string) ([]models.DirectoryEntry, error) {
	rawDir := c.raw(dir)

	var infos []os.FileInfo
	err := c.do(ctx, func(conn *goftp.Client) error {
		var err error
		infos, err = c.readDir(conn, rawDir)
		return err
	})
	if err == nil {
		entries := make([]models.DirectoryEntry, 0, len(infos))
		for _, info := range infos {
			entries = append(entries, c.entryFromInfo(dir, rawDir, info))
		}
		return entries, nil
	}

	c.logger.Debug("detailed listing failed, trying name list", "path", dir, "error", err)

	var names []string
	nerr := c.do(ctx, func(conn *goftp.Client) error {
		var err error
		names, err = c.nameList(conn, rawDir)
		return err
	})
	if nerr != nil {
		return nil, listError(dir, errors.Join(err, nerr))
	}

	entries := make([]models.DirectoryEntry, 0, len(names))
	for _, name := range names {
		base := path.Base(name)
		if base == "." || base == ".." {
			continue
		}
		entries = append(entries, models.DirectoryEntry{
			Name: c.remember(dir, rawDir, base),
			Type: models.EntryTypeFile,
		})
	}
	return entries, nil
}

// nameList sends NLST over a raw control connection and returns the names
// the server wrote to the data connection.
func nameList(conn *goftp.Client, dir string) ([]string, error) {
	raw, err := conn.OpenRawConn()
	if err != nil {
		return nil, err
	}
	defer raw.Close()

	dataConn, err := raw.PrepareDataConn()
	if err != nil {
		return nil, err
	}

	code, msg, err := raw.SendCommand("NLST %s", dir)
	if err != nil {
		return nil, err
	}
	if code/100 != 1 {
		return nil, &replyError{code: code, msg: msg}
	}

	dc, err := dataConn()
	if err != nil {
		return nil, err
	}

	var names []string
	scanner := bufio.NewScanner(dc)
	for scanner.Scan() {
		if name := strings.TrimRight(scanner.Text(), "\r"); name != "" {
			names = append(names, name)
		}
	}
	scanErr := scanner.Err()
	dc.Close()

	code, msg, err = raw.ReadResponse()
	if err != nil {
		return nil, err
	}
	if code != 226 && code != 250 {
		return nil, &replyError{code: code, msg: msg}
	}
	if scanErr != nil {
		return nil, fmt.Errorf("read NLST data: %w", scanErr)
	}
	return names, nil
}

func (c *ftpClient) entryFromInfo(dir, rawDir string, info os.FileInfo) models.DirectoryEntry {
	entry := models.DirectoryEntry{
		Name: c.remember(dir, rawDir, info.Name()),
		Size: info.Size(),
		Type: models.EntryTypeFile,
	}
	if info.IsDir() {
		entry.Type = models.EntryTypeDirectory
		entry.Size = 0
	}
	if mt := info.ModTime(); !mt.IsZero() {
		entry.Modified = mt.UTC().Format(selection.FTPTimeLayout)
	}
	return entry
}

// remember decodes a raw name and records how to address it later.
func (c *ftpClient) remember(dir, rawDir, rawName string) string {
	if c.decoder == nil {
		return rawName
	}
	name, err := c.decoder.String(rawName)
	if err != nil {
		return rawName
	}
	c.mu.Lock()
	c.rawPaths[path.Join(dir, name)] = path.Join(rawDir, rawName)
	c.mu.Unlock()
	return name
}

func (c *ftpClient) raw(p string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if raw, ok := c.rawPaths[p]; ok {
		return raw
	}
	return p
}

func (c *ftpClient) Download(ctx context.Context, remotePath, localPath string) (int64, error) {
	raw := c.raw(remotePath)
	var n int64
	err := c.do(ctx, func(conn *goftp.Client) error {
		var err error
		n, err = Receive(localPath, func(w io.Writer) error {
			return conn.Retrieve(raw, w)
		})
		// local failures must not trigger the active mode retry
		if err != nil && (isLocal(err) || errors.Is(err, ErrEmptyFile)) {
			return &permanent{err}
		}
		return err
	})
	if err != nil {
		var p *permanent
		if errors.As(err, &p) {
			err = p.err
		}
		if errors.Is(err, ErrEmptyFile) || isLocal(err) {
			return 0, err
		}
		return 0, transferError("download", remotePath, err)
	}
	return n, nil
}

func (c *ftpClient) Upload(ctx context.Context, localPath, remotePath string) (int64, error) {
	src, size, err := openLocal(localPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	err = c.do(ctx, func(conn *goftp.Client) error {
		c.mkdirAll(conn, path.Dir(remotePath))
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return &permanent{&LocalError{Path: localPath, Err: err}}
		}
		return conn.Store(remotePath, src)
	})
	if err != nil {
		var p *permanent
		if errors.As(err, &p) {
			return 0, p.err
		}
		return 0, transferError("upload", remotePath, err)
	}
	return size, nil
}

// mkdirAll creates each missing component; servers answer 550 for
// existing directories, so errors are ignored.
func (c *ftpClient) mkdirAll(conn *goftp.Client, dir string) {
	if dir == "" || dir == "." || dir == "/" {
		return
	}
	var current string
	if strings.HasPrefix(dir, "/") {
		current = "/"
	}
	for _, part := range strings.Split(strings.Trim(dir, "/"), "/") {
		current = path.Join(current, part)
		if _, err := conn.Mkdir(current); err != nil {
			c.logger.Debug("ftp mkdir", "path", current, "error", err)
		}
	}
}

// permanent carries an error through do without triggering the mode
// fallback.
type permanent struct{ err error }

func (p *permanent) Error() string { return p.err.Error() }
func (p *permanent) Unwrap() error { return p.err }

func isLocal(err error) bool {
	var local *LocalError
	return errors.As(err, &local)
}
