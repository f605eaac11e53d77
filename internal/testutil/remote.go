package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"ferryman/internal/models"
	"ferryman/internal/transfer"
)

// RemoteFile is a file held by a FakeRemote.
type RemoteFile struct {
	Data     []byte
	Modified string
}

// FakeRemote is an in-memory transfer.Client. Directories are implied by
// the paths of the files it holds.
type FakeRemote struct {
	mu sync.Mutex

	Proto models.Protocol
	Files map[string]RemoteFile

	ConnectErr error
	ListErrs   map[string]error
	// FailDownloads fails every download of the listed paths.
	FailDownloads map[string]error
	// DropOnce fails the first download of the listed paths with a
	// dropped connection.
	DropOnce map[string]bool

	Uploaded map[string][]byte

	Connects    int
	Disconnects int
	Reconnects  int
	Downloads   []string
}

func NewFakeRemote(proto models.Protocol) *FakeRemote {
	return &FakeRemote{
		Proto:         proto,
		Files:         make(map[string]RemoteFile),
		ListErrs:      make(map[string]error),
		FailDownloads: make(map[string]error),
		DropOnce:      make(map[string]bool),
		Uploaded:      make(map[string][]byte),
	}
}

// Put stores a file under its full remote path.
func (f *FakeRemote) Put(remotePath, content, modified string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Files[path.Clean(remotePath)] = RemoteFile{Data: []byte(content), Modified: modified}
}

func (f *FakeRemote) Protocol() models.Protocol {
	return f.Proto
}

func (f *FakeRemote) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Connects++
	if f.ConnectErr != nil {
		return &transfer.Error{Kind: transfer.KindConnection, Op: "dial", Err: f.ConnectErr}
	}
	return nil
}

func (f *FakeRemote) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Disconnects++
	return nil
}

func (f *FakeRemote) Reconnect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reconnects++
	return nil
}

// List returns the direct children of dir sorted by name.
func (f *FakeRemote) List(ctx context.Context, dir string) ([]models.DirectoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir = path.Clean(dir)
	if err, ok := f.ListErrs[dir]; ok {
		return nil, &transfer.Error{Kind: transfer.KindList, Op: "list", Path: dir, Err: err}
	}

	prefix := dir + "/"
	if dir == "/" {
		prefix = "/"
	}

	seen := make(map[string]bool)
	var entries []models.DirectoryEntry
	for p, file := range f.Files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rel := strings.TrimPrefix(p, prefix)
		if i := strings.Index(rel, "/"); i >= 0 {
			name := rel[:i]
			if !seen[name] {
				seen[name] = true
				entries = append(entries, models.DirectoryEntry{Name: name, Type: models.EntryTypeDirectory})
			}
			continue
		}
		entries = append(entries, models.DirectoryEntry{
			Name:     rel,
			Size:     int64(len(file.Data)),
			Modified: file.Modified,
			Type:     models.EntryTypeFile,
		})
	}

	if len(entries) == 0 {
		return nil, &transfer.Error{Kind: transfer.KindList, Op: "list", Path: dir, Err: os.ErrNotExist}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (f *FakeRemote) Download(ctx context.Context, remotePath, localPath string) (int64, error) {
	f.mu.Lock()
	remotePath = path.Clean(remotePath)
	f.Downloads = append(f.Downloads, remotePath)
	if f.DropOnce[remotePath] {
		delete(f.DropOnce, remotePath)
		f.mu.Unlock()
		return 0, &transfer.Error{Kind: transfer.KindTransfer, Op: "download", Path: remotePath, Err: io.ErrUnexpectedEOF}
	}
	if err, ok := f.FailDownloads[remotePath]; ok {
		f.mu.Unlock()
		return 0, &transfer.Error{Kind: transfer.KindTransfer, Op: "download", Path: remotePath, Err: err}
	}
	file, ok := f.Files[remotePath]
	f.mu.Unlock()

	if !ok {
		return 0, &transfer.Error{Kind: transfer.KindTransfer, Op: "download", Path: remotePath, Err: os.ErrNotExist}
	}
	return transfer.Receive(localPath, func(w io.Writer) error {
		_, err := w.Write(file.Data)
		return err
	})
}

func (f *FakeRemote) Upload(ctx context.Context, localPath, remotePath string) (int64, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return 0, &transfer.LocalError{Path: localPath, Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	remotePath = path.Clean(remotePath)
	if err, ok := f.FailDownloads[remotePath]; ok {
		return 0, &transfer.Error{Kind: transfer.KindTransfer, Op: "upload", Path: remotePath, Err: err}
	}
	f.Uploaded[remotePath] = data
	return int64(len(data)), nil
}

// UploadedPaths returns the remote paths written so far, sorted.
func (f *FakeRemote) UploadedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	paths := make([]string, 0, len(f.Uploaded))
	for p := range f.Uploaded {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ErrRemoteDenied mimics a server refusing a file.
var ErrRemoteDenied = errors.New("550 permission denied")

func (f *FakeRemote) String() string {
	return fmt.Sprintf("fake %s remote (%d files)", f.Proto, len(f.Files))
}
