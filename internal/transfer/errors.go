package transfer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"syscall"

	"github.com/pkg/sftp"
)

type Kind int

const (
	KindConnection Kind = iota + 1
	KindList
	KindTransfer
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection error"
	case KindList:
		return "list error"
	case KindTransfer:
		return "transfer error"
	}
	return "unknown error"
}

var (
	ErrConnection = errors.New("connection error")
	ErrList       = errors.New("list error")
	ErrTransfer   = errors.New("transfer error")

	// ErrEmptyFile marks a download that produced no bytes.
	ErrEmptyFile = errors.New("zero-byte transfer")
)

// Error is a protocol level failure. Connection and list errors abort a
// batch; transfer errors only fail the file they happened on.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrConnection:
		return e.Kind == KindConnection
	case ErrList:
		return e.Kind == KindList
	case ErrTransfer:
		return e.Kind == KindTransfer
	}
	return false
}

func connectionError(op string, err error) error {
	return &Error{Kind: KindConnection, Op: op, Err: err}
}

func listError(path string, err error) error {
	return &Error{Kind: KindList, Op: "list", Path: path, Err: err}
}

func transferError(op, path string, err error) error {
	return &Error{Kind: KindTransfer, Op: op, Path: path, Err: err}
}

// LocalError wraps a failure of the local filesystem during a transfer.
type LocalError struct {
	Path string
	Err  error
}

func (e *LocalError) Error() string {
	return fmt.Sprintf("local %s: %v", e.Path, e.Err)
}

func (e *LocalError) Unwrap() error {
	return e.Err
}

// replyCoder is implemented by FTP server replies.
type replyCoder interface {
	Code() int
}

// replyError is an FTP reply that does not fit the command just sent.
type replyError struct {
	code int
	msg  string
}

func (e *replyError) Error() string {
	return fmt.Sprintf("unexpected reply %d %s", e.code, e.msg)
}

func (e *replyError) Code() int {
	return e.code
}

const (
	reasonNotFound = "File not found or access denied"
	reasonDropped  = "Connection closed during transfer"
)

// Reason renders the per-file failure text written to the run log.
func Reason(err error) string {
	var local *LocalError
	if errors.As(err, &local) {
		return fmt.Sprintf("Local write error: %v", local.Err)
	}
	if errors.Is(err, ErrEmptyFile) {
		return "Downloaded file is empty"
	}
	if isNotFound(err) {
		return reasonNotFound
	}
	if IsDropped(err) {
		return reasonDropped
	}
	return err.Error()
}

func isNotFound(err error) bool {
	var coder replyCoder
	if errors.As(err, &coder) && coder.Code() == 550 {
		return true
	}
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
}

// IsDropped reports whether err means the connection went away mid
// transfer, which is worth a reconnect and a retry.
func IsDropped(err error) bool {
	if err == nil {
		return false
	}
	var local *LocalError
	if errors.As(err, &local) {
		return false
	}
	var coder replyCoder
	if errors.As(err, &coder) {
		switch coder.Code() {
		case 421, 425, 426:
			return true
		}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) || errors.Is(err, net.ErrClosed) ||
		errors.Is(err, sftp.ErrSSHFxConnectionLost) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
