package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Protocol string

const (
	ProtocolFTP  Protocol = "ftp"
	ProtocolSFTP Protocol = "sftp"
	ProtocolNFS  Protocol = "nfs"
)

// TransferMode decides whether a plain download job fetches only the top
// level files of the remote path or walks the whole tree.
type TransferMode string

const (
	TransferModeFiles   TransferMode = "files"
	TransferModeFolders TransferMode = "folders"
)

// Endpoint is a configured remote storage target.
type Endpoint struct {
	ID                int64        `json:"id" yaml:"id" db:"id"`
	Name              string       `json:"name" yaml:"name" db:"name"`
	Protocol          Protocol     `json:"protocol" yaml:"protocol" db:"protocol"`
	Host              string       `json:"host" yaml:"host" db:"host"`
	Port              int          `json:"port" yaml:"port" db:"port"`
	Username          string       `json:"username" yaml:"username" db:"username"`
	PasswordEncrypted string       `json:"-" yaml:"password_encrypted" db:"password_encrypted"`
	RemotePath        string       `json:"remote_path" yaml:"remote_path" db:"remote_path"`
	TransferMode      TransferMode `json:"transfer_mode" yaml:"transfer_mode" db:"transfer_type"`
	Encoding          string       `json:"encoding,omitempty" yaml:"encoding" db:"encoding"`
	InsecureHostKey   bool         `json:"insecure_host_key,omitempty" yaml:"insecure_host_key" db:"insecure_host_key"`
	NFS               *NfsOptions  `json:"nfs,omitempty" yaml:"nfs" db:"nfs_options"`
	CreatedAt         time.Time    `json:"created_at" yaml:"-" db:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at" yaml:"-" db:"updated_at"`
}

// NfsOptions only exists on endpoints whose protocol is nfs.
type NfsOptions struct {
	ExportPath   string `json:"export_path" yaml:"export_path"`
	Version      string `json:"version,omitempty" yaml:"version"`
	MountOptions string `json:"mount_options,omitempty" yaml:"mount_options"`
	AuthMethod   string `json:"auth_method,omitempty" yaml:"auth_method"`
}

// DefaultPort returns the well-known port for the protocol.
func (p Protocol) DefaultPort() int {
	switch p {
	case ProtocolFTP:
		return 21
	case ProtocolSFTP:
		return 22
	case ProtocolNFS:
		return 2049
	}
	return 0
}

func (e *Endpoint) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("endpoint name is required")
	}
	if e.Host == "" {
		return fmt.Errorf("endpoint %q: host is required", e.Name)
	}
	switch e.Protocol {
	case ProtocolFTP, ProtocolSFTP:
		if e.NFS != nil {
			return fmt.Errorf("endpoint %q: nfs options set on %s endpoint", e.Name, e.Protocol)
		}
	case ProtocolNFS:
		if e.NFS == nil || e.NFS.ExportPath == "" {
			return fmt.Errorf("endpoint %q: nfs export path is required", e.Name)
		}
	default:
		return fmt.Errorf("endpoint %q: unsupported protocol %q", e.Name, e.Protocol)
	}
	switch e.TransferMode {
	case "", TransferModeFiles, TransferModeFolders:
	default:
		return fmt.Errorf("endpoint %q: unknown transfer mode %q", e.Name, e.TransferMode)
	}
	return nil
}

// Address returns host:port, filling in the protocol default.
func (e *Endpoint) Address() string {
	port := e.Port
	if port == 0 {
		port = e.Protocol.DefaultPort()
	}
	return fmt.Sprintf("%s:%d", e.Host, port)
}

func (o NfsOptions) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *NfsOptions) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into NfsOptions", value)
	}

	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, o)
}
