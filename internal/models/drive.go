package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

type DriveType string

const (
	DriveTypeCIFS DriveType = "cifs"
	DriveTypeNFS  DriveType = "nfs"
)

// NetworkDrive describes a share the host mounts under a local directory.
// An empty MountPoint asks the mount manager to create a temporary one.
type NetworkDrive struct {
	Name              string      `yaml:"name" json:"name"`
	Type              DriveType   `yaml:"type" json:"type"`
	Server            string      `yaml:"server" json:"server"`
	MountPoint        string      `yaml:"mount_point" json:"mount_point"`
	Username          string      `yaml:"username" json:"username,omitempty"`
	PasswordEncrypted string      `yaml:"password_encrypted" json:"-"`
	Domain            string      `yaml:"domain" json:"domain,omitempty"`
	Options           string      `yaml:"options" json:"options,omitempty"`
	AutoMount         bool        `yaml:"auto_mount" json:"auto_mount"`
	NFS               *NfsOptions `yaml:"nfs" json:"nfs,omitempty"`
}

func (d *NetworkDrive) Validate() error {
	if d.Server == "" {
		return fmt.Errorf("drive %q: server is required", d.Name)
	}
	switch d.Type {
	case DriveTypeCIFS:
		if !strings.HasPrefix(d.Server, "//") {
			return fmt.Errorf("drive %q: cifs server must look like //host/share", d.Name)
		}
	case DriveTypeNFS:
		if !strings.Contains(d.Server, ":") {
			return fmt.Errorf("drive %q: nfs server must look like host:/export", d.Name)
		}
	default:
		return fmt.Errorf("drive %q: unsupported type %q", d.Name, d.Type)
	}
	return nil
}

// Contains reports whether path lives under the drive's mount point.
func (d *NetworkDrive) Contains(path string) bool {
	if d.MountPoint == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(d.MountPoint), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
