package runner

import "fmt"

// MountError means the network drive holding the local path is unusable.
// The run stops before any transfer is attempted.
type MountError struct {
	Drive string
	Path  string
	Err   error
}

func (e *MountError) Error() string {
	return fmt.Sprintf("network drive %s at %s unavailable: %v", e.Drive, e.Path, e.Err)
}

func (e *MountError) Unwrap() error {
	return e.Err
}
