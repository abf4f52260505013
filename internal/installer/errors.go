package installer

import (
	"errors"
	"fmt"
)

// ErrNotInstalled is returned for operations on a package without an
// install record.
var ErrNotInstalled = errors.New("package is not installed")

// StageError reports the pipeline stage in which an install failed.
type StageError struct {
	Stage   State
	Package string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("install %s: %s: %v", e.Package, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func notInstalled(name string) error {
	return fmt.Errorf("%w: %s", ErrNotInstalled, name)
}
