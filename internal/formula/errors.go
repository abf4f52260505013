package formula

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormulaNotFound is matched by every NotFoundError.
var ErrFormulaNotFound = errors.New("formula not found")

// NotFoundError reports that no formula exists for a package name.
type NotFoundError struct {
	Name   string // requested package name
	Source string // where it was looked up (repository URL or directory)
	Err    error  // underlying cause, may be nil
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("formula for %q not found at %s", e.Name, e.Source)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFormulaNotFound) true.
func (e *NotFoundError) Is(target error) bool { return target == ErrFormulaNotFound }

// InvalidFormulaError reports a formula document that cannot be used.
type InvalidFormulaError struct {
	Origin string
	Reason string
	Err    error
}

func (e *InvalidFormulaError) Error() string {
	msg := fmt.Sprintf("invalid formula %s: %s", e.Origin, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidFormulaError) Unwrap() error { return e.Err }

// VersionNotFoundError reports a requested or declared version that the
// formula does not list.
type VersionNotFoundError struct {
	Package   string
	Version   string
	Available []string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %q of %s not found in formula (available: %s)",
		e.Version, e.Package, strings.Join(e.Available, ", "))
}

// NoVersionAvailableError reports a formula with an empty versions list.
type NoVersionAvailableError struct {
	Package string
}

func (e *NoVersionAvailableError) Error() string {
	return fmt.Sprintf("formula %s does not list any version", e.Package)
}

// NoDownloadTargetError reports a formula without an artifact for the host.
type NoDownloadTargetError struct {
	Package string
	Version string
	OS      string
	Arch    string
}

func (e *NoDownloadTargetError) Error() string {
	return fmt.Sprintf("%s %s has no download for %s/%s", e.Package, e.Version, e.OS, e.Arch)
}
