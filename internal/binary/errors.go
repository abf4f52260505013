package binary

import (
	"errors"
	"fmt"
)

// ErrChecksumMismatch is matched by every ChecksumMismatchError.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ChecksumMismatchError reports a file whose digest differs from the
// published one. The file has been deleted when this is returned.
type ChecksumMismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: file SHA256 is %q but expected %q", e.Path, e.Actual, e.Expected)
}

func (e *ChecksumMismatchError) Unwrap() error { return ErrChecksumMismatch }

// TransferError reports a failed download.
type TransferError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Attempts   int
	Err        error
}

func (e *TransferError) Error() string {
	msg := fmt.Sprintf("download %s failed", e.URL)
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": unexpected status code %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransferError) Unwrap() error { return e.Err }

// UnsupportedFormatError reports an archive whose name has no known suffix.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("cannot extract %s: unsupported archive format", e.Path)
}

// ArchiveParseError reports an archive that could not be opened or decoded.
type ArchiveParseError struct {
	Path string
	Err  error
}

func (e *ArchiveParseError) Error() string {
	return fmt.Sprintf("read archive %s: %v", e.Path, e.Err)
}

func (e *ArchiveParseError) Unwrap() error { return e.Err }

// BinaryNotFoundError reports that no entry in an archive matched.
type BinaryNotFoundError struct {
	Name    string
	Archive string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("binary %q not found in archive %s", e.Name, e.Archive)
}

// LinkError reports a filesystem failure while exposing or removing a link.
type LinkError struct {
	Op     string // "expose" or "remove"
	Link   string
	Target string
	Err    error
}

func (e *LinkError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s link %s -> %s: %v", e.Op, e.Link, e.Target, e.Err)
	}
	return fmt.Sprintf("%s link %s: %v", e.Op, e.Link, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }
