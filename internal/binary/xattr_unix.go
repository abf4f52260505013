//go:build linux || darwin || freebsd || netbsd

package binary

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// setXattrs applies extended attributes to path. Filesystems without xattr
// support and attributes the caller may not set are skipped.
func setXattrs(path string, attrs map[string]string) error {
	for name, value := range attrs {
		err := unix.Setxattr(path, name, []byte(value), 0)
		if err == nil {
			continue
		}
		if errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
			continue
		}
		return fmt.Errorf("set xattr %s on %s: %w", name, path, err)
	}
	return nil
}
