//go:build !(linux || darwin || freebsd || netbsd)

package binary

// setXattrs is a no-op where extended attributes are not supported.
func setXattrs(path string, attrs map[string]string) error {
	return nil
}
