package binary

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// Digest returns the lowercase hex SHA-256 digest of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify checks the file at path against an expected SHA-256 hex digest.
// The comparison is exact, so expected must be lowercase. An empty expected
// digest skips the check. On mismatch the file is deleted and a
// *ChecksumMismatchError is returned.
func Verify(path, expected string) error {
	if expected == "" {
		return nil
	}

	actual, err := Digest(path)
	if err != nil {
		return err
	}
	if actual == expected {
		return nil
	}

	mismatch := &ChecksumMismatchError{Path: path, Expected: expected, Actual: actual}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(mismatch, fmt.Errorf("remove %s: %w", path, err))
	}
	return mismatch
}
