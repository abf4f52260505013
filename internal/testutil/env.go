// Package testutil isolates tests from the user's cask installation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env describes an isolated home directory.
type Env struct {
	// Home is the fake home directory.
	Home string
	// Root is the cask root CASK_ROOT points at. It is not created.
	Root string
}

// caskEnvVars are cleared so a developer's own settings never leak in.
var caskEnvVars = []string{
	"CASK_REGISTRY",
	"CASK_FORMULA_DIR",
	"CASK_RETRIES",
	"CASK_TIMEOUT",
	"CASK_LOG_LEVEL",
}

// SetupTestEnv points HOME and CASK_ROOT at a fresh temp directory and
// clears the other CASK_* variables. The directory is removed by
// t.TempDir() cleanup.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	home := t.TempDir()
	env := &Env{
		Home: home,
		Root: filepath.Join(home, ".cask"),
	}

	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("CASK_ROOT", env.Root)
	for _, key := range caskEnvVars {
		t.Setenv(key, "")
	}

	return env
}

// WriteFormula writes content as <dir>/<name>/Cask.toml.
func WriteFormula(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name), "Cask.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create formula directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write formula: %v", err)
	}
	return path
}
