package testutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZebulonRouseFrantzich/cask/internal/testutil"
)

func TestSetupTestEnv(t *testing.T) {
	t.Setenv("CASK_REGISTRY", "https://example.com/{name}.git")

	env := testutil.SetupTestEnv(t)

	if got := os.Getenv("HOME"); got != env.Home {
		t.Errorf("HOME = %q, want %q", got, env.Home)
	}
	if got := os.Getenv("CASK_ROOT"); got != filepath.Join(env.Home, ".cask") {
		t.Errorf("CASK_ROOT = %q", got)
	}
	if got := os.Getenv("CASK_REGISTRY"); got != "" {
		t.Errorf("CASK_REGISTRY = %q, want cleared", got)
	}
	if info, err := os.Stat(env.Home); err != nil || !info.IsDir() {
		t.Errorf("home directory not created: %v", err)
	}
}

func TestSetupTestEnv_Isolation(t *testing.T) {
	var homes []string
	for i := 0; i < 2; i++ {
		t.Run("sub", func(t *testing.T) {
			homes = append(homes, testutil.SetupTestEnv(t).Home)
		})
	}
	if homes[0] == homes[1] {
		t.Errorf("subtests share home %q", homes[0])
	}
}

func TestWriteFormula(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFormula(t, dir, "github.com/axetroy/prune", "[package]\n")

	want := filepath.Join(dir, "github.com", "axetroy", "prune", "Cask.toml")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "[package]\n" {
		t.Errorf("content = %q, %v", data, err)
	}
}
