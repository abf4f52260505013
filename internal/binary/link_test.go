package binary

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ZebulonRouseFrantzich/cask/internal/platform"
)

func TestNewLinker(t *testing.T) {
	tests := []struct {
		os   string
		want string
	}{
		{"linux", "symlink"},
		{"darwin", "symlink"},
		{"windows", "launcher"},
	}
	for _, tt := range tests {
		got := NewLinker(&platform.Info{OS: tt.os, Arch: "amd64"})
		if got.Name() != tt.want {
			t.Errorf("NewLinker(%s).Name() = %q, want %q", tt.os, got.Name(), tt.want)
		}
	}
}

func TestSymlinkLinker(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	first := filepath.Join(dir, "packages", "foo", "bin", "foo")
	second := filepath.Join(dir, "packages", "foo", "bin", "foo-2")
	link := filepath.Join(dir, "bin", "foo")

	l := &SymlinkLinker{}
	if err := l.Expose(first, link); err != nil {
		t.Fatalf("Expose() error = %v", err)
	}
	// A second exposure replaces the first, dangling or not.
	if err := l.Expose(second, link); err != nil {
		t.Fatalf("second Expose() error = %v", err)
	}

	got, err := os.Readlink(link)
	if err != nil {
		t.Fatalf("Readlink() error = %v", err)
	}
	if got != second {
		t.Errorf("link target = %q, want %q", got, second)
	}

	if err := l.Remove(link); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Lstat(link); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("link still present after Remove")
	}
	if err := l.Remove(link); err != nil {
		t.Errorf("Remove() of missing link error = %v", err)
	}
}

func TestSymlinkLinker_ReplacesRegularFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	link := filepath.Join(dir, "foo")
	if err := os.WriteFile(link, []byte("stale launcher"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := (&SymlinkLinker{}).Expose("/opt/foo", link); err != nil {
		t.Fatalf("Expose() error = %v", err)
	}
	if got, _ := os.Readlink(link); got != "/opt/foo" {
		t.Errorf("link target = %q", got)
	}
}

func TestLauncherLinker(t *testing.T) {
	dir := t.TempDir()
	target := `C:\Users\me\.cask\packages\foo\bin\foo.exe`
	link := filepath.Join(dir, "bin", "foo")

	l := &LauncherLinker{}
	if err := l.Expose("old", link); err != nil {
		t.Fatalf("Expose() error = %v", err)
	}
	if err := l.Expose(target, link); err != nil {
		t.Fatalf("second Expose() error = %v", err)
	}

	bat, err := os.ReadFile(link + ".bat")
	if err != nil {
		t.Fatal(err)
	}
	if want := "@echo off\r\n\"" + target + "\" %*\r\n"; string(bat) != want {
		t.Errorf("bat launcher = %q, want %q", bat, want)
	}

	sh, err := os.ReadFile(link)
	if err != nil {
		t.Fatal(err)
	}
	if want := "#!/bin/sh\nexec \"" + target + "\" \"$@\"\n"; string(sh) != want {
		t.Errorf("shell launcher = %q, want %q", sh, want)
	}

	if err := l.Remove(link); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	for _, p := range []string{link, link + ".bat"} {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s still present after Remove", p)
		}
	}
}

func TestLinker_Target(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "packages", "foo", "bin", "foo")

	linkers := []Linker{&LauncherLinker{}}
	if runtime.GOOS != "windows" {
		linkers = append(linkers, &SymlinkLinker{})
	}
	for _, l := range linkers {
		t.Run(l.Name(), func(t *testing.T) {
			link := filepath.Join(dir, l.Name(), "foo")
			if _, err := l.Target(link); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("Target() of missing link error = %v, want fs.ErrNotExist", err)
			}
			if err := l.Expose(target, link); err != nil {
				t.Fatalf("Expose() error = %v", err)
			}
			got, err := l.Target(link)
			if err != nil {
				t.Fatalf("Target() error = %v", err)
			}
			if got != target {
				t.Errorf("Target() = %q, want %q", got, target)
			}
		})
	}

	t.Run("foreign file", func(t *testing.T) {
		link := filepath.Join(dir, "hand-written")
		if err := os.WriteFile(link, []byte("#!/bin/bash\necho hi\n"), 0o755); err != nil {
			t.Fatal(err)
		}
		if _, err := (&LauncherLinker{}).Target(link); err == nil {
			t.Error("Target() of a foreign script succeeded")
		}
	})
}

func TestExposedLinkRuns(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX launchers and symlinks only")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "packages", "foo", "bin", "foo")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("#!/bin/sh\necho \"foo $1\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	for _, l := range []Linker{&SymlinkLinker{}, &LauncherLinker{}} {
		t.Run(l.Name(), func(t *testing.T) {
			link := filepath.Join(dir, l.Name(), "foo")
			if err := l.Expose(target, link); err != nil {
				t.Fatalf("Expose() error = %v", err)
			}
			out, err := exec.Command(link, "bar").Output()
			if err != nil {
				t.Fatalf("running %s: %v", link, err)
			}
			if string(out) != "foo bar\n" {
				t.Errorf("output = %q, want %q", out, "foo bar\n")
			}
		})
	}
}

func TestLinkError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	// The parent of the link is a regular file, so nothing can be created.
	err := (&LauncherLinker{}).Expose("/opt/foo", filepath.Join(blocker, "foo"))
	var le *LinkError
	if !errors.As(err, &le) {
		t.Fatalf("Expose() error = %v, want *LinkError", err)
	}
	if le.Op != "expose" {
		t.Errorf("LinkError.Op = %q", le.Op)
	}
}
