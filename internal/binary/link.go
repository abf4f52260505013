package binary

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/cask/internal/platform"
)

// filepathToken is replaced with the target path in launcher templates.
const filepathToken = "{filepath}"

//go:embed templates/launcher.bat
var batTemplate string

//go:embed templates/launcher.sh
var shTemplate string

// Linker exposes an executable under a name in the bin directory.
type Linker interface {
	// Expose makes link run target, replacing any previous link.
	Expose(target, link string) error
	// Remove deletes everything Expose created for link. Missing files are
	// not an error.
	Remove(link string) error
	// Target returns the executable link currently runs. A missing link
	// is an error wrapping fs.ErrNotExist.
	Target(link string) (string, error)
	// Name identifies the strategy in logs.
	Name() string
}

// NewLinker picks the strategy for the host: symlinks where supported,
// launcher scripts otherwise.
func NewLinker(info *platform.Info) Linker {
	if info.SupportsSymlinks() {
		return &SymlinkLinker{}
	}
	return &LauncherLinker{}
}

// SymlinkLinker exposes executables as symbolic links.
type SymlinkLinker struct{}

// Name implements Linker.
func (l *SymlinkLinker) Name() string { return "symlink" }

// Expose implements Linker.
func (l *SymlinkLinker) Expose(target, link string) error {
	if err := removeIfExists(link); err != nil {
		return &LinkError{Op: "expose", Link: link, Target: target, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		return &LinkError{Op: "expose", Link: link, Target: target, Err: err}
	}
	if err := os.Symlink(target, link); err != nil {
		return &LinkError{Op: "expose", Link: link, Target: target, Err: err}
	}
	return nil
}

// Remove implements Linker.
func (l *SymlinkLinker) Remove(link string) error {
	if err := removeIfExists(link); err != nil {
		return &LinkError{Op: "remove", Link: link, Err: err}
	}
	return nil
}

// Target implements Linker. Relative link targets are resolved against the
// link's directory.
func (l *SymlinkLinker) Target(link string) (string, error) {
	target, err := os.Readlink(link)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	return target, nil
}

// LauncherLinker exposes executables through a pair of scripts: link.bat
// for cmd.exe and link for POSIX shells. The target path is inserted
// verbatim without escaping.
type LauncherLinker struct{}

// Name implements Linker.
func (l *LauncherLinker) Name() string { return "launcher" }

// Expose implements Linker.
func (l *LauncherLinker) Expose(target, link string) error {
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		return &LinkError{Op: "expose", Link: link, Target: target, Err: err}
	}

	scripts := []struct {
		path     string
		template string
	}{
		{link + ".bat", batTemplate},
		{link, shTemplate},
	}
	for _, s := range scripts {
		// A symlink left by an earlier strategy would be written through.
		if err := removeIfExists(s.path); err != nil {
			return &LinkError{Op: "expose", Link: s.path, Target: target, Err: err}
		}
		content := strings.ReplaceAll(s.template, filepathToken, target)
		if err := os.WriteFile(s.path, []byte(content), 0o755); err != nil {
			return &LinkError{Op: "expose", Link: s.path, Target: target, Err: err}
		}
	}
	return nil
}

// Remove implements Linker.
func (l *LauncherLinker) Remove(link string) error {
	for _, p := range []string{link + ".bat", link} {
		if err := removeIfExists(p); err != nil {
			return &LinkError{Op: "remove", Link: p, Err: err}
		}
	}
	return nil
}

// Target implements Linker by reading the path back out of the POSIX
// launcher.
func (l *LauncherLinker) Target(link string) (string, error) {
	data, err := os.ReadFile(link)
	if err != nil {
		return "", err
	}
	prefix, suffix, _ := strings.Cut(shTemplate, filepathToken)
	rest, ok := strings.CutPrefix(string(data), prefix)
	if ok {
		if target, _, found := strings.Cut(rest, suffix); found {
			return target, nil
		}
	}
	return "", fmt.Errorf("%s is not a cask launcher", link)
}

// removeIfExists removes a file or link, including dangling symlinks.
func removeIfExists(path string) error {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.Remove(path)
}
