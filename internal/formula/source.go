package formula

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ZebulonRouseFrantzich/cask/internal/config"
	"github.com/ZebulonRouseFrantzich/cask/internal/git"
)

// Source fetches formulas by package name.
type Source interface {
	Fetch(ctx context.Context, name string) (*Formula, error)
}

// RepositoryURL expands a registry template for name.
func RepositoryURL(registry, name string) string {
	return strings.ReplaceAll(registry, "{name}", name)
}

// validateName rejects names that could escape a formula directory.
func validateName(name string) error {
	if name == "" {
		return errors.New("package name cannot be empty")
	}
	if strings.Contains(name, `\`) || path.IsAbs(name) {
		return fmt.Errorf("invalid package name %q", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("invalid package name %q", name)
		}
	}
	return nil
}

// DirSource reads formulas from <Dir>/<name>/Cask.toml. Names containing
// slashes map to nested directories.
type DirSource struct {
	Dir string
}

// Fetch implements Source.
func (s *DirSource) Fetch(ctx context.Context, name string) (*Formula, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	file := filepath.Join(s.Dir, filepath.FromSlash(name), FileName)
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Name: name, Source: s.Dir}
		}
		return nil, fmt.Errorf("read formula: %w", err)
	}

	return Parse(data, file)
}

// GitSource clones a per-package formula repository and reads its Cask.toml.
type GitSource struct {
	Registry   string     // URL template containing {name}
	ScratchDir string     // parent for temporary clones
	Cloner     git.Cloner // nil uses git.NewClient()
	Logger     config.Logger
}

// Fetch implements Source. The clone is removed before returning.
func (s *GitSource) Fetch(ctx context.Context, name string) (*Formula, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	log := s.Logger
	if log == nil {
		log = config.NopLogger()
	}
	cloner := s.Cloner
	if cloner == nil {
		cloner = git.NewClient()
	}

	url := RepositoryURL(s.Registry, name)
	dest := filepath.Join(s.ScratchDir, uuid.New().String())
	defer func() {
		if err := os.RemoveAll(dest); err != nil {
			log.Warn("failed to remove formula clone", "path", dest, "error", err)
		}
	}()

	log.Debug("cloning formula repository", "url", url, "dest", dest)
	err := cloner.Clone(ctx, url, dest, git.CloneOptions{Depth: 1, SingleBranch: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotFound) {
			return nil, &NotFoundError{Name: name, Source: url, Err: err}
		}
		return nil, fmt.Errorf("fetch formula %s: %w", name, err)
	}

	if commit, err := git.HeadCommit(dest); err == nil {
		log.Debug("formula revision", "package", name, "commit", commit)
	}

	data, err := os.ReadFile(filepath.Join(dest, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Name: name, Source: url, Err: fmt.Errorf("repository has no %s", FileName)}
		}
		return nil, fmt.Errorf("read formula: %w", err)
	}

	return Parse(data, url)
}
