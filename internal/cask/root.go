// Package cask manages the on-disk layout of a cask root and the install
// records kept for each package.
//
//	<root>/
//	  bin/                         exposure links, one per package
//	  formula/                     scratch space for formula clones
//	  packages/<name>/
//	    Cask.toml                  install record
//	    bin/<exe>                  extracted executable
//	    version/<version>.<ext>    downloaded archives
package cask

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Directory and file names inside a root.
const (
	PackagesDirName = "packages"
	BinDirName      = "bin"
	FormulaDirName  = "formula"
	VersionDirName  = "version"
	ManifestName    = "Cask.toml"
)

// Root is a cask root directory. The zero value is not usable; use New.
type Root struct {
	dir string
}

// New returns the root at dir. Nothing is created until Init.
func New(dir string) *Root {
	return &Root{dir: filepath.Clean(dir)}
}

// Dir returns the root directory.
func (r *Root) Dir() string { return r.dir }

// PackagesDir holds one directory per installed package.
func (r *Root) PackagesDir() string { return filepath.Join(r.dir, PackagesDirName) }

// BinDir holds the exposure links and is what users add to PATH.
func (r *Root) BinDir() string { return filepath.Join(r.dir, BinDirName) }

// FormulaDir is scratch space for formula repository clones.
func (r *Root) FormulaDir() string { return filepath.Join(r.dir, FormulaDirName) }

// PackageDir returns the directory of a package. Names containing slashes,
// such as github.com/owner/tool, map to nested directories.
func (r *Root) PackageDir(name string) string {
	return filepath.Join(r.PackagesDir(), filepath.FromSlash(name))
}

// PackageBinDir holds the extracted executable of a package.
func (r *Root) PackageBinDir(name string) string {
	return filepath.Join(r.PackageDir(name), BinDirName)
}

// VersionDir holds the downloaded archives of a package.
func (r *Root) VersionDir(name string) string {
	return filepath.Join(r.PackageDir(name), VersionDirName)
}

// ArchivePath is where the archive for version is downloaded to.
func (r *Root) ArchivePath(name, version, ext string) string {
	return filepath.Join(r.VersionDir(name), version+"."+ext)
}

// ManifestPath is the install record of a package.
func (r *Root) ManifestPath(name string) string {
	return filepath.Join(r.PackageDir(name), ManifestName)
}

// LinkPath is the exposure link for an executable name.
func (r *Root) LinkPath(bin string) string {
	return filepath.Join(r.BinDir(), bin)
}

// Init creates the top-level directories. It is idempotent.
func (r *Root) Init() error {
	for _, dir := range []string{r.PackagesDir(), r.BinDir(), r.FormulaDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// InitPackage creates the directories of one package. It is idempotent.
func (r *Root) InitPackage(name string) error {
	for _, dir := range []string{r.VersionDir(name), r.PackageBinDir(name)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// IsInstalled reports whether a package has an install record.
func (r *Root) IsInstalled(name string) bool {
	info, err := os.Stat(r.ManifestPath(name))
	return err == nil && info.Mode().IsRegular()
}

// RemovePackage deletes a package directory and prunes parent directories
// left empty by nested names.
func (r *Root) RemovePackage(name string) error {
	dir := r.PackageDir(name)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}

	packages := r.PackagesDir()
	for parent := filepath.Dir(dir); parent != packages && strings.HasPrefix(parent, packages); parent = filepath.Dir(parent) {
		if err := os.Remove(parent); err != nil {
			break
		}
	}
	return nil
}

// InstalledPackages returns the names of all packages with an install
// record, sorted.
func (r *Root) InstalledPackages() ([]string, error) {
	packages := r.PackagesDir()
	var names []string

	err := filepath.WalkDir(packages, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == packages && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() || path == packages {
			return nil
		}
		if _, err := os.Stat(filepath.Join(path, ManifestName)); err == nil {
			rel, err := filepath.Rel(packages, path)
			if err != nil {
				return err
			}
			names = append(names, filepath.ToSlash(rel))
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", packages, err)
	}

	sort.Strings(names)
	return names, nil
}

// CheckBinPath reports whether BinDir is an entry of pathEnv, a PATH-style
// list.
func (r *Root) CheckBinPath(pathEnv string) bool {
	bin := filepath.Clean(r.BinDir())
	for _, entry := range filepath.SplitList(pathEnv) {
		if entry == "" {
			continue
		}
		entry = filepath.Clean(entry)
		if entry == bin || (runtime.GOOS == "windows" && strings.EqualFold(entry, bin)) {
			return true
		}
	}
	return false
}
