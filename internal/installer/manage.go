package installer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/ZebulonRouseFrantzich/cask/internal/cask"
	"github.com/ZebulonRouseFrantzich/cask/internal/formula"
)

// resolveInstalled maps a requested name to an installed package. A short
// name such as "prune" matches "github.com/axetroy/prune" when exactly one
// installed package ends with it.
func (in *Installer) resolveInstalled(name string) (string, error) {
	if in.root.IsInstalled(name) {
		return name, nil
	}

	installed, err := in.root.InstalledPackages()
	if err != nil {
		return "", err
	}
	var matches []string
	for _, pkg := range installed {
		if path.Base(pkg) == name {
			matches = append(matches, pkg)
		}
	}
	switch len(matches) {
	case 0:
		return "", notInstalled(name)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous: %s", name, strings.Join(matches, ", "))
	}
}

// ownsLink reports whether link is absent or runs an executable from pkg's
// bin directory. Another package exposing the same name keeps its link.
func (in *Installer) ownsLink(pkg, link string) bool {
	target, err := in.linker.Target(link)
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	if err != nil {
		in.logger.Debug("cannot read link target", "link", link, "error", err)
		return false
	}
	return filepath.Clean(filepath.Dir(target)) == filepath.Clean(in.root.PackageBinDir(pkg))
}

// UninstallResult describes a removed package.
type UninstallResult struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	// Link is empty when the link belonged to another package.
	Link    string `json:"link,omitempty" yaml:"link,omitempty"`
}

// Uninstall removes the exposure link, unless another package has taken it
// over, and the package directory.
func (in *Installer) Uninstall(ctx context.Context, name string) (*UninstallResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pkg, err := in.resolveInstalled(name)
	if err != nil {
		return nil, err
	}

	result := &UninstallResult{Name: pkg}
	bin := path.Base(pkg)
	if m, err := cask.ReadManifest(in.root.ManifestPath(pkg)); err == nil {
		result.Version = m.Record.Version
		bin = m.Formula.Package.Bin
	} else {
		in.logger.Warn("install record unreadable, guessing executable name", "package", pkg, "bin", bin, "error", err)
	}

	link := in.root.LinkPath(bin)
	if in.ownsLink(pkg, link) {
		if err := in.linker.Remove(link); err != nil {
			return nil, fmt.Errorf("uninstall %s: %w", pkg, err)
		}
		result.Link = link
	} else {
		in.logger.Warn("leaving link owned by another package", "package", pkg, "link", link)
	}
	if err := in.root.RemovePackage(pkg); err != nil {
		return nil, fmt.Errorf("uninstall %s: %w", pkg, err)
	}

	in.logger.Info("uninstalled", "package", pkg, "version", result.Version)
	return result, nil
}

// List returns the install records of all installed packages, sorted by
// name. Unreadable records are logged and skipped.
func (in *Installer) List(ctx context.Context) ([]cask.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names, err := in.root.InstalledPackages()
	if err != nil {
		return nil, err
	}

	records := make([]cask.Record, 0, len(names))
	for _, name := range names {
		m, err := cask.ReadManifest(in.root.ManifestPath(name))
		if err != nil {
			in.logger.Warn("skipping unreadable install record", "package", name, "error", err)
			continue
		}
		records = append(records, m.Record)
	}
	return records, nil
}

// InfoResult describes an installed package.
type InfoResult struct {
	Record     cask.Record     `json:"cask" yaml:"cask"`
	Package    formula.Package `json:"package" yaml:"package"`
	Platforms  []string        `json:"platforms" yaml:"platforms"`
	Executable string          `json:"executable" yaml:"executable"`
	Link       string          `json:"link" yaml:"link"`
}

// Info reads the install record of an installed package.
func (in *Installer) Info(ctx context.Context, name string) (*InfoResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pkg, err := in.resolveInstalled(name)
	if err != nil {
		return nil, err
	}
	m, err := in.readManifest(pkg)
	if err != nil {
		return nil, err
	}

	bin := m.Formula.Package.Bin
	return &InfoResult{
		Record:     m.Record,
		Package:    m.Formula.Package,
		Platforms:  m.Formula.Platforms(),
		Executable: filepath.Join(in.root.PackageBinDir(pkg), in.platform.ExecutableName(bin)),
		Link:       in.root.LinkPath(bin),
	}, nil
}

// SearchResult describes a remote formula.
type SearchResult struct {
	Package   formula.Package `json:"package" yaml:"package"`
	Platforms []string        `json:"platforms" yaml:"platforms"`
	Origin    string          `json:"origin" yaml:"origin"`
	Available bool            `json:"available" yaml:"available"` // has a download for this host
	Installed string          `json:"installed,omitempty" yaml:"installed,omitempty"`
}

// Search fetches the formula for name without installing anything.
func (in *Installer) Search(ctx context.Context, name string) (*SearchResult, error) {
	f, err := in.source.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Package:   f.Package,
		Platforms: f.Platforms(),
		Origin:    f.Origin(),
	}
	if v, err := f.SelectVersion(""); err == nil {
		_, err := f.DownloadTarget(v, in.platform.OS, in.platform.Arch)
		result.Available = err == nil
	}
	if m, err := in.readManifest(f.Package.Name); err == nil {
		result.Installed = m.Record.Version
	}
	return result, nil
}

// UpgradeResult describes the outcome of an upgrade.
type UpgradeResult struct {
	Name     string         `json:"name" yaml:"name"`
	From     string         `json:"from" yaml:"from"`
	To       string         `json:"to" yaml:"to"`
	Upgraded bool           `json:"upgraded" yaml:"upgraded"`
	Install  *InstallResult `json:"install,omitempty" yaml:"install,omitempty"`
}

// Upgrade installs the formula's current default version if it is newer
// than the installed one. Versions that are not semantic versions are
// upgraded whenever they differ.
func (in *Installer) Upgrade(ctx context.Context, name string) (*UpgradeResult, error) {
	pkg, err := in.resolveInstalled(name)
	if err != nil {
		return nil, err
	}
	current, err := in.readManifest(pkg)
	if err != nil {
		return nil, err
	}

	in.enter(StateResolvingFormula, pkg)
	f, err := in.source.Fetch(ctx, pkg)
	if err != nil {
		return nil, in.fail(StateResolvingFormula, pkg, err)
	}
	latest, err := f.SelectVersion("")
	if err != nil {
		return nil, in.fail(StateSelectingVersion, pkg, err)
	}

	result := &UpgradeResult{Name: pkg, From: current.Record.Version, To: latest}
	if !isNewer(latest, current.Record.Version) {
		in.logger.Info("already up to date", "package", pkg, "version", current.Record.Version)
		result.To = current.Record.Version
		return result, nil
	}

	installed, err := in.installFormula(ctx, f, latest)
	if err != nil {
		return nil, err
	}

	// A renamed executable leaves the old link behind otherwise.
	if oldBin := current.Formula.Package.Bin; oldBin != f.Package.Bin {
		oldLink := in.root.LinkPath(oldBin)
		if in.ownsLink(pkg, oldLink) {
			if err := in.linker.Remove(oldLink); err != nil {
				in.logger.Warn("failed to remove previous link", "link", oldLink, "error", err)
			}
		}
	}

	result.Upgraded = true
	result.Install = installed
	return result, nil
}

// isNewer reports whether candidate should replace installed.
func isNewer(candidate, installed string) bool {
	if candidate == installed {
		return false
	}
	c, i := canonicalVersion(candidate), canonicalVersion(installed)
	if semver.IsValid(c) && semver.IsValid(i) {
		return semver.Compare(c, i) > 0
	}
	return true
}

func canonicalVersion(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// CleanResult lists what Clean removed.
type CleanResult struct {
	Removed    []string `json:"removed" yaml:"removed"`
	BytesFreed int64    `json:"bytes_freed" yaml:"bytes_freed"`
}

// Clean deletes archives of versions that are no longer installed and the
// formula clone scratch directory.
func (in *Installer) Clean(ctx context.Context) (*CleanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &CleanResult{Removed: []string{}}

	names, err := in.root.InstalledPackages()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		m, err := cask.ReadManifest(in.root.ManifestPath(name))
		if err != nil {
			in.logger.Warn("skipping package with unreadable install record", "package", name, "error", err)
			continue
		}

		versionDir := in.root.VersionDir(name)
		entries, err := os.ReadDir(versionDir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", versionDir, err)
		}
		for _, e := range entries {
			if isCurrentArchive(e.Name(), m.Record.Version) {
				continue
			}
			if err := in.removeCounted(filepath.Join(versionDir, e.Name()), result); err != nil {
				return nil, err
			}
		}
	}

	scratch := in.root.FormulaDir()
	entries, err := os.ReadDir(scratch)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", scratch, err)
	}
	for _, e := range entries {
		if err := in.removeCounted(filepath.Join(scratch, e.Name()), result); err != nil {
			return nil, err
		}
	}

	in.logger.Info("cleaned", "removed", len(result.Removed), "bytes", result.BytesFreed)
	return result, nil
}

// isCurrentArchive reports whether file is the archive of version, named
// <version>.<ext>.
func isCurrentArchive(file, version string) bool {
	for _, ext := range []string{"tar.gz", "tar", "zip"} {
		if file == version+"."+ext {
			return true
		}
	}
	return false
}

func (in *Installer) removeCounted(p string, result *CleanResult) error {
	size, err := diskUsage(p)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(p); err != nil {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	in.logger.Debug("removed", "path", p, "bytes", size)
	result.Removed = append(result.Removed, p)
	result.BytesFreed += size
	return nil
}

// diskUsage sums the sizes of the regular files under p.
func diskUsage(p string) (int64, error) {
	var total int64
	err := filepath.WalkDir(p, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("measure %s: %w", p, err)
	}
	return total, nil
}

