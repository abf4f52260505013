// Package installer runs the install pipeline and the package management
// operations built on it.
package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZebulonRouseFrantzich/cask/internal/binary"
	"github.com/ZebulonRouseFrantzich/cask/internal/cask"
	"github.com/ZebulonRouseFrantzich/cask/internal/config"
	"github.com/ZebulonRouseFrantzich/cask/internal/formula"
	"github.com/ZebulonRouseFrantzich/cask/internal/platform"
)

// Transfer downloads a URL to a local file.
type Transfer interface {
	DownloadToFile(ctx context.Context, url, dest string) error
}

// Config holds the collaborators of an Installer.
type Config struct {
	Root     *cask.Root
	Source   formula.Source
	Transfer Transfer
	Platform *platform.Info

	// Linker defaults to binary.NewLinker(Platform).
	Linker binary.Linker
	// Clock defaults to RealClock.
	Clock Clock
	// Logger defaults to a no-op logger.
	Logger config.Logger
	// OnState, when set, is called on every pipeline state change.
	OnState func(State)
}

// Installer installs and manages packages in one cask root. It is not safe
// for concurrent use and does not lock the root.
type Installer struct {
	root     *cask.Root
	source   formula.Source
	transfer Transfer
	platform *platform.Info
	linker   binary.Linker
	clock    Clock
	logger   config.Logger
	onState  func(State)
}

// New validates cfg and creates an Installer.
func New(cfg Config) (*Installer, error) {
	if cfg.Root == nil {
		return nil, errors.New("root is required")
	}
	if cfg.Source == nil {
		return nil, errors.New("formula source is required")
	}
	if cfg.Transfer == nil {
		return nil, errors.New("transfer is required")
	}
	if cfg.Platform == nil {
		return nil, errors.New("platform info is required")
	}

	in := &Installer{
		root:     cfg.Root,
		source:   cfg.Source,
		transfer: cfg.Transfer,
		platform: cfg.Platform,
		linker:   cfg.Linker,
		clock:    cfg.Clock,
		logger:   cfg.Logger,
		onState:  cfg.OnState,
	}
	if in.linker == nil {
		in.linker = binary.NewLinker(cfg.Platform)
	}
	if in.clock == nil {
		in.clock = RealClock{}
	}
	if in.logger == nil {
		in.logger = config.NopLogger()
	}
	return in, nil
}

// Root returns the cask root the installer manages.
func (in *Installer) Root() *cask.Root { return in.root }

// InstallResult describes a completed install.
type InstallResult struct {
	Name       string `json:"name" yaml:"name"`
	Version    string `json:"version" yaml:"version"`
	Archive    string `json:"archive" yaml:"archive"`
	Executable string `json:"executable" yaml:"executable"`
	Link       string `json:"link" yaml:"link"`
	Manifest   string `json:"manifest" yaml:"manifest"`
	Verified   bool   `json:"verified" yaml:"verified"`
}

// Install fetches the formula for name and installs version, or the
// formula's default version when version is empty. Files written before a
// failure are left in place.
func (in *Installer) Install(ctx context.Context, name, version string) (*InstallResult, error) {
	in.logger.Info("fetching formula", "package", name)

	in.enter(StateResolvingFormula, name)
	f, err := in.source.Fetch(ctx, name)
	if err != nil {
		return nil, in.fail(StateResolvingFormula, name, err)
	}

	return in.installFormula(ctx, f, version)
}

// installFormula runs the pipeline from version selection onwards.
func (in *Installer) installFormula(ctx context.Context, f *formula.Formula, explicit string) (*InstallResult, error) {
	pkg := f.Package
	name := pkg.Name

	in.enter(StateSelectingVersion, name)
	version, err := f.SelectVersion(explicit)
	if err != nil {
		return nil, in.fail(StateSelectingVersion, name, err)
	}
	target, err := f.DownloadTarget(version, in.platform.OS, in.platform.Arch)
	if err != nil {
		return nil, in.fail(StateSelectingVersion, name, err)
	}
	in.logger.Debug("selected version", "package", name, "version", version, "url", target.URL, "ext", target.Ext)

	in.enter(StatePreparingDirectories, name)
	if err := in.root.Init(); err != nil {
		return nil, in.fail(StatePreparingDirectories, name, err)
	}
	if err := in.root.InitPackage(name); err != nil {
		return nil, in.fail(StatePreparingDirectories, name, err)
	}

	in.enter(StateDownloading, name)
	archive := in.root.ArchivePath(name, version, target.Ext)
	in.logger.Info("downloading", "package", name, "version", version, "url", target.URL)
	if err := in.transfer.DownloadToFile(ctx, target.URL, archive); err != nil {
		return nil, in.fail(StateDownloading, name, err)
	}

	in.enter(StateVerifyingChecksum, name)
	if target.Checksum == "" {
		in.logger.Warn("formula publishes no checksum, skipping verification", "package", name, "version", version)
	}
	if err := binary.Verify(archive, target.Checksum); err != nil {
		return nil, in.fail(StateVerifyingChecksum, name, err)
	}

	// The suffix decided here names both the extracted file and the link target.
	in.enter(StateExtracting, name)
	exe := in.platform.ExecutableName(pkg.Bin)
	executable, err := binary.Extract(archive, exe, in.root.PackageBinDir(name))
	if err != nil {
		return nil, in.fail(StateExtracting, name, err)
	}

	in.enter(StateExposing, name)
	link := in.root.LinkPath(pkg.Bin)
	if err := in.linker.Expose(executable, link); err != nil {
		return nil, in.fail(StateExposing, name, err)
	}
	in.logger.Debug("exposed executable", "link", link, "target", executable, "strategy", in.linker.Name())

	in.enter(StateWritingManifest, name)
	manifest := in.root.ManifestPath(name)
	rec := cask.Record{
		Name:       name,
		Version:    version,
		Repository: f.Origin(),
		CreatedAt:  in.clock.Now(),
	}
	if err := cask.WriteManifest(manifest, rec, f.Raw()); err != nil {
		return nil, in.fail(StateWritingManifest, name, err)
	}

	in.enter(StateDone, name)
	in.logger.Info("installed", "package", name, "version", version)

	return &InstallResult{
		Name:       name,
		Version:    version,
		Archive:    archive,
		Executable: executable,
		Link:       link,
		Manifest:   manifest,
		Verified:   target.Checksum != "",
	}, nil
}

func (in *Installer) enter(s State, name string) {
	in.logger.Debug("install state", "package", name, "state", s.String())
	if in.onState != nil {
		in.onState(s)
	}
}

func (in *Installer) fail(stage State, name string, err error) error {
	in.enter(StateFailed, name)
	return &StageError{Stage: stage, Package: name, Err: err}
}

// readManifest loads the install record of an installed package.
func (in *Installer) readManifest(name string) (*cask.Manifest, error) {
	if !in.root.IsInstalled(name) {
		return nil, notInstalled(name)
	}
	m, err := cask.ReadManifest(in.root.ManifestPath(name))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return m, nil
}
