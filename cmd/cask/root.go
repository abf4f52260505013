package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/cask/internal/binary"
	"github.com/ZebulonRouseFrantzich/cask/internal/cask"
	"github.com/ZebulonRouseFrantzich/cask/internal/config"
	"github.com/ZebulonRouseFrantzich/cask/internal/formula"
	"github.com/ZebulonRouseFrantzich/cask/internal/git"
	"github.com/ZebulonRouseFrantzich/cask/internal/installer"
	"github.com/ZebulonRouseFrantzich/cask/internal/platform"
)

// app carries what every subcommand needs. Flags are bound to the root
// command's persistent flag set and read through config.Load.
type app struct {
	stdout io.Writer
	stderr io.Writer

	verbose bool

	// detector is swapped in tests.
	detector platform.Detector
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		stdout:   stdout,
		stderr:   stderr,
		detector: platform.NewDetector(),
	}
	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cask",
		Short: "Install prebuilt binaries from formula repositories",
		Long: `cask installs prebuilt executables described by Cask.toml formulas.

Each package lives in its own directory under the cask root and its
executable is exposed in <root>/bin, which should be on your PATH.

Examples:
  # Install the default version of a package
  cask install github.com/axetroy/prune

  # Install a specific version
  cask install github.com/axetroy/prune 0.2.0

  # See what is installed
  cask list`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SuggestionsMinimumDistance = 2

	flags := root.PersistentFlags()
	flags.String("root", "", "cask root directory (default ~/.cask)")
	flags.String("registry", "", "formula repository URL template containing {name}")
	flags.String("formula-dir", "", "read formulas from this directory instead of cloning")
	flags.Int("retries", 0, "extra download attempts after a failure")
	flags.String("timeout", "", "per-download timeout, e.g. 90s or 5m")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "shorthand for --log-level debug")

	root.AddCommand(
		newInstallCmd(a),
		newUninstallCmd(a),
		newListCmd(a),
		newSearchCmd(a),
		newInfoCmd(a),
		newUpgradeCmd(a),
		newCleanCmd(a),
		newVersionCmd(a),
	)
	return root
}

// session is one command's resolved configuration and installer.
type session struct {
	settings  *config.Settings
	logger    config.Logger
	platform  *platform.Info
	installer *installer.Installer
}

// setup resolves settings for cmd and wires the installer.
func (a *app) setup(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()

	settings, err := config.Load(ctx, config.LoadOptions{
		Flags:    cmd.Flags(),
		Detector: a.detector,
	})
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	level := settings.LogLevel
	if a.verbose {
		level = "debug"
	}
	logger := config.NewLogger(a.stderr, level)
	if settings.ConfigFile != "" {
		logger.Debug("loaded config", "path", settings.ConfigFile)
	}

	info, err := a.detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}
	logger.Debug("detected platform", "platform", info.String(), "distro", info.Platform)

	root := cask.New(settings.Root)

	var source formula.Source
	if settings.FormulaDir != "" {
		source = &formula.DirSource{Dir: settings.FormulaDir}
	} else {
		source = &formula.GitSource{
			Registry:   settings.Registry,
			ScratchDir: root.FormulaDir(),
			Cloner:     git.NewClient(),
			Logger:     logger,
		}
	}

	transfer := binary.NewDownloader(
		binary.WithRetries(settings.Retries),
		binary.WithTimeout(settings.Timeout),
		binary.WithUserAgent("cask/"+Version),
		binary.WithLogger(logger),
	)

	in, err := installer.New(installer.Config{
		Root:     root,
		Source:   source,
		Transfer: transfer,
		Platform: info,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	return &session{
		settings:  settings,
		logger:    logger,
		platform:  info,
		installer: in,
	}, nil
}

// getenv is swapped in tests.
var getenv = os.Getenv
