package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "install <package> [version]",
		Aliases: []string{"i"},
		Short:   "Install a package",
		Long: `Fetch the package's formula, download the artifact for this platform,
verify it, extract the executable and link it into <root>/bin.

Without a version, the formula's declared default is installed, or the
first listed version if it declares none.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInstall(cmd, args)
		},
	}
}

func (a *app) runInstall(cmd *cobra.Command, args []string) error {
	s, err := a.setup(cmd)
	if err != nil {
		return err
	}

	var version string
	if len(args) == 2 {
		version = args[1]
	}

	res, err := s.installer.Install(cmd.Context(), args[0], version)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Installed %s %s\n", res.Name, res.Version)
	fmt.Fprintf(a.stdout, "  executable: %s\n", res.Executable)
	fmt.Fprintf(a.stdout, "  link:       %s\n", res.Link)
	if !res.Verified {
		fmt.Fprintln(a.stdout, "  checksum:   not published, download was not verified")
	}

	a.warnIfNotOnPath(cmd.Context(), s.installer.Root())
	return nil
}
