package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUninstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall <package>",
		Aliases: []string{"un"},
		Short:   "Remove an installed package",
		Long: `Remove the package's link from <root>/bin and delete its directory,
including downloaded archives. A package may be named by its executable
name when that is unambiguous.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.setup(cmd)
			if err != nil {
				return err
			}
			res, err := s.installer.Uninstall(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if res.Version != "" {
				fmt.Fprintf(a.stdout, "Uninstalled %s %s\n", res.Name, res.Version)
			} else {
				fmt.Fprintf(a.stdout, "Uninstalled %s\n", res.Name)
			}
			return nil
		},
	}
}
