package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUpgradeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <package>",
		Short: "Install the newest version of an installed package",
		Long: `Fetch the package's formula again and install its default version if
it is newer than the installed one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.setup(cmd)
			if err != nil {
				return err
			}
			res, err := s.installer.Upgrade(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !res.Upgraded {
				fmt.Fprintf(a.stdout, "%s %s is up to date\n", res.Name, res.From)
				return nil
			}
			fmt.Fprintf(a.stdout, "Upgraded %s %s -> %s\n", res.Name, res.From, res.To)
			return nil
		},
	}
}
