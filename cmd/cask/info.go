package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/cask/internal/cask"
	"github.com/ZebulonRouseFrantzich/cask/internal/installer"
)

func newInfoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <package>",
		Short: "Show details of an installed package",
		Args:  cobra.ExactArgs(1),
	}
	output := addOutputFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := validateOutput(*output); err != nil {
			return err
		}
		s, err := a.setup(cmd)
		if err != nil {
			return err
		}
		res, err := s.installer.Info(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if *output != outputText {
			return writeStructured(a.stdout, *output, res)
		}
		writeInfo(a.stdout, res)
		return nil
	}
	return cmd
}

func writeInfo(w io.Writer, res *installer.InfoResult) {
	pkg := res.Package
	rows := [][2]string{
		{"Name", res.Record.Name},
		{"Version", res.Record.Version},
		{"Installed", res.Record.CreatedAt.UTC().Format(cask.TimeFormat)},
		{"Formula", res.Record.Repository},
		{"Executable", res.Executable},
		{"Link", res.Link},
		{"Description", pkg.Description},
		{"Repository", pkg.Repository},
		{"Homepage", pkg.Homepage},
		{"License", pkg.License},
		{"Versions", strings.Join(pkg.Versions, ", ")},
		{"Platforms", strings.Join(res.Platforms, ", ")},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%-12s %s\n", row[0]+":", row[1])
	}
}
