package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/cask/internal/installer"
)

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <package>",
		Short: "Show a package's formula without installing it",
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
		res, err := s.installer.Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if *output != outputText {
			return writeStructured(a.stdout, *output, res)
		}
		writeSearchResult(a.stdout, res, s.platform.String())
		return nil
	}
	return cmd
}

func writeSearchResult(w io.Writer, res *installer.SearchResult, host string) {
	pkg := res.Package
	fmt.Fprintf(w, "%s\n", pkg.Name)
	if pkg.Description != "" {
		fmt.Fprintf(w, "  %s\n", pkg.Description)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Versions:")
	for _, v := range pkg.Versions {
		var marks []string
		if v == res.Installed {
			marks = append(marks, "installed")
		}
		if v == pkg.Version {
			marks = append(marks, "default")
		}
		if len(marks) > 0 {
			fmt.Fprintf(w, "  %s (%s)\n", v, strings.Join(marks, ", "))
		} else {
			fmt.Fprintf(w, "  %s\n", v)
		}
	}

	fmt.Fprintf(w, "Platforms: %s\n", strings.Join(res.Platforms, ", "))
	if !res.Available {
		fmt.Fprintf(w, "No download is published for %s.\n", host)
	}
	if pkg.Repository != "" {
		fmt.Fprintf(w, "Repository: %s\n", pkg.Repository)
	}
	if pkg.Homepage != "" {
		fmt.Fprintf(w, "Homepage: %s\n", pkg.Homepage)
	}
}
