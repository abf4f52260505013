package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/cask/internal/cask"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed packages",
		Args:    cobra.NoArgs,
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
		records, err := s.installer.List(cmd.Context())
		if err != nil {
			return err
		}
		if *output != outputText {
			return writeStructured(a.stdout, *output, records)
		}
		if len(records) == 0 {
			fmt.Fprintln(a.stdout, "No packages installed.")
			fmt.Fprintln(a.stdout)
			fmt.Fprintln(a.stdout, "To install one:")
			fmt.Fprintln(a.stdout, "  cask install <package>")
			return nil
		}
		return writeRecords(a.stdout, records, time.Now())
	}
	return cmd
}

// writeRecords prints one aligned row per package.
func writeRecords(w io.Writer, records []cask.Record, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tINSTALLED")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", rec.Name, rec.Version, humanize.RelTime(rec.CreatedAt, now, "ago", "from now"))
	}
	return tw.Flush()
}
