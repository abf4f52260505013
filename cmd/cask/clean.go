package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCleanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete archives of versions that are no longer installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.setup(cmd)
			if err != nil {
				return err
			}
			res, err := s.installer.Clean(cmd.Context())
			if err != nil {
				return err
			}
			if len(res.Removed) == 0 {
				fmt.Fprintln(a.stdout, "Nothing to clean.")
				return nil
			}
			for _, p := range res.Removed {
				fmt.Fprintf(a.stdout, "Removed %s\n", p)
			}
			fmt.Fprintf(a.stdout, "Freed %s\n", humanize.Bytes(uint64(res.BytesFreed)))
			return nil
		},
	}
}
