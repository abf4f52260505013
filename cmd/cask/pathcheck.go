package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ZebulonRouseFrantzich/cask/internal/cask"
	"github.com/ZebulonRouseFrantzich/cask/internal/shell"
)

// warnIfNotOnPath tells the user how to reach installed executables when
// the bin directory is missing from PATH.
func (a *app) warnIfNotOnPath(ctx context.Context, root *cask.Root) {
	if root.CheckBinPath(getenv("PATH")) {
		return
	}

	fmt.Fprintf(a.stderr, "\nWarning: %s is not on your PATH.\n", root.BinDir())

	detected, err := shell.Detector{Getenv: getenv}.Detect(ctx)
	if err != nil {
		return
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	hint, err := shell.PathHint(detected.Shell, home, root.BinDir())
	if err != nil {
		return
	}
	fmt.Fprintf(a.stderr, "To run installed tools by name, %s\n", hint)
}
