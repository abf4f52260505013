package shell

import (
	"fmt"
	"strings"
)

// PathCommand returns the line that prepends binDir to PATH in shell.
func PathCommand(shell ShellType, binDir string) (string, error) {
	if err := ValidateShell(shell); err != nil {
		return "", err
	}

	switch shell {
	case ShellBash, ShellZsh:
		return fmt.Sprintf(`export PATH="%s:$PATH"`, binDir), nil
	case ShellFish:
		return fmt.Sprintf("fish_add_path %s", binDir), nil
	case ShellPowerShell:
		return fmt.Sprintf(`$env:Path = "%s;" + $env:Path`, binDir), nil
	}
	return "", &UnsupportedShellError{Shell: shell.String()}
}

// Hint is advice for putting a directory on PATH.
type Hint struct {
	Shell ShellType
	// RCFile is empty when the shell is unknown.
	RCFile  string
	Command string
	// Configured is true when RCFile already references the directory,
	// so only a new shell session is needed.
	Configured bool
}

// String renders the hint for terminal output.
func (h *Hint) String() string {
	switch {
	case h.Configured:
		return fmt.Sprintf("%s already adds it; restart your shell or run:\n  %s", h.RCFile, h.Command)
	case h.RCFile != "":
		return fmt.Sprintf("add this line to %s:\n  %s", h.RCFile, h.Command)
	default:
		return fmt.Sprintf("add it to your PATH, for example:\n  %s", h.Command)
	}
}

// PathHint builds a hint for the detected shell. Unknown shells get a
// POSIX export line without an RC file.
func PathHint(detected ShellType, home, binDir string) (*Hint, error) {
	shell := detected
	if !shell.IsValid() {
		shell = ShellBash
	}

	cmd, err := PathCommand(shell, displayPath(binDir, home, shell))
	if err != nil {
		return nil, err
	}

	hint := &Hint{Shell: detected, Command: cmd}
	if !detected.IsValid() {
		return hint, nil
	}

	rc, err := GetRCFilePath(detected, home)
	if err != nil {
		return nil, err
	}
	hint.RCFile = rc
	hint.Configured, err = MentionsDir(rc, binDir)
	if err != nil {
		return nil, err
	}
	if !hint.Configured && binDir != displayPath(binDir, home, shell) {
		hint.Configured, err = MentionsDir(rc, displayPath(binDir, home, shell))
		if err != nil {
			return nil, err
		}
	}
	return hint, nil
}

// displayPath rewrites a directory under home with $HOME so the line works
// for any user.
func displayPath(dir, home string, shell ShellType) string {
	if home == "" || shell == ShellPowerShell || !strings.HasPrefix(dir, home) {
		return dir
	}
	rest := strings.TrimPrefix(dir, home)
	if rest != "" && !strings.HasPrefix(rest, "/") {
		return dir
	}
	return "$HOME" + rest
}
