package shell

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Detector finds the user's shell. The zero value reads the real
// environment and process table.
type Detector struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	// ParentName returns the parent process name. Defaults to a gopsutil
	// lookup of os.Getppid().
	ParentName func(ctx context.Context) (string, error)
}

// DetectShell detects the user's shell from the real environment.
func DetectShell(ctx context.Context) (*DetectionResult, error) {
	return Detector{}.Detect(ctx)
}

// Detect tries $SHELL, then the parent process name.
func (d Detector) Detect(ctx context.Context) (*DetectionResult, error) {
	getenv := d.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	parentName := d.ParentName
	if parentName == nil {
		parentName = parentProcessName
	}

	// Method 1: $SHELL is set by login shells on Unix
	if shell := getenv("SHELL"); shell != "" {
		if shellType := parseShellFromPath(shell); shellType.IsValid() {
			return &DetectionResult{
				Shell:      shellType,
				Method:     "$SHELL environment variable",
				ShellPath:  shell,
				Confidence: "high",
			}, nil
		}
	}

	// Method 2: the process that started us
	if name, err := parentName(ctx); err == nil && name != "" {
		if shellType := parseShellFromPath(name); shellType.IsValid() {
			return &DetectionResult{
				Shell:      shellType,
				Method:     "parent process",
				ShellPath:  name,
				Confidence: "medium",
			}, nil
		}
	}

	return &DetectionResult{
		Shell:      ShellUnknown,
		Method:     "detection failed",
		Confidence: "none",
	}, nil
}

// parseShellFromPath extracts the shell type from a shell binary path
// Examples:
//   - /bin/bash -> bash
//   - /usr/bin/zsh -> zsh
//   - C:\Program Files\PowerShell\7\pwsh.exe -> powershell
//   - -zsh (login shell process name) -> zsh
func parseShellFromPath(shellPath string) ShellType {
	baseName := filepath.Base(strings.ReplaceAll(shellPath, `\`, "/"))
	baseName = strings.ToLower(baseName)
	baseName = strings.TrimSuffix(baseName, ".exe")
	baseName = strings.TrimPrefix(baseName, "-")

	switch baseName {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	case "pwsh", "powershell":
		return ShellPowerShell
	default:
		return ShellUnknown
	}
}

func parentProcessName(ctx context.Context) (string, error) {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getppid()))
	if err != nil {
		return "", err
	}
	return p.NameWithContext(ctx)
}

// ValidateShell validates that a shell type is supported
func ValidateShell(shell ShellType) error {
	if !shell.IsValid() {
		return &UnsupportedShellError{Shell: shell.String()}
	}
	return nil
}
