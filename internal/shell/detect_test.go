package shell

import (
	"context"
	"errors"
	"testing"
)

func TestDetector_Detect(t *testing.T) {
	tests := []struct {
		name           string
		shellEnv       string
		parent         string
		parentErr      error
		wantShell      ShellType
		wantMethod     string
		wantConfidence string
	}{
		{
			name:           "Bash from SHELL",
			shellEnv:       "/bin/bash",
			wantShell:      ShellBash,
			wantMethod:     "$SHELL environment variable",
			wantConfidence: "high",
		},
		{
			name:           "Zsh from SHELL",
			shellEnv:       "/usr/bin/zsh",
			parent:         "fish",
			wantShell:      ShellZsh,
			wantMethod:     "$SHELL environment variable",
			wantConfidence: "high",
		},
		{
			name:           "Unknown SHELL falls back to parent",
			shellEnv:       "/bin/ksh",
			parent:         "fish",
			wantShell:      ShellFish,
			wantMethod:     "parent process",
			wantConfidence: "medium",
		},
		{
			name:           "PowerShell parent without SHELL",
			parent:         "pwsh.exe",
			wantShell:      ShellPowerShell,
			wantMethod:     "parent process",
			wantConfidence: "medium",
		},
		{
			name:           "Parent lookup fails",
			parentErr:      errors.New("no such process"),
			wantShell:      ShellUnknown,
			wantMethod:     "detection failed",
			wantConfidence: "none",
		},
		{
			name:           "Nothing recognizable",
			shellEnv:       "/bin/ksh",
			parent:         "sshd",
			wantShell:      ShellUnknown,
			wantMethod:     "detection failed",
			wantConfidence: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Detector{
				Getenv: func(key string) string {
					if key == "SHELL" {
						return tt.shellEnv
					}
					return ""
				},
				ParentName: func(context.Context) (string, error) {
					return tt.parent, tt.parentErr
				},
			}

			result, err := d.Detect(context.Background())
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if result.Shell != tt.wantShell {
				t.Errorf("Detect() shell = %v, want %v", result.Shell, tt.wantShell)
			}
			if result.Method != tt.wantMethod {
				t.Errorf("Detect() method = %v, want %v", result.Method, tt.wantMethod)
			}
			if result.Confidence != tt.wantConfidence {
				t.Errorf("Detect() confidence = %v, want %v", result.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestParseShellFromPath(t *testing.T) {
	tests := []struct {
		shellPath string
		want      ShellType
	}{
		{"/bin/bash", ShellBash},
		{"/usr/local/bin/zsh", ShellZsh},
		{"-zsh", ShellZsh},
		{"/usr/bin/fish", ShellFish},
		{`C:\Program Files\PowerShell\7\pwsh.exe`, ShellPowerShell},
		{"powershell.exe", ShellPowerShell},
		{"/bin/ksh", ShellUnknown},
		{"/bin/tcsh", ShellUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.shellPath, func(t *testing.T) {
			if got := parseShellFromPath(tt.shellPath); got != tt.want {
				t.Errorf("parseShellFromPath(%q) = %v, want %v", tt.shellPath, got, tt.want)
			}
		})
	}
}

func TestValidateShell(t *testing.T) {
	for _, shell := range []ShellType{ShellBash, ShellZsh, ShellFish, ShellPowerShell} {
		if err := ValidateShell(shell); err != nil {
			t.Errorf("ValidateShell(%v) error = %v", shell, err)
		}
	}

	err := ValidateShell(ShellType("ksh"))
	var unsupported *UnsupportedShellError
	if !errors.As(err, &unsupported) || unsupported.Shell != "ksh" {
		t.Errorf("ValidateShell(ksh) error = %v, want *UnsupportedShellError", err)
	}
}

func TestShellType_IsValid(t *testing.T) {
	tests := []struct {
		shell ShellType
		want  bool
	}{
		{ShellBash, true},
		{ShellZsh, true},
		{ShellFish, true},
		{ShellPowerShell, true},
		{ShellUnknown, false},
		{ShellType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			if got := tt.shell.IsValid(); got != tt.want {
				t.Errorf("ShellType.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}
