package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPathCommand(t *testing.T) {
	tests := []struct {
		shell ShellType
		want  string
	}{
		{ShellBash, `export PATH="/opt/cask/bin:$PATH"`},
		{ShellZsh, `export PATH="/opt/cask/bin:$PATH"`},
		{ShellFish, "fish_add_path /opt/cask/bin"},
		{ShellPowerShell, `$env:Path = "/opt/cask/bin;" + $env:Path`},
	}
	for _, tt := range tests {
		t.Run(tt.shell.String(), func(t *testing.T) {
			got, err := PathCommand(tt.shell, "/opt/cask/bin")
			if err != nil {
				t.Fatalf("PathCommand() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("PathCommand() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := PathCommand(ShellUnknown, "/x"); err == nil {
		t.Error("PathCommand(unknown) succeeded")
	}
}

func TestPathHint(t *testing.T) {
	home := "/home/u"
	bin := "/home/u/.cask/bin"

	hint, err := PathHint(ShellZsh, home, bin)
	if err != nil {
		t.Fatalf("PathHint() error = %v", err)
	}
	if hint.Command != `export PATH="$HOME/.cask/bin:$PATH"` {
		t.Errorf("Command = %q", hint.Command)
	}
	if hint.RCFile != filepath.Join(home, ".zshrc") || hint.Configured {
		t.Errorf("hint = %+v", hint)
	}
	if !strings.Contains(hint.String(), "add this line to") {
		t.Errorf("String() = %q", hint.String())
	}

	hint, err = PathHint(ShellUnknown, home, "/opt/cask/bin")
	if err != nil {
		t.Fatalf("PathHint(unknown) error = %v", err)
	}
	if hint.RCFile != "" || hint.Command != `export PATH="/opt/cask/bin:$PATH"` {
		t.Errorf("unknown shell hint = %+v", hint)
	}
}

func TestPathHint_AlreadyConfigured(t *testing.T) {
	home := t.TempDir()
	bin := filepath.Join(home, ".cask", "bin")
	rc := filepath.Join(home, ".bashrc")
	if err := os.WriteFile(rc, []byte("export PATH=\""+bin+":$PATH\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	hint, err := PathHint(ShellBash, home, bin)
	if err != nil {
		t.Fatalf("PathHint() error = %v", err)
	}
	if !hint.Configured {
		t.Errorf("Configured = false for rc file that already adds %s", bin)
	}
	if !strings.Contains(hint.String(), "restart your shell") {
		t.Errorf("String() = %q", hint.String())
	}
}

func TestDisplayPath(t *testing.T) {
	tests := []struct {
		dir, home string
		shell     ShellType
		want      string
	}{
		{"/home/u/.cask/bin", "/home/u", ShellBash, "$HOME/.cask/bin"},
		{"/home/user2/bin", "/home/u", ShellBash, "/home/user2/bin"},
		{"/home/u/.cask/bin", "/home/u", ShellPowerShell, "/home/u/.cask/bin"},
		{"/opt/bin", "", ShellFish, "/opt/bin"},
	}
	for _, tt := range tests {
		if got := displayPath(tt.dir, tt.home, tt.shell); got != tt.want {
			t.Errorf("displayPath(%q, %q) = %q, want %q", tt.dir, tt.home, got, tt.want)
		}
	}
}
