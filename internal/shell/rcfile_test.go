package shell

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetRCFilePath(t *testing.T) {
	home := "/home/testuser"

	tests := []struct {
		name    string
		shell   ShellType
		want    string
		wantErr bool
	}{
		{"Bash RC file", ShellBash, filepath.Join(home, ".bashrc"), false},
		{"Zsh RC file", ShellZsh, filepath.Join(home, ".zshrc"), false},
		{"Fish RC file", ShellFish, filepath.Join(home, ".config", "fish", "config.fish"), false},
		{"PowerShell profile", ShellPowerShell, filepath.Join(home, "Documents", "PowerShell", "Microsoft.PowerShell_profile.ps1"), false},
		{"Unknown shell", ShellUnknown, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetRCFilePath(tt.shell, home)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetRCFilePath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("GetRCFilePath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMentionsDir(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"export line", "alias ll='ls -l'\nexport PATH=\"/home/u/.cask/bin:$PATH\"\n", true},
		{"commented out", "# export PATH=\"/home/u/.cask/bin:$PATH\"\n", false},
		{"other dirs only", "export PATH=\"/opt/bin:$PATH\"\n", false},
		{"empty file", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := filepath.Join(tmpDir, tt.name)
			if err := os.WriteFile(rc, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := MentionsDir(rc, "/home/u/.cask/bin")
			if err != nil {
				t.Fatalf("MentionsDir() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MentionsDir() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		got, err := MentionsDir(filepath.Join(tmpDir, "nope"), "/x")
		if err != nil || got {
			t.Errorf("MentionsDir() = %v, %v, want false, nil", got, err)
		}
	})
}
