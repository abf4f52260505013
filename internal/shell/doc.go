// Package shell tells users how to put the cask bin directory on PATH.
//
// The user's shell is detected from $SHELL, then from the parent process,
// and the hint is phrased for that shell:
//
//	bash, zsh:   export PATH="$HOME/.cask/bin:$PATH"   (~/.bashrc, ~/.zshrc)
//	fish:        fish_add_path $HOME/.cask/bin         (~/.config/fish/config.fish)
//	powershell:  $env:Path = "...\.cask\bin;" + $env:Path  ($PROFILE)
//
// Nothing in this package modifies rc files. Callers print the hint.
package shell
