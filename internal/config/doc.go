// Package config loads cask's settings and provides its logger.
//
// Settings are layered, lowest precedence first:
//
//  1. built-in defaults (root ~/.cask, registry https://{name}-cask.git)
//  2. <root>/config.lua, evaluated in a sandboxed gopher-lua VM
//  3. CASK_* environment variables
//  4. command-line flags
//
// The merged result is a Settings value that is constructed once per
// invocation and treated as read-only afterwards.
//
// # config.lua
//
// The file must assign a global "cask" table. The read-only "platform" table
// is available for conditionals:
//
//	cask = {
//	  registry    = "https://{name}-cask.git",
//	  retries     = platform.is_windows and 2 or 0,
//	  timeout     = 120,       -- seconds, or a duration string like "2m"
//	  log_level   = "info",
//	}
//
// The sandbox removes os, io, debug and every module loading function, so a
// config file can compute values but cannot touch the system.
package config
