package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ZebulonRouseFrantzich/cask/internal/platform"
)

// Setting keys, shared by config.lua, CASK_* environment variables and flags.
const (
	KeyRoot       = "root"
	KeyRegistry   = "registry"
	KeyFormulaDir = "formula_dir"
	KeyRetries    = "retries"
	KeyTimeout    = "timeout"
	KeyLogLevel   = "log_level"
)

// EnvPrefix prefixes every environment override (CASK_ROOT, CASK_RETRIES, ...).
const EnvPrefix = "CASK"

// ConfigFileName is looked up inside the root directory.
const ConfigFileName = "config.lua"

// DefaultRegistry is the formula repository URL template. {name} is replaced
// with the package name.
const DefaultRegistry = "https://{name}-cask.git"

// DefaultTimeout bounds a single download.
const DefaultTimeout = 5 * time.Minute

// flagNames maps setting keys to the command-line flags that may override them.
var flagNames = map[string]string{
	KeyRoot:       "root",
	KeyRegistry:   "registry",
	KeyFormulaDir: "formula-dir",
	KeyRetries:    "retries",
	KeyTimeout:    "timeout",
	KeyLogLevel:   "log-level",
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Settings is the resolved configuration for one invocation. It is built once
// by Load and not modified afterwards.
type Settings struct {
	Root       string        // cask root, ~/.cask by default
	Registry   string        // formula repository URL template
	FormulaDir string        // local formula directory; overrides Registry when set
	Retries    int           // extra download attempts after the first
	Timeout    time.Duration // per-download timeout
	LogLevel   string        // debug, info, warn or error

	// ConfigFile is the config.lua that was applied, empty if none existed.
	ConfigFile string
}

// DefaultSettings returns the built-in defaults for the given home directory.
func DefaultSettings(home string) Settings {
	return Settings{
		Root:     filepath.Join(home, ".cask"),
		Registry: DefaultRegistry,
		Retries:  0,
		Timeout:  DefaultTimeout,
		LogLevel: "info",
	}
}

// LoadOptions configures Load.
type LoadOptions struct {
	// Flags holds command-line overrides. Only flags that were set take effect.
	Flags *pflag.FlagSet
	// Detector provides the platform table for config.lua. Nil disables it.
	Detector platform.Detector
	// Home overrides the user's home directory; empty uses os.UserHomeDir.
	Home string
	// Logger receives debug output about the layering.
	Logger Logger
}

// ValidationError reports an invalid resolved setting.
type ValidationError struct {
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid setting %q: %s", e.Key, e.Message)
}

// Load resolves Settings from defaults, <root>/config.lua, CASK_* environment
// variables and flags, in increasing order of precedence.
func Load(ctx context.Context, opts LoadOptions) (*Settings, error) {
	log := opts.Logger
	if log == nil {
		log = NopLogger()
	}

	home := opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		home = h
	}

	defaults := DefaultSettings(home)
	v := viper.New()
	v.SetDefault(KeyRoot, defaults.Root)
	v.SetDefault(KeyRegistry, defaults.Registry)
	v.SetDefault(KeyFormulaDir, "")
	v.SetDefault(KeyRetries, defaults.Retries)
	v.SetDefault(KeyTimeout, defaults.Timeout.String())
	v.SetDefault(KeyLogLevel, defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for key, name := range flagNames {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	// The root decides where config.lua lives, so it cannot come from it.
	root := expandHome(v.GetString(KeyRoot), home)
	configPath := filepath.Join(root, ConfigFileName)

	var applied string
	values, err := NewParser(opts.Detector).ParseFile(ctx, configPath)
	switch {
	case err == nil:
		if err := v.MergeConfigMap(values); err != nil {
			return nil, fmt.Errorf("merge %s: %w", configPath, err)
		}
		applied = configPath
		log.Debug("applied config file", "path", configPath, "keys", len(values))
	case errors.Is(err, os.ErrNotExist):
		log.Debug("no config file", "path", configPath)
	default:
		return nil, err
	}

	timeout, err := parseTimeout(v.GetString(KeyTimeout))
	if err != nil {
		return nil, err
	}

	s := &Settings{
		Root:       root,
		Registry:   v.GetString(KeyRegistry),
		FormulaDir: expandHome(v.GetString(KeyFormulaDir), home),
		Retries:    v.GetInt(KeyRetries),
		Timeout:    timeout,
		LogLevel:   strings.ToLower(v.GetString(KeyLogLevel)),
		ConfigFile: applied,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks value ranges that the individual layers cannot.
func (s *Settings) Validate() error {
	if s.Root == "" {
		return &ValidationError{Key: KeyRoot, Message: "must not be empty"}
	}
	if s.FormulaDir == "" && !strings.Contains(s.Registry, "{name}") {
		return &ValidationError{Key: KeyRegistry, Message: fmt.Sprintf("%q must contain {name}", s.Registry)}
	}
	if s.Retries < 0 {
		return &ValidationError{Key: KeyRetries, Message: fmt.Sprintf("%d is negative", s.Retries)}
	}
	if s.Timeout <= 0 {
		return &ValidationError{Key: KeyTimeout, Message: fmt.Sprintf("%s is not positive", s.Timeout)}
	}
	if !validLogLevels[s.LogLevel] {
		return &ValidationError{Key: KeyLogLevel, Message: fmt.Sprintf("unknown level %q", s.LogLevel)}
	}
	return nil
}

// parseTimeout accepts a Go duration string or a bare number of seconds.
func parseTimeout(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &ValidationError{Key: KeyTimeout, Message: fmt.Sprintf("%q is not a duration", raw)}
	}
	return d, nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
