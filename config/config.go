// Package config provides configuration management for the application.
// It supports loading from JSON files and embedded defaults, and models
// the persisted GlobalConfig shape under the user's data directory.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

var (
	// ErrInvalidConfig is returned when the configuration validation fails.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConfigNotFound is returned when no configuration file is found.
	ErrConfigNotFound = errors.New("configuration file not found")
)

// legacyIterationTimeoutMs and legacyIdleTimeoutMs are the sentinel values
// an earlier version of this config persisted as "explicit defaults".
// They are normalized to 0 (disabled) on load, matching the original
// implementation's migration behavior.
const (
	legacyIterationTimeoutMs = 600000
	legacyIdleTimeoutMs      = 120000
)

// Config holds the application configuration.
// All fields are exported to support JSON marshaling.
type Config struct {
	// LogLevel specifies the logging verbosity level.
	// Valid values: trace, debug, info, warn, error, fatal
	LogLevel string `json:"logLevel" koanf:"logLevel"`

	// Debug enables debug mode which sets log level to trace
	// and enables additional debugging features.
	Debug bool `json:"debug" koanf:"debug"`

	// UI contains user interface specific configuration.
	UI UIConfig `json:"ui" koanf:"ui"`

	// App contains general application configuration.
	App AppConfig `json:"app" koanf:"app"`

	// Loop contains the persisted GlobalConfig for the loop engine.
	Loop LoopConfig `json:"loop" koanf:"loop"`
}

// LoopConfig models the persisted GlobalConfig: default CLI choice,
// timeout bounds, concurrency ceiling, retention policy, and the
// permissions-confirmation acknowledgement.
type LoopConfig struct {
	// DefaultCLI is the CliKind used for newly created projects.
	DefaultCLI string `json:"defaultCli" koanf:"defaultCli"`

	// DefaultMaxIterations seeds new tasks' max_iterations.
	DefaultMaxIterations int `json:"defaultMaxIterations" koanf:"defaultMaxIterations"`

	// MaxConcurrentProjects bounds how many engines may run at once
	// across all projects (the per-project at-most-one invariant is
	// enforced separately by the engine registry).
	MaxConcurrentProjects int `json:"maxConcurrentProjects" koanf:"maxConcurrentProjects"`

	// IterationTimeoutMs is the default per-iteration timeout. 0 disables it.
	IterationTimeoutMs int `json:"iterationTimeoutMs" koanf:"iterationTimeoutMs"`

	// IdleTimeoutMs is the default idle timeout. 0 disables it.
	IdleTimeoutMs int `json:"idleTimeoutMs" koanf:"idleTimeoutMs"`

	// Theme is one of "light", "dark", "system".
	Theme string `json:"theme" koanf:"theme"`

	// LogRetentionDays controls session log cleanup.
	LogRetentionDays int `json:"logRetentionDays" koanf:"logRetentionDays"`

	// PermissionsConfirmed records whether the user has acknowledged
	// the permissions disclaimer.
	PermissionsConfirmed bool `json:"permissionsConfirmed" koanf:"permissionsConfirmed"`
}

// UIConfig contains configuration specific to the user interface.
type UIConfig struct {
	// AltScreen runs the TUI in alternate screen mode (fullscreen).
	AltScreen bool `json:"altScreen" koanf:"altScreen"`

	// MouseEnabled enables mouse support in the TUI.
	MouseEnabled bool `json:"mouseEnabled" koanf:"mouseEnabled"`

	// ThemeName specifies the color theme to use.
	ThemeName string `json:"themeName" koanf:"themeName"`
}

// AppConfig contains general application configuration.
type AppConfig struct {
	// Name is the application name.
	Name string `json:"name" koanf:"name"`

	// Version is the application version.
	Version string `json:"version" koanf:"version"`

	// Title is the default window title.
	Title string `json:"title" koanf:"title"`
}

// Load reads configuration from the specified file path.
// If the file does not exist, it returns ErrConfigNotFound.
// If the file exists but cannot be parsed, it returns an error.
// Legacy sentinel timeout values are migrated to 0 and the file is
// rewritten if a migration occurred.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrConfigNotFound
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), koanfjson.Parser()); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if migrated := cfg.migrateLegacyTimeouts(); migrated {
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("rewriting migrated configuration: %w", err)
		}
	}

	return cfg, nil
}

// migrateLegacyTimeouts normalizes the legacy sentinel "explicit default"
// timeout values to 0 (disabled). Returns true if a value changed.
func (c *Config) migrateLegacyTimeouts() bool {
	changed := false
	if c.Loop.IterationTimeoutMs == legacyIterationTimeoutMs {
		c.Loop.IterationTimeoutMs = 0
		changed = true
	}
	if c.Loop.IdleTimeoutMs == legacyIdleTimeoutMs {
		c.Loop.IdleTimeoutMs = 0
		changed = true
	}
	return changed
}

// Save writes cfg to path as indented JSON, using a temp-file-then-rename
// so a crash mid-write never leaves a corrupt config file.
func Save(path string, cfg *Config) error {
	data, err := cfg.ToJSON()
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("committing config: %w", err)
	}
	return nil
}

// LoadFromBytes loads configuration from a byte slice.
// This is useful for loading embedded default configurations.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), koanfjson.Parser()); err != nil {
		return nil, fmt.Errorf("loading config from bytes: %w", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	cfg.migrateLegacyTimeouts()

	return cfg, nil
}

// Validate checks that the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("%w: invalid log level '%s'", ErrInvalidConfig, c.LogLevel)
	}
	if c.Loop.MaxConcurrentProjects < 1 {
		return fmt.Errorf("%w: maxConcurrentProjects must be >= 1", ErrInvalidConfig)
	}
	return nil
}

// ToJSON converts the configuration to a JSON byte slice.
func (c *Config) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding configuration to JSON: %w", err)
	}
	return data, nil
}

// GetEffectiveLogLevel returns the effective log level.
// If debug mode is enabled, it returns "trace" regardless of the configured level.
func (c *Config) GetEffectiveLogLevel() string {
	if c.Debug {
		return "trace"
	}
	return c.LogLevel
}
