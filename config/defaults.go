// Package config provides configuration management for the application.
package config

// DefaultConfig returns a configuration with sensible default values.
// These defaults can be overridden by loading a configuration file.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Debug:    false,
		UI: UIConfig{
			AltScreen:    false,
			MouseEnabled: true,
			ThemeName:    "default",
		},
		App: AppConfig{
			Name:    "ralphloop",
			Version: "1.0.0",
			Title:   "ralphloop",
		},
		Loop: LoopConfig{
			DefaultCLI:            "claude",
			DefaultMaxIterations:  10,
			MaxConcurrentProjects: 4,
			IterationTimeoutMs:    0,
			IdleTimeoutMs:         0,
			Theme:                 "system",
			LogRetentionDays:      7,
			PermissionsConfirmed:  false,
		},
	}
}

// DefaultConfigJSON returns the default configuration as a JSON byte slice.
// This can be used to create a default configuration file or as a fallback
// when no configuration file is found.
func DefaultConfigJSON() ([]byte, error) {
	return DefaultConfig().ToJSON()
}
