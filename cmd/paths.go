package cmd

import (
	"os"
	"path/filepath"
)

// defaultDataDir returns $HOME/.ralphloop, ralphloop's on-disk project root.
func defaultDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ralphloop"
	}
	return filepath.Join(home, ".ralphloop")
}

// defaultConfigPath returns the configuration file path: --config if set,
// otherwise config.json under the data directory.
func defaultConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(defaultDataDir(), "config.json")
}
