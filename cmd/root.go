// Package cmd provides the CLI commands for the application using Cobra.
// This is the root command that all subcommands are attached to.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// dataDir holds the path to the directory projects/ and config live under.
	dataDir string

	// debugMode indicates if debug mode is enabled.
	debugMode bool

	// logLevel sets the logging verbosity.
	logLevel string

	// runUI indicates whether to run the TUI after command execution.
	// This is set to false when running subcommands like project/loop/config.
	runUI = true
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ralphloop",
	Short: "Run autonomous coding-agent loops across many projects",
	Long: `ralphloop drives one or more coding-agent CLIs (claude, codex, gemini, ...)
through repeated iterations against a project until the task reports done,
a safety limit is hit, or it is stopped.

This application includes:
- Cobra CLI framework with flag support
- Zerolog structured logging
- JSON configuration with environment variable overrides
- Debug mode for development
- Shell completions (bash/zsh/fish)`,
	Example: `  # Launch the interactive project dashboard
  ralphloop

  # Manage projects from the command line instead
  ralphloop project list
  ralphloop loop start <project-id>

  # Run with custom config file and debug logging
  ralphloop --config /path/to/config.json --debug --log-level trace`,
	Version: "1.0.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The TUI is launched from main.go once the Cobra command tree
		// has finished executing, when ShouldRunUI() is still true.
		return nil
	},
}

// Execute runs the root command. This is called from main.go.
// It returns an error if the command fails.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root Cobra command.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// IsDebugMode returns whether debug mode is enabled.
func IsDebugMode() bool {
	return debugMode
}

// ShouldRunUI returns whether the TUI should be run after command execution.
// This is false when running subcommands like project/loop/config.
func ShouldRunUI() bool {
	return runUI
}

// noUI marks the current command as not wanting the TUI started afterward.
func noUI() {
	runUI = false
}

// init initializes the root command with flags and configuration.
func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Path to configuration file (default: $HOME/.ralphloop/config.json)")

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"Directory holding project state and logs (default: $HOME/.ralphloop)")

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false,
		"Enable debug mode with trace logging")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Set logging level (trace, debug, info, warn, error, fatal)")
}

// GetConfigFile returns the path to the configuration file.
func GetConfigFile() string {
	return cfgFile
}

// GetDataDir returns the configured data directory, empty if unset.
func GetDataDir() string {
	return dataDir
}

// GetLogLevel returns the configured log level.
func GetLogLevel() string {
	return logLevel
}

// WasLogLevelSet reports whether --log-level was explicitly passed on the command line.
func WasLogLevelSet() bool {
	return rootCmd.PersistentFlags().Changed("log-level")
}
