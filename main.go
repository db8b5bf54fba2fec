// ralphloop is the entry point for the loop-engine dashboard: it wires up
// logging, CLI flags, configuration, the service layer, and the TUI.
package main

import (
	"fmt"
	"io"
	"os"

	tea "charm.land/bubbletea/v2"

	"ralphloop/cmd"
	"ralphloop/config"
	applogger "ralphloop/internal/logger"
	"ralphloop/internal/service"
	"ralphloop/internal/ui"
)

func main() {
	// Execute the Cobra CLI. Subcommands (project, loop, config) set
	// runUI=false and exit early; bare invocation falls through to the TUI.
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Command execution failed: %v\n", err)
		os.Exit(1)
	}

	if !cmd.ShouldRunUI() {
		return
	}

	svc, err := service.New(cmd.GetDataDir(), cmd.GetConfigFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	cfg := svc.GetConfig()
	if cmd.IsDebugMode() {
		cfg.Debug = true
	}
	if cmd.WasLogLevelSet() {
		cfg.LogLevel = cmd.GetLogLevel()
	}

	// In TUI mode the terminal is occupied, so all logging must go to a
	// file (debug mode) or be silenced entirely (normal mode).
	logOutput, cleanup, err := setupLogOutput(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	initLogger(&cfg, logOutput)

	applogger.Info().Msg("Starting ralphloop")

	if err := ui.Run(ui.New(cfg, svc)); err != nil {
		applogger.Fatal().Err(err).Msg("UI failed")
	}
}

// setupLogOutput returns the writer to use for logging and an optional cleanup
// function that must be deferred by the caller.
func setupLogOutput(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.Debug {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			return nil, nil, fmt.Errorf("opening debug log: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	return io.Discard, nil, nil
}

// initLogger initialises the global zerolog logger.
func initLogger(cfg *config.Config, output io.Writer) {
	format := "console"
	if os.Getenv("ENV") == "production" {
		format = "json"
	}

	applogger.Init(applogger.Config{
		Level:  applogger.LogLevel(cfg.GetEffectiveLogLevel()),
		Format: format,
		Output: output,
	})
}
