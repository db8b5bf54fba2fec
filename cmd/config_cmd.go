package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the persisted global configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		noUI()
		svc, err := buildService()
		if err != nil {
			return err
		}
		cfg := svc.GetConfig()
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	},
}

var configSetDefaultCLICmd = &cobra.Command{
	Use:   "set-default-cli <cli>",
	Short: "Set the CLI new projects default to (claude, codex, gemini, ...)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noUI()
		svc, err := buildService()
		if err != nil {
			return err
		}
		cfg := svc.GetConfig()
		cfg.Loop.DefaultCLI = args[0]
		if err := svc.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("default CLI set to %s\n", args[0])
		return nil
	},
}

var configCleanupLogsCmd = &cobra.Command{
	Use:   "cleanup-logs",
	Short: "Delete session logs older than the configured retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		noUI()
		svc, err := buildService()
		if err != nil {
			return err
		}
		n, err := svc.CleanupLogs()
		if err != nil {
			return err
		}
		fmt.Printf("removed %d log file(s)\n", n)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetDefaultCLICmd, configCleanupLogsCmd)
	rootCmd.AddCommand(configCmd)
}
