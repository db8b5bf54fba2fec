package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ralphloop/internal/engine"
)

var loopCmd = &cobra.Command{
	Use:   "loop",
	Short: "Start, pause, resume, or stop a project's loop",
}

var loopStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start the loop engine for a Ready project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noUI()
		svc, err := buildService()
		if err != nil {
			return err
		}
		if err := svc.StartLoop(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("started loop for %s\n", args[0])
		return nil
	},
}

var loopPauseCmd = &cobra.Command{
	Use:   "pause <id>",
	Short: "Pause a running loop before its next iteration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noUI()
		svc, err := buildService()
		if err != nil {
			return err
		}
		return svc.PauseLoop(args[0])
	},
}

var loopResumeCmd = &cobra.Command{
	Use:   "resume <id>",
	Short: "Resume a paused loop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noUI()
		svc, err := buildService()
		if err != nil {
			return err
		}
		return svc.ResumeLoop(args[0])
	},
}

var loopStopCmd = &cobra.Command{
	Use:   "stop <id>",
	Short: "Stop a loop immediately",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noUI()
		svc, err := buildService()
		if err != nil {
			return err
		}
		return svc.StopLoop(args[0])
	},
}

var loopWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream loop events from every running project until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		noUI()
		svc, err := buildService()
		if err != nil {
			return err
		}
		for ev := range svc.Events() {
			printLoopEvent(ev)
		}
		return nil
	},
}

func printLoopEvent(ev engine.LoopEvent) {
	switch ev.Kind {
	case engine.EventOutput:
		fmt.Printf("[%s] %s\n", ev.ProjectID, ev.Content)
	case engine.EventError:
		fmt.Printf("[%s] error: %v\n", ev.ProjectID, ev.Err)
	default:
		fmt.Printf("[%s] %s (iteration %d)\n", ev.ProjectID, ev.Kind, ev.Iteration)
	}
}

func init() {
	loopCmd.AddCommand(loopStartCmd, loopPauseCmd, loopResumeCmd, loopStopCmd, loopWatchCmd)
	rootCmd.AddCommand(loopCmd)
}
