package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "List, create, inspect, and delete projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every known project",
	RunE: func(cmd *cobra.Command, args []string) error {
		noUI()
		svc, err := buildService()
		if err != nil {
			return err
		}
		projects, err := svc.ListProjects()
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No projects yet. Run 'ralphloop project create <path>'.")
			return nil
		}
		fmt.Printf("%-12s %-24s %-12s %s\n", "ID", "NAME", "STATUS", "PATH")
		for _, p := range projects {
			fmt.Printf("%-12s %-24s %-12s %s\n", p.ID, p.Name, p.Status, p.Path)
		}
		return nil
	},
}

var projectCreateName string

var projectCreateCmd = &cobra.Command{
	Use:   "create <path>",
	Short: "Register a new project at path, starting in Brainstorming",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noUI()
		svc, err := buildService()
		if err != nil {
			return err
		}
		name := projectCreateName
		if name == "" {
			name = args[0]
		}
		st, err := svc.CreateProject(args[0], name)
		if err != nil {
			return err
		}
		fmt.Printf("created project %s (%s)\n", st.ID, st.Name)
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a project's full persisted state as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noUI()
		svc, err := buildService()
		if err != nil {
			return err
		}
		st, err := svc.GetProject(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project's persisted state and log history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noUI()
		svc, err := buildService()
		if err != nil {
			return err
		}
		if err := svc.DeleteProject(args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted project %s\n", args[0])
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().StringVar(&projectCreateName, "name", "", "Display name (defaults to the path)")

	projectCmd.AddCommand(projectListCmd, projectCreateCmd, projectShowCmd, projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}
