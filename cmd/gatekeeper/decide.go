package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var decideCmd = &cobra.Command{
	Use:   "decide <task-id>",
	Short: "Apply the publication gate to a task",
	Long: `Re-apply the gate decision table to the task's most recent quality
assessment and contamination analysis. Both must exist and must match
the task's current version; run "screen" first otherwise.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		status, err := engine.DecideStatus(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Task %s -> %s\n", args[0], statusColor(status)(string(status)))
	},
}

func init() {
	rootCmd.AddCommand(decideCmd)
}
