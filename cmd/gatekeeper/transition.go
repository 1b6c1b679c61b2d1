package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskbank/gatekeeper/internal/types"
)

var transitionActor string

var transitionCmd = &cobra.Command{
	Use:   "transition <task-id> <status>",
	Short: "Move a task to a new lifecycle status",
	Long: `Apply an explicit curator transition, such as deprecating a
published task or archiving a deprecated one. Only moves allowed by
the lifecycle state machine are accepted, and publishing requires the
task to carry both a quality and a contamination score.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		target := types.Status(args[1])
		if !target.IsValid() {
			fmt.Fprintf(os.Stderr, "Error: unknown status %q\n", args[1])
			os.Exit(1)
		}
		if err := engine.Transition(cmd.Context(), args[0], target, transitionActor); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Task %s -> %s\n", args[0], statusColor(target)(string(target)))
	},
}

func init() {
	transitionCmd.Flags().StringVar(&transitionActor, "actor", "curator", "who is making the change, recorded in the status history")
	rootCmd.AddCommand(transitionCmd)
}
