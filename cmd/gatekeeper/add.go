package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/taskbank/gatekeeper/internal/types"
)

var addScreen bool

var addCmd = &cobra.Command{
	Use:   "add <task.json>",
	Short: "Add a candidate task to the bank",
	Long: `Read a task definition from a JSON file ("-" for stdin) and store
it as a draft. An id is generated when the file does not carry one.
Pass --screen to run the full screening pipeline immediately.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var raw []byte
		var err error
		if args[0] == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var task types.Task
		if err := json.Unmarshal(raw, &task); err != nil {
			fmt.Fprintf(os.Stderr, "Error: parsing task: %v\n", err)
			os.Exit(1)
		}
		if task.ID == "" {
			task.ID = uuid.NewString()
		}

		if err := store.CreateTask(cmd.Context(), &task); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added task %s (%s)\n", task.ID, task.Name)

		if addScreen {
			result, err := engine.Screen(cmd.Context(), task.ID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: screening: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Quality %s, status %s\n",
				scoreColor(result.Assessment.OverallScore)(fmt.Sprintf("%.1f", result.Assessment.OverallScore)),
				statusColor(result.Status)(string(result.Status)))
		}
	},
}

func init() {
	addCmd.Flags().BoolVar(&addScreen, "screen", false, "screen the task immediately after adding it")
	rootCmd.AddCommand(addCmd)
}
