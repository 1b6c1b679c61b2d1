package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var screenCmd = &cobra.Command{
	Use:   "screen <task-id>",
	Short: "Run the full screening pipeline on a task",
	Long: `Run quality assessment and contamination analysis concurrently,
then apply the publication gate. This is the one-shot path a curator
uses when a new task lands in the bank.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := engine.Screen(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("=== Screening Result ==="))
		fmt.Printf("Task:    %s (v%d)\n", result.Assessment.TaskID, result.Assessment.TaskVersion)
		fmt.Printf("Quality: %s\n", scoreColor(result.Assessment.OverallScore)(fmt.Sprintf("%.1f", result.Assessment.OverallScore)))
		fmt.Printf("Status:  %s\n\n", statusColor(result.Status)(string(result.Status)))

		printAnalysis(result.Analysis)
		printValidation(result.Assessment.Validation)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)
}
