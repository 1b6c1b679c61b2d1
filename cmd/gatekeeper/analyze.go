package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <task-id>",
	Short: "Run contamination analysis on a task",
	Long: `Check a task for contamination: similar and duplicate tasks already
in the bank, plagiarized spans, overlap with known training corpora,
and temporal leakage against the configured model cutoff. The analysis
is appended to the task's history; it does not change the task's
status.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analysis, err := engine.AnalyzeContamination(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("=== Contamination Analysis ==="))
		fmt.Printf("Task:    %s (v%d)\n", analysis.TaskID, analysis.TaskVersion)
		printAnalysis(analysis)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
