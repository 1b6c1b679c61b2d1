package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var assessCmd = &cobra.Command{
	Use:   "assess <task-id>",
	Short: "Run quality assessment on a task",
	Long: `Score a task on the five quality metrics (completeness, clarity,
difficulty accuracy, uniqueness, feasibility) and show the per-metric
findings. The assessment is appended to the task's history; it does
not change the task's status.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		assessment, err := engine.AssessQuality(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("=== Quality Assessment ==="))
		fmt.Printf("Task:    %s (v%d)\n", assessment.TaskID, assessment.TaskVersion)
		fmt.Printf("Overall: %s\n\n", scoreColor(assessment.OverallScore)(fmt.Sprintf("%.1f", assessment.OverallScore)))

		for _, score := range assessment.Scores {
			fmt.Printf("  %-20s %s\n", score.Metric,
				scoreColor(score.Score)(fmt.Sprintf("%.1f", score.Score)))
			for _, issue := range score.Issues {
				fmt.Printf("    %s %s\n", color.YellowString("!"), issue)
			}
			for _, rec := range score.Recommendations {
				fmt.Printf("    %s %s\n", color.HiBlackString(">"), rec)
			}
		}

		printValidation(assessment.Validation)
	},
}

func init() {
	rootCmd.AddCommand(assessCmd)
}
