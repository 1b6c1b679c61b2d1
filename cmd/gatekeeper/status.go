package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/taskbank/gatekeeper/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status <task-id>",
	Short: "Show a task and its latest screening evidence",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		task, err := store.GetTask(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan(task.Name))
		fmt.Printf("ID:         %s (v%d)\n", task.ID, task.Version)
		fmt.Printf("Status:     %s\n", statusColor(task.Status)(string(task.Status)))
		fmt.Printf("Category:   %s / %s / %s\n", task.Category, task.TaskType, task.DifficultyLevel)
		fmt.Printf("Created:    %s by %s\n", task.CreatedAt.Format("2006-01-02"), task.CreatedBy)
		if task.QualityScore != nil {
			fmt.Printf("Quality:    %s\n", scoreColor(*task.QualityScore)(fmt.Sprintf("%.1f", *task.QualityScore)))
		}
		if task.ContaminationScore != nil {
			// Contamination is inverted: high is bad.
			fmt.Printf("Contamination: %s\n", scoreColor(100-*task.ContaminationScore)(fmt.Sprintf("%.1f", *task.ContaminationScore)))
		}

		assessment, err := store.GetLatestAssessment(ctx, task.ID)
		switch {
		case err == nil:
			stale := ""
			if assessment.TaskVersion != task.Version {
				stale = color.YellowString(" (stale, assessed v%d)", assessment.TaskVersion)
			}
			fmt.Printf("\nLatest assessment%s: %s at %s\n", stale,
				scoreColor(assessment.OverallScore)(fmt.Sprintf("%.1f", assessment.OverallScore)),
				assessment.AssessedAt.Format("2006-01-02 15:04"))
			for _, score := range assessment.Scores {
				fmt.Printf("  %-20s %s\n", score.Metric,
					scoreColor(score.Score)(fmt.Sprintf("%.1f", score.Score)))
			}
		case storage.IsNotFound(err):
			fmt.Printf("\nNo quality assessment yet\n")
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		analysis, err := store.GetLatestAnalysis(ctx, task.ID)
		switch {
		case err == nil:
			stale := ""
			if analysis.TaskVersion != task.Version {
				stale = color.YellowString(" (stale, analyzed v%d)", analysis.TaskVersion)
			}
			fmt.Printf("\nLatest analysis%s at %s:\n", stale, analysis.AnalyzedAt.Format("2006-01-02 15:04"))
			printAnalysis(analysis)
		case storage.IsNotFound(err):
			fmt.Printf("\nNo contamination analysis yet\n")
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
