package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/taskbank/gatekeeper/internal/types"
)

// scoreColor picks a color for a 0-100 quality score
func scoreColor(score float64) func(a ...interface{}) string {
	switch {
	case score >= 70:
		return color.New(color.FgGreen).SprintFunc()
	case score >= 50:
		return color.New(color.FgYellow).SprintFunc()
	default:
		return color.New(color.FgRed).SprintFunc()
	}
}

// riskColor picks a color for a contamination risk level
func riskColor(risk types.RiskLevel) func(a ...interface{}) string {
	switch risk {
	case types.RiskLow:
		return color.New(color.FgGreen).SprintFunc()
	case types.RiskMedium:
		return color.New(color.FgYellow).SprintFunc()
	case types.RiskHigh:
		return color.New(color.FgRed).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// statusColor picks a color for a lifecycle status
func statusColor(status types.Status) func(a ...interface{}) string {
	switch status {
	case types.StatusPublished:
		return color.New(color.FgGreen).SprintFunc()
	case types.StatusApproved:
		return color.New(color.FgCyan).SprintFunc()
	case types.StatusReview:
		return color.New(color.FgYellow).SprintFunc()
	case types.StatusDraft:
		return color.New(color.FgRed).SprintFunc()
	default:
		return color.New(color.FgHiBlack).SprintFunc()
	}
}

func printValidation(validation types.ValidationResult) {
	if validation.HasErrors() {
		fmt.Printf("\n%s\n", color.RedString("Validation errors:"))
		for _, issue := range validation.Errors {
			fmt.Printf("  %s [%s] %s: %s\n", color.RedString("✗"), issue.Code, issue.Field, issue.Message)
		}
	}
	if len(validation.Warnings) > 0 {
		fmt.Printf("\n%s\n", color.YellowString("Warnings:"))
		for _, issue := range validation.Warnings {
			fmt.Printf("  %s [%s] %s: %s\n", color.YellowString("⚠"), issue.Code, issue.Field, issue.Message)
		}
	}
}

func printAnalysis(analysis *types.ContaminationAnalysis) {
	fmt.Printf("Risk:    %s\n", riskColor(analysis.OverallRisk)(string(analysis.OverallRisk)))
	fmt.Printf("Best similarity: %.2f (confidence %.1f)\n",
		analysis.Similarity.OverallSimilarity, analysis.Similarity.Confidence)

	if len(analysis.Similarity.SimilarTasks) > 0 {
		fmt.Printf("\nSimilar tasks:\n")
		for _, match := range analysis.Similarity.SimilarTasks {
			fmt.Printf("  %.2f  %-22s %s (%s)\n",
				match.Similarity, match.SimilarityType, match.TaskID, match.Name)
		}
	}
	if len(analysis.Similarity.Clusters) > 0 {
		fmt.Printf("\nDuplicate clusters:\n")
		for _, cluster := range analysis.Similarity.Clusters {
			fmt.Printf("  rep=%s avg=%.2f members=%v\n",
				cluster.Representative, cluster.AverageSimilarity, cluster.TaskIDs)
		}
	}
	if len(analysis.Similarity.Plagiarism) > 0 {
		fmt.Printf("\nPlagiarism indicators:\n")
		for _, indicator := range analysis.Similarity.Plagiarism {
			fmt.Printf("  from %s (confidence %.2f), %d segment(s)\n",
				indicator.SourceTaskID, indicator.Confidence, len(indicator.Segments))
		}
	}
	if len(analysis.TrainingData.Overlaps) > 0 || len(analysis.TrainingData.PotentialLeaks) > 0 {
		fmt.Printf("\nTraining data (risk %.0f/100):\n", analysis.TrainingData.RiskScore)
		for _, overlap := range analysis.TrainingData.Overlaps {
			fmt.Printf("  %-20s %s score=%.2f\n", overlap.DatasetName, overlap.OverlapType, overlap.Score)
		}
		for _, leak := range analysis.TrainingData.PotentialLeaks {
			fmt.Printf("  leak [%s] %q (confidence %.2f)\n", leak.Pattern, leak.Matched, leak.Confidence)
		}
	}

	fmt.Printf("\nTemporal: %s", analysis.Temporal.Risk)
	if analysis.Temporal.Notes != "" {
		fmt.Printf(" (%s)", analysis.Temporal.Notes)
	}
	fmt.Println()

	if len(analysis.Recommendations) > 0 {
		fmt.Printf("\nRecommendations:\n")
		for _, rec := range analysis.Recommendations {
			fmt.Printf("  %s %s\n", color.HiBlackString(">"), rec)
		}
	}
}
