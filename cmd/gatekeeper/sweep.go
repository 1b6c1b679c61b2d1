package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Re-screen every active task in the bank",
	Long: `Run the full screening pipeline over all tasks that are not
deprecated or archived, with bounded concurrency (GK_SWEEP_CONCURRENCY).
Use this after updating the training-corpus catalog or the model cutoff
table, when previously published tasks may have become contaminated.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		report, err := engine.Sweep(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("=== Sweep Report ==="))
		fmt.Printf("Tasks:    %d\n", report.Total)
		fmt.Printf("Screened: %s\n", color.GreenString("%d", report.Screened))
		fmt.Printf("Elapsed:  %s\n", report.Elapsed.Round(0))

		if len(report.Failures) > 0 {
			fmt.Printf("\n%s\n", color.RedString("Failures (%d):", len(report.Failures)))
			for _, failure := range report.Failures {
				fmt.Printf("  %s %s: %v\n", color.RedString("✗"), failure.TaskID, failure.Err)
			}
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
