package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskbank/gatekeeper/internal/types"
)

var (
	listStatus     string
	listCategory   string
	listDifficulty string
	listLimit      int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in the bank",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var filter types.TaskFilter
		if listStatus != "" {
			status := types.Status(listStatus)
			if !status.IsValid() {
				fmt.Fprintf(os.Stderr, "Error: unknown status %q\n", listStatus)
				os.Exit(1)
			}
			filter.Status = &status
		}
		if listCategory != "" {
			filter.Category = &listCategory
		}
		if listDifficulty != "" {
			difficulty := types.Difficulty(listDifficulty)
			if !difficulty.IsValid() {
				fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q\n", listDifficulty)
				os.Exit(1)
			}
			filter.Difficulty = &difficulty
		}
		filter.Limit = listLimit

		tasks, err := store.ListTasks(cmd.Context(), filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		for _, task := range tasks {
			quality := "  -  "
			if task.QualityScore != nil {
				quality = scoreColor(*task.QualityScore)(fmt.Sprintf("%5.1f", *task.QualityScore))
			}
			fmt.Printf("%-36s  %-10s  %s  %-12s  %s\n",
				task.ID, statusColor(task.Status)(fmt.Sprintf("%-10s", task.Status)),
				quality, task.DifficultyLevel, task.Name)
		}
		fmt.Printf("\n%d task(s)\n", len(tasks))
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by lifecycle status")
	listCmd.Flags().StringVar(&listCategory, "category", "", "filter by category")
	listCmd.Flags().StringVar(&listDifficulty, "difficulty", "", "filter by difficulty level")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of tasks to return (0 for all)")
	rootCmd.AddCommand(listCmd)
}
