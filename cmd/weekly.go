package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbt/internal/cli"
	"github.com/theirongolddev/hbt/internal/model"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Completions per week of the viewed month",
	RunE:  runWeekly,
}

func init() {
	rootCmd.AddCommand(weeklyCmd)
}

func runWeekly(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ds, err := a.dashboard(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("WEEKLY COMPLETIONS  %s", ds.Settings)))
	fmt.Println()

	bars := ds.Analytics.WeeklyBar
	peak := 0
	for _, n := range bars {
		peak = max(peak, n)
	}

	weeks := (ds.Settings.DaysIn() + 6) / 7
	for i := 0; i < weeks && i < model.WeeksInBucket; i++ {
		fmt.Println(cli.RenderHorizontalBar(fmt.Sprintf("%-15s", cli.FormatWeek(i)), bars[i], peak, 40))
	}

	if peak == 0 {
		fmt.Println()
		fmt.Println("  No completions this month.")
	}
	return nil
}
