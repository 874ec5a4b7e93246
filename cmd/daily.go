package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbt/internal/cli"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Completions per day of the viewed month",
	RunE:  runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, _ []string) error {
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

	p := ds.Settings
	line := ds.Analytics.DailyLine[:p.DaysIn()]

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY COMPLETIONS  %s", p)))
	fmt.Println()
	fmt.Printf("  %s\n\n", cli.RenderSparkline(line))

	total := len(ds.Habits)
	today := a.svc.Today()
	rows := make([][]string, 0, len(line))
	for i, n := range line {
		day := p.Start().AddDate(0, 0, i)
		if day.After(today) {
			break
		}
		// Weeks are separated to match the weekly buckets.
		if i > 0 && i%7 == 0 {
			rows = append(rows, []string{"---"})
		}
		rows = append(rows, []string{
			cli.FormatDate(day),
			fmt.Sprintf("%d/%d", n, total),
			dayBar(n, total),
		})
	}

	if len(rows) == 0 {
		fmt.Println("  Nothing to show yet for this month.")
		return nil
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"Date", "Done", ""},
		Rows:     rows,
		LeftCols: 1,
	}))
	return nil
}

func dayBar(n, total int) string {
	if total == 0 {
		return ""
	}
	return strings.Repeat("■", n) + strings.Repeat("·", max(total-n, 0))
}

