package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbt/internal/cli"
	"github.com/theirongolddev/hbt/internal/stats"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Today's progress and the month's habit table",
	RunE:    runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
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

	today := a.svc.Today()
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("HABITS  %s", ds.Settings)))
	fmt.Println()

	if len(ds.Habits) == 0 {
		fmt.Println("  No habits yet. Add one with `hbt habit add NAME` or run `hbt setup`.")
		return nil
	}

	ts := ds.TodayStats
	fmt.Printf("  %s   Done today: %d/%d   Best streak: %s   Days left: %d\n",
		cli.FormatDate(today), ts.TotalChecks, len(ds.Habits), cli.FormatStreak(ts.MaxStreak), ts.DaysRemaining)
	if q := cli.RenderQuote(ts.Quote.Text, ts.Quote.Author); q != "" {
		fmt.Println(q)
	}
	fmt.Println()

	rows := make([][]string, 0, len(ds.Habits))
	for _, h := range ds.Habits {
		gp := stats.Progress(h, ds.Settings, today)
		rows = append(rows, []string{
			fmt.Sprintf("%d", h.ID),
			h.Name,
			cli.FormatCheck(h.CompletedToday),
			cli.FormatStreak(h.Streak),
			cli.RenderProgressBar(len(h.CompletedDays), h.Goal, 12),
			fmt.Sprintf("%d%%", gp.Percent),
			cli.FormatRate(h.SuccessRate),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"ID", "Habit", "Today", "Streak", "Month", "Goal", "Rate"},
		Rows:     rows,
		LeftCols: 2,
	}))
	return nil
}
