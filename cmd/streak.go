package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbt/internal/cli"
	"github.com/theirongolddev/hbt/internal/model"
)

var streakCmd = &cobra.Command{
	Use:   "streak [HABIT]",
	Short: "Current streak for one habit or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStreak,
}

var flagStreakAt string

func init() {
	streakCmd.Flags().StringVar(&flagStreakAt, "at", "", "Reference date, YYYY-MM-DD (default today)")
	rootCmd.AddCommand(streakCmd)
}

func runStreak(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ref, err := cli.ParseDate(flagStreakAt, a.svc.Today())
	if err != nil {
		return err
	}

	habits, err := a.svc.Habits(ctx)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		h, err := a.svc.ResolveHabit(ctx, args[0])
		if err != nil {
			return err
		}
		habits = []model.Habit{h}
	}

	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		n, err := a.svc.Streak(ctx, h.ID, ref)
		if err != nil {
			return err
		}
		rows = append(rows, []string{h.Name, cli.FormatStreak(n)})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Streaks as of %s", cli.FormatDate(ref)),
		Headers: []string{"Habit", "Streak"},
		Rows:    rows,
	}))
	return nil
}
