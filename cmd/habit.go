package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbt/internal/cli"
)

var habitCmd = &cobra.Command{
	Use:     "habit",
	Aliases: []string{"habits"},
	Short:   "List, add and remove habits",
	RunE:    runHabitList,
}

var habitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits with all-time totals",
	Args:  cobra.NoArgs,
	RunE:  runHabitList,
}

var habitAddCmd = &cobra.Command{
	Use:   "add NAME...",
	Short: "Add a habit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHabitAdd,
}

var habitRmCmd = &cobra.Command{
	Use:     "rm HABIT",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a habit and all of its completions",
	Args:    cobra.ExactArgs(1),
	RunE:    runHabitRm,
}

var flagHabitGoal int

func init() {
	habitAddCmd.Flags().IntVarP(&flagHabitGoal, "goal", "g", 0, "Monthly goal in days (default from config)")
	habitCmd.AddCommand(habitListCmd, habitAddCmd, habitRmCmd)
	rootCmd.AddCommand(habitCmd)
}

func runHabitList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	totals, err := a.svc.Totals(ctx)
	if err != nil {
		return err
	}
	if len(totals) == 0 {
		fmt.Println("  No habits yet. Add one with `hbt habit add NAME`.")
		return nil
	}

	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.Habit.ID),
			t.Habit.Name,
			fmt.Sprintf("%d", t.Habit.Goal),
			cli.FormatNumber(int64(t.Completions)),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Habits",
		Headers:  []string{"ID", "Name", "Goal", "Total"},
		Rows:     rows,
		LeftCols: 2,
	}))
	return nil
}

func runHabitAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	goal := flagHabitGoal
	if goal == 0 {
		goal = a.cfg.General.DefaultGoal
	}

	h, err := a.svc.AddHabit(ctx, strings.Join(args, " "), goal)
	if err != nil {
		return err
	}
	confirm("Added %q (id %d, goal %d days)", h.Name, h.ID, h.Goal)
	return nil
}

func runHabitRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.svc.ResolveHabit(ctx, args[0])
	if err != nil {
		return err
	}
	if err := a.svc.DeleteHabit(ctx, h.ID); err != nil {
		return err
	}
	confirm("Removed %q", h.Name)
	return nil
}
