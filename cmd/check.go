package cmd

import (
	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbt/internal/cli"
)

var checkCmd = &cobra.Command{
	Use:   "check HABIT [DATE]",
	Short: "Mark a habit done for a day (default today)",
	Long: `Mark a habit done for a day. HABIT is an id or a name; DATE is
YYYY-MM-DD, "today" or "yesterday". Checking the same day again
overwrites the earlier entry.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCheck,
}

var (
	flagUndo   bool
	flagToggle bool
)

func init() {
	checkCmd.Flags().BoolVar(&flagUndo, "undo", false, "Mark the day not done instead")
	checkCmd.Flags().BoolVarP(&flagToggle, "toggle", "t", false, "Flip the day's current state")
	checkCmd.MarkFlagsMutuallyExclusive("undo", "toggle")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	dateArg := ""
	if len(args) > 1 {
		dateArg = args[1]
	}
	day, err := cli.ParseDate(dateArg, a.svc.Today())
	if err != nil {
		return err
	}

	done := !flagUndo
	if flagToggle {
		done, err = a.svc.Toggle(ctx, h.ID, day)
	} else {
		err = a.svc.Check(ctx, h.ID, day, done)
	}
	if err != nil {
		return err
	}

	streak, err := a.svc.Streak(ctx, h.ID, a.svc.Today())
	if err != nil {
		return err
	}
	confirm("%s %s on %s  (streak: %s)", cli.FormatCheck(done), h.Name, cli.FormatDate(day), cli.FormatStreak(streak))
	return nil
}
