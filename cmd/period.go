package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbt/internal/model"
)

var periodCmd = &cobra.Command{
	Use:   "period [MONTH [YEAR]]",
	Short: "Show or change the viewed month",
	Long: `Show or change the month the dashboard and charts display.

  hbt period               show the stored month
  hbt period october 2026  switch to October 2026
  hbt period 2026-10       same
  hbt period --next        move forward one month`,
	Args: cobra.MaximumNArgs(2),
	RunE: runPeriod,
}

var (
	flagPeriodNext  bool
	flagPeriodPrev  bool
	flagPeriodToday bool
)

func init() {
	periodCmd.Flags().BoolVar(&flagPeriodNext, "next", false, "Move to the following month")
	periodCmd.Flags().BoolVar(&flagPeriodPrev, "prev", false, "Move to the previous month")
	periodCmd.Flags().BoolVar(&flagPeriodToday, "today", false, "Move to the current month")
	periodCmd.MarkFlagsMutuallyExclusive("next", "prev", "today")
	rootCmd.AddCommand(periodCmd)
}

func runPeriod(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cur, err := a.svc.Period(ctx)
	if err != nil {
		return err
	}

	next := cur
	switch {
	case flagPeriodNext:
		next = cur.Next()
	case flagPeriodPrev:
		next = cur.Prev()
	case flagPeriodToday:
		next = model.PeriodOf(a.svc.Today())
	case len(args) > 0:
		next, err = model.ParsePeriod(periodArg(args, cur))
		if err != nil {
			return err
		}
	default:
		fmt.Printf("  %s\n", cur)
		return nil
	}

	if err := a.svc.SetPeriod(ctx, next); err != nil {
		return err
	}
	confirm("Viewing %s", next)
	return nil
}

// periodArg joins the positional args into a ParsePeriod string. A bare
// month name keeps the current year.
func periodArg(args []string, cur model.Period) string {
	if len(args) == 1 && !strings.Contains(args[0], "-") && !strings.Contains(args[0], " ") {
		return fmt.Sprintf("%s %d", args[0], cur.Year)
	}
	return strings.Join(args, " ")
}
