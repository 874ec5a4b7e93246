package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/hbt/internal/config"
	"github.com/theirongolddev/hbt/internal/logger"
	"github.com/theirongolddev/hbt/internal/model"
	"github.com/theirongolddev/hbt/internal/store"
	"github.com/theirongolddev/hbt/internal/tracker"
)

var (
	flagDB      string
	flagPeriod  string
	flagQuiet   bool
	flagVerbose bool

	// Set by `hbt serve`; other commands log to the console.
	flagLogJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "hbt",
	Short: "Habit tracker",
	Long:  "Track daily habits against monthly goals: streaks, success rates and completion charts.",
	RunE:  runDashboard,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Habit database path (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagPeriod, "period", "p", "", `Month to view, e.g. "October 2026" or 2026-10 (default: stored period)`)
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress confirmations")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")
}

// app bundles what a command needs: loaded config, the open store and the
// tracker service over it.
type app struct {
	cfg   config.Config
	log   *zap.Logger
	store *store.Store
	svc   *tracker.Service
}

// openApp is the shared setup path used by all data commands.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.General.DBPath = flagDB
	}

	log, err := logger.New(flagVerbose, flagLogJSON)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	dbPath := config.DBPath(cfg)
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	log.Debug("opened habit database", zap.String("path", dbPath))

	opts := []tracker.Option{tracker.WithLogger(log)}
	if len(cfg.Quotes) > 0 {
		opts = append(opts, tracker.WithQuotes(cfg.Quotes))
	}
	svc := tracker.New(st, opts...)
	if err := svc.Init(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}

	return &app{cfg: cfg, log: log, store: st, svc: svc}, nil
}

func (a *app) Close() {
	_ = a.log.Sync()
	_ = a.store.Close()
}

// period resolves the --period override, falling back to the stored period.
func (a *app) period(ctx context.Context) (model.Period, error) {
	if flagPeriod != "" {
		return model.ParsePeriod(flagPeriod)
	}
	return a.svc.Period(ctx)
}

// dashboard builds the dashboard for the resolved period.
func (a *app) dashboard(ctx context.Context) (model.DashboardStats, error) {
	p, err := a.period(ctx)
	if err != nil {
		return model.DashboardStats{}, err
	}
	return a.svc.DashboardFor(ctx, p)
}

// confirm prints a confirmation line unless --quiet is set.
func confirm(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Printf("  "+format+"\n", args...)
}
