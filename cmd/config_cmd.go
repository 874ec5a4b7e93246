// Package cmd implements the hbt CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbt/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagDB != "" {
		cfg.General.DBPath = flagDB
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:     %s\n", config.DBPath(cfg))
	fmt.Printf("    Default goal: %d days\n", cfg.General.DefaultGoal)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	if cfg.Server.ReminderCron != "" {
		fmt.Printf("    Reminder:      %s\n", cfg.Server.ReminderCron)
	} else {
		fmt.Println("    Reminder:      off")
	}
	fmt.Println()

	if len(cfg.Quotes) > 0 {
		fmt.Printf("  [Quotes]\n    %d custom quotes\n\n", len(cfg.Quotes))
	}

	fmt.Println("  Run `hbt setup` to reconfigure.")
	return nil
}
