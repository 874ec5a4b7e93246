package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbt/internal/config"
	"github.com/theirongolddev/hbt/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, err := config.LoadFile()
	if err != nil {
		return err
	}
	profile, err := a.svc.Profile(ctx)
	if err != nil {
		return err
	}
	habits, err := a.svc.Habits(ctx)
	if err != nil {
		return err
	}

	name := profile.Name
	goal := strconv.Itoa(cfg.General.DefaultGoal)
	seed := len(habits) == 0

	fields := []huh.Field{
		huh.NewInput().
			Title("Your name").
			Value(&name),
		huh.NewSelect[string]().
			Title("Color theme").
			Options(themeOptions()...).
			Value(&cfg.Appearance.Theme),
		huh.NewInput().
			Title("Default monthly goal").
			Description("Days per month a new habit aims for.").
			Value(&goal).
			Validate(validateGoal),
	}
	if len(habits) == 0 {
		fields = append(fields, huh.NewConfirm().
			Title("Start with the sample habits?").
			Description("Reading, Exercise, Meditation, Journaling, Learning a new skill").
			Value(&seed))
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeDracula())
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled.")
			return nil
		}
		return err
	}

	cfg.General.DefaultGoal, _ = strconv.Atoi(strings.TrimSpace(goal))
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if name = strings.TrimSpace(name); name != "" && name != profile.Name {
		profile.Name = name
		if err := a.svc.UpdateProfile(ctx, profile); err != nil {
			return err
		}
	}

	if seed {
		if _, err := a.svc.Seed(ctx); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `hbt setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func themeOptions() []huh.Option[string] {
	names := theme.Names()
	opts := make([]huh.Option[string], 0, len(names))
	for _, n := range names {
		opts = append(opts, huh.NewOption(n, n))
	}
	return opts
}

func validateGoal(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 31 {
		return errors.New("enter a number of days from 1 to 31")
	}
	return nil
}
