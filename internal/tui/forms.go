package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbt/internal/config"
	"github.com/theirongolddev/hbt/internal/model"
	"github.com/theirongolddev/hbt/internal/tui/theme"
)

type formKind int

const (
	formNone formKind = iota
	formNewHabit
	formDeleteHabit
	formProfile
)

// formValues holds the fields bound to the open form. It lives behind a
// pointer so the bindings survive App being copied by value.
type formValues struct {
	name    string
	goal    string
	confirm bool
	habit   model.HabitStats
	profile model.Profile
}

func (a App) openForm(kind formKind) (tea.Model, tea.Cmd) {
	vals := &formValues{goal: strconv.Itoa(a.defaultGoal)}

	var form *huh.Form
	switch kind {
	case formNewHabit:
		form = newHabitForm(vals)
	case formDeleteHabit:
		h, ok := a.selectedHabit()
		if !ok {
			return a, nil
		}
		vals.habit = h
		form = deleteHabitForm(vals)
	case formProfile:
		vals.profile = a.dash.Profile
		form = profileForm(vals)
	default:
		return a, nil
	}

	a.form = form.WithTheme(huh.ThemeCharm()).WithWidth(min(max(a.width, 40), 60))
	a.formKind = kind
	a.formVals = vals
	return a, a.form.Init()
}

func newHabitForm(v *formValues) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("New habit").
			Placeholder("e.g. Drink water").
			Value(&v.name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Monthly goal (days)").
			Value(&v.goal).
			Validate(func(s string) error {
				n, err := strconv.Atoi(strings.TrimSpace(s))
				if err != nil || n < 1 {
					return errors.New("enter a positive number")
				}
				return nil
			}),
	))
}

func deleteHabitForm(v *formValues) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q?", v.habit.Name)).
			Description("All of its completions are removed too.").
			Affirmative("Delete").
			Negative("Keep").
			Value(&v.confirm),
	))
}

func profileForm(v *formValues) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Name").Value(&v.profile.Name),
		huh.NewText().Title("Bio").Lines(3).Value(&v.profile.Bio),
		huh.NewInput().Title("Location").Value(&v.profile.Location),
		huh.NewInput().Title("Avatar URL").Value(&v.profile.AvatarURL),
	))
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.closeForm()
		return a, nil
	}

	m, cmd := a.form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		submit := a.submitForm()
		a.closeForm()
		return a, submit
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	a.formVals = nil
}

// submitForm turns the completed form into a write command.
func (a App) submitForm() tea.Cmd {
	v := a.formVals
	t := a.tracker
	switch a.formKind {
	case formNewHabit:
		goal, _ := strconv.Atoi(strings.TrimSpace(v.goal))
		return mutate(func(ctx context.Context) (string, error) {
			h, err := t.AddHabit(ctx, v.name, goal)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Added %s", h.Name), nil
		})
	case formDeleteHabit:
		if !v.confirm {
			return nil
		}
		return mutate(func(ctx context.Context) (string, error) {
			if err := t.DeleteHabit(ctx, v.habit.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Deleted %s", v.habit.Name), nil
		})
	case formProfile:
		return mutate(func(ctx context.Context) (string, error) {
			if err := t.UpdateProfile(ctx, v.profile); err != nil {
				return "", err
			}
			return "Profile saved", nil
		})
	}
	return nil
}

func mutate(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		status, err := fn(ctx)
		return mutationMsg{status: status, err: err}
	}
}

// cycleTheme switches to the next theme and persists it to the config file.
func (a App) cycleTheme() tea.Cmd {
	next := theme.Next(theme.Active.Name)
	theme.SetActive(next.Name)
	return func() tea.Msg {
		cfg, err := config.LoadFile()
		if err != nil {
			return mutationMsg{err: err}
		}
		cfg.Appearance.Theme = next.Name
		if err := config.Save(cfg); err != nil {
			return mutationMsg{err: fmt.Errorf("saving theme: %w", err)}
		}
		return mutationMsg{status: "Theme: " + next.Name}
	}
}

func (a App) viewForm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(a.form.View())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}
