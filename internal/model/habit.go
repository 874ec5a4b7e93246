// Package model defines domain types for hbt habits, completions and stats.
package model

// DefaultGoal is the monthly completion goal given to habits created without one.
const DefaultGoal = 30

// Habit is a named routine with a monthly completion goal.
type Habit struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Goal int    `json:"goal" yaml:"goal"`
}

// Completion marks whether a habit was done on a given calendar day.
type Completion struct {
	HabitID   int64
	Year      int
	Month     int
	Day       int
	Completed bool
}

// Profile is the single user's descriptive profile.
type Profile struct {
	Name      string `json:"name" yaml:"name"`
	Bio       string `json:"bio" yaml:"bio"`
	Location  string `json:"location" yaml:"location"`
	AvatarURL string `json:"avatar_url" yaml:"avatar_url"`
}

// DefaultProfile returns the profile used before the user edits it.
func DefaultProfile() Profile {
	return Profile{
		Name:     "User",
		Bio:      "Habit Enthusiast",
		Location: "World",
	}
}

// Quote is a motivational quote shown on the dashboard.
type Quote struct {
	Text   string `json:"text" yaml:"text" toml:"text"`
	Author string `json:"author" yaml:"author" toml:"author"`
}

// HabitTotal is one row of the exported report.
type HabitTotal struct {
	Habit       Habit `json:"habit" yaml:"habit"`
	Completions int   `json:"total_completions" yaml:"total_completions"`
}
