package stats

import "github.com/theirongolddev/hbt/internal/model"

var defaultQuotes = [...]model.Quote{
	{Text: "The secret of your future is hidden in your daily routine.", Author: "Mike Murdock"},
	{Text: "Don't watch the clock; do what it does. Keep going.", Author: "Sam Levenson"},
	{Text: "Habits are the compound interest of self-improvement.", Author: "James Clear"},
	{Text: "Motivation is what gets you started. Habit is what keeps you going.", Author: "Jim Ryun"},
	{Text: "Success is the sum of small efforts, repeated day in and day out.", Author: "Robert Collier"},
}

// DefaultQuotes returns a copy of the built-in quote table.
func DefaultQuotes() []model.Quote {
	return append([]model.Quote(nil), defaultQuotes[:]...)
}
