// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/hbt/internal/model"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatRate formats a 0-100 success rate.
func FormatRate(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatStreak formats a streak length.
// e.g., 0 -> "-", 1 -> "1 day", 12 -> "12 days"
func FormatStreak(days int) string {
	switch days {
	case 0:
		return "-"
	case 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

// FormatGoal formats progress against a goal, e.g. "12/20".
func FormatGoal(done, goal int) string {
	return fmt.Sprintf("%d/%d", done, goal)
}

// FormatCheck renders a completion flag as a single cell.
func FormatCheck(done bool) string {
	if done {
		return "✓"
	}
	return "·"
}

// FormatDate formats a date with its weekday, e.g. "Thu Oct 15".
func FormatDate(t time.Time) string {
	return FormatDayOfWeek(int(t.Weekday())) + t.Format(" Jan 2")
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatWeek labels a week bucket: 0 -> "Week 1 (1-7)", 4 -> "Week 5 (29-31)".
func FormatWeek(idx int) string {
	first := idx*7 + 1
	last := min(first+6, 31)
	return fmt.Sprintf("Week %d (%d-%d)", idx+1, first, last)
}

// ParseDate parses YYYY-MM-DD in the local zone. "today" and "yesterday"
// are relative to now.
func ParseDate(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, &model.ValidationError{Field: "date", Value: s, Reason: `want YYYY-MM-DD, "today" or "yesterday"`}
	}
	return t, nil
}
