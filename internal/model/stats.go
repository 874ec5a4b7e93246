package model

import "time"

// DaysInBucket is the fixed length of the daily completion series.
const DaysInBucket = 31

// WeeksInBucket is the fixed length of the weekly completion series.
const WeeksInBucket = 5

// HabitStats holds one habit's figures for the viewed period.
type HabitStats struct {
	ID             int64   `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Goal           int     `json:"goal" yaml:"goal"`
	CompletedDays  []int   `json:"completed_days" yaml:"completed_days"`
	Streak         int     `json:"streak" yaml:"streak"`
	SuccessRate    float64 `json:"success_rate" yaml:"success_rate"`
	CompletedToday bool    `json:"completed_today" yaml:"completed_today"`
}

// Analytics holds completion counts across all habits for the viewed period.
// DailyLine[i] is day i+1; WeeklyBar[i] covers days 7i+1 through 7i+7.
type Analytics struct {
	DailyLine [DaysInBucket]int  `json:"daily_line" yaml:"daily_line"`
	WeeklyBar [WeeksInBucket]int `json:"weekly_bar" yaml:"weekly_bar"`
}

// Aggregate is the result of a monthly aggregation pass.
type Aggregate struct {
	Habits    []HabitStats
	Analytics Analytics
}

// ServerDate is today's date as reported to clients.
type ServerDate struct {
	Year  int    `json:"year" yaml:"year"`
	Month string `json:"month" yaml:"month"`
	Day   int    `json:"day" yaml:"day"`
}

// NewServerDate converts t to its reported form.
func NewServerDate(t time.Time) ServerDate {
	return ServerDate{Year: t.Year(), Month: t.Month().String(), Day: t.Day()}
}

// TodayStats summarises today across all habits.
type TodayStats struct {
	TotalChecks   int        `json:"total_checks" yaml:"total_checks"`
	MaxStreak     int        `json:"max_streak" yaml:"max_streak"`
	Quote         Quote      `json:"quote" yaml:"quote"`
	ServerDate    ServerDate `json:"server_date" yaml:"server_date"`
	DaysRemaining int        `json:"days_remaining" yaml:"days_remaining"`
}

// DashboardStats is the full payload behind the dashboard views.
type DashboardStats struct {
	Settings   Period       `json:"settings" yaml:"settings"`
	Habits     []HabitStats `json:"habits" yaml:"habits"`
	Profile    Profile      `json:"profile" yaml:"profile"`
	TodayStats TodayStats   `json:"today_stats" yaml:"today_stats"`
	Analytics  Analytics    `json:"analytics" yaml:"analytics"`
}

// GoalProgress describes how a habit tracks against its monthly goal.
type GoalProgress struct {
	Percent   int    `json:"percent" yaml:"percent"`
	Remaining int    `json:"remaining" yaml:"remaining"`
	DaysLeft  int    `json:"days_left" yaml:"days_left"`
	Advice    string `json:"advice" yaml:"advice"`
}
