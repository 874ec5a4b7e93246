package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is the calendar month being viewed. It is always passed explicitly.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the month containing t in t's location.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// NewPeriod builds a validated period.
func NewPeriod(year int, month time.Month) (Period, error) {
	p := Period{Year: year, Month: month}
	return p, p.Validate()
}

// Validate checks the year and month are in range.
func (p Period) Validate() error {
	if p.Year < 1 || p.Year > 9999 {
		return &ValidationError{Field: "year", Value: p.Year, Reason: "must be between 1 and 9999"}
	}
	if p.Month < time.January || p.Month > time.December {
		return &ValidationError{Field: "month", Value: int(p.Month), Reason: "must be between 1 and 12"}
	}
	return nil
}

// DaysIn returns the number of days in the month.
func (p Period) DaysIn() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Start returns local midnight on the first day of the month.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.Local)
}

// Next returns the following month.
func (p Period) Next() Period {
	return PeriodOf(p.Start().AddDate(0, 1, 0))
}

// Prev returns the preceding month.
func (p Period) Prev() Period {
	return PeriodOf(p.Start().AddDate(0, -1, 0))
}

// Contains reports whether t falls within the month.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// DaysRemaining counts days left in the month including today. It is the
// full month length for future months and zero for past ones.
func (p Period) DaysRemaining(today time.Time) int {
	switch {
	case p.Contains(today):
		return p.DaysIn() - today.Day() + 1
	case p.Start().After(today):
		return p.DaysIn()
	default:
		return 0
	}
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// ParseMonth accepts an English month name (full or three-letter, any case)
// or a number 1-12.
func ParseMonth(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, &ValidationError{Field: "month", Value: s, Reason: "must be between 1 and 12"}
		}
		return time.Month(n), nil
	}
	lower := strings.ToLower(s)
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if lower == name || (len(lower) == 3 && strings.HasPrefix(name, lower)) {
			return m, nil
		}
	}
	return 0, &ValidationError{Field: "month", Value: s, Reason: "unknown month name"}
}

// ParsePeriod parses "October 2026", "Oct 2026" or "2026-10".
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01", s); err == nil {
		return PeriodOf(t), nil
	}
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Period{}, &ValidationError{Field: "period", Value: s, Reason: `want "Month YYYY" or "YYYY-MM"`}
	}
	m, err := ParseMonth(fields[0])
	if err != nil {
		return Period{}, err
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return Period{}, &ValidationError{Field: "year", Value: fields[1], Reason: "not a number"}
	}
	return NewPeriod(y, m)
}

type periodJSON struct {
	Year  int    `json:"year" yaml:"year"`
	Month string `json:"month" yaml:"month"`
}

// MarshalJSON emits the month by name: {"year":2026,"month":"October"}.
func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(periodJSON{Year: p.Year, Month: p.Month.String()})
}

// UnmarshalJSON accepts the month as a name or a number.
func (p *Period) UnmarshalJSON(data []byte) error {
	var raw struct {
		Year  json.Number     `json:"year"`
		Month json.RawMessage `json:"month"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	y, err := strconv.Atoi(raw.Year.String())
	if err != nil {
		return &ValidationError{Field: "year", Value: raw.Year.String(), Reason: "not a number"}
	}
	var ms string
	if err := json.Unmarshal(raw.Month, &ms); err != nil {
		var n int
		if err := json.Unmarshal(raw.Month, &n); err != nil {
			return &ValidationError{Field: "month", Value: string(raw.Month), Reason: "want a name or number"}
		}
		ms = strconv.Itoa(n)
	}
	m, err := ParseMonth(ms)
	if err != nil {
		return err
	}
	parsed, err := NewPeriod(y, m)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalYAML mirrors the JSON form.
func (p Period) MarshalYAML() (any, error) {
	return periodJSON{Year: p.Year, Month: p.Month.String()}, nil
}
