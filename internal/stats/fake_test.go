package stats

import (
	"context"
	"errors"
	"time"
)

type dayKey struct {
	habit     int64
	year, mon int
	day       int
}

// fakeReader is an in-memory CompletionReader that counts calls.
type fakeReader struct {
	done  map[dayKey]bool
	err   error
	calls int
}

func newFakeReader() *fakeReader {
	return &fakeReader{done: make(map[dayKey]bool)}
}

func (f *fakeReader) mark(habit int64, dates ...time.Time) {
	for _, d := range dates {
		f.done[dayKey{habit, d.Year(), int(d.Month()), d.Day()}] = true
	}
}

func (f *fakeReader) markDays(habit int64, year int, month time.Month, days ...int) {
	for _, d := range days {
		f.done[dayKey{habit, year, int(month), d}] = true
	}
}

func (f *fakeReader) CompletedDays(_ context.Context, habitID int64, year int, month time.Month) ([]int, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var days []int
	for k, v := range f.done {
		if v && k.habit == habitID && k.year == year && k.mon == int(month) {
			days = append(days, k.day)
		}
	}
	return days, nil
}

func (f *fakeReader) IsCompletedOn(_ context.Context, habitID int64, day time.Time) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.done[dayKey{habitID, day.Year(), int(day.Month()), day.Day()}], nil
}

var errDiskGone = errors.New("disk gone")

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
