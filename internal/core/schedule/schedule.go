// Package schedule expands a recurrence rule into the calendar dates it occurs on.
//
// Dates are naive calendar days. Every value is truncated to midnight UTC before
// stepping so that no timezone or DST arithmetic takes part.
package schedule

import (
	"errors"
	"strings"
	"time"
)

type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// MaxMonthlyDay is the day-of-month every monthly occurrence is clamped to.
// Occurrences of long months drift to the 28th and stay there.
const MaxMonthlyDay = 28

var ErrInvalidFrequency = errors.New("schedule: unknown frequency")

func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", ErrInvalidFrequency
	}
	return f, nil
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Day returns the naive calendar date y-m-d.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock and the zone of t, keeping its calendar date.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Day(y, m, d)
}

// Expand returns every occurrence of freq from start through end, both inclusive.
// It returns an empty slice when start is after end.
func Expand(start, end time.Time, freq Frequency) ([]time.Time, error) {
	if !freq.Valid() {
		return nil, ErrInvalidFrequency
	}

	current, last := Truncate(start), Truncate(end)
	dates := make([]time.Time, 0)
	for !current.After(last) {
		dates = append(dates, current)
		current = Next(current, freq)
	}
	return dates, nil
}

// Count returns how many occurrences of freq fall from start through end. It
// stops stepping once the count passes limit, so the result is at most limit+1.
// A limit of zero or less counts every occurrence.
func Count(start, end time.Time, freq Frequency, limit int) (int, error) {
	if !freq.Valid() {
		return 0, ErrInvalidFrequency
	}

	n := 0
	for current, last := Truncate(start), Truncate(end); !current.After(last); current = Next(current, freq) {
		n++
		if limit > 0 && n > limit {
			break
		}
	}
	return n, nil
}

// Next returns the occurrence after d. freq must be valid.
func Next(d time.Time, freq Frequency) time.Time {
	y, m, day := d.Date()
	switch freq {
	case Daily:
		return d.AddDate(0, 0, 1)
	case Weekly:
		return d.AddDate(0, 0, 7)
	case Monthly:
		if m == time.December {
			y, m = y+1, time.January
		} else {
			m++
		}
		return Day(y, m, min(day, MaxMonthlyDay))
	case Yearly:
		// Feb 29 falls back to Feb 28 in common years.
		if m == time.February && day == 29 && !isLeap(y+1) {
			day = 28
		}
		return Day(y+1, m, day)
	}
	panic("schedule: unknown frequency " + string(freq))
}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
