// Package timeutil provides calendar-month helpers used for rolling-window
// analytics. All month boundaries are computed in UTC.
package timeutil

import "time"

// MonthKeyLayout formats a month as "2006-01".
const MonthKeyLayout = "2006-01"

// StartOfMonth returns the first instant of t's calendar month in UTC.
func StartOfMonth(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths shifts a month start by n calendar months.
func AddMonths(monthStart time.Time, n int) time.Time {
	return monthStart.AddDate(0, n, 0)
}

// MonthKey returns the "YYYY-MM" key of t's calendar month.
func MonthKey(t time.Time) string {
	return StartOfMonth(t).Format(MonthKeyLayout)
}

// Window is a half-open interval [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// TrailingMonths returns the window covering the calendar month of now and
// the n-1 months before it.
func TrailingMonths(now time.Time, n int) Window {
	current := StartOfMonth(now)
	return Window{
		From: AddMonths(current, -(n - 1)),
		To:   AddMonths(current, 1),
	}
}
