// Package recur computes the next due date for recurring tasks.
//
// All dates are naive calendar dates normalized to UTC midnight; the package
// never reads a clock and has no side effects. Rules form a closed set:
// daily, weekly (anchored to a weekday, Monday=0) and monthly (anchored to a
// day of the month). A monthly anchor past the end of a short month is
// clamped to that month's last day.
package recur

import "time"

// Storage names for the recurrence kinds. The flat (unit, every, byWhen)
// shape only exists at the persistence boundary; everything else works with
// Rule values.
const (
	UnitDays   = "days"
	UnitWeeks  = "weeks"
	UnitMonths = "months"
)

// Rule is a task's recurrence policy.
type Rule interface {
	// Next returns the due date following from. The result is always a UTC
	// midnight date and, for valid rules, strictly after from.
	Next(from time.Time) time.Time

	// Unit reports the rule's storage unit name.
	Unit() string

	sealed()
}

// Daily repeats every Every days.
type Daily struct {
	Every int
}

// Weekly repeats every Every weeks, landing on Weekday.
// Weekday runs Monday=0 .. Sunday=6.
type Weekly struct {
	Every   int
	Weekday int
}

// Monthly repeats every Every months, landing on DayOfMonth (1..31).
type Monthly struct {
	Every      int
	DayOfMonth int
}

func (Daily) sealed()   {}
func (Weekly) sealed()  {}
func (Monthly) sealed() {}

func (Daily) Unit() string   { return UnitDays }
func (Weekly) Unit() string  { return UnitWeeks }
func (Monthly) Unit() string { return UnitMonths }

func (r Daily) Next(from time.Time) time.Time {
	from = DateOf(from)
	next := from.AddDate(0, 0, r.Every)
	// Date-range overflow is practically unreachable, but if the arithmetic
	// ever fails to move forward, fall back to from unchanged rather than
	// producing a date in the past.
	if !next.After(from) {
		return from
	}
	return next
}

func (r Weekly) Next(from time.Time) time.Time {
	from = DateOf(from)
	jump := r.Weekday - isoWeekday(from)
	if jump <= 0 {
		// The anchor weekday is today or earlier this week; land on next
		// week's occurrence, never same-day.
		jump += 7
	}
	if r.Every > 1 {
		jump += 7 * r.Every
	}
	return from.AddDate(0, 0, jump)
}

func (r Monthly) Next(from time.Time) time.Time {
	from = DateOf(from)
	m0 := int(from.Month()) - 1 + r.Every
	year := from.Year() + m0/12
	month := time.Month(m0%12 + 1)
	day := r.DayOfMonth
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from one date to another.
// Both arguments are normalized first, so the result is exact.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)) / (24 * time.Hour))
}

// isoWeekday maps Go's Sunday=0 weekday onto Monday=0 .. Sunday=6.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func daysIn(year int, month time.Month) int {
	// Day zero of the following month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
