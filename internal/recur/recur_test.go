package recur

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailyNext(t *testing.T) {
	tests := []struct {
		name  string
		every int
		from  time.Time
		want  time.Time
	}{
		{"every 3 days", 3, date(2021, time.January, 1), date(2021, time.January, 4)},
		{"every day", 1, date(2021, time.January, 31), date(2021, time.February, 1)},
		{"across year end", 2, date(2020, time.December, 30), date(2021, time.January, 1)},
		{"across leap day", 1, date(2020, time.February, 28), date(2020, time.February, 29)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Daily{Every: tt.every}.Next(tt.from)
			if !got.Equal(tt.want) {
				t.Errorf("Daily{%d}.Next(%s) = %s, want %s", tt.every, tt.from, got, tt.want)
			}
		})
	}
}

func TestDailyNextMonotonic(t *testing.T) {
	rule := Daily{Every: 5}
	prev := rule.Next(date(2021, time.January, 1))
	for d := 2; d <= 60; d++ {
		next := rule.Next(date(2021, time.January, 1).AddDate(0, 0, d-1))
		if next.Before(prev) {
			t.Fatalf("Next not monotonic: day %d gave %s after %s", d, next, prev)
		}
		prev = next
	}
}

func TestDailyNextNormalizesTimeOfDay(t *testing.T) {
	from := time.Date(2021, time.January, 1, 17, 45, 3, 0, time.UTC)
	got := Daily{Every: 3}.Next(from)
	if !got.Equal(date(2021, time.January, 4)) {
		t.Errorf("expected midnight 2021-01-04, got %s", got)
	}
}

func TestWeeklyNext(t *testing.T) {
	// 2021-01-01 is a Friday (weekday 4, Monday=0).
	friday := date(2021, time.January, 1)
	tests := []struct {
		name    string
		every   int
		weekday int
		from    time.Time
		want    time.Time
	}{
		{"later this week", 1, 6, friday, date(2021, time.January, 3)},   // Sunday
		{"earlier in week wraps", 1, 0, friday, date(2021, time.January, 4)}, // next Monday
		{"same weekday rolls a week", 1, 4, friday, date(2021, time.January, 8)},
		{"every 2 weeks adds 14 extra days", 2, 6, friday, date(2021, time.January, 17)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Weekly{Every: tt.every, Weekday: tt.weekday}.Next(tt.from)
			if !got.Equal(tt.want) {
				t.Errorf("Weekly{%d,%d}.Next(%s) = %s, want %s",
					tt.every, tt.weekday, tt.from, got, tt.want)
			}
		})
	}
}

func TestWeeklyNextLandsOnWeekdayStrictlyAfter(t *testing.T) {
	rule := Weekly{Every: 1, Weekday: 2} // Wednesday
	for d := 0; d < 14; d++ {
		from := date(2021, time.March, 1).AddDate(0, 0, d)
		got := rule.Next(from)
		if got.Weekday() != time.Wednesday {
			t.Errorf("Next(%s) = %s, not a Wednesday", from, got)
		}
		if !got.After(from) {
			t.Errorf("Next(%s) = %s, not strictly after", from, got)
		}
		if DaysBetween(from, got) > 7 {
			t.Errorf("Next(%s) = %s, more than a week out", from, got)
		}
	}
}

func TestMonthlyNext(t *testing.T) {
	tests := []struct {
		name       string
		every      int
		dayOfMonth int
		from       time.Time
		want       time.Time
	}{
		{"next month same day", 1, 15, date(2021, time.January, 10), date(2021, time.February, 15)},
		{"wraps into next year", 2, 5, date(2021, time.November, 20), date(2022, time.January, 5)},
		{"every 12 months", 12, 1, date(2021, time.March, 1), date(2022, time.March, 1)},
		{"day 31 clamps in short month", 1, 31, date(2021, time.January, 15), date(2021, time.February, 28)},
		{"day 31 clamps to leap day", 1, 31, date(2020, time.January, 15), date(2020, time.February, 29)},
		{"day 31 kept in long month", 2, 31, date(2021, time.November, 5), date(2022, time.January, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Monthly{Every: tt.every, DayOfMonth: tt.dayOfMonth}.Next(tt.from)
			if !got.Equal(tt.want) {
				t.Errorf("Monthly{%d,%d}.Next(%s) = %s, want %s",
					tt.every, tt.dayOfMonth, tt.from, got, tt.want)
			}
		})
	}
}

func TestMonthlyNextMonthAndYearFormula(t *testing.T) {
	for every := 1; every <= 25; every++ {
		from := date(2021, time.August, 3)
		got := Monthly{Every: every, DayOfMonth: 3}.Next(from)
		m0 := int(from.Month()) - 1 + every
		wantMonth := time.Month(m0%12 + 1)
		wantYear := from.Year() + m0/12
		if got.Month() != wantMonth || got.Year() != wantYear {
			t.Errorf("every=%d: got %s, want %d-%02d", every, got, wantYear, wantMonth)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2021, time.January, 1, 23, 0, 0, 0, time.UTC)
	to := time.Date(2021, time.January, 4, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(from, to); got != 3 {
		t.Errorf("DaysBetween = %d, want 3", got)
	}
	if got := DaysBetween(to, from); got != -3 {
		t.Errorf("reversed DaysBetween = %d, want -3", got)
	}
}

func TestIsoWeekday(t *testing.T) {
	// 2021-01-04 is a Monday.
	for i := 0; i < 7; i++ {
		if got := isoWeekday(date(2021, time.January, 4+i)); got != i {
			t.Errorf("isoWeekday(+%d) = %d, want %d", i, got, i)
		}
	}
}
