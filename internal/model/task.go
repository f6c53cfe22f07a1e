package model

import (
	"fmt"
	"time"

	"chorepoints/internal/recur"
)

// Task is a recurring chore. While IsDone is false, NextDue is the deadline
// for completing it on time; while IsDone is true, NextDue is the date the
// task reverts to todo and recurs.
type Task struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index"`
	Name        string
	Description string
	Points      int
	IsDone      bool      `gorm:"default:false"`
	NextDue     time.Time `gorm:"index"`
	RecurUnit   string    // days, weeks or months
	RecurEvery  int
	RecurByWhen int // weekday for weeks, day of month for months, unused for days
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Rule reassembles the recurrence union from the task's flat storage columns.
func (t *Task) Rule() (recur.Rule, error) {
	return RuleFrom(t.RecurUnit, t.RecurEvery, t.RecurByWhen)
}

// SetRule flattens rule into the task's storage columns.
func (t *Task) SetRule(rule recur.Rule) {
	t.RecurUnit = rule.Unit()
	switch r := rule.(type) {
	case recur.Daily:
		t.RecurEvery = r.Every
		t.RecurByWhen = 0
	case recur.Weekly:
		t.RecurEvery = r.Every
		t.RecurByWhen = r.Weekday
	case recur.Monthly:
		t.RecurEvery = r.Every
		t.RecurByWhen = r.DayOfMonth
	}
}

// RuleFrom builds a recurrence rule from its flat storage shape, validating
// the ranges each kind allows.
func RuleFrom(unit string, every, byWhen int) (recur.Rule, error) {
	if every < 1 {
		return nil, fmt.Errorf("recurrence interval must be positive, got %d", every)
	}
	switch unit {
	case recur.UnitDays:
		return recur.Daily{Every: every}, nil
	case recur.UnitWeeks:
		if byWhen < 0 || byWhen > 6 {
			return nil, fmt.Errorf("weekday must be 0..6 (Monday=0), got %d", byWhen)
		}
		return recur.Weekly{Every: every, Weekday: byWhen}, nil
	case recur.UnitMonths:
		if byWhen < 1 || byWhen > 31 {
			return nil, fmt.Errorf("day of month must be 1..31, got %d", byWhen)
		}
		return recur.Monthly{Every: every, DayOfMonth: byWhen}, nil
	default:
		return nil, fmt.Errorf("unknown recurrence unit %q", unit)
	}
}
