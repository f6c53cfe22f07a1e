package service

import (
	"strings"
	"testing"

	"chorepoints/internal/recur"
)

func TestDailySummaryListsOpenTasks(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	tasks := NewTaskService(db)
	today := date(2021, 1, 1)

	if _, err := tasks.Create(ctx(), user.ID, TaskInput{
		Name: "water the plants", Points: 5, Rule: recur.Daily{Every: 1},
	}, today); err != nil {
		t.Fatalf("create: %v", err)
	}
	doneTask, err := tasks.Create(ctx(), user.ID, TaskInput{
		Name: "laundry", Points: 3, Rule: recur.Daily{Every: 1},
	}, today)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := tasks.Complete(ctx(), user.ID, doneTask.ID, date(2021, 1, 2)); err != nil {
		t.Fatalf("complete: %v", err)
	}

	summary, err := NewReportService(db).DailySummary(ctx(), *user, date(2021, 1, 2))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(summary, "water the plants") {
		t.Errorf("summary omits the open task:\n%s", summary)
	}
	if strings.Contains(summary, "laundry") {
		t.Errorf("summary includes a done task:\n%s", summary)
	}
	if !strings.Contains(summary, "due today") {
		t.Errorf("summary misses the due phrase:\n%s", summary)
	}
}

func TestDailySummaryNeverMutates(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	tasks := NewTaskService(db)
	today := date(2021, 1, 1)

	created, err := tasks.Create(ctx(), user.ID, TaskInput{
		Name: "laundry", Points: 3, Rule: recur.Daily{Every: 1},
	}, today)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Far past the due date: the report describes, it does not sweep.
	if _, err := NewReportService(db).DailySummary(ctx(), *user, date(2021, 2, 1)); err != nil {
		t.Fatalf("summary: %v", err)
	}
	got, err := tasks.Get(ctx(), user.ID, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !recur.DateOf(got.NextDue).Equal(date(2021, 1, 2)) || got.IsDone {
		t.Errorf("report mutated the task: %+v", got)
	}
}

func TestDailySummaryEmpty(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")

	summary, err := NewReportService(db).DailySummary(ctx(), *user, date(2021, 1, 1))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(summary, "all caught up") {
		t.Errorf("empty summary = %q", summary)
	}
}
