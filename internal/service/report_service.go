package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"chorepoints/internal/model"
	"chorepoints/internal/recur"
	"chorepoints/internal/repository"
)

// ReportService builds human-readable summaries for daily notifications.
// Reports are strictly read-only: they never run the undo sweep and never
// touch due dates.
type ReportService struct {
	tasks *repository.TaskRepository
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{tasks: repository.NewTaskRepository(db)}
}

// DailySummary lists the user's open tasks, soonest due first, with their
// point values and the current balance.
func (s *ReportService) DailySummary(ctx context.Context, user model.User, today time.Time) (string, error) {
	today = recur.DateOf(today)
	open, err := s.tasks.ListByStatus(ctx, user.ID, false)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Tasks for %s</b>\n\n", today.Format("Mon, 02 Jan 2006"))

	if len(open) == 0 {
		b.WriteString("Nothing due, all caught up.\n")
	} else {
		for _, task := range open {
			b.WriteString(formatTaskLine(task, today))
		}
	}

	fmt.Fprintf(&b, "\n⭐ Balance: %d pts\n", user.Points)
	return b.String(), nil
}

func formatTaskLine(task model.Task, today time.Time) string {
	days := recur.DaysBetween(today, task.NextDue)
	var due string
	switch {
	case days < 0:
		due = "past due"
	case days == 0:
		due = "due today"
	case days == 1:
		due = "due tomorrow"
	default:
		due = fmt.Sprintf("due in %d days", days)
	}
	return fmt.Sprintf("• %s: %s (+%d pts)\n", task.Name, due, task.Points)
}
