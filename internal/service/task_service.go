package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"chorepoints/internal/model"
	"chorepoints/internal/recur"
	"chorepoints/internal/repository"
)

// TaskInput carries the user-editable fields of a task.
type TaskInput struct {
	Name        string
	Description string
	Points      int
	Rule        recur.Rule
}

func (in TaskInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Rule == nil {
		return fmt.Errorf("%w: recurrence is required", ErrInvalidInput)
	}
	return nil
}

// TaskService owns the task lifecycle: creation, completion, the undo sweep
// that recurs done tasks, edits and deletion. Every operation takes the
// current date from the caller; the service never reads a clock.
type TaskService struct {
	db    *gorm.DB
	tasks *repository.TaskRepository
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db, tasks: repository.NewTaskRepository(db)}
}

// Create stores a new todo task with its first due date computed from the
// recurrence rule and today.
func (s *TaskService) Create(ctx context.Context, userID uint, input TaskInput, today time.Time) (*model.Task, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	task := model.Task{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Points:      input.Points,
		NextDue:     input.Rule.Next(recur.DateOf(today)),
	}
	task.SetRule(input.Rule)

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Get returns a single task owned by the user.
func (s *TaskService) Get(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, taskLookupErr(taskID, err)
	}
	return task, nil
}

// List returns the user's tasks filtered by done status. Reading never
// mutates: due dates and statuses only change through Complete and
// UndoSweep.
func (s *TaskService) List(ctx context.Context, userID uint, done bool) ([]model.Task, error) {
	return s.tasks.ListByStatus(ctx, userID, done)
}

// Complete marks a todo task done before its deadline has passed, advances
// its due date and credits the owner's points, all inside one transaction,
// so no reader can see the task done without the points credited or vice
// versa. The task's status is re-read inside the transaction, which makes
// two racing completions resolve to one success and one ErrAlreadyComplete.
func (s *TaskService) Complete(ctx context.Context, userID, taskID uint, today time.Time) (*model.Task, error) {
	today = recur.DateOf(today)
	var completed *model.Task
	err := repository.Atomically(ctx, s.db, func(tx *gorm.DB) error {
		tasks := repository.NewTaskRepository(tx)
		task, err := tasks.FindByID(ctx, userID, taskID)
		if err != nil {
			return taskLookupErr(taskID, err)
		}
		if task.IsDone {
			return ErrAlreadyComplete
		}
		if today.After(recur.DateOf(task.NextDue)) {
			return ErrPastDue
		}
		rule, err := task.Rule()
		if err != nil {
			return fmt.Errorf("task %d recurrence: %w", task.ID, err)
		}

		task.IsDone = true
		task.NextDue = rule.Next(today)
		if err := tasks.Save(ctx, task); err != nil {
			return err
		}
		if _, err := NewPointsService(tx).Adjust(ctx, userID, task.Points); err != nil {
			return err
		}
		completed = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// UndoSweep flips every done task whose stored due date has arrived back to
// todo with a freshly computed due date, and returns the flipped tasks.
// Points are never clawed back. Running the sweep twice on the same date is
// a no-op the second time.
func (s *TaskService) UndoSweep(ctx context.Context, userID uint, today time.Time) ([]model.Task, error) {
	today = recur.DateOf(today)
	done, err := s.tasks.ListByStatus(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	flipped := []model.Task{}
	for i := range done {
		task := &done[i]
		if recur.DateOf(task.NextDue).After(today) {
			continue // not yet time to recur
		}
		rule, err := task.Rule()
		if err != nil {
			return nil, fmt.Errorf("task %d recurrence: %w", task.ID, err)
		}
		task.IsDone = false
		task.NextDue = rule.Next(today)
		if err := s.tasks.Save(ctx, task); err != nil {
			return nil, err
		}
		flipped = append(flipped, *task)
	}
	return flipped, nil
}

// Update replaces the task's editable fields in place. It deliberately does
// not recompute NextDue or touch the status: editing a task is not a
// completion and not a reset.
func (s *TaskService) Update(ctx context.Context, userID, taskID uint, input TaskInput) (*model.Task, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, taskLookupErr(taskID, err)
	}

	task.Name = input.Name
	task.Description = input.Description
	task.Points = input.Points
	task.SetRule(input.Rule)

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task regardless of status, with no ledger effect.
func (s *TaskService) Delete(ctx context.Context, userID, taskID uint) error {
	if err := s.tasks.Delete(ctx, userID, taskID); err != nil {
		return taskLookupErr(taskID, err)
	}
	return nil
}

func taskLookupErr(taskID uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("task %d: %w", taskID, ErrTaskNotFound)
	}
	return fmt.Errorf("task %d: %w", taskID, err)
}
