package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"chorepoints/internal/model"
)

// TaskRepository handles CRUD for tasks. All lookups are scoped to the
// owning user; a task id belonging to someone else behaves like a missing
// row.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByStatus returns the user's tasks with the given done flag, soonest
// due first.
func (r *TaskRepository) ListByStatus(ctx context.Context, userID uint, done bool) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND is_done = ?", userID, done).
		Order("next_due ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task %d: %w", task.ID, err)
	}
	return nil
}

// Delete removes a task for the given user regardless of its status.
// Reports gorm.ErrRecordNotFound when nothing matched.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task %d: %w", taskID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
