package repository

import (
	"context"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":        task.Title,
			"description":  task.Description,
			"status":       task.Status,
			"deadline":     task.Deadline,
			"completed_at": task.CompletedAt,
			"delay_reason": task.DelayReason,
			"updated_at":   task.UpdatedAt,
		}).Error
}

// ListByWorkOrder returns the live tasks of an order, oldest first
func (r *TaskRepository) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

// DeleteOpenByWorkOrder soft-deletes tasks that are not completed
func (r *TaskRepository) DeleteOpenByWorkOrder(ctx context.Context, workOrderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("work_order_id = ? AND status <> ?", workOrderID, domain.TaskStatusCompleted).
		Delete(&domain.Task{}).Error
}
