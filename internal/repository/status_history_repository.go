package repository

import (
	"context"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatusHistoryRepository struct {
	db *gorm.DB
}

func NewStatusHistoryRepository(db *gorm.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: db}
}

// Create records a status transition
func (r *StatusHistoryRepository) Create(ctx context.Context, history *domain.WorkOrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// GetByWorkOrderID returns the transitions of a work order, oldest first
func (r *StatusHistoryRepository) GetByWorkOrderID(ctx context.Context, workOrderID uuid.UUID) ([]domain.WorkOrderStatusHistory, error) {
	var history []domain.WorkOrderStatusHistory
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at ASC").
		Find(&history).Error
	return history, err
}

// GetLatestTo returns the most recent transition of a work order into status
func (r *StatusHistoryRepository) GetLatestTo(ctx context.Context, workOrderID uuid.UUID, status domain.WorkOrderStatus) (*domain.WorkOrderStatusHistory, error) {
	var history domain.WorkOrderStatusHistory
	err := r.db.WithContext(ctx).
		Where("work_order_id = ? AND to_status = ?", workOrderID, status).
		Order("created_at DESC").
		First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}
