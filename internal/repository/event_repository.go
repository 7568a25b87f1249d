package repository

import (
	"context"
	"time"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventRepository stores domain events. Undispatched rows form the outbox.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListUndispatched returns outbox rows that still have delivery attempts left, oldest first
func (r *EventRepository) ListUndispatched(ctx context.Context, maxAttempts, limit int) ([]domain.Event, error) {
	var events []domain.Event
	query := r.db.WithContext(ctx).Where("dispatched_at IS NULL")
	if maxAttempts > 0 {
		query = query.Where("attempts < ?", maxAttempts)
	}
	err := query.Order("created_at ASC").Limit(limit).Find(&events).Error
	return events, err
}

// MarkDispatched records successful delivery to every subscriber
func (r *EventRepository) MarkDispatched(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"dispatched_at": at,
			"attempts":      gorm.Expr("attempts + 1"),
			"last_error":    "",
		}).Error
}

// MarkFailed records a failed delivery attempt
func (r *EventRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	if len(reason) > 500 {
		reason = reason[:500]
	}
	return r.db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
		}).Error
}

// ListRecent returns the newest events for the activity feed.
// A non-nil vendorID restricts the feed to events concerning that vendor.
func (r *EventRepository) ListRecent(ctx context.Context, vendorID *uuid.UUID, limit int) ([]domain.Event, error) {
	var events []domain.Event
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	query := r.db.WithContext(ctx)
	if vendorID != nil {
		query = query.Where("vendor_id = ?", *vendorID)
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

// ListByWorkOrder returns the events concerning one work order, oldest first
func (r *EventRepository) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.Event, error) {
	var events []domain.Event
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

// CountByType counts events of one type, optionally for one entity
func (r *EventRepository) CountByType(ctx context.Context, eventType domain.EventType, entityID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Event{}).Where("type = ?", eventType)
	if entityID != nil {
		query = query.Where("entity_id = ?", *entityID)
	}
	err := query.Count(&count).Error
	return count, err
}
