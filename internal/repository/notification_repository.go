package repository

import (
	"context"
	"time"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateOnce inserts the notification unless the user already has one for the same event
func (r *NotificationRepository) CreateOnce(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(notification).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListByUser returns a page of the user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int, unreadOnly bool) ([]domain.Notification, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)

	query := r.forUser(ctx, userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []domain.Notification
	err := query.Order("created_at DESC").Order("id").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	return markRead(r.db.WithContext(ctx).Model(&domain.Notification{}).Where("id = ?", id), at)
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return markRead(r.forUser(ctx, userID).Where("read = ?", false), at)
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.forUser(ctx, userID).Where("read = ?", false).Count(&count).Error
	return count, err
}

func (r *NotificationRepository) forUser(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Notification{}).Where("user_id = ?", userID)
}

func markRead(query *gorm.DB, at time.Time) error {
	return query.Updates(map[string]interface{}{"read": true, "read_at": at}).Error
}

// CountForEvent returns how many users were notified about an event
func (r *NotificationRepository) CountForEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}
