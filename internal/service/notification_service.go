package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/mapper"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService serves the per-user notification menu
type NotificationService struct {
	store  *repository.Store
	now    func() time.Time
	logger *zap.Logger
}

func NewNotificationService(store *repository.Store, logger *zap.Logger) *NotificationService {
	return &NotificationService{store: store, now: time.Now, logger: logger}
}

// List returns the caller's notifications, newest first
func (s *NotificationService) List(ctx context.Context, page, pageSize int, unreadOnly bool) (*domain.PaginatedResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	page, pageSize = repository.NormalizePage(page, pageSize)
	notifications, total, err := s.store.Repos().Notifications.ListByUser(ctx, actor.ID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = mapper.ToNotificationDTO(&notifications[i])
	}
	return paginate(dtos, total, page, pageSize), nil
}

// CountUnread returns how many of the caller's notifications are unread
func (s *NotificationService) CountUnread(ctx context.Context) (int64, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return 0, err
	}
	count, err := s.store.Repos().Notifications.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one of the caller's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	repo := s.store.Repos().Notifications
	notification, err := repo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "Notification", id)
	}
	if notification.UserID != actor.ID {
		// Someone else's notification is reported as missing
		return domain.NotFound("Notification", id)
	}
	if notification.Read {
		return nil
	}
	if err := repo.MarkAsRead(ctx, id, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

// MarkAllRead marks every notification of the caller as read
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	if err := s.store.Repos().Notifications.MarkAllAsRead(ctx, actor.ID, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	s.logger.Debug("notifications marked as read", zap.String("user_id", actor.ID.String()))
	return nil
}
