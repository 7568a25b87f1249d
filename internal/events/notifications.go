package events

import (
	"context"
	"fmt"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationSubscriber copies events into the notification menu of the people they concern:
// every agent and admin, plus the vendor the event is about. Actors are not notified of their own actions.
type NotificationSubscriber struct {
	store  *repository.Store
	logger *zap.Logger
}

func NewNotificationSubscriber(store *repository.Store, logger *zap.Logger) *NotificationSubscriber {
	return &NotificationSubscriber{store: store, logger: logger}
}

func (s *NotificationSubscriber) Name() string { return "notifications" }

func (s *NotificationSubscriber) Handle(ctx context.Context, event *domain.Event) error {
	recipients, err := s.recipients(ctx, event)
	if err != nil {
		return err
	}

	repo := s.store.Repos().Notifications
	for _, userID := range recipients {
		entityID := event.EntityID
		notification := &domain.Notification{
			UserID:     userID,
			EventID:    event.ID,
			Type:       event.Severity,
			Title:      event.Title,
			Message:    event.Message,
			EntityID:   &entityID,
			EntityType: event.EntityType,
		}
		notification.CreatedAt = event.CreatedAt
		if err := repo.CreateOnce(ctx, notification); err != nil {
			return fmt.Errorf("failed to create notification for %s: %w", userID, err)
		}
	}

	s.logger.Debug("notifications created",
		zap.String("event_id", event.ID.String()),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

func (s *NotificationSubscriber) recipients(ctx context.Context, event *domain.Event) ([]uuid.UUID, error) {
	staff, err := s.store.Repos().Users.ListByRoles(ctx, domain.RoleAdmin, domain.RoleAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	out := make([]uuid.UUID, 0, len(staff)+1)
	for _, u := range staff {
		if event.ActorID == nil || *event.ActorID != u.ID {
			out = append(out, u.ID)
		}
	}
	if event.VendorID != nil && (event.ActorID == nil || *event.ActorID != *event.VendorID) {
		out = append(out, *event.VendorID)
	}
	return out, nil
}
