package service

import (
	"context"
	"fmt"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/mapper"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/google/uuid"
)

// ActivityService reads the event log as a recent activity feed
type ActivityService struct {
	store *repository.Store
}

func NewActivityService(store *repository.Store) *ActivityService {
	return &ActivityService{store: store}
}

// ListRecent returns the newest events. Vendors only see events that concern them.
func (s *ActivityService) ListRecent(ctx context.Context, limit int) ([]domain.EventDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	var vendorID *uuid.UUID
	if actor.Role == domain.RoleVendor {
		id := actor.ID
		vendorID = &id
	} else if err := requireStaff(actor); err != nil {
		return nil, err
	}

	events, err := s.store.Repos().Events.ListRecent(ctx, vendorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return mapper.ToEventDTOs(events), nil
}

// ListByWorkOrder returns the event trail of one order, oldest first
func (s *ActivityService) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.EventDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	repos := s.store.Repos()
	wo, err := repos.WorkOrders.GetByID(ctx, workOrderID)
	if err != nil {
		return nil, notFound(err, "Work order", workOrderID)
	}
	if err := canView(actor, wo); err != nil {
		return nil, err
	}

	events, err := repos.Events.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work order activity: %w", err)
	}
	if actor.Role == domain.RoleVendor {
		events = vendorVisible(events, actor.ID)
	}
	return mapper.ToEventDTOs(events), nil
}

// vendorVisible drops events about other vendors, such as their proposals
func vendorVisible(events []domain.Event, vendorID uuid.UUID) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.VendorID == nil || *e.VendorID == vendorID {
			out = append(out, e)
		}
	}
	return out
}
