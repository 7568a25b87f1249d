package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/lifecycle"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventNotifier is told that new events were committed to the outbox
type EventNotifier interface {
	Kick()
}

type noopNotifier struct{}

func (noopNotifier) Kick() {}

// Deps carries what every lifecycle service needs
type Deps struct {
	Store    *repository.Store
	Notifier EventNotifier
	Clock    lifecycle.Clock
	Config   config.LifecycleConfig
	Logger   *zap.Logger
}

// core holds the state machines and the shared helpers for recording changes
type core struct {
	store    *repository.Store
	orders   *lifecycle.WorkOrderMachine
	vendors  *lifecycle.VendorMachine
	notifier EventNotifier
	now      lifecycle.Clock
	cfg      config.LifecycleConfig
	logger   *zap.Logger
}

func newCore(deps Deps) core {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = noopNotifier{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return core{
		store:    deps.Store,
		orders:   lifecycle.NewWorkOrderMachine(now),
		vendors:  lifecycle.NewVendorMachine(now),
		notifier: notifier,
		now:      func() time.Time { return now().UTC().Truncate(time.Microsecond) },
		cfg:      deps.Config,
		logger:   logger,
	}
}

// event is the part of a domain event a command fills in
type event struct {
	Type        domain.EventType
	EntityType  string
	EntityID    uuid.UUID
	WorkOrderID *uuid.UUID
	VendorID    *uuid.UUID
	Severity    domain.Severity
	Title       string
	Message     string
	Payload     interface{}
}

// record writes e to the outbox inside the caller's unit of work
func (c *core) record(ctx context.Context, r *repository.Repositories, actor domain.Actor, e event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", e.Type, err)
	}
	row := &domain.Event{
		Type:        e.Type,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		WorkOrderID: e.WorkOrderID,
		VendorID:    e.VendorID,
		ActorID:     actor.IDPtr(),
		ActorRole:   actor.Role,
		Severity:    e.Severity,
		Title:       e.Title,
		Message:     e.Message,
		Payload:     string(payload),
	}
	row.CreatedAt = c.now()
	if err := r.Events.Create(ctx, row); err != nil {
		return fmt.Errorf("failed to record %s event: %w", e.Type, err)
	}
	return nil
}

// transition applies a work order transition and persists it with its history row and event
func (c *core) transition(ctx context.Context, r *repository.Repositories, wo *domain.WorkOrder, to domain.WorkOrderStatus, actor domain.Actor, note string) error {
	prevVendor := wo.AssignedVendorID
	change, err := c.orders.Transition(wo, to, actor, note)
	if err != nil {
		return err
	}
	return c.persistChange(ctx, r, wo, change, prevVendor)
}

// openReview moves wo to under_review. Review needs at least one pending proposal.
func (c *core) openReview(ctx context.Context, r *repository.Repositories, wo *domain.WorkOrder, actor domain.Actor, note string) error {
	pending, err := r.Proposals.CountPendingByWorkOrder(ctx, wo.ID)
	if err != nil {
		return fmt.Errorf("failed to count pending proposals: %w", err)
	}
	if pending == 0 {
		return domain.NewError(domain.KindInvalidTransition,
			"Work order %s has no pending proposals to review", wo.Title)
	}
	return c.transition(ctx, r, wo, domain.WorkOrderStatusUnderReview, actor, note)
}

// assign selects vendorID for wo and persists the move to assigned
func (c *core) assign(ctx context.Context, r *repository.Repositories, wo *domain.WorkOrder, vendorID uuid.UUID, actor domain.Actor) error {
	change, err := c.orders.Assign(wo, vendorID, actor)
	if err != nil {
		return err
	}
	return c.persistChange(ctx, r, wo, change, nil)
}

func (c *core) persistChange(ctx context.Context, r *repository.Repositories, wo *domain.WorkOrder, change *lifecycle.Change, prevVendor *uuid.UUID) error {
	if err := r.WorkOrders.Update(ctx, wo); err != nil {
		return fmt.Errorf("failed to update work order: %w", err)
	}

	from := change.From
	history := &domain.WorkOrderStatusHistory{
		WorkOrderID:   wo.ID,
		FromStatus:    &from,
		ToStatus:      change.To,
		ChangedByID:   change.Actor.IDPtr(),
		ChangedByRole: change.Actor.Role,
		Note:          change.Note,
	}
	history.CreatedAt = change.At
	if err := r.StatusHistory.Create(ctx, history); err != nil {
		return fmt.Errorf("failed to record status history: %w", err)
	}

	// A revert must still reach the vendor that lost the order
	vendorID := wo.AssignedVendorID
	if vendorID == nil {
		vendorID = prevVendor
	}

	severity := domain.SeverityInfo
	switch change.To {
	case domain.WorkOrderStatusPublished:
		if change.From.RequiresVendor() {
			severity = domain.SeverityWarning
		}
	case domain.WorkOrderStatusCompleted, domain.WorkOrderStatusClosed:
		severity = domain.SeveritySuccess
	}

	woID := wo.ID
	c.logger.Debug("work order transition",
		zap.String("work_order_id", wo.ID.String()),
		zap.String("from", string(change.From)),
		zap.String("to", string(change.To)),
		zap.String("actor_role", string(change.Actor.Role)),
	)
	return c.record(ctx, r, change.Actor, event{
		Type:        domain.EventWorkOrderStatusChanged,
		EntityType:  domain.EntityTypeWorkOrder,
		EntityID:    wo.ID,
		WorkOrderID: &woID,
		VendorID:    vendorID,
		Severity:    severity,
		Title:       "Work order updated",
		Message:     fmt.Sprintf("%s moved from %s to %s", wo.Title, statusLabel(change.From), statusLabel(change.To)),
		Payload: domain.WorkOrderStatusChangedPayload{
			WorkOrderID: wo.ID,
			From:        change.From,
			To:          change.To,
			VendorID:    vendorID,
			Note:        change.Note,
		},
	})
}

// createHistory records the initial status of a newly created order
func (c *core) createHistory(ctx context.Context, r *repository.Repositories, wo *domain.WorkOrder, actor domain.Actor) error {
	history := &domain.WorkOrderStatusHistory{
		WorkOrderID:   wo.ID,
		ToStatus:      wo.Status,
		ChangedByID:   actor.IDPtr(),
		ChangedByRole: actor.Role,
	}
	history.CreatedAt = wo.CreatedAt
	if err := r.StatusHistory.Create(ctx, history); err != nil {
		return fmt.Errorf("failed to record status history: %w", err)
	}
	return nil
}

// rejectProposal declines a pending or approved proposal and records the event
func (c *core) rejectProposal(ctx context.Context, r *repository.Repositories, p *domain.Proposal, actor domain.Actor, reason string) error {
	now := c.now()
	p.Status = domain.ProposalStatusRejected
	p.DecidedAt = &now
	p.RejectionReason = reason
	if err := r.Proposals.UpdateDecision(ctx, p); err != nil {
		return fmt.Errorf("failed to reject proposal: %w", err)
	}

	woID, vendorID := p.WorkOrderID, p.VendorID
	return c.record(ctx, r, actor, event{
		Type:        domain.EventProposalRejected,
		EntityType:  domain.EntityTypeProposal,
		EntityID:    p.ID,
		WorkOrderID: &woID,
		VendorID:    &vendorID,
		Severity:    domain.SeverityWarning,
		Title:       "Proposal rejected",
		Message:     proposalRejectedMessage(reason),
		Payload: domain.ProposalEventPayload{
			ProposalID:    p.ID,
			WorkOrderID:   p.WorkOrderID,
			VendorID:      p.VendorID,
			EstimatedCost: p.EstimatedCost,
			Status:        p.Status,
		},
	})
}

// revokeAssignment sends an assigned or in-progress order back to published:
// the vendor is cleared, the approved proposal rejected and open tasks dropped.
func (c *core) revokeAssignment(ctx context.Context, r *repository.Repositories, wo *domain.WorkOrder, actor domain.Actor, note string) error {
	prevVendor := wo.AssignedVendorID
	change, err := c.orders.Revert(wo, actor, note)
	if err != nil {
		return err
	}
	if err := c.persistChange(ctx, r, wo, change, prevVendor); err != nil {
		return err
	}

	approved, err := r.Proposals.ListByWorkOrderAndStatus(ctx, wo.ID, domain.ProposalStatusApproved)
	if err != nil {
		return fmt.Errorf("failed to load approved proposals: %w", err)
	}
	for i := range approved {
		if err := c.rejectProposal(ctx, r, &approved[i], actor, note); err != nil {
			return err
		}
	}

	if err := r.Tasks.DeleteOpenByWorkOrder(ctx, wo.ID); err != nil {
		return fmt.Errorf("failed to remove open tasks: %w", err)
	}
	return nil
}

// atomic runs fn as one unit of work and wakes the dispatcher after a commit
func (c *core) atomic(ctx context.Context, keys []string, fn func(r *repository.Repositories) error) error {
	if err := c.store.Atomic(ctx, keys, fn); err != nil {
		return err
	}
	c.notifier.Kick()
	return nil
}

func statusLabel(s domain.WorkOrderStatus) string {
	return strings.ReplaceAll(string(s), "_", " ")
}

func proposalRejectedMessage(reason string) string {
	if reason == "" {
		return "Your proposal was not selected"
	}
	return "Your proposal was not selected: " + reason
}
