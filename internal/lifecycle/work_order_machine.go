// Package lifecycle holds the vendor approval and work order state machines.
// Both are pure: they validate and apply a transition to an in-memory model and
// leave persistence, locking and event recording to the service layer.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
)

// Clock returns the current time. Tests inject a fixed or stepping clock.
type Clock func() time.Time

// Change describes one applied work order transition
type Change struct {
	From  domain.WorkOrderStatus
	To    domain.WorkOrderStatus
	Actor domain.Actor
	At    time.Time
	Note  string
}

type workOrderGuard func(wo *domain.WorkOrder, actor domain.Actor) error

// workOrderTransitions maps from -> to -> guard. Missing edges are illegal.
var workOrderTransitions = map[domain.WorkOrderStatus]map[domain.WorkOrderStatus]workOrderGuard{
	domain.WorkOrderStatusDraft: {
		domain.WorkOrderStatusPublished: all(staffOnly, publishable),
	},
	domain.WorkOrderStatusPublished: {
		domain.WorkOrderStatusApplicationsReceived: systemOnly,
	},
	domain.WorkOrderStatusApplicationsReceived: {
		domain.WorkOrderStatusUnderReview: staffOrSystem,
	},
	domain.WorkOrderStatusUnderReview: {
		domain.WorkOrderStatusAssigned: all(staffOnly, vendorSelected),
	},
	domain.WorkOrderStatusAssigned: {
		domain.WorkOrderStatusInProgress: assignedVendorOnly,
		domain.WorkOrderStatusPublished:  adminOrSystem,
	},
	domain.WorkOrderStatusInProgress: {
		domain.WorkOrderStatusCompleted: assignedVendorOnly,
		domain.WorkOrderStatusPublished: adminOrSystem,
	},
	domain.WorkOrderStatusCompleted: {
		domain.WorkOrderStatusInvoiceSubmitted: assignedVendorOnly,
	},
	domain.WorkOrderStatusInvoiceSubmitted: {
		domain.WorkOrderStatusInvoiceApproved: staffOnly,
		domain.WorkOrderStatusCompleted:       staffOnly,
	},
	domain.WorkOrderStatusInvoiceApproved: {
		domain.WorkOrderStatusClosed: systemOnly,
	},
}

// WorkOrderMachine validates and applies work order transitions
type WorkOrderMachine struct {
	now Clock
}

// NewWorkOrderMachine creates a machine using the given clock, or time.Now when nil
func NewWorkOrderMachine(now Clock) *WorkOrderMachine {
	if now == nil {
		now = time.Now
	}
	return &WorkOrderMachine{now: now}
}

// CanTransition reports whether from -> to is an edge of the lifecycle
func (m *WorkOrderMachine) CanTransition(from, to domain.WorkOrderStatus) bool {
	_, ok := workOrderTransitions[from][to]
	return ok
}

// Transition moves wo to the target status if the edge exists and its guard passes.
// wo is left untouched when an error is returned.
func (m *WorkOrderMachine) Transition(wo *domain.WorkOrder, to domain.WorkOrderStatus, actor domain.Actor, note string) (*Change, error) {
	from := wo.Status
	guard, ok := workOrderTransitions[from][to]
	if !ok {
		return nil, domain.NewError(domain.KindInvalidTransition,
			"Work order cannot move from %s to %s", from, to)
	}
	if err := guard(wo, actor); err != nil {
		return nil, err
	}

	prevVendor := wo.AssignedVendorID
	prevUpdated := wo.UpdatedAt

	wo.Status = to
	if to == domain.WorkOrderStatusPublished && from.RequiresVendor() {
		wo.AssignedVendorID = nil
		wo.AssignedVendor = nil
	}
	wo.UpdatedAt = NextUpdatedAt(prevUpdated, m.now())

	if err := CheckAssignment(wo); err != nil {
		wo.Status = from
		wo.AssignedVendorID = prevVendor
		wo.UpdatedAt = prevUpdated
		return nil, err
	}

	return &Change{From: from, To: to, Actor: actor, At: wo.UpdatedAt, Note: note}, nil
}

// Assign selects vendorID for the order and moves it to assigned
func (m *WorkOrderMachine) Assign(wo *domain.WorkOrder, vendorID uuid.UUID, actor domain.Actor) (*Change, error) {
	if vendorID == uuid.Nil {
		return nil, domain.NewValidationError("A vendor must be selected",
			map[string]string{"vendorId": "This field is required"})
	}
	prev := wo.AssignedVendorID
	wo.AssignedVendorID = &vendorID
	change, err := m.Transition(wo, domain.WorkOrderStatusAssigned, actor, "")
	if err != nil {
		wo.AssignedVendorID = prev
		return nil, err
	}
	return change, nil
}

// Revert sends an assigned or in-progress order back to published and clears its vendor
func (m *WorkOrderMachine) Revert(wo *domain.WorkOrder, actor domain.Actor, note string) (*Change, error) {
	if wo.Status != domain.WorkOrderStatusAssigned && wo.Status != domain.WorkOrderStatusInProgress {
		return nil, domain.NewError(domain.KindInvalidTransition,
			"Only assigned or in progress work orders can be reverted, not %s", wo.Status)
	}
	return m.Transition(wo, domain.WorkOrderStatusPublished, actor, note)
}

// CheckAssignment verifies that an assigned vendor is present exactly in the stages that need one
func CheckAssignment(wo *domain.WorkOrder) error {
	hasVendor := wo.AssignedVendorID != nil
	if wo.Status.RequiresVendor() != hasVendor {
		return fmt.Errorf("work order %s in status %s has inconsistent vendor assignment", wo.ID, wo.Status)
	}
	return nil
}

// NextUpdatedAt returns a timestamp strictly after prev, using now when it already is.
// Values are kept at microsecond precision so they survive a database round trip.
func NextUpdatedAt(prev, now time.Time) time.Time {
	next := now.UTC().Truncate(time.Microsecond)
	if !next.After(prev) {
		next = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return next
}

func all(guards ...workOrderGuard) workOrderGuard {
	return func(wo *domain.WorkOrder, actor domain.Actor) error {
		for _, g := range guards {
			if err := g(wo, actor); err != nil {
				return err
			}
		}
		return nil
	}
}

func staffOnly(_ *domain.WorkOrder, actor domain.Actor) error {
	if !actor.IsStaff() {
		return domain.NewError(domain.KindUnauthorized, "Only agents and admins can perform this action")
	}
	return nil
}

func systemOnly(_ *domain.WorkOrder, actor domain.Actor) error {
	if !actor.IsSystem() {
		return domain.NewError(domain.KindUnauthorized, "This transition happens automatically")
	}
	return nil
}

func staffOrSystem(_ *domain.WorkOrder, actor domain.Actor) error {
	if !actor.IsStaff() && !actor.IsSystem() {
		return domain.NewError(domain.KindUnauthorized, "Only agents and admins can perform this action")
	}
	return nil
}

func adminOrSystem(_ *domain.WorkOrder, actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin && !actor.IsSystem() {
		return domain.NewError(domain.KindUnauthorized, "Only admins can revoke an assignment")
	}
	return nil
}

func assignedVendorOnly(wo *domain.WorkOrder, actor domain.Actor) error {
	if wo.AssignedVendorID == nil || !actor.IsVendor(*wo.AssignedVendorID) {
		return domain.NewError(domain.KindUnauthorized, "Only the assigned vendor can perform this action")
	}
	return nil
}

func vendorSelected(wo *domain.WorkOrder, _ domain.Actor) error {
	if wo.AssignedVendorID == nil {
		return domain.NewValidationError("A vendor must be selected",
			map[string]string{"vendorId": "This field is required"})
	}
	return nil
}

func publishable(wo *domain.WorkOrder, _ domain.Actor) error {
	fields := map[string]string{}
	if wo.Title == "" {
		fields["title"] = "This field is required"
	}
	if wo.PropertyID == uuid.Nil {
		fields["propertyId"] = "This field is required"
	}
	if !wo.Category.IsValid() {
		fields["category"] = "This field is required"
	}
	if !wo.Priority.IsValid() {
		fields["priority"] = "This field is required"
	}
	if wo.SLADeadline == nil {
		fields["slaDeadline"] = "This field is required"
	}
	if len(fields) > 0 {
		return domain.NewValidationError("Work order is missing required fields", fields)
	}
	return nil
}
