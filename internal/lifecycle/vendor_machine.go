package lifecycle

import (
	"time"

	"github.com/Satheshwaran26/rentr/internal/domain"
)

// vendorTransitions maps from -> allowed targets. blocked has no outgoing edges.
var vendorTransitions = map[domain.VendorStatus][]domain.VendorStatus{
	domain.VendorStatusPending:  {domain.VendorStatusApproved, domain.VendorStatusBlocked},
	domain.VendorStatusApproved: {domain.VendorStatusBlocked},
}

// VendorMachine validates and applies vendor approval transitions
type VendorMachine struct {
	now Clock
}

// NewVendorMachine creates a machine using the given clock, or time.Now when nil
func NewVendorMachine(now Clock) *VendorMachine {
	if now == nil {
		now = time.Now
	}
	return &VendorMachine{now: now}
}

// CanTransition reports whether from -> to is an edge of the vendor lifecycle
func (m *VendorMachine) CanTransition(from, to domain.VendorStatus) bool {
	for _, allowed := range vendorTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Approve moves a pending vendor to approved
func (m *VendorMachine) Approve(v *domain.Vendor, actor domain.Actor) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := m.check(v, domain.VendorStatusApproved); err != nil {
		return err
	}
	now := NextUpdatedAt(v.UpdatedAt, m.now())
	v.Status = domain.VendorStatusApproved
	v.ApprovedAt = &now
	v.UpdatedAt = now
	return nil
}

// Reject turns down a pending application. The vendor ends blocked.
func (m *VendorMachine) Reject(v *domain.Vendor, actor domain.Actor, reason string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if v.Status != domain.VendorStatusPending {
		return domain.NewError(domain.KindInvalidTransition,
			"Only pending vendors can be rejected; %s is %s", v.BusinessName, v.Status)
	}
	return m.block(v, reason)
}

// Block bans a pending or approved vendor permanently
func (m *VendorMachine) Block(v *domain.Vendor, actor domain.Actor, reason string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := m.check(v, domain.VendorStatusBlocked); err != nil {
		return err
	}
	return m.block(v, reason)
}

func (m *VendorMachine) block(v *domain.Vendor, reason string) error {
	now := NextUpdatedAt(v.UpdatedAt, m.now())
	v.Status = domain.VendorStatusBlocked
	v.BlockedAt = &now
	v.BlockReason = reason
	v.UpdatedAt = now
	return nil
}

func (m *VendorMachine) check(v *domain.Vendor, to domain.VendorStatus) error {
	if !m.CanTransition(v.Status, to) {
		return domain.NewError(domain.KindInvalidTransition,
			"Vendor cannot move from %s to %s", v.Status, to)
	}
	return nil
}

func requireAdmin(actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return domain.NewError(domain.KindUnauthorized, "Only admins can change vendor approval")
	}
	return nil
}
