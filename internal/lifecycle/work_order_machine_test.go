package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func newOrder(status domain.WorkOrderStatus) *domain.WorkOrder {
	deadline := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	wo := &domain.WorkOrder{
		Title:       "Leaking sink",
		Category:    domain.CategoryPlumbing,
		Priority:    domain.PriorityHigh,
		Status:      status,
		PropertyID:  uuid.New(),
		SLADeadline: &deadline,
		UpdatedAt:   time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	wo.ID = uuid.New()
	if status.RequiresVendor() {
		vendorID := uuid.New()
		wo.AssignedVendorID = &vendorID
	}
	return wo
}

var (
	agent = domain.Actor{ID: uuid.New(), Role: domain.RoleAgent}
	admin = domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
)

func TestWorkOrderMachine_Transition(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	m := NewWorkOrderMachine(fixedClock(now))

	t.Run("publish draft", func(t *testing.T) {
		wo := newOrder(domain.WorkOrderStatusDraft)
		change, err := m.Transition(wo, domain.WorkOrderStatusPublished, agent, "")
		require.NoError(t, err)
		assert.Equal(t, domain.WorkOrderStatusDraft, change.From)
		assert.Equal(t, domain.WorkOrderStatusPublished, change.To)
		assert.Equal(t, domain.WorkOrderStatusPublished, wo.Status)
		assert.Equal(t, now, wo.UpdatedAt)
	})

	t.Run("publish requires deadline", func(t *testing.T) {
		wo := newOrder(domain.WorkOrderStatusDraft)
		wo.SLADeadline = nil
		_, err := m.Transition(wo, domain.WorkOrderStatusPublished, agent, "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
		var de *domain.Error
		require.True(t, errors.As(err, &de))
		assert.Contains(t, de.Fields, "slaDeadline")
		assert.Equal(t, domain.WorkOrderStatusDraft, wo.Status)
	})

	t.Run("vendor cannot publish", func(t *testing.T) {
		wo := newOrder(domain.WorkOrderStatusDraft)
		vendor := domain.Actor{ID: uuid.New(), Role: domain.RoleVendor}
		_, err := m.Transition(wo, domain.WorkOrderStatusPublished, vendor, "")
		assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	})

	t.Run("illegal edge", func(t *testing.T) {
		wo := newOrder(domain.WorkOrderStatusPublished)
		_, err := m.Transition(wo, domain.WorkOrderStatusCompleted, agent, "")
		assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
		assert.Equal(t, domain.WorkOrderStatusPublished, wo.Status)
	})

	t.Run("first proposal is a system transition", func(t *testing.T) {
		wo := newOrder(domain.WorkOrderStatusPublished)
		_, err := m.Transition(wo, domain.WorkOrderStatusApplicationsReceived, agent, "")
		assert.True(t, errors.Is(err, domain.ErrUnauthorized))

		_, err = m.Transition(wo, domain.WorkOrderStatusApplicationsReceived, domain.SystemActor(), "")
		require.NoError(t, err)
	})

	t.Run("only assigned vendor starts work", func(t *testing.T) {
		wo := newOrder(domain.WorkOrderStatusAssigned)
		other := domain.Actor{ID: uuid.New(), Role: domain.RoleVendor}
		_, err := m.Transition(wo, domain.WorkOrderStatusInProgress, other, "")
		assert.True(t, errors.Is(err, domain.ErrUnauthorized))

		owner := domain.Actor{ID: *wo.AssignedVendorID, Role: domain.RoleVendor}
		_, err = m.Transition(wo, domain.WorkOrderStatusInProgress, owner, "")
		require.NoError(t, err)
		assert.Equal(t, domain.WorkOrderStatusInProgress, wo.Status)
	})

	t.Run("closed is terminal", func(t *testing.T) {
		wo := newOrder(domain.WorkOrderStatusClosed)
		for _, to := range domain.WorkOrderStatuses {
			assert.False(t, m.CanTransition(domain.WorkOrderStatusClosed, to))
		}
		_, err := m.Transition(wo, domain.WorkOrderStatusPublished, domain.SystemActor(), "")
		assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	})
}

func TestWorkOrderMachine_AssignAndRevert(t *testing.T) {
	m := NewWorkOrderMachine(fixedClock(time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)))

	t.Run("assign sets vendor", func(t *testing.T) {
		wo := newOrder(domain.WorkOrderStatusUnderReview)
		vendorID := uuid.New()
		_, err := m.Assign(wo, vendorID, agent)
		require.NoError(t, err)
		assert.Equal(t, domain.WorkOrderStatusAssigned, wo.Status)
		require.NotNil(t, wo.AssignedVendorID)
		assert.Equal(t, vendorID, *wo.AssignedVendorID)
	})

	t.Run("assign from published fails without side effects", func(t *testing.T) {
		wo := newOrder(domain.WorkOrderStatusPublished)
		_, err := m.Assign(wo, uuid.New(), agent)
		assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
		assert.Nil(t, wo.AssignedVendorID)
	})

	t.Run("revert clears vendor", func(t *testing.T) {
		for _, status := range []domain.WorkOrderStatus{domain.WorkOrderStatusAssigned, domain.WorkOrderStatusInProgress} {
			wo := newOrder(status)
			change, err := m.Revert(wo, domain.SystemActor(), "vendor blocked")
			require.NoError(t, err)
			assert.Equal(t, status, change.From)
			assert.Equal(t, domain.WorkOrderStatusPublished, wo.Status)
			assert.Nil(t, wo.AssignedVendorID)
		}
	})

	t.Run("agent cannot revert", func(t *testing.T) {
		wo := newOrder(domain.WorkOrderStatusAssigned)
		_, err := m.Revert(wo, agent, "")
		assert.True(t, errors.Is(err, domain.ErrUnauthorized))
		assert.NotNil(t, wo.AssignedVendorID)
	})

	t.Run("revert only applies to active assignments", func(t *testing.T) {
		wo := newOrder(domain.WorkOrderStatusDraft)
		_, err := m.Revert(wo, admin, "")
		assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
		assert.Equal(t, domain.WorkOrderStatusDraft, wo.Status)
	})

	t.Run("admin can revert", func(t *testing.T) {
		wo := newOrder(domain.WorkOrderStatusInProgress)
		_, err := m.Revert(wo, admin, "")
		require.NoError(t, err)
	})
}

func TestWorkOrderMachine_UpdatedAtIsMonotonic(t *testing.T) {
	frozen := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	m := NewWorkOrderMachine(fixedClock(frozen))

	wo := newOrder(domain.WorkOrderStatusApplicationsReceived)
	wo.UpdatedAt = frozen

	_, err := m.Transition(wo, domain.WorkOrderStatusUnderReview, agent, "")
	require.NoError(t, err)
	first := wo.UpdatedAt
	assert.True(t, first.After(frozen))

	_, err = m.Assign(wo, uuid.New(), agent)
	require.NoError(t, err)
	assert.True(t, wo.UpdatedAt.After(first))
}

func TestCheckAssignment(t *testing.T) {
	wo := newOrder(domain.WorkOrderStatusPublished)
	assert.NoError(t, CheckAssignment(wo))

	vendorID := uuid.New()
	wo.AssignedVendorID = &vendorID
	assert.Error(t, CheckAssignment(wo))

	wo.Status = domain.WorkOrderStatusClosed
	assert.NoError(t, CheckAssignment(wo))

	wo.AssignedVendorID = nil
	assert.Error(t, CheckAssignment(wo))
}
