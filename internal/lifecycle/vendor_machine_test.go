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

func newVendor(status domain.VendorStatus) *domain.Vendor {
	return &domain.Vendor{
		ID:           uuid.New(),
		BusinessName: "Vendor V",
		Status:       status,
		UpdatedAt:    time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestVendorMachine(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	m := NewVendorMachine(fixedClock(now))

	t.Run("approve pending", func(t *testing.T) {
		v := newVendor(domain.VendorStatusPending)
		require.NoError(t, m.Approve(v, admin))
		assert.Equal(t, domain.VendorStatusApproved, v.Status)
		require.NotNil(t, v.ApprovedAt)
		assert.Equal(t, now, *v.ApprovedAt)
	})

	t.Run("agent cannot approve", func(t *testing.T) {
		v := newVendor(domain.VendorStatusPending)
		err := m.Approve(v, agent)
		assert.True(t, errors.Is(err, domain.ErrUnauthorized))
		assert.Equal(t, domain.VendorStatusPending, v.Status)
	})

	t.Run("approve twice is invalid", func(t *testing.T) {
		v := newVendor(domain.VendorStatusApproved)
		assert.True(t, errors.Is(m.Approve(v, admin), domain.ErrInvalidTransition))
	})

	t.Run("reject pending blocks", func(t *testing.T) {
		v := newVendor(domain.VendorStatusPending)
		require.NoError(t, m.Reject(v, admin, "incomplete documents"))
		assert.Equal(t, domain.VendorStatusBlocked, v.Status)
		assert.Equal(t, "incomplete documents", v.BlockReason)
	})

	t.Run("reject approved is invalid", func(t *testing.T) {
		v := newVendor(domain.VendorStatusApproved)
		assert.True(t, errors.Is(m.Reject(v, admin, ""), domain.ErrInvalidTransition))
	})

	t.Run("block approved", func(t *testing.T) {
		v := newVendor(domain.VendorStatusApproved)
		require.NoError(t, m.Block(v, admin, "no show"))
		assert.Equal(t, domain.VendorStatusBlocked, v.Status)
		assert.NotNil(t, v.BlockedAt)
	})

	t.Run("blocked is terminal", func(t *testing.T) {
		v := newVendor(domain.VendorStatusBlocked)
		assert.True(t, errors.Is(m.Approve(v, admin), domain.ErrInvalidTransition))
		assert.True(t, errors.Is(m.Block(v, admin, ""), domain.ErrInvalidTransition))
		assert.False(t, m.CanTransition(domain.VendorStatusBlocked, domain.VendorStatusApproved))
	})
}
