package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AtomicRollsBackOnError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewStore(db, time.Second)
	ctx := context.Background()

	agent := testutil.CreateTestUser(t, db, domain.RoleAgent)
	property := testutil.CreateTestProperty(t, db, "Manhattan")
	wo := testutil.CreateTestWorkOrder(t, db, property.ID, agent.ID, domain.CategoryPlumbing, domain.WorkOrderStatusPublished, nil)

	boom := errors.New("boom")
	err := store.Atomic(ctx, []string{OrderKey(wo.ID)}, func(r *Repositories) error {
		locked, err := r.WorkOrders.GetByIDForUpdate(ctx, wo.ID)
		require.NoError(t, err)
		locked.Status = domain.WorkOrderStatusApplicationsReceived
		require.NoError(t, r.WorkOrders.Update(ctx, locked))
		require.NoError(t, r.Events.Create(ctx, &domain.Event{
			Type:       domain.EventWorkOrderStatusChanged,
			EntityType: domain.EntityTypeWorkOrder,
			EntityID:   wo.ID,
			ActorRole:  domain.RoleSystem,
			Severity:   domain.SeverityInfo,
			Title:      "t",
			Message:    "m",
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	reloaded, err := store.Repos().WorkOrders.GetByID(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderStatusPublished, reloaded.Status)

	count, err := store.Repos().Events.CountByType(ctx, domain.EventWorkOrderStatusChanged, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_AtomicCommits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewStore(db, time.Second)
	ctx := context.Background()

	property := &domain.Property{Name: "Tower", Address: "1 Main St", Area: "Brooklyn"}
	err := store.Atomic(ctx, nil, func(r *Repositories) error {
		return r.Properties.Create(ctx, property)
	})
	require.NoError(t, err)

	found, err := store.Repos().Properties.GetByID(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brooklyn", found.Area)
}

func TestStore_AtomicLockTimeout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewStore(db, 20*time.Millisecond)
	ctx := context.Background()
	key := OrderKey(uuid.New())

	release, err := store.locks.Acquire(ctx, key)
	require.NoError(t, err)
	defer release()

	called := false
	err = store.Atomic(ctx, []string{key}, func(r *Repositories) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBusy)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = store.Atomic(cancelled, []string{key}, func(r *Repositories) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrBusy)
}
