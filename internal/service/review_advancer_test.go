package service

import (
	"context"
	"testing"
	"time"

	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewAdvancer_OpensReviewAfterQuietPeriod(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{
		ReviewTrigger:            config.ReviewTriggerQuietPeriod,
		ReviewQuietPeriodMinutes: 30,
	})
	a, b := f.plumber(), f.plumber()
	wo := f.publishedOrder()
	f.propose(a, wo.ID, 500)

	f.clock.Advance(20 * time.Minute)
	f.propose(b, wo.ID, 480)

	f.clock.Advance(20 * time.Minute)
	moved, err := f.advancer.Advance(context.Background())
	require.NoError(t, err)
	assert.Zero(t, moved, "the second proposal restarted the quiet period")

	f.clock.Advance(15 * time.Minute)
	moved, err = f.advancer.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	order := f.order(wo.ID)
	assert.Equal(t, domain.WorkOrderStatusUnderReview, order.Status)

	history, err := f.orders.History(asUser(f.agent), wo.ID)
	require.NoError(t, err)
	last := history[len(history)-1]
	assert.Equal(t, domain.RoleSystem, last.ChangedByRole)

	// Nothing left to advance
	moved, err = f.advancer.Advance(context.Background())
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestReviewAdvancer_ManualTriggerDoesNothing(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{ReviewTrigger: config.ReviewTriggerManual, ReviewQuietPeriodMinutes: 1})
	v := f.plumber()
	wo := f.publishedOrder()
	f.propose(v, wo.ID, 500)

	f.clock.Advance(time.Hour)
	moved, err := f.advancer.Advance(context.Background())
	require.NoError(t, err)
	assert.Zero(t, moved)
	assert.Equal(t, domain.WorkOrderStatusApplicationsReceived, f.order(wo.ID).Status)

	opened, err := f.orders.OpenReview(asUser(f.agent), wo.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderStatusUnderReview, opened.Status)

	// Proposals are still accepted while under review
	f.propose(f.plumber(), wo.ID, 450)
}

func TestReviewAdvancer_SkipsOrdersWithoutPendingProposals(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{
		ReviewTrigger:            config.ReviewTriggerQuietPeriod,
		ReviewQuietPeriodMinutes: 30,
	})
	v := f.plumber()
	wo := f.publishedOrder()
	p := f.propose(v, wo.ID, 500)
	_, err := f.proposals.Reject(asUser(f.agent), p.ID, "")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	moved, err := f.advancer.Advance(context.Background())
	require.NoError(t, err)
	assert.Zero(t, moved)
	assert.Equal(t, domain.WorkOrderStatusApplicationsReceived, f.order(wo.ID).Status)
}
