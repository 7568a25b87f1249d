package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupRequest(email string) *domain.SignupVendorRequest {
	return &domain.SignupVendorRequest{
		Name:              "Dana Reyes",
		Email:             email,
		Password:          "secret123",
		ConfirmPassword:   "secret123",
		Phone:             "+12125550199",
		BusinessName:      "Reyes Plumbing",
		ServiceCategories: []domain.ServiceCategory{domain.CategoryPlumbing, domain.CategoryPlumbing},
		ServiceAreas:      []string{"Manhattan, brooklyn", "MANHATTAN"},
		Capacity:          3,
		AcceptTerms:       true,
	}
}

func TestSignup_CreatesPendingVendor(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})

	vendor, err := f.vendors.Signup(context.Background(), signupRequest("Dana@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, domain.VendorStatusPending, vendor.Status)
	assert.Equal(t, "dana@example.com", vendor.Email)
	assert.Equal(t, []domain.ServiceCategory{domain.CategoryPlumbing}, vendor.ServiceCategories)
	assert.ElementsMatch(t, []string{"Manhattan", "brooklyn"}, vendor.ServiceAreas)
	assert.Equal(t, int64(1), f.countEvents(domain.EventVendorSignedUp, vendor.ID))

	_, err = f.vendors.Signup(context.Background(), signupRequest("dana@example.com"))
	requireKind(t, err, domain.KindValidation)
}

func TestSignup_Validation(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})

	req := signupRequest("new@example.com")
	req.ConfirmPassword = "different"
	req.AcceptTerms = false
	req.ServiceCategories = nil

	_, err := f.vendors.Signup(context.Background(), req)
	requireKind(t, err, domain.KindValidation)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Fields, "confirmPassword")
	assert.Contains(t, de.Fields, "acceptTerms")
	assert.Contains(t, de.Fields, "serviceCategories")
}

func TestVendorApproval(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	vendor, err := f.vendors.Signup(context.Background(), signupRequest("approve@example.com"))
	require.NoError(t, err)

	_, err = f.vendors.Approve(asUser(f.agent), vendor.ID)
	requireKind(t, err, domain.KindUnauthorized)

	approved, err := f.vendors.Approve(asUser(f.admin), vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VendorStatusApproved, approved.Status)
	assert.NotNil(t, approved.ApprovedAt)

	_, err = f.vendors.Approve(asUser(f.admin), vendor.ID)
	requireKind(t, err, domain.KindInvalidTransition)
}

func TestVendorReject_EndsBlocked(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	vendor, err := f.vendors.Signup(context.Background(), signupRequest("reject@example.com"))
	require.NoError(t, err)

	rejected, err := f.vendors.Reject(asUser(f.admin), vendor.ID, "Missing insurance")
	require.NoError(t, err)
	assert.Equal(t, domain.VendorStatusBlocked, rejected.Status)

	_, err = f.vendors.Approve(asUser(f.admin), vendor.ID)
	requireKind(t, err, domain.KindInvalidTransition)
}

func TestBlockVendor_RevertsActiveOrders(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	v := f.plumber()

	started := f.assignedOrder(v)
	_, err := f.orders.StartWork(asVendor(v), started.ID)
	require.NoError(t, err)
	assigned := f.assignedOrder(v)
	open := f.publishedOrder()
	pending := f.propose(v, open.ID, 700)

	blocked, err := f.vendors.Block(asUser(f.admin), v.ID, "Repeated no-shows")
	require.NoError(t, err)
	assert.Equal(t, domain.VendorStatusBlocked, blocked.Status)

	for _, id := range []uuid.UUID{started.ID, assigned.ID} {
		detail, err := f.orders.Get(asUser(f.admin), id)
		require.NoError(t, err)
		assert.Equal(t, domain.WorkOrderStatusPublished, detail.Status)
		assert.Nil(t, detail.AssignedVendorID)
		assert.Empty(t, detail.Tasks, "open tasks are dropped on revert")
		require.Len(t, detail.Proposals, 1)
		assert.Equal(t, domain.ProposalStatusRejected, detail.Proposals[0].Status)
	}

	mine, err := f.store.Repos().Proposals.GetByID(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusRejected, mine.Status)

	events, err := f.store.Repos().Events.ListRecent(context.Background(), &v.ID, 100)
	require.NoError(t, err)
	var payload domain.VendorEventPayload
	for _, e := range events {
		if e.Type == domain.EventVendorBlocked {
			require.NoError(t, json.Unmarshal([]byte(e.Payload), &payload))
		}
	}
	assert.ElementsMatch(t, []uuid.UUID{started.ID, assigned.ID}, payload.RevertedOrders)

	// A blocked vendor cannot bid again and stays blocked
	_, err = f.proposals.Submit(asVendor(v), started.ID, &domain.SubmitProposalRequest{EstimatedCost: 100, Availability: "Now"})
	requireKind(t, err, domain.KindVendorNotEligible)
	_, err = f.vendors.Approve(asUser(f.admin), v.ID)
	requireKind(t, err, domain.KindInvalidTransition)

	// Another vendor can pick the reverted order up
	other := f.plumber()
	f.propose(other, started.ID, 650)
}

func TestBlockVendor_RequiresAdmin(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	v := f.plumber()

	_, err := f.vendors.Block(asUser(f.agent), v.ID, "")
	requireKind(t, err, domain.KindUnauthorized)
}

func TestGetVendor_Access(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	v, other := f.plumber(), f.plumber()

	self, err := f.vendors.Get(asVendor(v), v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, self.ID)

	_, err = f.vendors.Get(asVendor(other), v.ID)
	requireKind(t, err, domain.KindUnauthorized)

	pending := testutil.CreateTestVendor(t, f.db, domain.VendorStatusPending,
		[]domain.ServiceCategory{domain.CategoryCleaning}, []string{"Queens"})
	status := domain.VendorStatusPending
	list, err := f.vendors.List(asUser(f.agent), 1, 20, &domain.VendorFilters{Status: &status}, defaultSort())
	require.NoError(t, err)
	require.Equal(t, int64(1), list.Total)
	assert.Equal(t, pending.ID, list.Data.([]domain.VendorDTO)[0].ID)
}
