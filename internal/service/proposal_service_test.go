package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalFlow_MatchingVendorWinsOrder(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	v := f.plumber("Manhattan", "Brooklyn")
	wo := f.publishedOrder()

	available, err := f.orders.ListAvailable(asVendor(v), "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), available.Total)

	p := f.propose(v, wo.ID, 500)
	assert.Equal(t, domain.ProposalStatusPending, p.Status)
	assert.Equal(t, domain.WorkOrderStatusApplicationsReceived, f.order(wo.ID).Status)

	approved, err := f.proposals.Approve(asUser(f.agent), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusApproved, approved.Status)

	detail, err := f.orders.Get(asUser(f.agent), wo.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderStatusAssigned, detail.Status)
	require.NotNil(t, detail.AssignedVendorID)
	assert.Equal(t, v.ID, *detail.AssignedVendorID)
	require.NotNil(t, detail.EstimatedCost)
	assert.InDelta(t, 500.0, *detail.EstimatedCost, 0.001)
	require.Len(t, detail.Tasks, 1)
	assert.Equal(t, detail.SLADeadline, detail.Tasks[0].Deadline)

	history, err := f.orders.History(asUser(f.agent), wo.ID)
	require.NoError(t, err)
	var path []domain.WorkOrderStatus
	for _, h := range history {
		path = append(path, h.ToStatus)
	}
	assert.Equal(t, []domain.WorkOrderStatus{
		domain.WorkOrderStatusDraft,
		domain.WorkOrderStatusPublished,
		domain.WorkOrderStatusApplicationsReceived,
		domain.WorkOrderStatusUnderReview,
		domain.WorkOrderStatusAssigned,
	}, path)
	assert.Equal(t, domain.RoleSystem, history[2].ChangedByRole)

	// The order is no longer open to other vendors
	other := f.plumber()
	_, err = f.proposals.Submit(asVendor(other), wo.ID, &domain.SubmitProposalRequest{EstimatedCost: 400, Availability: "Today"})
	requireKind(t, err, domain.KindOrderNotOpen)

	available, err = f.orders.ListAvailable(asVendor(other), "", 1, 20)
	require.NoError(t, err)
	assert.Zero(t, available.Total)
}

func TestSubmitProposal_EligibilityChecks(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	wo := f.publishedOrder()

	tests := []struct {
		name   string
		vendor *domain.Vendor
	}{
		{
			name: "wrong category",
			vendor: testutil.CreateTestVendor(t, f.db, domain.VendorStatusApproved,
				[]domain.ServiceCategory{domain.CategoryElectrical}, []string{"Manhattan"}),
		},
		{
			name:   "outside service area",
			vendor: f.plumber("Queens"),
		},
		{
			name: "pending approval",
			vendor: testutil.CreateTestVendor(t, f.db, domain.VendorStatusPending,
				[]domain.ServiceCategory{domain.CategoryPlumbing}, []string{"Manhattan"}),
		},
		{
			name: "blocked",
			vendor: testutil.CreateTestVendor(t, f.db, domain.VendorStatusBlocked,
				[]domain.ServiceCategory{domain.CategoryPlumbing}, []string{"Manhattan"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.proposals.Submit(asVendor(tt.vendor), wo.ID, &domain.SubmitProposalRequest{
				EstimatedCost: 300,
				Availability:  "Friday",
			})
			requireKind(t, err, domain.KindVendorNotEligible)
		})
	}

	// Nothing was recorded and the order is still waiting for its first proposal
	assert.Equal(t, domain.WorkOrderStatusPublished, f.order(wo.ID).Status)
}

func TestSubmitProposal_AreaMatchIgnoresCase(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	v := f.plumber("  manhattan ")
	wo := f.publishedOrder()

	p := f.propose(v, wo.ID, 250)
	assert.Equal(t, v.ID, p.VendorID)
}

func TestSubmitProposal_RejectsDuplicatePending(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	v := f.plumber()
	wo := f.publishedOrder()
	f.propose(v, wo.ID, 500)

	_, err := f.proposals.Submit(asVendor(v), wo.ID, &domain.SubmitProposalRequest{EstimatedCost: 450, Availability: "Monday"})
	requireKind(t, err, domain.KindValidation)
}

func TestSubmitProposal_Validation(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	v := f.plumber()
	wo := f.publishedOrder()

	_, err := f.proposals.Submit(asVendor(v), wo.ID, &domain.SubmitProposalRequest{EstimatedCost: 0})
	requireKind(t, err, domain.KindValidation)

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Fields, "estimatedCost")
	assert.Contains(t, de.Fields, "availability")
}

func TestApproveProposal_RejectsSiblings(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	a, b := f.plumber(), f.plumber()
	wo := f.publishedOrder()
	pa := f.propose(a, wo.ID, 500)
	pb := f.propose(b, wo.ID, 450)

	_, err := f.proposals.Approve(asUser(f.agent), pa.ID)
	require.NoError(t, err)

	proposals, err := f.proposals.ListByWorkOrder(asUser(f.agent), wo.ID)
	require.NoError(t, err)
	statuses := map[string]domain.ProposalStatus{}
	for _, p := range proposals {
		statuses[p.ID.String()] = p.Status
	}
	assert.Equal(t, domain.ProposalStatusApproved, statuses[pa.ID.String()])
	assert.Equal(t, domain.ProposalStatusRejected, statuses[pb.ID.String()])
	assert.Equal(t, int64(1), f.countEvents(domain.EventProposalRejected, pb.ID))

	_, err = f.proposals.Approve(asUser(f.agent), pb.ID)
	requireKind(t, err, domain.KindAlreadyDecided)

	// The losing vendor can no longer open the assigned order
	_, err = f.proposals.ListByWorkOrder(asVendor(b), wo.ID)
	requireKind(t, err, domain.KindUnauthorized)
}

func TestApproveProposal_ConcurrentApprovalsPickOneWinner(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	wo := f.publishedOrder()

	const bidders = 4
	ids := make([]string, 0, bidders)
	proposals := make([]*domain.ProposalDTO, 0, bidders)
	for i := 0; i < bidders; i++ {
		p := f.propose(f.plumber(), wo.ID, float64(400+i*10))
		proposals = append(proposals, p)
		ids = append(ids, p.ID.String())
	}

	var wg sync.WaitGroup
	errs := make([]error, bidders)
	for i := range proposals {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.proposals.Approve(asUser(f.agent), proposals[i].ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		requireKind(t, err, domain.KindAlreadyDecided)
	}
	assert.Equal(t, 1, successes, "proposals %v", ids)

	approved, err := f.store.Repos().Proposals.CountApproved(context.Background(), wo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), approved)
	assert.Equal(t, domain.WorkOrderStatusAssigned, f.order(wo.ID).Status)
}

func TestApproveProposal_RequiresStaff(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	v := f.plumber()
	wo := f.publishedOrder()
	p := f.propose(v, wo.ID, 500)

	_, err := f.proposals.Approve(asVendor(v), p.ID)
	requireKind(t, err, domain.KindUnauthorized)
}

func TestRejectProposal(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	v := f.plumber()
	wo := f.publishedOrder()
	p := f.propose(v, wo.ID, 500)

	rejected, err := f.proposals.Reject(asUser(f.agent), p.ID, "Too expensive")
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusRejected, rejected.Status)
	assert.Equal(t, "Too expensive", rejected.RejectionReason)

	_, err = f.proposals.Reject(asUser(f.agent), p.ID, "again")
	requireKind(t, err, domain.KindAlreadyDecided)

	mine, err := f.proposals.ListMine(asVendor(v), nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.ProposalStatusRejected, mine[0].Status)
}
