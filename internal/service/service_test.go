package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Satheshwaran26/rentr/internal/auth"
	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/Satheshwaran26/rentr/internal/storage"
	"github.com/Satheshwaran26/rentr/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type countingNotifier struct {
	kicks atomic.Int64
}

func (n *countingNotifier) Kick() { n.kicks.Add(1) }

type fixture struct {
	t        *testing.T
	db       *gorm.DB
	store    *repository.Store
	clock    *testutil.Clock
	notifier *countingNotifier

	vendors   *VendorService
	orders    *WorkOrderService
	proposals *ProposalService
	invoices  *InvoiceService
	tasks     *TaskService
	monitor   *SLAMonitor
	advancer  *ReviewAdvancer

	admin     *domain.User
	agent     *domain.User
	manhattan *domain.Property
}

func newFixture(t *testing.T, cfg config.LifecycleConfig) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := repository.NewStore(db, 5*time.Second)
	clock := testutil.NewClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	notifier := &countingNotifier{}

	docs, err := storage.NewLocalStorage(t.TempDir(), 1024*1024)
	require.NoError(t, err)

	deps := Deps{
		Store:    store,
		Notifier: notifier,
		Clock:    clock.Now,
		Config:   cfg,
		Logger:   zap.NewNop(),
	}
	return &fixture{
		t:         t,
		db:        db,
		store:     store,
		clock:     clock,
		notifier:  notifier,
		vendors:   NewVendorService(deps),
		orders:    NewWorkOrderService(deps),
		proposals: NewProposalService(deps),
		invoices:  NewInvoiceService(deps, docs),
		tasks:     NewTaskService(deps),
		monitor:   NewSLAMonitor(deps),
		advancer:  NewReviewAdvancer(deps),
		admin:     testutil.CreateTestUser(t, db, domain.RoleAdmin),
		agent:     testutil.CreateTestUser(t, db, domain.RoleAgent),
		manhattan: testutil.CreateTestProperty(t, db, "Manhattan"),
	}
}

func asUser(u *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      u.ID,
		DisplayName: u.Name,
		Email:       u.Email,
		Role:        u.Role,
	})
}

func asVendor(v *domain.Vendor) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      v.ID,
		DisplayName: v.Name,
		Email:       v.Email,
		Role:        domain.RoleVendor,
	})
}

func (f *fixture) plumber(areas ...string) *domain.Vendor {
	if len(areas) == 0 {
		areas = []string{"Manhattan"}
	}
	return testutil.CreateTestVendor(f.t, f.db, domain.VendorStatusApproved,
		[]domain.ServiceCategory{domain.CategoryPlumbing}, areas)
}

// publishedOrder creates a plumbing order in Manhattan due in 48 hours
func (f *fixture) publishedOrder() *domain.WorkOrderDTO {
	f.t.Helper()
	deadline := f.clock.Now().Add(48 * time.Hour)
	wo, err := f.orders.Create(asUser(f.agent), &domain.CreateWorkOrderRequest{
		Title:       "Leaking pipe in unit 4B",
		Category:    domain.CategoryPlumbing,
		Priority:    domain.PriorityHigh,
		PropertyID:  f.manhattan.ID,
		SLADeadline: &deadline,
	})
	require.NoError(f.t, err)
	require.Equal(f.t, domain.WorkOrderStatusPublished, wo.Status)
	return wo
}

func (f *fixture) propose(v *domain.Vendor, woID uuid.UUID, cost float64) *domain.ProposalDTO {
	f.t.Helper()
	p, err := f.proposals.Submit(asVendor(v), woID, &domain.SubmitProposalRequest{
		EstimatedCost: cost,
		Availability:  "Tomorrow morning",
	})
	require.NoError(f.t, err)
	return p
}

// assignedOrder runs an order through proposal approval to v
func (f *fixture) assignedOrder(v *domain.Vendor) *domain.WorkOrderDTO {
	f.t.Helper()
	wo := f.publishedOrder()
	p := f.propose(v, wo.ID, 500)
	_, err := f.proposals.Approve(asUser(f.agent), p.ID)
	require.NoError(f.t, err)
	return f.order(wo.ID)
}

// completedOrder runs an order to completed by v
func (f *fixture) completedOrder(v *domain.Vendor) *domain.WorkOrderDTO {
	f.t.Helper()
	wo := f.assignedOrder(v)
	_, err := f.orders.StartWork(asVendor(v), wo.ID)
	require.NoError(f.t, err)
	_, err = f.orders.MarkComplete(asVendor(v), wo.ID, &domain.MarkCompleteRequest{})
	require.NoError(f.t, err)
	return f.order(wo.ID)
}

func (f *fixture) order(id uuid.UUID) *domain.WorkOrderDTO {
	f.t.Helper()
	detail, err := f.orders.Get(asUser(f.admin), id)
	require.NoError(f.t, err)
	return &detail.WorkOrderDTO
}

func (f *fixture) countEvents(eventType domain.EventType, entityID uuid.UUID) int64 {
	f.t.Helper()
	count, err := f.store.Repos().Events.CountByType(context.Background(), eventType, &entityID)
	require.NoError(f.t, err)
	return count
}

func requireKind(t *testing.T, err error, kind domain.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, domain.KindOf(err), "unexpected error: %v", err)
}

func defaultSort() repository.SortConfig {
	return repository.DefaultSortConfig()
}
