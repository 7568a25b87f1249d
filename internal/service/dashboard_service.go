package service

import (
	"context"
	"fmt"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/google/uuid"
)

// DashboardService computes the counters shown on each role's dashboard
type DashboardService struct {
	store *repository.Store
}

func NewDashboardService(store *repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Stats returns counters for the caller. Vendors get counters scoped to their own work.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStatsDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	var vendorID *uuid.UUID
	if actor.Role == domain.RoleVendor {
		id := actor.ID
		vendorID = &id
	} else if err := requireStaff(actor); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	byStatus, err := repos.WorkOrders.CountByStatus(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to count work orders: %w", err)
	}
	breached, err := repos.WorkOrders.CountBreached(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to count breached work orders: %w", err)
	}
	proposals, err := repos.Proposals.CountPending(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to count proposals: %w", err)
	}
	invoices, err := repos.Invoices.CountPending(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}
	unread, err := repos.Notifications.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	stats := &domain.DashboardStatsDTO{
		Role:                actor.Role,
		WorkOrdersByStatus:  byStatus,
		ActiveWorkOrders:    activeCount(byStatus),
		BreachedWorkOrders:  breached,
		PendingProposals:    proposals,
		PendingInvoices:     invoices,
		UnreadNotifications: unread,
	}

	if vendorID == nil {
		vendors, err := repos.Vendors.CountByStatus(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count vendors: %w", err)
		}
		stats.PendingVendors = vendors[domain.VendorStatusPending]
		stats.ApprovedVendors = vendors[domain.VendorStatusApproved]
		return stats, nil
	}

	vendor, err := repos.Vendors.GetByID(ctx, *vendorID)
	if err != nil {
		return nil, notFound(err, "Vendor", *vendorID)
	}
	if vendor.Status == domain.VendorStatusApproved {
		_, available, err := repos.WorkOrders.ListAvailableFor(ctx, vendor, "", 1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to count available work orders: %w", err)
		}
		stats.AvailableWorkOrders = available
	}
	return stats, nil
}

// activeCount sums orders between publication and completion
func activeCount(byStatus map[domain.WorkOrderStatus]int) int64 {
	var total int64
	for _, status := range domain.SLATrackedStatuses {
		total += int64(byStatus[status])
	}
	return total
}
