package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/lifecycle"
	applog "github.com/Satheshwaran26/rentr/internal/logger"
	"github.com/Satheshwaran26/rentr/internal/mapper"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WorkOrderService struct {
	core
}

func NewWorkOrderService(deps Deps) *WorkOrderService {
	return &WorkOrderService{core: newCore(deps)}
}

// Create raises a work order. Unless AsDraft is set the order is published in the same unit of work.
func (s *WorkOrderService) Create(ctx context.Context, req *domain.CreateWorkOrderRequest) (*domain.WorkOrderDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	if req.SLADeadline != nil && !req.SLADeadline.After(now) {
		return nil, domain.NewValidationError("SLA deadline must be in the future",
			map[string]string{"slaDeadline": "Must be in the future"})
	}

	wo := &domain.WorkOrder{
		Title:               strings.TrimSpace(req.Title),
		Description:         req.Description,
		Category:            req.Category,
		Priority:            req.Priority,
		Status:              domain.WorkOrderStatusDraft,
		PropertyID:          req.PropertyID,
		CreatedByID:         actor.ID,
		EstimatedCost:       req.EstimatedCost,
		SpecialInstructions: req.SpecialInstructions,
		UpdatedAt:           now,
	}
	if req.SLADeadline != nil {
		deadline := req.SLADeadline.UTC()
		wo.SLADeadline = &deadline
	}
	wo.ID = uuid.New()
	wo.CreatedAt = now

	err = s.atomic(ctx, []string{repository.OrderKey(wo.ID)}, func(r *repository.Repositories) error {
		property, err := r.Properties.GetByID(ctx, req.PropertyID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewValidationError("Property does not exist",
				map[string]string{"propertyId": "Property does not exist"})
		}
		if err != nil {
			return fmt.Errorf("failed to load property: %w", err)
		}
		wo.Property = property

		if err := r.WorkOrders.Create(ctx, wo); err != nil {
			return fmt.Errorf("failed to create work order: %w", err)
		}
		if err := s.createHistory(ctx, r, wo, actor); err != nil {
			return err
		}
		if req.AsDraft {
			return nil
		}
		return s.transition(ctx, r, wo, domain.WorkOrderStatusPublished, actor, "")
	})
	if err != nil {
		return nil, err
	}

	applog.WithWorkOrder(s.logger, wo.ID, wo.Status).Info("work order created",
		zap.String("category", string(wo.Category)),
	)
	dto := mapper.ToWorkOrderDTO(wo)
	return &dto, nil
}

// UpdateDraft edits the fields of an order that is still a draft
func (s *WorkOrderService) UpdateDraft(ctx context.Context, id uuid.UUID, req *domain.UpdateDraftRequest) (*domain.WorkOrderDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	now := s.now()
	if req.SLADeadline != nil && !req.SLADeadline.After(now) {
		return nil, domain.NewValidationError("SLA deadline must be in the future",
			map[string]string{"slaDeadline": "Must be in the future"})
	}

	var wo *domain.WorkOrder
	err = s.atomic(ctx, []string{repository.OrderKey(id)}, func(r *repository.Repositories) error {
		wo, err = r.WorkOrders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Work order", id)
		}
		if wo.Status != domain.WorkOrderStatusDraft {
			return domain.NewError(domain.KindInvalidTransition, "Only draft work orders can be edited")
		}

		if req.Title != nil {
			wo.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			wo.Description = *req.Description
		}
		if req.Category != nil {
			wo.Category = *req.Category
		}
		if req.Priority != nil {
			wo.Priority = *req.Priority
		}
		if req.PropertyID != nil && *req.PropertyID != wo.PropertyID {
			property, err := r.Properties.GetByID(ctx, *req.PropertyID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewValidationError("Property does not exist",
					map[string]string{"propertyId": "Property does not exist"})
			}
			if err != nil {
				return fmt.Errorf("failed to load property: %w", err)
			}
			wo.PropertyID = property.ID
			wo.Property = property
		}
		if req.SLADeadline != nil {
			deadline := req.SLADeadline.UTC()
			wo.SLADeadline = &deadline
		}
		if req.EstimatedCost != nil {
			wo.EstimatedCost = req.EstimatedCost
		}
		if req.SpecialInstructions != nil {
			wo.SpecialInstructions = *req.SpecialInstructions
		}
		wo.UpdatedAt = lifecycle.NextUpdatedAt(wo.UpdatedAt, now)

		if err := r.WorkOrders.Update(ctx, wo); err != nil {
			return fmt.Errorf("failed to update work order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToWorkOrderDTO(wo)
	return &dto, nil
}

// Publish makes a draft visible to matching vendors
func (s *WorkOrderService) Publish(ctx context.Context, id uuid.UUID) (*domain.WorkOrderDTO, error) {
	return s.move(ctx, id, domain.WorkOrderStatusPublished, "")
}

// OpenReview moves an order with proposals into review
func (s *WorkOrderService) OpenReview(ctx context.Context, id uuid.UUID) (*domain.WorkOrderDTO, error) {
	return s.move(ctx, id, domain.WorkOrderStatusUnderReview, "")
}

// StartWork is called by the assigned vendor when work begins
func (s *WorkOrderService) StartWork(ctx context.Context, id uuid.UUID) (*domain.WorkOrderDTO, error) {
	return s.move(ctx, id, domain.WorkOrderStatusInProgress, "")
}

// move applies a single transition for the caller
func (s *WorkOrderService) move(ctx context.Context, id uuid.UUID, to domain.WorkOrderStatus, note string) (*domain.WorkOrderDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	var wo *domain.WorkOrder
	err = s.atomic(ctx, []string{repository.OrderKey(id)}, func(r *repository.Repositories) error {
		wo, err = r.WorkOrders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Work order", id)
		}
		if to == domain.WorkOrderStatusUnderReview {
			return s.openReview(ctx, r, wo, actor, note)
		}
		return s.transition(ctx, r, wo, to, actor, note)
	})
	if err != nil {
		return nil, err
	}

	applog.WithActor(applog.WithWorkOrder(s.logger, id, wo.Status), actor).Info("work order status changed")
	dto := mapper.ToWorkOrderDTO(wo)
	return &dto, nil
}

// MarkComplete is called by the assigned vendor when the job is done.
// Open tasks are completed and the vendor's completed order count grows.
func (s *WorkOrderService) MarkComplete(ctx context.Context, id uuid.UUID, req *domain.MarkCompleteRequest) (*domain.WorkOrderDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var wo *domain.WorkOrder
	err = s.atomic(ctx, []string{repository.OrderKey(id), repository.VendorKey(actor.ID)}, func(r *repository.Repositories) error {
		wo, err = r.WorkOrders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Work order", id)
		}
		if req.ActualCost != nil {
			wo.ActualCost = req.ActualCost
		}
		if err := s.transition(ctx, r, wo, domain.WorkOrderStatusCompleted, actor, req.Note); err != nil {
			return err
		}

		now := s.now()
		tasks, err := r.Tasks.ListByWorkOrder(ctx, wo.ID)
		if err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}
		for i := range tasks {
			task := &tasks[i]
			if !task.IsOpen() {
				continue
			}
			task.Status = domain.TaskStatusCompleted
			task.CompletedAt = &now
			task.DelayReason = nil
			task.UpdatedAt = now
			if err := r.Tasks.Update(ctx, task); err != nil {
				return fmt.Errorf("failed to complete task: %w", err)
			}
		}

		vendor, err := r.Vendors.GetByIDForUpdate(ctx, *wo.AssignedVendorID)
		if err != nil {
			return notFound(err, "Vendor", *wo.AssignedVendorID)
		}
		vendor.CompletedOrders++
		vendor.UpdatedAt = lifecycle.NextUpdatedAt(vendor.UpdatedAt, now)
		if err := r.Vendors.UpdatePerformance(ctx, vendor); err != nil {
			return fmt.Errorf("failed to update vendor: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToWorkOrderDTO(wo)
	return &dto, nil
}

// ExtendSLA moves the deadline of an order whose SLA clock is running. A deadline in
// the future ends the current breach episode, so a later breach is reported again.
func (s *WorkOrderService) ExtendSLA(ctx context.Context, id uuid.UUID, req *domain.ExtendSLARequest) (*domain.WorkOrderDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	deadline := req.SLADeadline.UTC()

	var wo *domain.WorkOrder
	err = s.atomic(ctx, []string{repository.OrderKey(id)}, func(r *repository.Repositories) error {
		wo, err = r.WorkOrders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Work order", id)
		}
		if !wo.Status.IsSLATracked() && wo.Status != domain.WorkOrderStatusDraft {
			return domain.NewError(domain.KindInvalidTransition,
				"The SLA of a %s work order can no longer be changed", statusLabel(wo.Status))
		}
		if wo.SLADeadline != nil && !deadline.After(*wo.SLADeadline) {
			return domain.NewValidationError("The new deadline must be later than the current one",
				map[string]string{"slaDeadline": "Must be later than the current deadline"})
		}

		wo.SLADeadline = &deadline
		wo.UpdatedAt = lifecycle.NextUpdatedAt(wo.UpdatedAt, now)
		if err := r.WorkOrders.Update(ctx, wo); err != nil {
			return fmt.Errorf("failed to update work order: %w", err)
		}
		if wo.Breached() && deadline.After(now) {
			if err := r.WorkOrders.ClearBreach(ctx, wo.ID); err != nil {
				return fmt.Errorf("failed to clear breach: %w", err)
			}
			wo.SLABreachedAt = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("work order SLA extended",
		zap.String("work_order_id", id.String()),
		zap.Time("sla_deadline", deadline),
	)
	dto := mapper.ToWorkOrderDTO(wo)
	return &dto, nil
}

// Rate scores a closed order and folds the score into the vendor's running mean
func (s *WorkOrderService) Rate(ctx context.Context, id uuid.UUID, req *domain.RateWorkOrderRequest) (*domain.WorkOrderDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	snapshot, err := s.store.Repos().WorkOrders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Work order", id)
	}
	if snapshot.AssignedVendorID == nil {
		return nil, domain.NewError(domain.KindInvalidTransition, "Only closed work orders can be rated")
	}
	vendorID := *snapshot.AssignedVendorID

	var wo *domain.WorkOrder
	err = s.atomic(ctx, []string{repository.OrderKey(id), repository.VendorKey(vendorID)}, func(r *repository.Repositories) error {
		wo, err = r.WorkOrders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Work order", id)
		}
		if wo.Status != domain.WorkOrderStatusClosed {
			return domain.NewError(domain.KindInvalidTransition, "Only closed work orders can be rated")
		}
		if wo.Rating != nil {
			return domain.NewError(domain.KindAlreadyDecided, "This work order has already been rated")
		}

		now := s.now()
		score := req.Score
		wo.Rating = &score
		wo.UpdatedAt = lifecycle.NextUpdatedAt(wo.UpdatedAt, now)
		if err := r.WorkOrders.Update(ctx, wo); err != nil {
			return fmt.Errorf("failed to update work order: %w", err)
		}

		vendor, err := r.Vendors.GetByIDForUpdate(ctx, vendorID)
		if err != nil {
			return notFound(err, "Vendor", vendorID)
		}
		mean := float64(score)
		if vendor.Rating != nil && vendor.RatingCount > 0 {
			mean = (*vendor.Rating*float64(vendor.RatingCount) + float64(score)) / float64(vendor.RatingCount+1)
		}
		mean = roundRating(mean)
		vendor.Rating = &mean
		vendor.RatingCount++
		vendor.UpdatedAt = lifecycle.NextUpdatedAt(vendor.UpdatedAt, now)
		if err := r.Vendors.UpdatePerformance(ctx, vendor); err != nil {
			return fmt.Errorf("failed to update vendor rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToWorkOrderDTO(wo)
	return &dto, nil
}

// Get returns an order with its proposals, tasks and invoices.
// Vendors see open orders and orders assigned to them, and only their own proposals.
func (s *WorkOrderService) Get(ctx context.Context, id uuid.UUID) (*domain.WorkOrderDetailDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	wo, err := repos.WorkOrders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Work order", id)
	}
	if err := canView(actor, wo); err != nil {
		return nil, err
	}

	proposals, err := repos.Proposals.ListByWorkOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load proposals: %w", err)
	}
	if actor.Role == domain.RoleVendor {
		proposals = ownProposals(proposals, actor.ID)
	}
	tasks, err := repos.Tasks.ListByWorkOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	invoices, err := repos.Invoices.ListByWorkOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	return &domain.WorkOrderDetailDTO{
		WorkOrderDTO: mapper.ToWorkOrderDTO(wo),
		Proposals:    mapper.ToProposalDTOs(proposals),
		Tasks:        mapper.ToTaskDTOs(tasks),
		Invoices:     mapper.ToInvoiceDTOs(invoices),
	}, nil
}

// List returns orders for staff, or the caller's assigned orders for a vendor
func (s *WorkOrderService) List(ctx context.Context, page, pageSize int, filters *domain.WorkOrderFilters, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if filters == nil {
		filters = &domain.WorkOrderFilters{}
	}
	if actor.Role == domain.RoleVendor {
		vendorID := actor.ID
		filters.AssignedVendorID = &vendorID
	} else if err := requireStaff(actor); err != nil {
		return nil, err
	}

	page, pageSize = repository.NormalizePage(page, pageSize)
	orders, total, err := s.store.Repos().WorkOrders.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	return paginate(mapper.ToWorkOrderDTOs(orders), total, page, pageSize), nil
}

// ListAvailable returns open orders that match the calling vendor's categories and areas.
// A vendor that is not approved sees nothing.
func (s *WorkOrderService) ListAvailable(ctx context.Context, search string, page, pageSize int) (*domain.PaginatedResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireVendor(actor); err != nil {
		return nil, err
	}

	page, pageSize = repository.NormalizePage(page, pageSize)
	vendor, err := s.store.Repos().Vendors.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, notFound(err, "Vendor", actor.ID)
	}
	if vendor.Status != domain.VendorStatusApproved {
		return paginate([]domain.WorkOrderDTO{}, 0, page, pageSize), nil
	}

	orders, total, err := s.store.Repos().WorkOrders.ListAvailableFor(ctx, vendor, search, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list available work orders: %w", err)
	}
	return paginate(mapper.ToWorkOrderDTOs(orders), total, page, pageSize), nil
}

// History returns every recorded status change of an order, oldest first
func (s *WorkOrderService) History(ctx context.Context, id uuid.UUID) ([]domain.StatusHistoryDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	wo, err := s.store.Repos().WorkOrders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Work order", id)
	}
	if err := canView(actor, wo); err != nil {
		return nil, err
	}

	rows, err := s.store.Repos().StatusHistory.GetByWorkOrderID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}
	dtos := make([]domain.StatusHistoryDTO, len(rows))
	for i := range rows {
		dtos[i] = mapper.ToStatusHistoryDTO(&rows[i])
	}
	return dtos, nil
}

func canView(actor domain.Actor, wo *domain.WorkOrder) error {
	if actor.IsStaff() || actor.IsSystem() {
		return nil
	}
	if actor.Role == domain.RoleVendor && (wo.IsAssignedTo(actor.ID) || wo.Status.IsOpenForProposals()) {
		return nil
	}
	return domain.NewError(domain.KindUnauthorized, "You do not have access to this work order")
}

func ownProposals(proposals []domain.Proposal, vendorID uuid.UUID) []domain.Proposal {
	out := make([]domain.Proposal, 0, len(proposals))
	for _, p := range proposals {
		if p.VendorID == vendorID {
			out = append(out, p)
		}
	}
	return out
}

func roundRating(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
