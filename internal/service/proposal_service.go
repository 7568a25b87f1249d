package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/mapper"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProposalService struct {
	core
}

func NewProposalService(deps Deps) *ProposalService {
	return &ProposalService{core: newCore(deps)}
}

// Submit records the calling vendor's bid on an open work order.
// The first proposal on a published order moves it to applications_received.
func (s *ProposalService) Submit(ctx context.Context, workOrderID uuid.UUID, req *domain.SubmitProposalRequest) (*domain.ProposalDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireVendor(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var proposal *domain.Proposal
	keys := []string{repository.OrderKey(workOrderID), repository.VendorKey(actor.ID)}
	err = s.atomic(ctx, keys, func(r *repository.Repositories) error {
		vendor, err := r.Vendors.GetByIDForUpdate(ctx, actor.ID)
		if err != nil {
			return notFound(err, "Vendor", actor.ID)
		}
		wo, err := r.WorkOrders.GetByIDForUpdate(ctx, workOrderID)
		if err != nil {
			return notFound(err, "Work order", workOrderID)
		}
		if err := checkEligible(vendor, wo); err != nil {
			return err
		}
		if !wo.Status.IsOpenForProposals() {
			return domain.NewError(domain.KindOrderNotOpen,
				"This work order is no longer accepting proposals")
		}

		hasPending, err := r.Proposals.HasPending(ctx, wo.ID, vendor.ID)
		if err != nil {
			return fmt.Errorf("failed to check existing proposals: %w", err)
		}
		if hasPending {
			return domain.NewValidationError("You already have a pending proposal on this work order", nil)
		}

		proposal = &domain.Proposal{
			WorkOrderID:   wo.ID,
			VendorID:      vendor.ID,
			VendorName:    vendor.BusinessName,
			EstimatedCost: req.EstimatedCost,
			Availability:  strings.TrimSpace(req.Availability),
			Remarks:       req.Remarks,
			Status:        domain.ProposalStatusPending,
		}
		proposal.CreatedAt = s.now()
		if err := r.Proposals.Create(ctx, proposal); err != nil {
			return fmt.Errorf("failed to create proposal: %w", err)
		}

		if wo.Status == domain.WorkOrderStatusPublished {
			if err := s.transition(ctx, r, wo, domain.WorkOrderStatusApplicationsReceived, domain.SystemActor(), "First proposal received"); err != nil {
				return err
			}
		}

		woID, vendorID := wo.ID, vendor.ID
		return s.record(ctx, r, actor, event{
			Type:        domain.EventProposalSubmitted,
			EntityType:  domain.EntityTypeProposal,
			EntityID:    proposal.ID,
			WorkOrderID: &woID,
			VendorID:    &vendorID,
			Severity:    domain.SeverityInfo,
			Title:       "New proposal",
			Message:     fmt.Sprintf("%s submitted a proposal for %s", vendor.BusinessName, wo.Title),
			Payload:     proposalPayload(proposal),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("proposal submitted",
		zap.String("proposal_id", proposal.ID.String()),
		zap.String("work_order_id", workOrderID.String()),
		zap.String("vendor_id", actor.ID.String()),
	)
	dto := mapper.ToProposalDTO(proposal)
	return &dto, nil
}

// Approve selects a proposal: it becomes approved, its pending siblings are rejected,
// the order is assigned to the vendor and an initial task is created.
func (s *ProposalService) Approve(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	snapshot, err := s.store.Repos().Proposals.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Proposal", id)
	}

	var proposal *domain.Proposal
	keys := []string{repository.OrderKey(snapshot.WorkOrderID), repository.VendorKey(snapshot.VendorID)}
	err = s.atomic(ctx, keys, func(r *repository.Repositories) error {
		proposal, err = r.Proposals.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Proposal", id)
		}
		wo, err := r.WorkOrders.GetByIDForUpdate(ctx, proposal.WorkOrderID)
		if err != nil {
			return notFound(err, "Work order", proposal.WorkOrderID)
		}

		if proposal.Status != domain.ProposalStatusPending {
			return domain.NewError(domain.KindAlreadyDecided, "This proposal has already been %s", proposal.Status)
		}
		approved, err := r.Proposals.CountApproved(ctx, wo.ID)
		if err != nil {
			return fmt.Errorf("failed to check approved proposals: %w", err)
		}
		if approved > 0 {
			return domain.NewError(domain.KindAlreadyDecided, "A proposal has already been approved for this work order")
		}
		if wo.Status != domain.WorkOrderStatusApplicationsReceived && wo.Status != domain.WorkOrderStatusUnderReview {
			return domain.NewError(domain.KindOrderNotOpen,
				"Proposals cannot be approved while the work order is %s", statusLabel(wo.Status))
		}

		vendor, err := r.Vendors.GetByIDForUpdate(ctx, proposal.VendorID)
		if err != nil {
			return notFound(err, "Vendor", proposal.VendorID)
		}
		if vendor.Status != domain.VendorStatusApproved {
			return domain.NewError(domain.KindVendorNotEligible, "%s is not an approved vendor", vendor.BusinessName)
		}

		if wo.Status == domain.WorkOrderStatusApplicationsReceived {
			if err := s.openReview(ctx, r, wo, actor, ""); err != nil {
				return err
			}
		}

		now := s.now()
		proposal.Status = domain.ProposalStatusApproved
		proposal.DecidedAt = &now
		if err := r.Proposals.UpdateDecision(ctx, proposal); err != nil {
			return fmt.Errorf("failed to approve proposal: %w", err)
		}

		siblings, err := r.Proposals.ListByWorkOrderAndStatus(ctx, wo.ID, domain.ProposalStatusPending)
		if err != nil {
			return fmt.Errorf("failed to load competing proposals: %w", err)
		}
		for i := range siblings {
			if err := s.rejectProposal(ctx, r, &siblings[i], actor, "Another proposal was selected"); err != nil {
				return err
			}
		}

		cost := proposal.EstimatedCost
		wo.EstimatedCost = &cost
		if err := s.assign(ctx, r, wo, vendor.ID, actor); err != nil {
			return err
		}

		task := &domain.Task{
			WorkOrderID: wo.ID,
			Title:       wo.Title,
			Description: wo.Description,
			Status:      domain.TaskStatusPending,
			Deadline:    wo.SLADeadline,
			UpdatedAt:   now,
		}
		task.CreatedAt = now
		if err := r.Tasks.Create(ctx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		woID, vendorID := wo.ID, vendor.ID
		return s.record(ctx, r, actor, event{
			Type:        domain.EventProposalApproved,
			EntityType:  domain.EntityTypeProposal,
			EntityID:    proposal.ID,
			WorkOrderID: &woID,
			VendorID:    &vendorID,
			Severity:    domain.SeveritySuccess,
			Title:       "Proposal approved",
			Message:     fmt.Sprintf("%s was assigned to %s", wo.Title, vendor.BusinessName),
			Payload:     proposalPayload(proposal),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("proposal approved",
		zap.String("proposal_id", id.String()),
		zap.String("work_order_id", proposal.WorkOrderID.String()),
		zap.String("vendor_id", proposal.VendorID.String()),
	)
	dto := mapper.ToProposalDTO(proposal)
	return &dto, nil
}

// Reject declines a single pending proposal
func (s *ProposalService) Reject(ctx context.Context, id uuid.UUID, reason string) (*domain.ProposalDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	snapshot, err := s.store.Repos().Proposals.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Proposal", id)
	}

	var proposal *domain.Proposal
	err = s.atomic(ctx, []string{repository.OrderKey(snapshot.WorkOrderID)}, func(r *repository.Repositories) error {
		proposal, err = r.Proposals.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Proposal", id)
		}
		if proposal.Status != domain.ProposalStatusPending {
			return domain.NewError(domain.KindAlreadyDecided, "This proposal has already been %s", proposal.Status)
		}
		return s.rejectProposal(ctx, r, proposal, actor, strings.TrimSpace(reason))
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToProposalDTO(proposal)
	return &dto, nil
}

// ListByWorkOrder returns the proposals on an order. Vendors only see their own.
func (s *ProposalService) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.ProposalDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	wo, err := repos.WorkOrders.GetByID(ctx, workOrderID)
	if err != nil {
		return nil, notFound(err, "Work order", workOrderID)
	}
	if err := canView(actor, wo); err != nil {
		return nil, err
	}

	proposals, err := repos.Proposals.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	if actor.Role == domain.RoleVendor {
		proposals = ownProposals(proposals, actor.ID)
	}
	return mapper.ToProposalDTOs(proposals), nil
}

// ListMine returns the calling vendor's proposals, newest first
func (s *ProposalService) ListMine(ctx context.Context, status *domain.ProposalStatus) ([]domain.ProposalDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireVendor(actor); err != nil {
		return nil, err
	}

	proposals, err := s.store.Repos().Proposals.ListByVendor(ctx, actor.ID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return mapper.ToProposalDTOs(proposals), nil
}

// checkEligible verifies the vendor may bid on wo. Approval is checked first so a
// blocked vendor is refused even when its categories and areas match.
func checkEligible(vendor *domain.Vendor, wo *domain.WorkOrder) error {
	if vendor.Status != domain.VendorStatusApproved {
		return domain.NewError(domain.KindVendorNotEligible,
			"Your vendor account is %s and cannot submit proposals", vendor.Status)
	}
	if !vendor.OffersCategory(wo.Category) {
		return domain.NewError(domain.KindVendorNotEligible,
			"You do not offer %s services", wo.Category)
	}
	if wo.Property == nil || !vendor.ServesArea(wo.Property.Area) {
		return domain.NewError(domain.KindVendorNotEligible,
			"This property is outside your service areas")
	}
	return nil
}

func proposalPayload(p *domain.Proposal) domain.ProposalEventPayload {
	return domain.ProposalEventPayload{
		ProposalID:    p.ID,
		WorkOrderID:   p.WorkOrderID,
		VendorID:      p.VendorID,
		EstimatedCost: p.EstimatedCost,
		Status:        p.Status,
	}
}
