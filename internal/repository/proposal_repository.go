package repository

import (
	"context"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) Create(ctx context.Context, proposal *domain.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := r.db.WithContext(ctx).First(&proposal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// GetByIDForUpdate retrieves a proposal and locks its row until the transaction ends
func (r *ProposalRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := forUpdate(r.db.WithContext(ctx)).First(&proposal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// UpdateDecision persists the decision fields of a proposal
func (r *ProposalRepository) UpdateDecision(ctx context.Context, proposal *domain.Proposal) error {
	return r.db.WithContext(ctx).
		Model(&domain.Proposal{}).
		Where("id = ?", proposal.ID).
		Updates(map[string]interface{}{
			"status":           proposal.Status,
			"decided_at":       proposal.DecidedAt,
			"rejection_reason": proposal.RejectionReason,
		}).Error
}

// ListByWorkOrder returns every proposal for an order, oldest first
func (r *ProposalRepository) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.Proposal, error) {
	var proposals []domain.Proposal
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at ASC").
		Find(&proposals).Error
	return proposals, err
}

// ListByWorkOrderAndStatus returns the order's proposals in one decision state
func (r *ProposalRepository) ListByWorkOrderAndStatus(ctx context.Context, workOrderID uuid.UUID, status domain.ProposalStatus) ([]domain.Proposal, error) {
	var proposals []domain.Proposal
	err := r.db.WithContext(ctx).
		Where("work_order_id = ? AND status = ?", workOrderID, status).
		Order("created_at ASC").
		Find(&proposals).Error
	return proposals, err
}

// ListByVendor returns a vendor's proposals, newest first, optionally filtered by status
func (r *ProposalRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, status *domain.ProposalStatus) ([]domain.Proposal, error) {
	var proposals []domain.Proposal
	query := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("created_at DESC").Find(&proposals).Error
	return proposals, err
}

// HasPending reports whether the vendor already has a pending proposal on the order
func (r *ProposalRepository) HasPending(ctx context.Context, workOrderID, vendorID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Proposal{}).
		Where("work_order_id = ? AND vendor_id = ? AND status = ?", workOrderID, vendorID, domain.ProposalStatusPending).
		Count(&count).Error
	return count > 0, err
}

// CountPendingByWorkOrder returns the number of pending proposals on an order
func (r *ProposalRepository) CountPendingByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Proposal{}).
		Where("work_order_id = ? AND status = ?", workOrderID, domain.ProposalStatusPending).
		Count(&count).Error
	return count, err
}

// CountApproved returns the number of approved proposals on an order
func (r *ProposalRepository) CountApproved(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Proposal{}).
		Where("work_order_id = ? AND status = ?", workOrderID, domain.ProposalStatusApproved).
		Count(&count).Error
	return count, err
}

// GetLatestByWorkOrder returns the most recently submitted proposal on an order
func (r *ProposalRepository) GetLatestByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at DESC").
		First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// CountPending returns pending proposals, optionally for one vendor
func (r *ProposalRepository) CountPending(ctx context.Context, vendorID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Proposal{}).Where("status = ?", domain.ProposalStatusPending)
	if vendorID != nil {
		query = query.Where("vendor_id = ?", *vendorID)
	}
	err := query.Count(&count).Error
	return count, err
}
