package repository

import (
	"context"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetPendingByWorkOrder returns the invoice awaiting review for an order
func (r *InvoiceRepository) GetPendingByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := forUpdate(r.db.WithContext(ctx)).
		Where("work_order_id = ? AND status = ?", workOrderID, domain.InvoiceStatusPending).
		Order("created_at DESC").
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdateDecision persists the review fields of an invoice
func (r *InvoiceRepository) UpdateDecision(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"status":           invoice.Status,
			"rejection_reason": invoice.RejectionReason,
			"decided_at":       invoice.DecidedAt,
		}).Error
}

// ListByWorkOrder returns every invoice submitted for an order, newest first
func (r *InvoiceRepository) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

// List returns invoices, optionally narrowed to a vendor and a status
func (r *InvoiceRepository) List(ctx context.Context, vendorID *uuid.UUID, status *domain.InvoiceStatus) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	query := r.db.WithContext(ctx)
	if vendorID != nil {
		query = query.Where("vendor_id = ?", *vendorID)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("created_at DESC").Limit(MaxPageSize).Find(&invoices).Error
	return invoices, err
}

// CountPending returns invoices awaiting review, optionally for one vendor
func (r *InvoiceRepository) CountPending(ctx context.Context, vendorID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Invoice{}).Where("status = ?", domain.InvoiceStatusPending)
	if vendorID != nil {
		query = query.Where("vendor_id = ?", *vendorID)
	}
	err := query.Count(&count).Error
	return count, err
}
