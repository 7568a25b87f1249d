package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/mapper"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/Satheshwaran26/rentr/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Document is an uploaded invoice file
type Document struct {
	Name        string
	ContentType string
	Body        io.Reader
}

type InvoiceService struct {
	core
	storage storage.Storage
}

// NewInvoiceService creates the invoice service. docs may be nil, in which case
// invoices are accepted without documents only.
func NewInvoiceService(deps Deps, docs storage.Storage) *InvoiceService {
	return &InvoiceService{core: newCore(deps), storage: docs}
}

// Submit bills a completed work order on behalf of its assigned vendor and moves the
// order to invoice_submitted. The document is stored before the unit of work and removed
// again if the command fails.
func (s *InvoiceService) Submit(ctx context.Context, workOrderID uuid.UUID, req *domain.SubmitInvoiceRequest, doc *Document) (*domain.InvoiceDTO, error) {
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

	var docPath, docName string
	if doc != nil {
		if s.storage == nil {
			return nil, domain.NewValidationError("Document uploads are not enabled",
				map[string]string{"document": "Uploads are not enabled"})
		}
		docPath, _, err = s.storage.Upload(ctx, "invoices/"+workOrderID.String(), doc.Name, doc.ContentType, doc.Body)
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, domain.NewValidationError("Document is too large",
				map[string]string{"document": "Exceeds the maximum upload size"})
		}
		if err != nil {
			return nil, fmt.Errorf("failed to store invoice document: %w", err)
		}
		docName = doc.Name
	}

	var invoice *domain.Invoice
	err = s.atomic(ctx, []string{repository.OrderKey(workOrderID)}, func(r *repository.Repositories) error {
		wo, err := r.WorkOrders.GetByIDForUpdate(ctx, workOrderID)
		if err != nil {
			return notFound(err, "Work order", workOrderID)
		}
		if err := s.transition(ctx, r, wo, domain.WorkOrderStatusInvoiceSubmitted, actor, ""); err != nil {
			return err
		}

		invoice = &domain.Invoice{
			WorkOrderID:  wo.ID,
			VendorID:     actor.ID,
			Amount:       req.Amount,
			Notes:        req.Notes,
			DocumentPath: docPath,
			DocumentName: docName,
			Status:       domain.InvoiceStatusPending,
		}
		invoice.CreatedAt = s.now()
		if err := r.Invoices.Create(ctx, invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		return s.recordInvoice(ctx, r, actor, invoice, domain.EventInvoiceSubmitted, domain.SeverityInfo,
			"Invoice submitted", fmt.Sprintf("Invoice of %.2f submitted for %s", invoice.Amount, wo.Title))
	})
	if err != nil {
		if docPath != "" {
			if delErr := s.storage.Delete(context.WithoutCancel(ctx), docPath); delErr != nil {
				s.logger.Warn("failed to remove orphaned invoice document",
					zap.String("path", docPath), zap.Error(delErr))
			}
		}
		return nil, err
	}

	s.logger.Info("invoice submitted",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("work_order_id", workOrderID.String()),
		zap.Float64("amount", invoice.Amount),
	)
	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

// Approve accepts a pending invoice. The order records the invoiced amount as its
// actual cost and is closed automatically in the same unit of work.
func (s *InvoiceService) Approve(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	snapshot, err := s.store.Repos().Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Invoice", id)
	}

	var invoice *domain.Invoice
	err = s.atomic(ctx, []string{repository.OrderKey(snapshot.WorkOrderID)}, func(r *repository.Repositories) error {
		invoice, err = s.decidable(ctx, r, id)
		if err != nil {
			return err
		}
		wo, err := r.WorkOrders.GetByIDForUpdate(ctx, invoice.WorkOrderID)
		if err != nil {
			return notFound(err, "Work order", invoice.WorkOrderID)
		}

		amount := invoice.Amount
		wo.ActualCost = &amount
		if err := s.transition(ctx, r, wo, domain.WorkOrderStatusInvoiceApproved, actor, ""); err != nil {
			return err
		}

		now := s.now()
		invoice.Status = domain.InvoiceStatusApproved
		invoice.DecidedAt = &now
		if err := r.Invoices.UpdateDecision(ctx, invoice); err != nil {
			return fmt.Errorf("failed to approve invoice: %w", err)
		}
		if err := s.recordInvoice(ctx, r, actor, invoice, domain.EventInvoiceApproved, domain.SeveritySuccess,
			"Invoice approved", fmt.Sprintf("Invoice of %.2f for %s was approved", invoice.Amount, wo.Title)); err != nil {
			return err
		}

		return s.transition(ctx, r, wo, domain.WorkOrderStatusClosed, domain.SystemActor(), "Invoice approved")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice approved",
		zap.String("invoice_id", id.String()),
		zap.String("work_order_id", invoice.WorkOrderID.String()),
	)
	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

// Reject declines a pending invoice and sends the order back to completed so the
// vendor can submit a corrected one.
func (s *InvoiceService) Reject(ctx context.Context, id uuid.UUID, req *domain.RequiredReasonRequest) (*domain.InvoiceDTO, error) {
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

	snapshot, err := s.store.Repos().Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Invoice", id)
	}

	var invoice *domain.Invoice
	err = s.atomic(ctx, []string{repository.OrderKey(snapshot.WorkOrderID)}, func(r *repository.Repositories) error {
		invoice, err = s.decidable(ctx, r, id)
		if err != nil {
			return err
		}
		wo, err := r.WorkOrders.GetByIDForUpdate(ctx, invoice.WorkOrderID)
		if err != nil {
			return notFound(err, "Work order", invoice.WorkOrderID)
		}
		if err := s.transition(ctx, r, wo, domain.WorkOrderStatusCompleted, actor, "Invoice rejected: "+req.Reason); err != nil {
			return err
		}

		now := s.now()
		invoice.Status = domain.InvoiceStatusRejected
		invoice.RejectionReason = req.Reason
		invoice.DecidedAt = &now
		if err := r.Invoices.UpdateDecision(ctx, invoice); err != nil {
			return fmt.Errorf("failed to reject invoice: %w", err)
		}
		return s.recordInvoice(ctx, r, actor, invoice, domain.EventInvoiceRejected, domain.SeverityWarning,
			"Invoice rejected", fmt.Sprintf("Invoice for %s was rejected: %s", wo.Title, req.Reason))
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

// List returns invoices, newest first. Vendors only see their own.
func (s *InvoiceService) List(ctx context.Context, status *domain.InvoiceStatus) ([]domain.InvoiceDTO, error) {
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

	invoices, err := s.store.Repos().Invoices.List(ctx, vendorID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return mapper.ToInvoiceDTOs(invoices), nil
}

// Download opens the document attached to an invoice. The caller must close the reader.
func (s *InvoiceService) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, "", err
	}

	invoice, err := s.store.Repos().Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, "", notFound(err, "Invoice", id)
	}
	if !actor.IsStaff() && !actor.IsVendor(invoice.VendorID) {
		return nil, "", domain.NewError(domain.KindUnauthorized, "You do not have access to this invoice")
	}
	if invoice.DocumentPath == "" || s.storage == nil {
		return nil, "", domain.NewError(domain.KindNotFound, "Invoice %s has no document", id)
	}

	body, err := s.storage.Download(ctx, invoice.DocumentPath)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", domain.NewError(domain.KindNotFound, "Invoice %s has no document", id)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read invoice document: %w", err)
	}
	return body, invoice.DocumentName, nil
}

// decidable loads an invoice inside the unit of work and checks it still awaits review
func (s *InvoiceService) decidable(ctx context.Context, r *repository.Repositories, id uuid.UUID) (*domain.Invoice, error) {
	invoice, err := r.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Invoice", id)
	}
	if invoice.Status != domain.InvoiceStatusPending {
		return nil, domain.NewError(domain.KindAlreadyDecided, "This invoice has already been %s", invoice.Status)
	}
	return invoice, nil
}

func (s *InvoiceService) recordInvoice(ctx context.Context, r *repository.Repositories, actor domain.Actor, invoice *domain.Invoice, eventType domain.EventType, severity domain.Severity, title, message string) error {
	woID, vendorID := invoice.WorkOrderID, invoice.VendorID
	return s.record(ctx, r, actor, event{
		Type:        eventType,
		EntityType:  domain.EntityTypeInvoice,
		EntityID:    invoice.ID,
		WorkOrderID: &woID,
		VendorID:    &vendorID,
		Severity:    severity,
		Title:       title,
		Message:     message,
		Payload: domain.InvoiceEventPayload{
			InvoiceID:   invoice.ID,
			WorkOrderID: invoice.WorkOrderID,
			VendorID:    invoice.VendorID,
			Amount:      invoice.Amount,
			Status:      invoice.Status,
			Reason:      invoice.RejectionReason,
		},
	})
}
