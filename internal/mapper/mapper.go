package mapper

import (
	"encoding/json"
	"time"

	"github.com/Satheshwaran26/rentr/internal/domain"
)

const timeLayout = time.RFC3339Nano

// FormatTime renders t as an ISO 8601 string in UTC
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		Phone: user.Phone,
	}
}

// ToPropertyDTO converts Property to PropertyDTO
func ToPropertyDTO(property *domain.Property) domain.PropertyDTO {
	return domain.PropertyDTO{
		ID:      property.ID,
		Name:    property.Name,
		Address: property.Address,
		Area:    property.Area,
	}
}

// ToVendorDTO converts Vendor to VendorDTO
func ToVendorDTO(vendor *domain.Vendor) domain.VendorDTO {
	return domain.VendorDTO{
		ID:                vendor.ID,
		Name:              vendor.Name,
		Email:             vendor.Email,
		Phone:             vendor.Phone,
		BusinessName:      vendor.BusinessName,
		Description:       vendor.Description,
		ServiceCategories: vendor.Categories(),
		ServiceAreas:      vendor.Areas(),
		Capacity:          vendor.Capacity,
		Status:            vendor.Status,
		Rating:            vendor.Rating,
		RatingCount:       vendor.RatingCount,
		CompletedOrders:   vendor.CompletedOrders,
		ApprovedAt:        formatTimePtr(vendor.ApprovedAt),
		BlockedAt:         formatTimePtr(vendor.BlockedAt),
		BlockReason:       vendor.BlockReason,
		CreatedAt:         FormatTime(vendor.CreatedAt),
		UpdatedAt:         FormatTime(vendor.UpdatedAt),
	}
}

// ToWorkOrderDTO converts WorkOrder to WorkOrderDTO
func ToWorkOrderDTO(wo *domain.WorkOrder) domain.WorkOrderDTO {
	dto := domain.WorkOrderDTO{
		ID:                  wo.ID,
		Title:               wo.Title,
		Description:         wo.Description,
		Category:            wo.Category,
		Priority:            wo.Priority,
		Status:              wo.Status,
		PropertyID:          wo.PropertyID,
		CreatedByID:         wo.CreatedByID,
		AssignedVendorID:    wo.AssignedVendorID,
		SLADeadline:         formatTimePtr(wo.SLADeadline),
		Breached:            wo.Breached(),
		SLABreachedAt:       formatTimePtr(wo.SLABreachedAt),
		EstimatedCost:       wo.EstimatedCost,
		ActualCost:          wo.ActualCost,
		SpecialInstructions: wo.SpecialInstructions,
		Rating:              wo.Rating,
		CreatedAt:           FormatTime(wo.CreatedAt),
		UpdatedAt:           FormatTime(wo.UpdatedAt),
	}
	if wo.Property != nil {
		property := ToPropertyDTO(wo.Property)
		dto.Property = &property
	}
	if wo.AssignedVendor != nil {
		dto.AssignedVendorName = wo.AssignedVendor.BusinessName
	}
	return dto
}

// ToWorkOrderDTOs converts a slice of work orders
func ToWorkOrderDTOs(orders []domain.WorkOrder) []domain.WorkOrderDTO {
	dtos := make([]domain.WorkOrderDTO, len(orders))
	for i := range orders {
		dtos[i] = ToWorkOrderDTO(&orders[i])
	}
	return dtos
}

// ToStatusHistoryDTO converts a status history row
func ToStatusHistoryDTO(h *domain.WorkOrderStatusHistory) domain.StatusHistoryDTO {
	return domain.StatusHistoryDTO{
		ID:            h.ID,
		FromStatus:    h.FromStatus,
		ToStatus:      h.ToStatus,
		ChangedByID:   h.ChangedByID,
		ChangedByRole: h.ChangedByRole,
		Note:          h.Note,
		ChangedAt:     FormatTime(h.CreatedAt),
	}
}

// ToProposalDTO converts Proposal to ProposalDTO
func ToProposalDTO(p *domain.Proposal) domain.ProposalDTO {
	return domain.ProposalDTO{
		ID:              p.ID,
		WorkOrderID:     p.WorkOrderID,
		VendorID:        p.VendorID,
		VendorName:      p.VendorName,
		EstimatedCost:   p.EstimatedCost,
		Availability:    p.Availability,
		Remarks:         p.Remarks,
		Status:          p.Status,
		RejectionReason: p.RejectionReason,
		SubmittedAt:     FormatTime(p.CreatedAt),
		DecidedAt:       formatTimePtr(p.DecidedAt),
	}
}

// ToProposalDTOs converts a slice of proposals
func ToProposalDTOs(proposals []domain.Proposal) []domain.ProposalDTO {
	dtos := make([]domain.ProposalDTO, len(proposals))
	for i := range proposals {
		dtos[i] = ToProposalDTO(&proposals[i])
	}
	return dtos
}

// ToTaskDTO converts Task to TaskDTO
func ToTaskDTO(t *domain.Task) domain.TaskDTO {
	return domain.TaskDTO{
		ID:          t.ID,
		WorkOrderID: t.WorkOrderID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Deadline:    formatTimePtr(t.Deadline),
		CompletedAt: formatTimePtr(t.CompletedAt),
		DelayReason: t.DelayReason,
		CreatedAt:   FormatTime(t.CreatedAt),
		UpdatedAt:   FormatTime(t.UpdatedAt),
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []domain.Task) []domain.TaskDTO {
	dtos := make([]domain.TaskDTO, len(tasks))
	for i := range tasks {
		dtos[i] = ToTaskDTO(&tasks[i])
	}
	return dtos
}

// ToInvoiceDTO converts Invoice to InvoiceDTO
func ToInvoiceDTO(inv *domain.Invoice) domain.InvoiceDTO {
	return domain.InvoiceDTO{
		ID:              inv.ID,
		WorkOrderID:     inv.WorkOrderID,
		VendorID:        inv.VendorID,
		Amount:          inv.Amount,
		Notes:           inv.Notes,
		DocumentName:    inv.DocumentName,
		HasDocument:     inv.DocumentPath != "",
		Status:          inv.Status,
		RejectionReason: inv.RejectionReason,
		SubmittedAt:     FormatTime(inv.CreatedAt),
		DecidedAt:       formatTimePtr(inv.DecidedAt),
	}
}

// ToInvoiceDTOs converts a slice of invoices
func ToInvoiceDTOs(invoices []domain.Invoice) []domain.InvoiceDTO {
	dtos := make([]domain.InvoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = ToInvoiceDTO(&invoices[i])
	}
	return dtos
}

// ToEventDTO converts Event to EventDTO. The stored payload is passed through as raw JSON.
func ToEventDTO(e *domain.Event) domain.EventDTO {
	dto := domain.EventDTO{
		ID:          e.ID,
		Type:        e.Type,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		WorkOrderID: e.WorkOrderID,
		VendorID:    e.VendorID,
		ActorID:     e.ActorID,
		ActorRole:   e.ActorRole,
		Severity:    e.Severity,
		Title:       e.Title,
		Message:     e.Message,
		CreatedAt:   FormatTime(e.CreatedAt),
	}
	if e.Payload != "" && json.Valid([]byte(e.Payload)) {
		dto.Payload = json.RawMessage(e.Payload)
	}
	return dto
}

// ToEventDTOs converts a slice of events
func ToEventDTOs(events []domain.Event) []domain.EventDTO {
	dtos := make([]domain.EventDTO, len(events))
	for i := range events {
		dtos[i] = ToEventDTO(&events[i])
	}
	return dtos
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(n *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:         n.ID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		Read:       n.Read,
		CreatedAt:  FormatTime(n.CreatedAt),
		EntityID:   n.EntityID,
		EntityType: n.EntityType,
	}
}
