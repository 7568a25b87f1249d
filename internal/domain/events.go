package domain

import "github.com/google/uuid"

// EventType names a domain event
type EventType string

const (
	EventVendorSignedUp         EventType = "VendorSignedUp"
	EventVendorApproved         EventType = "VendorApproved"
	EventVendorBlocked          EventType = "VendorBlocked"
	EventProposalSubmitted      EventType = "ProposalSubmitted"
	EventProposalApproved       EventType = "ProposalApproved"
	EventProposalRejected       EventType = "ProposalRejected"
	EventWorkOrderStatusChanged EventType = "WorkOrderStatusChanged"
	EventSlaBreach              EventType = "SlaBreach"
	EventInvoiceSubmitted       EventType = "InvoiceSubmitted"
	EventInvoiceApproved        EventType = "InvoiceApproved"
	EventInvoiceRejected        EventType = "InvoiceRejected"
)

// Severity classifies an event for display, mirroring toast and notification styles
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Entity type names stored on events and notifications
const (
	EntityTypeVendor    = "vendor"
	EntityTypeWorkOrder = "work_order"
	EntityTypeProposal  = "proposal"
	EntityTypeInvoice   = "invoice"
)

// VendorEventPayload is carried by VendorSignedUp, VendorApproved and VendorBlocked
type VendorEventPayload struct {
	VendorID     uuid.UUID    `json:"vendorId"`
	BusinessName string       `json:"businessName"`
	Status       VendorStatus `json:"status"`
	Reason       string       `json:"reason,omitempty"`
	// RevertedOrders lists orders sent back to published when the vendor was blocked
	RevertedOrders []uuid.UUID `json:"revertedOrders,omitempty"`
}

// ProposalEventPayload is carried by the proposal events
type ProposalEventPayload struct {
	ProposalID    uuid.UUID      `json:"proposalId"`
	WorkOrderID   uuid.UUID      `json:"workOrderId"`
	VendorID      uuid.UUID      `json:"vendorId"`
	EstimatedCost float64        `json:"estimatedCost"`
	Status        ProposalStatus `json:"status"`
}

// WorkOrderStatusChangedPayload is carried by WorkOrderStatusChanged
type WorkOrderStatusChangedPayload struct {
	WorkOrderID uuid.UUID       `json:"workOrderId"`
	From        WorkOrderStatus `json:"from"`
	To          WorkOrderStatus `json:"to"`
	VendorID    *uuid.UUID      `json:"vendorId,omitempty"`
	Note        string          `json:"note,omitempty"`
}

// SlaBreachPayload is carried by SlaBreach
type SlaBreachPayload struct {
	WorkOrderID uuid.UUID       `json:"workOrderId"`
	Status      WorkOrderStatus `json:"status"`
	Deadline    string          `json:"deadline"`
	DetectedAt  string          `json:"detectedAt"`
}

// InvoiceEventPayload is carried by the invoice events
type InvoiceEventPayload struct {
	InvoiceID   uuid.UUID     `json:"invoiceId"`
	WorkOrderID uuid.UUID     `json:"workOrderId"`
	VendorID    uuid.UUID     `json:"vendorId"`
	Amount      float64       `json:"amount"`
	Status      InvoiceStatus `json:"status"`
	Reason      string        `json:"reason,omitempty"`
}
