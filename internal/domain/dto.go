package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses. Timestamps are ISO 8601 strings in UTC.

type UserDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  Role      `json:"role"`
	Phone string    `json:"phone,omitempty"`
}

type PropertyDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	Area    string    `json:"area"`
}

type VendorDTO struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone,omitempty"`
	BusinessName      string            `json:"businessName"`
	Description       string            `json:"description,omitempty"`
	ServiceCategories []ServiceCategory `json:"serviceCategories"`
	ServiceAreas      []string          `json:"serviceAreas"`
	Capacity          int               `json:"capacity"`
	Status            VendorStatus      `json:"status"`
	Rating            *float64          `json:"rating,omitempty"`
	RatingCount       int               `json:"ratingCount"`
	CompletedOrders   int               `json:"completedOrders"`
	ApprovedAt        *string           `json:"approvedAt,omitempty"`
	BlockedAt         *string           `json:"blockedAt,omitempty"`
	BlockReason       string            `json:"blockReason,omitempty"`
	CreatedAt         string            `json:"createdAt"`
	UpdatedAt         string            `json:"updatedAt"`
}

type WorkOrderDTO struct {
	ID                  uuid.UUID       `json:"id"`
	Title               string          `json:"title"`
	Description         string          `json:"description,omitempty"`
	Category            ServiceCategory `json:"category"`
	Priority            Priority        `json:"priority"`
	Status              WorkOrderStatus `json:"status"`
	PropertyID          uuid.UUID       `json:"propertyId"`
	Property            *PropertyDTO    `json:"property,omitempty"`
	CreatedByID         uuid.UUID       `json:"createdBy"`
	AssignedVendorID    *uuid.UUID      `json:"assignedVendorId,omitempty"`
	AssignedVendorName  string          `json:"assignedVendorName,omitempty"`
	SLADeadline         *string         `json:"slaDeadline,omitempty"`
	Breached            bool            `json:"breached"`
	SLABreachedAt       *string         `json:"slaBreachedAt,omitempty"`
	EstimatedCost       *float64        `json:"estimatedCost,omitempty"`
	ActualCost          *float64        `json:"actualCost,omitempty"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	Rating              *int            `json:"rating,omitempty"`
	CreatedAt           string          `json:"createdAt"`
	UpdatedAt           string          `json:"updatedAt"`
}

// WorkOrderDetailDTO includes the order with its proposals, tasks and invoices
type WorkOrderDetailDTO struct {
	WorkOrderDTO
	Proposals []ProposalDTO `json:"proposals"`
	Tasks     []TaskDTO     `json:"tasks"`
	Invoices  []InvoiceDTO  `json:"invoices"`
}

type StatusHistoryDTO struct {
	ID            uuid.UUID        `json:"id"`
	FromStatus    *WorkOrderStatus `json:"fromStatus,omitempty"`
	ToStatus      WorkOrderStatus  `json:"toStatus"`
	ChangedByID   *uuid.UUID       `json:"changedById,omitempty"`
	ChangedByRole Role             `json:"changedByRole"`
	Note          string           `json:"note,omitempty"`
	ChangedAt     string           `json:"changedAt"`
}

type ProposalDTO struct {
	ID              uuid.UUID      `json:"id"`
	WorkOrderID     uuid.UUID      `json:"workOrderId"`
	VendorID        uuid.UUID      `json:"vendorId"`
	VendorName      string         `json:"vendorName"`
	EstimatedCost   float64        `json:"estimatedCost"`
	Availability    string         `json:"availability"`
	Remarks         string         `json:"remarks,omitempty"`
	Status          ProposalStatus `json:"status"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
	SubmittedAt     string         `json:"submittedAt"`
	DecidedAt       *string        `json:"decidedAt,omitempty"`
}

type TaskDTO struct {
	ID          uuid.UUID  `json:"id"`
	WorkOrderID uuid.UUID  `json:"workOrderId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Deadline    *string    `json:"deadline,omitempty"`
	CompletedAt *string    `json:"completedAt,omitempty"`
	DelayReason *string    `json:"delayReason,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

type InvoiceDTO struct {
	ID              uuid.UUID     `json:"id"`
	WorkOrderID     uuid.UUID     `json:"workOrderId"`
	VendorID        uuid.UUID     `json:"vendorId"`
	Amount          float64       `json:"amount"`
	Notes           string        `json:"notes,omitempty"`
	DocumentName    string        `json:"documentName,omitempty"`
	HasDocument     bool          `json:"hasDocument"`
	Status          InvoiceStatus `json:"status"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
	SubmittedAt     string        `json:"submittedAt"`
	DecidedAt       *string       `json:"decidedAt,omitempty"`
}

// EventDTO is used for the activity feed and the websocket stream
type EventDTO struct {
	ID          uuid.UUID   `json:"id"`
	Type        EventType   `json:"type"`
	EntityType  string      `json:"entityType"`
	EntityID    uuid.UUID   `json:"entityId"`
	WorkOrderID *uuid.UUID  `json:"workOrderId,omitempty"`
	VendorID    *uuid.UUID  `json:"vendorId,omitempty"`
	ActorID     *uuid.UUID  `json:"actorId,omitempty"`
	ActorRole   Role        `json:"actorRole"`
	Severity    Severity    `json:"severity"`
	Title       string      `json:"title"`
	Message     string      `json:"message"`
	Payload     interface{} `json:"payload,omitempty"`
	CreatedAt   string      `json:"createdAt"`
}

type NotificationDTO struct {
	ID         uuid.UUID  `json:"id"`
	Type       Severity   `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Read       bool       `json:"read"`
	CreatedAt  string     `json:"createdAt"`
	EntityID   *uuid.UUID `json:"entityId,omitempty"`
	EntityType string     `json:"entityType,omitempty"`
}

// DashboardStatsDTO holds the counters shown on a role's dashboard
type DashboardStatsDTO struct {
	Role                Role                    `json:"role"`
	WorkOrdersByStatus  map[WorkOrderStatus]int `json:"workOrdersByStatus"`
	ActiveWorkOrders    int64                   `json:"activeWorkOrders"`
	BreachedWorkOrders  int64                   `json:"breachedWorkOrders"`
	PendingVendors      int64                   `json:"pendingVendors,omitempty"`
	ApprovedVendors     int64                   `json:"approvedVendors,omitempty"`
	PendingProposals    int64                   `json:"pendingProposals"`
	PendingInvoices     int64                   `json:"pendingInvoices"`
	AvailableWorkOrders int64                   `json:"availableWorkOrders,omitempty"`
	UnreadNotifications int64                   `json:"unreadNotifications"`
}

// LoginResponse carries the session token for a mock user
type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

// PaginatedResponse wraps list results with paging information
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupVendorRequest struct {
	Name              string            `json:"name" validate:"required,max=200"`
	Email             string            `json:"email" validate:"required,email,max=255"`
	Password          string            `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword   string            `json:"confirmPassword" validate:"required,eqfield=Password"`
	Phone             string            `json:"phone" validate:"required,max=50"`
	BusinessName      string            `json:"businessName" validate:"required,max=200"`
	Description       string            `json:"description,omitempty" validate:"max=2000"`
	ServiceCategories []ServiceCategory `json:"serviceCategories" validate:"required,min=1,dive,oneof=plumbing electrical cleaning painting security it_hardware"`
	// ServiceAreas accepts either separate entries or comma separated lists
	ServiceAreas []string `json:"serviceAreas" validate:"required,min=1,dive,required,max=200"`
	Capacity     int      `json:"capacity" validate:"gte=0,lte=1000"`
	AcceptTerms  bool     `json:"acceptTerms" validate:"required"`
}

type ReasonRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

type RequiredReasonRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type CreateWorkOrderRequest struct {
	Title               string          `json:"title" validate:"required,max=200"`
	Description         string          `json:"description,omitempty" validate:"max=5000"`
	Category            ServiceCategory `json:"category" validate:"required,oneof=plumbing electrical cleaning painting security it_hardware"`
	Priority            Priority        `json:"priority" validate:"required,oneof=low medium high urgent"`
	PropertyID          uuid.UUID       `json:"propertyId" validate:"required"`
	SLADeadline         *time.Time      `json:"slaDeadline,omitempty"`
	EstimatedCost       *float64        `json:"estimatedCost,omitempty" validate:"omitempty,gte=0"`
	SpecialInstructions string          `json:"specialInstructions,omitempty" validate:"max=2000"`
	// AsDraft keeps the order in draft instead of publishing it immediately
	AsDraft bool `json:"asDraft,omitempty"`
}

type UpdateDraftRequest struct {
	Title               *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description         *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category            *ServiceCategory `json:"category,omitempty" validate:"omitempty,oneof=plumbing electrical cleaning painting security it_hardware"`
	Priority            *Priority        `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	PropertyID          *uuid.UUID       `json:"propertyId,omitempty"`
	SLADeadline         *time.Time       `json:"slaDeadline,omitempty"`
	EstimatedCost       *float64         `json:"estimatedCost,omitempty" validate:"omitempty,gte=0"`
	SpecialInstructions *string          `json:"specialInstructions,omitempty" validate:"omitempty,max=2000"`
}

type ExtendSLARequest struct {
	SLADeadline time.Time `json:"slaDeadline" validate:"required"`
}

type SubmitProposalRequest struct {
	EstimatedCost float64 `json:"estimatedCost" validate:"required,gt=0"`
	Availability  string  `json:"availability" validate:"required,max=200"`
	Remarks       string  `json:"remarks,omitempty" validate:"max=2000"`
}

type MarkCompleteRequest struct {
	ActualCost *float64 `json:"actualCost,omitempty" validate:"omitempty,gte=0"`
	Note       string   `json:"note,omitempty" validate:"max=1000"`
}

type SubmitInvoiceRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Notes  string  `json:"notes,omitempty" validate:"max=2000"`
}

type RateWorkOrderRequest struct {
	Score int `json:"score" validate:"required,min=1,max=5"`
}

type AddTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty" validate:"max=2000"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type UpdateTaskRequest struct {
	Status      TaskStatus `json:"status" validate:"required,oneof=pending in_progress completed delayed"`
	DelayReason string     `json:"delayReason,omitempty" validate:"max=500"`
}

// WorkOrderFilters narrows listWorkOrders
type WorkOrderFilters struct {
	Status           *WorkOrderStatus
	Category         *ServiceCategory
	PropertyID       *uuid.UUID
	AssignedVendorID *uuid.UUID
	Breached         *bool
	// Search matches title, id or property address, ignoring case
	Search string
}

// VendorFilters narrows listVendors
type VendorFilters struct {
	Status   *VendorStatus
	Category *ServiceCategory
	Search   string
}
