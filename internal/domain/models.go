package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel carries the identifier and creation timestamp shared by most tables.
// IDs are generated in Go so the same models work on PostgreSQL and SQLite.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns a new UUID when none was set by the caller.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Role is the role a user acts under
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAgent  Role = "agent"
	RoleVendor Role = "vendor"
	// RoleSystem is never stored on a user; scheduled jobs and cascades act under it.
	RoleSystem Role = "system"
)

// IsValid reports whether r can be assigned to a user
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleVendor:
		return true
	}
	return false
}

// IsStaff reports whether r manages work orders on behalf of the property owner
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleAgent
}

// ServiceCategory is a trade a vendor offers and a work order requires
type ServiceCategory string

const (
	CategoryPlumbing   ServiceCategory = "plumbing"
	CategoryElectrical ServiceCategory = "electrical"
	CategoryCleaning   ServiceCategory = "cleaning"
	CategoryPainting   ServiceCategory = "painting"
	CategorySecurity   ServiceCategory = "security"
	CategoryITHardware ServiceCategory = "it_hardware"
)

// ServiceCategories lists every known category in display order
var ServiceCategories = []ServiceCategory{
	CategoryPlumbing,
	CategoryElectrical,
	CategoryCleaning,
	CategoryPainting,
	CategorySecurity,
	CategoryITHardware,
}

// IsValid checks if the category is one of the known trades
func (c ServiceCategory) IsValid() bool {
	for _, known := range ServiceCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Priority of a work order
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if the priority is a known value
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// VendorStatus represents the approval state of a vendor
type VendorStatus string

const (
	VendorStatusPending  VendorStatus = "pending"
	VendorStatusApproved VendorStatus = "approved"
	VendorStatusBlocked  VendorStatus = "blocked"
)

// IsValid checks if the vendor status is a known value
func (s VendorStatus) IsValid() bool {
	switch s {
	case VendorStatusPending, VendorStatusApproved, VendorStatusBlocked:
		return true
	}
	return false
}

// WorkOrderStatus represents a lifecycle stage of a work order
type WorkOrderStatus string

const (
	WorkOrderStatusDraft                WorkOrderStatus = "draft"
	WorkOrderStatusPublished            WorkOrderStatus = "published"
	WorkOrderStatusApplicationsReceived WorkOrderStatus = "applications_received"
	WorkOrderStatusUnderReview          WorkOrderStatus = "under_review"
	WorkOrderStatusAssigned             WorkOrderStatus = "assigned"
	WorkOrderStatusInProgress           WorkOrderStatus = "in_progress"
	WorkOrderStatusCompleted            WorkOrderStatus = "completed"
	WorkOrderStatusInvoiceSubmitted     WorkOrderStatus = "invoice_submitted"
	WorkOrderStatusInvoiceApproved      WorkOrderStatus = "invoice_approved"
	WorkOrderStatusClosed               WorkOrderStatus = "closed"
)

// WorkOrderStatuses lists the lifecycle stages in order
var WorkOrderStatuses = []WorkOrderStatus{
	WorkOrderStatusDraft,
	WorkOrderStatusPublished,
	WorkOrderStatusApplicationsReceived,
	WorkOrderStatusUnderReview,
	WorkOrderStatusAssigned,
	WorkOrderStatusInProgress,
	WorkOrderStatusCompleted,
	WorkOrderStatusInvoiceSubmitted,
	WorkOrderStatusInvoiceApproved,
	WorkOrderStatusClosed,
}

// IsValid checks if the status is a known lifecycle stage
func (s WorkOrderStatus) IsValid() bool {
	for _, known := range WorkOrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsOpenForProposals reports whether vendors may still submit proposals
func (s WorkOrderStatus) IsOpenForProposals() bool {
	switch s {
	case WorkOrderStatusPublished, WorkOrderStatusApplicationsReceived, WorkOrderStatusUnderReview:
		return true
	}
	return false
}

// RequiresVendor reports whether an order in this stage must have an assigned vendor
func (s WorkOrderStatus) RequiresVendor() bool {
	switch s {
	case WorkOrderStatusAssigned,
		WorkOrderStatusInProgress,
		WorkOrderStatusCompleted,
		WorkOrderStatusInvoiceSubmitted,
		WorkOrderStatusInvoiceApproved,
		WorkOrderStatusClosed:
		return true
	}
	return false
}

// SLATrackedStatuses are the stages in which the SLA clock is running
var SLATrackedStatuses = []WorkOrderStatus{
	WorkOrderStatusPublished,
	WorkOrderStatusApplicationsReceived,
	WorkOrderStatusUnderReview,
	WorkOrderStatusAssigned,
	WorkOrderStatusInProgress,
}

// IsSLATracked reports whether the SLA deadline applies in this stage
func (s WorkOrderStatus) IsSLATracked() bool {
	for _, tracked := range SLATrackedStatuses {
		if s == tracked {
			return true
		}
	}
	return false
}

// ProposalStatus represents the decision state of a proposal
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// TaskStatus represents the progress of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusDelayed    TaskStatus = "delayed"
)

// IsValid checks if the task status is a known value
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusDelayed:
		return true
	}
	return false
}

// InvoiceStatus represents the review state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusApproved InvoiceStatus = "approved"
	InvoiceStatusRejected InvoiceStatus = "rejected"
)

// User is a mock account that can log in to the dashboard
type User struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(200);not null"`
	Role         Role   `gorm:"type:varchar(20);not null;index"`
	PasswordHash string `gorm:"type:varchar(100);not null;column:password_hash"`
	Phone        string `gorm:"type:varchar(50)"`
	LastLoginAt  *time.Time
}

// Property is a managed building that work orders are raised against
type Property struct {
	BaseModel
	Name    string `gorm:"type:varchar(200);not null"`
	Address string `gorm:"type:varchar(500);not null"`
	Area    string `gorm:"type:varchar(100);not null;index"`
}

// Vendor is a service provider. Its ID equals the ID of the vendor's user account.
type Vendor struct {
	ID                uuid.UUID               `gorm:"type:uuid;primaryKey"`
	Name              string                  `gorm:"type:varchar(200);not null"`
	Email             string                  `gorm:"type:varchar(255);not null"`
	Phone             string                  `gorm:"type:varchar(50)"`
	BusinessName      string                  `gorm:"type:varchar(200);not null;column:business_name"`
	Description       string                  `gorm:"type:text"`
	ServiceCategories []VendorServiceCategory `gorm:"foreignKey:VendorID"`
	ServiceAreas      []VendorServiceArea     `gorm:"foreignKey:VendorID"`
	Capacity          int                     `gorm:"not null;default:0"`
	Status            VendorStatus            `gorm:"type:varchar(20);not null;default:'pending';index"`
	Rating            *float64                `gorm:"type:decimal(3,2)"`
	RatingCount       int                     `gorm:"not null;default:0;column:rating_count"`
	CompletedOrders   int                     `gorm:"not null;default:0;column:completed_orders"`
	ApprovedAt        *time.Time              `gorm:"column:approved_at"`
	BlockedAt         *time.Time              `gorm:"column:blocked_at"`
	BlockReason       string                  `gorm:"type:varchar(500);column:block_reason"`
	CreatedAt         time.Time               `gorm:"not null"`
	UpdatedAt         time.Time               `gorm:"not null;autoUpdateTime:false"`
}

// Categories returns the vendor's categories as plain values
func (v *Vendor) Categories() []ServiceCategory {
	out := make([]ServiceCategory, 0, len(v.ServiceCategories))
	for _, c := range v.ServiceCategories {
		out = append(out, c.Category)
	}
	return out
}

// Areas returns the vendor's service areas as plain values
func (v *Vendor) Areas() []string {
	out := make([]string, 0, len(v.ServiceAreas))
	for _, a := range v.ServiceAreas {
		out = append(out, a.Area)
	}
	return out
}

// OffersCategory reports whether the vendor works in the given trade
func (v *Vendor) OffersCategory(category ServiceCategory) bool {
	for _, c := range v.ServiceCategories {
		if c.Category == category {
			return true
		}
	}
	return false
}

// ServesArea reports whether the vendor covers the given area, ignoring case
func (v *Vendor) ServesArea(area string) bool {
	key := NormalizeArea(area)
	if key == "" {
		return false
	}
	for _, a := range v.ServiceAreas {
		if NormalizeArea(a.Area) == key {
			return true
		}
	}
	return false
}

// NormalizeArea returns the comparison key for a service area
func NormalizeArea(area string) string {
	return strings.ToLower(strings.TrimSpace(area))
}

// VendorServiceCategory links a vendor to one service category
type VendorServiceCategory struct {
	VendorID uuid.UUID       `gorm:"type:uuid;primaryKey;column:vendor_id"`
	Category ServiceCategory `gorm:"type:varchar(50);primaryKey;index"`
}

// VendorServiceArea links a vendor to one service area
type VendorServiceArea struct {
	VendorID uuid.UUID `gorm:"type:uuid;primaryKey;column:vendor_id"`
	Area     string    `gorm:"type:varchar(100);primaryKey;index"`
}

// WorkOrder is a maintenance job raised against a property
type WorkOrder struct {
	BaseModel
	Title               string          `gorm:"type:varchar(200);not null"`
	Description         string          `gorm:"type:text"`
	Category            ServiceCategory `gorm:"type:varchar(50);not null;index"`
	Priority            Priority        `gorm:"type:varchar(20);not null"`
	Status              WorkOrderStatus `gorm:"type:varchar(50);not null;index"`
	PropertyID          uuid.UUID       `gorm:"type:uuid;not null;index;column:property_id"`
	Property            *Property       `gorm:"foreignKey:PropertyID"`
	CreatedByID         uuid.UUID       `gorm:"type:uuid;not null;column:created_by_id"`
	AssignedVendorID    *uuid.UUID      `gorm:"type:uuid;index;column:assigned_vendor_id"`
	AssignedVendor      *Vendor         `gorm:"foreignKey:AssignedVendorID"`
	SLADeadline         *time.Time      `gorm:"column:sla_deadline"`
	SLABreachedAt       *time.Time      `gorm:"column:sla_breached_at"`
	EstimatedCost       *float64        `gorm:"type:decimal(15,2);column:estimated_cost"`
	ActualCost          *float64        `gorm:"type:decimal(15,2);column:actual_cost"`
	SpecialInstructions string          `gorm:"type:text;column:special_instructions"`
	Rating              *int            `gorm:"column:rating"`
	UpdatedAt           time.Time       `gorm:"not null;autoUpdateTime:false"`
}

// Breached reports whether the order is inside an SLA breach episode
func (w *WorkOrder) Breached() bool {
	return w.SLABreachedAt != nil
}

// IsAssignedTo reports whether vendorID is the order's assigned vendor
func (w *WorkOrder) IsAssignedTo(vendorID uuid.UUID) bool {
	return w.AssignedVendorID != nil && *w.AssignedVendorID == vendorID
}

// WorkOrderStatusHistory tracks every status change of a work order
type WorkOrderStatusHistory struct {
	BaseModel
	WorkOrderID   uuid.UUID        `gorm:"type:uuid;not null;index;column:work_order_id"`
	FromStatus    *WorkOrderStatus `gorm:"type:varchar(50);column:from_status"`
	ToStatus      WorkOrderStatus  `gorm:"type:varchar(50);not null;column:to_status"`
	ChangedByID   *uuid.UUID       `gorm:"type:uuid;column:changed_by_id"`
	ChangedByRole Role             `gorm:"type:varchar(20);not null;column:changed_by_role"`
	Note          string           `gorm:"type:text"`
}

// TableName keeps the history table name singular
func (WorkOrderStatusHistory) TableName() string {
	return "work_order_status_history"
}

// Proposal is a vendor's bid on a work order
type Proposal struct {
	BaseModel
	WorkOrderID     uuid.UUID      `gorm:"type:uuid;not null;index;column:work_order_id"`
	VendorID        uuid.UUID      `gorm:"type:uuid;not null;index;column:vendor_id"`
	VendorName      string         `gorm:"type:varchar(200);not null;column:vendor_name"`
	EstimatedCost   float64        `gorm:"type:decimal(15,2);not null;column:estimated_cost"`
	Availability    string         `gorm:"type:varchar(200);not null"`
	Remarks         string         `gorm:"type:text"`
	Status          ProposalStatus `gorm:"type:varchar(20);not null;index"`
	DecidedAt       *time.Time     `gorm:"column:decided_at"`
	RejectionReason string         `gorm:"type:varchar(500);column:rejection_reason"`
}

// Task is a unit of work tracked against an assigned work order
type Task struct {
	BaseModel
	WorkOrderID uuid.UUID      `gorm:"type:uuid;not null;index;column:work_order_id"`
	Title       string         `gorm:"type:varchar(200);not null"`
	Description string         `gorm:"type:text"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null"`
	Deadline    *time.Time     `gorm:"column:deadline"`
	CompletedAt *time.Time     `gorm:"column:completed_at"`
	DelayReason *string        `gorm:"type:varchar(500);column:delay_reason"`
	UpdatedAt   time.Time      `gorm:"not null"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// IsOpen reports whether the task still needs work
func (t *Task) IsOpen() bool {
	return t.Status != TaskStatusCompleted
}

// Invoice is the vendor's bill for a completed work order
type Invoice struct {
	BaseModel
	WorkOrderID     uuid.UUID     `gorm:"type:uuid;not null;index;column:work_order_id"`
	VendorID        uuid.UUID     `gorm:"type:uuid;not null;index;column:vendor_id"`
	Amount          float64       `gorm:"type:decimal(15,2);not null"`
	Notes           string        `gorm:"type:text"`
	DocumentPath    string        `gorm:"type:varchar(500);column:document_path"`
	DocumentName    string        `gorm:"type:varchar(255);column:document_name"`
	Status          InvoiceStatus `gorm:"type:varchar(20);not null;index"`
	RejectionReason string        `gorm:"type:varchar(500);column:rejection_reason"`
	DecidedAt       *time.Time    `gorm:"column:decided_at"`
}

// Event is one domain event. Rows double as the outbox for subscribers
// and as the activity feed shown on the dashboard.
type Event struct {
	BaseModel
	Type         EventType  `gorm:"type:varchar(50);not null;index"`
	EntityType   string     `gorm:"type:varchar(50);not null;column:entity_type"`
	EntityID     uuid.UUID  `gorm:"type:uuid;not null;index;column:entity_id"`
	WorkOrderID  *uuid.UUID `gorm:"type:uuid;index;column:work_order_id"`
	VendorID     *uuid.UUID `gorm:"type:uuid;index;column:vendor_id"`
	ActorID      *uuid.UUID `gorm:"type:uuid;column:actor_id"`
	ActorRole    Role       `gorm:"type:varchar(20);not null;column:actor_role"`
	Severity     Severity   `gorm:"type:varchar(20);not null"`
	Title        string     `gorm:"type:varchar(200);not null"`
	Message      string     `gorm:"type:varchar(500);not null"`
	Payload      string     `gorm:"type:text"`
	Attempts     int        `gorm:"not null;default:0"`
	LastError    string     `gorm:"type:varchar(500);column:last_error"`
	DispatchedAt *time.Time `gorm:"index;column:dispatched_at"`
}

// Notification is a per-user copy of an event shown in the notification menu
type Notification struct {
	BaseModel
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_notification_event_user,priority:2"`
	EventID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_notification_event_user,priority:1"`
	Type       Severity   `gorm:"type:varchar(20);not null"`
	Title      string     `gorm:"type:varchar(200);not null"`
	Message    string     `gorm:"type:varchar(500);not null"`
	Read       bool       `gorm:"column:read;not null;default:false;index"`
	ReadAt     *time.Time `gorm:"column:read_at"`
	EntityID   *uuid.UUID `gorm:"type:uuid;column:entity_id"`
	EntityType string     `gorm:"type:varchar(50);column:entity_type"`
}

// AllModels lists every persisted model in migration order
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Property{},
		&Vendor{},
		&VendorServiceCategory{},
		&VendorServiceArea{},
		&WorkOrder{},
		&WorkOrderStatusHistory{},
		&Proposal{},
		&Task{},
		&Invoice{},
		&Event{},
		&Notification{},
	}
}
