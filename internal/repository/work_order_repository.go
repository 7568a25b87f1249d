package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// workOrderSortableFields maps API field names to database column names for work orders
var workOrderSortableFields = map[string]string{
	"createdAt":   "work_orders.created_at",
	"updatedAt":   "work_orders.updated_at",
	"title":       "work_orders.title",
	"status":      "work_orders.status",
	"priority":    "work_orders.priority",
	"category":    "work_orders.category",
	"slaDeadline": "work_orders.sla_deadline",
}

// WorkOrderRepository handles work order data access operations
type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

func (r *WorkOrderRepository) Create(ctx context.Context, wo *domain.WorkOrder) error {
	return r.db.WithContext(ctx).Omit("Property", "AssignedVendor").Create(wo).Error
}

// GetByID retrieves a work order with its property and assigned vendor
func (r *WorkOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("AssignedVendor").
		Where("id = ?", id).
		First(&wo).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// GetByIDForUpdate retrieves a work order and locks its row until the transaction ends
func (r *WorkOrderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	err := forUpdate(r.db.WithContext(ctx)).
		Preload("Property").
		Where("id = ?", id).
		First(&wo).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// Update persists the mutable fields of a work order.
// The breach marker is owned by MarkBreached and ClearBreach.
func (r *WorkOrderRepository) Update(ctx context.Context, wo *domain.WorkOrder) error {
	return r.db.WithContext(ctx).
		Model(&domain.WorkOrder{}).
		Where("id = ?", wo.ID).
		Updates(map[string]interface{}{
			"title":                wo.Title,
			"description":          wo.Description,
			"category":             wo.Category,
			"priority":             wo.Priority,
			"status":               wo.Status,
			"property_id":          wo.PropertyID,
			"assigned_vendor_id":   wo.AssignedVendorID,
			"sla_deadline":         wo.SLADeadline,
			"estimated_cost":       wo.EstimatedCost,
			"actual_cost":          wo.ActualCost,
			"special_instructions": wo.SpecialInstructions,
			"rating":               wo.Rating,
			"updated_at":           wo.UpdatedAt,
		}).Error
}

// MarkBreached sets the breach marker only if it is not already set and the order
// is still in a stage with a running SLA clock. It reports whether this call started
// the breach episode.
func (r *WorkOrderRepository) MarkBreached(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.WorkOrder{}).
		Where("id = ? AND sla_breached_at IS NULL", id).
		Where("status IN ?", domain.SLATrackedStatuses).
		Update("sla_breached_at", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ClearBreach ends the current breach episode
func (r *WorkOrderRepository) ClearBreach(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.WorkOrder{}).
		Where("id = ?", id).
		Update("sla_breached_at", nil).Error
}

// List returns a paginated, filtered list of work orders
func (r *WorkOrderRepository) List(ctx context.Context, page, pageSize int, filters *domain.WorkOrderFilters, sort SortConfig) ([]domain.WorkOrder, int64, error) {
	var orders []domain.WorkOrder
	var total int64

	page, pageSize = NormalizePage(page, pageSize)

	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.WorkOrder{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Property").
		Preload("AssignedVendor").
		Order(BuildOrderClause(sort, workOrderSortableFields, "work_orders.updated_at")).
		Offset(offset).
		Limit(pageSize).
		Find(&orders).Error

	return orders, total, err
}

// ListAvailableFor returns open orders whose category and property area match the vendor
func (r *WorkOrderRepository) ListAvailableFor(ctx context.Context, vendor *domain.Vendor, search string, page, pageSize int) ([]domain.WorkOrder, int64, error) {
	var orders []domain.WorkOrder
	var total int64

	page, pageSize = NormalizePage(page, pageSize)

	areas := make([]string, 0, len(vendor.ServiceAreas))
	for _, a := range vendor.Areas() {
		areas = append(areas, domain.NormalizeArea(a))
	}
	categories := vendor.Categories()
	if len(areas) == 0 || len(categories) == 0 {
		return []domain.WorkOrder{}, 0, nil
	}

	query := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Joins("JOIN properties ON properties.id = work_orders.property_id").
		Where("work_orders.status IN ?", openStatuses()).
		Where("work_orders.category IN ?", categories).
		Where("LOWER(TRIM(properties.area)) IN ?", areas)
	query = r.search(query, search)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Property").
		Order("work_orders.sla_deadline ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&orders).Error

	return orders, total, err
}

// ListSLACandidates returns orders whose SLA clock is running and that are not yet in breach
func (r *WorkOrderRepository) ListSLACandidates(ctx context.Context) ([]domain.WorkOrder, error) {
	var orders []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Where("status IN ?", domain.SLATrackedStatuses).
		Where("sla_breached_at IS NULL").
		Where("sla_deadline IS NOT NULL").
		Find(&orders).Error
	return orders, err
}

// ListByVendorAndStatuses returns the vendor's orders in the given stages
func (r *WorkOrderRepository) ListByVendorAndStatuses(ctx context.Context, vendorID uuid.UUID, statuses ...domain.WorkOrderStatus) ([]domain.WorkOrder, error) {
	var orders []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Where("assigned_vendor_id = ?", vendorID).
		Where("status IN ?", statuses).
		Order("id ASC").
		Find(&orders).Error
	return orders, err
}

// ListByStatus returns every order in the given stage
func (r *WorkOrderRepository) ListByStatus(ctx context.Context, status domain.WorkOrderStatus) ([]domain.WorkOrder, error) {
	var orders []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// CountByStatus returns the number of orders per stage, optionally for one vendor
func (r *WorkOrderRepository) CountByStatus(ctx context.Context, vendorID *uuid.UUID) (map[domain.WorkOrderStatus]int, error) {
	type result struct {
		Status domain.WorkOrderStatus
		Count  int
	}
	var results []result

	query := r.db.WithContext(ctx).Model(&domain.WorkOrder{})
	if vendorID != nil {
		query = query.Where("assigned_vendor_id = ?", *vendorID)
	}
	err := query.Select("status, COUNT(*) as count").Group("status").Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.WorkOrderStatus]int)
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}

// CountBreached returns the number of orders in an open breach episode
func (r *WorkOrderRepository) CountBreached(ctx context.Context, vendorID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("sla_breached_at IS NOT NULL").
		Where("status IN ?", domain.SLATrackedStatuses)
	if vendorID != nil {
		query = query.Where("assigned_vendor_id = ?", *vendorID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *WorkOrderRepository) applyFilters(query *gorm.DB, filters *domain.WorkOrderFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.Status != nil {
		query = query.Where("work_orders.status = ?", *filters.Status)
	}
	if filters.Category != nil {
		query = query.Where("work_orders.category = ?", *filters.Category)
	}
	if filters.PropertyID != nil {
		query = query.Where("work_orders.property_id = ?", *filters.PropertyID)
	}
	if filters.AssignedVendorID != nil {
		query = query.Where("work_orders.assigned_vendor_id = ?", *filters.AssignedVendorID)
	}
	if filters.Breached != nil {
		if *filters.Breached {
			query = query.Where("work_orders.sla_breached_at IS NOT NULL")
		} else {
			query = query.Where("work_orders.sla_breached_at IS NULL")
		}
	}
	return r.search(query, filters.Search)
}

// search narrows query to orders whose title, id or property address contains term
func (r *WorkOrderRepository) search(query *gorm.DB, term string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" {
		return query
	}
	searchPattern := "%" + strings.ToLower(term) + "%"
	addresses := r.db.Model(&domain.Property{}).Select("id").Where("LOWER(address) LIKE ?", searchPattern)
	return query.Where(
		"LOWER(work_orders.title) LIKE ? OR LOWER(CAST(work_orders.id AS TEXT)) LIKE ? OR work_orders.property_id IN (?)",
		searchPattern, searchPattern, addresses,
	)
}

func openStatuses() []domain.WorkOrderStatus {
	return []domain.WorkOrderStatus{
		domain.WorkOrderStatusPublished,
		domain.WorkOrderStatusApplicationsReceived,
		domain.WorkOrderStatusUnderReview,
	}
}
