package repository

import (
	"context"
	"strings"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// vendorSortableFields maps API field names to database column names for vendors
// Only fields in this map can be used for sorting (whitelist approach)
var vendorSortableFields = map[string]string{
	"createdAt":       "created_at",
	"updatedAt":       "updated_at",
	"name":            "name",
	"businessName":    "business_name",
	"status":          "status",
	"rating":          "rating",
	"completedOrders": "completed_orders",
}

// VendorRepository handles vendor data access operations
type VendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository creates a new vendor repository instance
func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// Create inserts a vendor together with its service categories and areas
func (r *VendorRepository) Create(ctx context.Context, vendor *domain.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

// GetByID retrieves a vendor with its categories and areas
func (r *VendorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	var vendor domain.Vendor
	err := r.withSets(r.db.WithContext(ctx)).Where("id = ?", id).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// GetByIDForUpdate retrieves a vendor and locks its row until the transaction ends
func (r *VendorRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	var vendor domain.Vendor
	err := r.withSets(forUpdate(r.db.WithContext(ctx))).Where("id = ?", id).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// UpdateStatus persists the approval fields of a vendor
func (r *VendorRepository) UpdateStatus(ctx context.Context, vendor *domain.Vendor) error {
	return r.db.WithContext(ctx).
		Model(&domain.Vendor{}).
		Where("id = ?", vendor.ID).
		Updates(map[string]interface{}{
			"status":       vendor.Status,
			"approved_at":  vendor.ApprovedAt,
			"blocked_at":   vendor.BlockedAt,
			"block_reason": vendor.BlockReason,
			"updated_at":   vendor.UpdatedAt,
		}).Error
}

// UpdatePerformance persists rating and completed order counters
func (r *VendorRepository) UpdatePerformance(ctx context.Context, vendor *domain.Vendor) error {
	return r.db.WithContext(ctx).
		Model(&domain.Vendor{}).
		Where("id = ?", vendor.ID).
		Updates(map[string]interface{}{
			"rating":           vendor.Rating,
			"rating_count":     vendor.RatingCount,
			"completed_orders": vendor.CompletedOrders,
			"updated_at":       vendor.UpdatedAt,
		}).Error
}

// List returns a paginated list of vendors
func (r *VendorRepository) List(ctx context.Context, page, pageSize int, filters *domain.VendorFilters, sort SortConfig) ([]domain.Vendor, int64, error) {
	var vendors []domain.Vendor
	var total int64

	page, pageSize = NormalizePage(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.Vendor{})

	if filters != nil {
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.Category != nil {
			query = query.Where("id IN (?)", r.db.Model(&domain.VendorServiceCategory{}).
				Select("vendor_id").Where("category = ?", *filters.Category))
		}
		if filters.Search != "" {
			searchPattern := "%" + strings.ToLower(filters.Search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(business_name) LIKE ? OR LOWER(email) LIKE ?",
				searchPattern, searchPattern, searchPattern)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.withSets(query).
		Order(BuildOrderClause(sort, vendorSortableFields, "updated_at")).
		Offset(offset).
		Limit(pageSize).
		Find(&vendors).Error

	return vendors, total, err
}

// ListApprovedFor returns approved vendors that offer the category in the area
func (r *VendorRepository) ListApprovedFor(ctx context.Context, category domain.ServiceCategory, area string) ([]domain.Vendor, error) {
	var vendors []domain.Vendor
	err := r.withSets(r.db.WithContext(ctx)).
		Where("status = ?", domain.VendorStatusApproved).
		Where("id IN (?)", r.db.Model(&domain.VendorServiceCategory{}).
			Select("vendor_id").Where("category = ?", category)).
		Where("id IN (?)", r.db.Model(&domain.VendorServiceArea{}).
			Select("vendor_id").Where("LOWER(area) = ?", domain.NormalizeArea(area))).
		Order("business_name ASC").
		Find(&vendors).Error
	return vendors, err
}

// CountByStatus returns the number of vendors per approval status
func (r *VendorRepository) CountByStatus(ctx context.Context) (map[domain.VendorStatus]int64, error) {
	type result struct {
		Status domain.VendorStatus
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&domain.Vendor{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.VendorStatus]int64)
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}

func (r *VendorRepository) withSets(db *gorm.DB) *gorm.DB {
	return db.Preload("ServiceCategories").Preload("ServiceAreas")
}
