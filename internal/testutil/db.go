// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq int64

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every query on the same in-memory database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(domain.AllModels()...))
	return db
}

// Clock is a settable clock for lifecycle and SLA tests
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock frozen at start
func NewClock(start time.Time) *Clock {
	return &Clock{now: start.UTC()}
}

// Now returns the current fake time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

func next() int64 {
	return atomic.AddInt64(&seq, 1)
}

// CreateTestUser creates a user with the given role
func CreateTestUser(t *testing.T, db *gorm.DB, role domain.Role) *domain.User {
	t.Helper()
	n := next()
	user := &domain.User{
		Email:        fmt.Sprintf("%s%d@rentr.test", role, n),
		Name:         fmt.Sprintf("Test %s %d", role, n),
		Role:         role,
		PasswordHash: "x",
		Phone:        fmt.Sprintf("+1555000%04d", n%10000),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestProperty creates a property in the given area
func CreateTestProperty(t *testing.T, db *gorm.DB, area string) *domain.Property {
	t.Helper()
	n := next()
	property := &domain.Property{
		Name:    fmt.Sprintf("Property %d", n),
		Address: fmt.Sprintf("%d Test Street", n),
		Area:    area,
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

// CreateTestVendor creates a vendor user and profile with the given status and coverage
func CreateTestVendor(t *testing.T, db *gorm.DB, status domain.VendorStatus, categories []domain.ServiceCategory, areas []string) *domain.Vendor {
	t.Helper()
	user := CreateTestUser(t, db, domain.RoleVendor)
	now := time.Now().UTC()
	vendor := &domain.Vendor{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		BusinessName: fmt.Sprintf("Vendor %d", next()),
		Capacity:     5,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == domain.VendorStatusApproved {
		vendor.ApprovedAt = &now
	}
	for _, c := range categories {
		vendor.ServiceCategories = append(vendor.ServiceCategories, domain.VendorServiceCategory{VendorID: user.ID, Category: c})
	}
	for _, a := range areas {
		vendor.ServiceAreas = append(vendor.ServiceAreas, domain.VendorServiceArea{VendorID: user.ID, Area: a})
	}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

// CreateTestWorkOrder creates a work order directly in the given status
func CreateTestWorkOrder(t *testing.T, db *gorm.DB, propertyID, createdBy uuid.UUID, category domain.ServiceCategory, status domain.WorkOrderStatus, deadline *time.Time) *domain.WorkOrder {
	t.Helper()
	now := time.Now().UTC()
	wo := &domain.WorkOrder{
		Title:       fmt.Sprintf("Work order %d", next()),
		Category:    category,
		Priority:    domain.PriorityMedium,
		Status:      status,
		PropertyID:  propertyID,
		CreatedByID: createdBy,
		SLADeadline: deadline,
		UpdatedAt:   now,
	}
	require.NoError(t, db.Omit("Property", "AssignedVendor").Create(wo).Error)
	return wo
}
