package repository

import (
	"context"
	"testing"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorRepository_GetByIDLoadsSets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewVendorRepository(db)
	ctx := context.Background()

	vendor := testutil.CreateTestVendor(t, db, domain.VendorStatusPending,
		[]domain.ServiceCategory{domain.CategoryPlumbing, domain.CategoryPainting}, []string{"Manhattan", "Brooklyn"})

	found, err := repo.GetByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.ServiceCategory{domain.CategoryPlumbing, domain.CategoryPainting}, found.Categories())
	assert.ElementsMatch(t, []string{"Manhattan", "Brooklyn"}, found.Areas())
	assert.True(t, found.ServesArea("  brooklyn "))
	assert.False(t, found.ServesArea("Queens"))
}

func TestVendorRepository_ListAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewVendorRepository(db)
	ctx := context.Background()

	testutil.CreateTestVendor(t, db, domain.VendorStatusPending, []domain.ServiceCategory{domain.CategoryCleaning}, []string{"Queens"})
	approved := testutil.CreateTestVendor(t, db, domain.VendorStatusApproved, []domain.ServiceCategory{domain.CategoryPlumbing}, []string{"Manhattan"})
	testutil.CreateTestVendor(t, db, domain.VendorStatusBlocked, []domain.ServiceCategory{domain.CategoryPlumbing}, []string{"Manhattan"})

	status := domain.VendorStatusApproved
	vendors, total, err := repo.List(ctx, 1, 10, &domain.VendorFilters{Status: &status}, DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, approved.ID, vendors[0].ID)
	assert.Len(t, vendors[0].ServiceCategories, 1)

	category := domain.CategoryPlumbing
	_, total, err = repo.List(ctx, 1, 10, &domain.VendorFilters{Category: &category}, DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	matching, err := repo.ListApprovedFor(ctx, domain.CategoryPlumbing, "MANHATTAN")
	require.NoError(t, err)
	require.Len(t, matching, 1)
	assert.Equal(t, approved.ID, matching[0].ID)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[domain.VendorStatusPending])
	assert.Equal(t, int64(1), counts[domain.VendorStatusApproved])
	assert.Equal(t, int64(1), counts[domain.VendorStatusBlocked])
}
