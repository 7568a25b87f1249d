package database

import (
	"context"
	"testing"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedDemoData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, SeedDemoData(ctx, db, zap.NewNop()))
	// second run is a no-op
	require.NoError(t, SeedDemoData(ctx, db, zap.NewNop()))

	var users int64
	require.NoError(t, db.Model(&domain.User{}).Count(&users).Error)
	assert.Equal(t, int64(len(seedUsers)), users)

	var admin domain.User
	require.NoError(t, db.Where("email = ?", "admin@rentr.com").First(&admin).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))

	var vendor domain.Vendor
	require.NoError(t, db.Preload("ServiceCategories").Preload("ServiceAreas").First(&vendor).Error)
	assert.Equal(t, domain.VendorStatusApproved, vendor.Status)
	assert.True(t, vendor.OffersCategory(domain.CategoryPlumbing))
	assert.True(t, vendor.ServesArea("manhattan"))

	var properties int64
	require.NoError(t, db.Model(&domain.Property{}).Count(&properties).Error)
	assert.Equal(t, int64(len(seedProperties)), properties)
}
