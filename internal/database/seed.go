package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	email    string
	name     string
	role     domain.Role
	password string
	phone    string
}

// Demo accounts shown on the login page
var seedUsers = []seedUser{
	{email: "admin@rentr.com", name: "Admin User", role: domain.RoleAdmin, password: "admin123"},
	{email: "agent@rentr.com", name: "Agent Smith", role: domain.RoleAgent, password: "agent123"},
	{email: "vendor@rentr.com", name: "Mike's Plumbing", role: domain.RoleVendor, password: "vendor123", phone: "+12125550101"},
}

var seedProperties = []domain.Property{
	{Name: "Sunset Towers", Address: "120 W 57th St, New York, NY", Area: "Manhattan"},
	{Name: "Harbor View", Address: "45 Furman St, Brooklyn, NY", Area: "Brooklyn"},
	{Name: "Garden Court", Address: "88-10 Queens Blvd, Queens, NY", Area: "Queens"},
}

// SeedDemoData creates the demo users, properties and the approved demo vendor.
// It does nothing when any user already exists.
func SeedDemoData(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, su := range seedUsers {
			hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user := &domain.User{
				Email:        su.email,
				Name:         su.name,
				Role:         su.role,
				PasswordHash: string(hash),
				Phone:        su.phone,
			}
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("failed to create user %s: %w", su.email, err)
			}

			if su.role != domain.RoleVendor {
				continue
			}
			vendor := &domain.Vendor{
				ID:           user.ID,
				Name:         su.name,
				Email:        su.email,
				Phone:        su.phone,
				BusinessName: su.name,
				Description:  "Residential plumbing and emergency repairs",
				ServiceCategories: []domain.VendorServiceCategory{
					{VendorID: user.ID, Category: domain.CategoryPlumbing},
				},
				ServiceAreas: []domain.VendorServiceArea{
					{VendorID: user.ID, Area: "Manhattan"},
					{VendorID: user.ID, Area: "Brooklyn"},
				},
				Capacity:   5,
				Status:     domain.VendorStatusApproved,
				ApprovedAt: &now,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := tx.Create(vendor).Error; err != nil {
				return fmt.Errorf("failed to create vendor %s: %w", su.email, err)
			}
		}

		for i := range seedProperties {
			property := seedProperties[i]
			if err := tx.Create(&property).Error; err != nil {
				return fmt.Errorf("failed to create property %s: %w", property.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("Seeded demo data",
		zap.Int("users", len(seedUsers)),
		zap.Int("properties", len(seedProperties)),
	)
	return nil
}
