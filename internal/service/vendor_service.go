package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/mapper"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// maxBlockAttempts bounds retries when a vendor's active orders change between
// the snapshot that picks the lock keys and the locked re-read.
const maxBlockAttempts = 3

type VendorService struct {
	core
}

func NewVendorService(deps Deps) *VendorService {
	return &VendorService{core: newCore(deps)}
}

// Signup registers a vendor account awaiting admin approval
func (s *VendorService) Signup(ctx context.Context, req *domain.SignupVendorRequest) (*domain.VendorDTO, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	areas := splitAreas(req.ServiceAreas)
	if len(areas) == 0 {
		return nil, domain.NewValidationError("At least one service area is required",
			map[string]string{"serviceAreas": "serviceAreas is required"})
	}
	categories := uniqueCategories(req.ServiceCategories)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.store.Repos().Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, domain.NewValidationError("An account with this email already exists",
			map[string]string{"email": "An account with this email already exists"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Role:         domain.RoleVendor,
		PasswordHash: string(hash),
		Phone:        req.Phone,
	}
	user.ID = uuid.New()
	user.CreatedAt = now

	vendor := &domain.Vendor{
		ID:           user.ID,
		Name:         user.Name,
		Email:        email,
		Phone:        req.Phone,
		BusinessName: strings.TrimSpace(req.BusinessName),
		Description:  req.Description,
		Capacity:     req.Capacity,
		Status:       domain.VendorStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, c := range categories {
		vendor.ServiceCategories = append(vendor.ServiceCategories, domain.VendorServiceCategory{VendorID: vendor.ID, Category: c})
	}
	for _, a := range areas {
		vendor.ServiceAreas = append(vendor.ServiceAreas, domain.VendorServiceArea{VendorID: vendor.ID, Area: a})
	}

	actor := domain.Actor{ID: user.ID, Role: domain.RoleVendor, Name: user.Name}
	err = s.atomic(ctx, nil, func(r *repository.Repositories) error {
		if err := r.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := r.Vendors.Create(ctx, vendor); err != nil {
			return fmt.Errorf("failed to create vendor: %w", err)
		}
		vendorID := vendor.ID
		return s.record(ctx, r, actor, event{
			Type:       domain.EventVendorSignedUp,
			EntityType: domain.EntityTypeVendor,
			EntityID:   vendor.ID,
			VendorID:   &vendorID,
			Severity:   domain.SeverityInfo,
			Title:      "New vendor application",
			Message:    fmt.Sprintf("%s applied to join the vendor network", vendor.BusinessName),
			Payload: domain.VendorEventPayload{
				VendorID:     vendor.ID,
				BusinessName: vendor.BusinessName,
				Status:       vendor.Status,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("vendor signed up",
		zap.String("vendor_id", vendor.ID.String()),
		zap.String("business_name", vendor.BusinessName),
	)
	dto := mapper.ToVendorDTO(vendor)
	return &dto, nil
}

// Approve moves a pending vendor to approved
func (s *VendorService) Approve(ctx context.Context, id uuid.UUID) (*domain.VendorDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	var vendor *domain.Vendor
	err = s.atomic(ctx, []string{repository.VendorKey(id)}, func(r *repository.Repositories) error {
		vendor, err = r.Vendors.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Vendor", id)
		}
		if err := s.vendors.Approve(vendor, actor); err != nil {
			return err
		}
		if err := r.Vendors.UpdateStatus(ctx, vendor); err != nil {
			return fmt.Errorf("failed to update vendor: %w", err)
		}
		vendorID := vendor.ID
		return s.record(ctx, r, actor, event{
			Type:       domain.EventVendorApproved,
			EntityType: domain.EntityTypeVendor,
			EntityID:   vendor.ID,
			VendorID:   &vendorID,
			Severity:   domain.SeveritySuccess,
			Title:      "Vendor approved",
			Message:    fmt.Sprintf("%s can now submit proposals", vendor.BusinessName),
			Payload: domain.VendorEventPayload{
				VendorID:     vendor.ID,
				BusinessName: vendor.BusinessName,
				Status:       vendor.Status,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("vendor approved", zap.String("vendor_id", id.String()))
	dto := mapper.ToVendorDTO(vendor)
	return &dto, nil
}

// Reject turns down a pending application; the vendor ends blocked
func (s *VendorService) Reject(ctx context.Context, id uuid.UUID, reason string) (*domain.VendorDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	var vendor *domain.Vendor
	err = s.atomic(ctx, []string{repository.VendorKey(id)}, func(r *repository.Repositories) error {
		vendor, err = r.Vendors.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Vendor", id)
		}
		if err := s.vendors.Reject(vendor, actor, reason); err != nil {
			return err
		}
		if err := r.Vendors.UpdateStatus(ctx, vendor); err != nil {
			return fmt.Errorf("failed to update vendor: %w", err)
		}
		return s.recordBlocked(ctx, r, actor, vendor, "Vendor application rejected", nil)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("vendor rejected", zap.String("vendor_id", id.String()))
	dto := mapper.ToVendorDTO(vendor)
	return &dto, nil
}

// Block bans a vendor. In the same unit of work every assigned or in-progress order
// of the vendor goes back to published and every pending proposal is rejected.
func (s *VendorService) Block(ctx context.Context, id uuid.UUID, reason string) (*domain.VendorDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxBlockAttempts; attempt++ {
		vendor, err := s.blockOnce(ctx, id, actor, reason)
		if errors.Is(err, errSnapshotChanged) {
			s.logger.Debug("vendor orders changed while blocking, retrying",
				zap.String("vendor_id", id.String()),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		s.logger.Info("vendor blocked", zap.String("vendor_id", id.String()))
		dto := mapper.ToVendorDTO(vendor)
		return &dto, nil
	}
	return nil, fmt.Errorf("failed to block vendor %s: active orders kept changing", id)
}

func (s *VendorService) blockOnce(ctx context.Context, id uuid.UUID, actor domain.Actor, reason string) (*domain.Vendor, error) {
	active := []domain.WorkOrderStatus{domain.WorkOrderStatusAssigned, domain.WorkOrderStatusInProgress}

	snapshot, err := s.store.Repos().WorkOrders.ListByVendorAndStatuses(ctx, id, active...)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor orders: %w", err)
	}
	keys := []string{repository.VendorKey(id)}
	for _, wo := range snapshot {
		keys = append(keys, repository.OrderKey(wo.ID))
	}

	var vendor *domain.Vendor
	err = s.atomic(ctx, keys, func(r *repository.Repositories) error {
		vendor, err = r.Vendors.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Vendor", id)
		}
		if err := s.vendors.Block(vendor, actor, reason); err != nil {
			return err
		}

		orders, err := r.WorkOrders.ListByVendorAndStatuses(ctx, id, active...)
		if err != nil {
			return fmt.Errorf("failed to load vendor orders: %w", err)
		}
		if !sameOrders(snapshot, orders) {
			return errSnapshotChanged
		}

		if err := r.Vendors.UpdateStatus(ctx, vendor); err != nil {
			return fmt.Errorf("failed to update vendor: %w", err)
		}

		note := "Vendor blocked"
		if reason != "" {
			note += ": " + reason
		}
		reverted := make([]uuid.UUID, 0, len(orders))
		for i := range orders {
			wo := &orders[i]
			if err := s.revokeAssignment(ctx, r, wo, actor, note); err != nil {
				return err
			}
			reverted = append(reverted, wo.ID)
		}

		pending := domain.ProposalStatusPending
		proposals, err := r.Proposals.ListByVendor(ctx, id, &pending)
		if err != nil {
			return fmt.Errorf("failed to load pending proposals: %w", err)
		}
		for i := range proposals {
			if err := s.rejectProposal(ctx, r, &proposals[i], actor, note); err != nil {
				return err
			}
		}

		return s.recordBlocked(ctx, r, actor, vendor, "Vendor blocked", reverted)
	})
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *VendorService) recordBlocked(ctx context.Context, r *repository.Repositories, actor domain.Actor, vendor *domain.Vendor, title string, reverted []uuid.UUID) error {
	message := fmt.Sprintf("%s was blocked", vendor.BusinessName)
	if len(reverted) > 0 {
		message = fmt.Sprintf("%s was blocked; %d work order(s) returned to published", vendor.BusinessName, len(reverted))
	}
	vendorID := vendor.ID
	return s.record(ctx, r, actor, event{
		Type:       domain.EventVendorBlocked,
		EntityType: domain.EntityTypeVendor,
		EntityID:   vendor.ID,
		VendorID:   &vendorID,
		Severity:   domain.SeverityError,
		Title:      title,
		Message:    message,
		Payload: domain.VendorEventPayload{
			VendorID:       vendor.ID,
			BusinessName:   vendor.BusinessName,
			Status:         vendor.Status,
			Reason:         vendor.BlockReason,
			RevertedOrders: reverted,
		},
	})
}

// Get returns a vendor. Vendors may only read their own profile.
func (s *VendorService) Get(ctx context.Context, id uuid.UUID) (*domain.VendorDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !actor.IsVendor(id) {
		return nil, domain.NewError(domain.KindUnauthorized, "You can only view your own vendor profile")
	}

	vendor, err := s.store.Repos().Vendors.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Vendor", id)
	}
	dto := mapper.ToVendorDTO(vendor)
	return &dto, nil
}

// List returns vendors for staff
func (s *VendorService) List(ctx context.Context, page, pageSize int, filters *domain.VendorFilters, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	page, pageSize = repository.NormalizePage(page, pageSize)
	vendors, total, err := s.store.Repos().Vendors.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}

	dtos := make([]domain.VendorDTO, len(vendors))
	for i := range vendors {
		dtos[i] = mapper.ToVendorDTO(&vendors[i])
	}
	return paginate(dtos, total, page, pageSize), nil
}

// splitAreas accepts separate entries and comma separated lists, dropping blanks and
// case-insensitive duplicates while keeping the first spelling.
func splitAreas(raw []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			area := strings.TrimSpace(part)
			key := domain.NormalizeArea(area)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, area)
		}
	}
	return out
}

func uniqueCategories(in []domain.ServiceCategory) []domain.ServiceCategory {
	seen := make(map[domain.ServiceCategory]struct{}, len(in))
	out := make([]domain.ServiceCategory, 0, len(in))
	for _, c := range in {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func sameOrders(a, b []domain.WorkOrder) bool {
	if len(a) != len(b) {
		return false
	}
	ids := func(orders []domain.WorkOrder) []string {
		out := make([]string, len(orders))
		for i, wo := range orders {
			out[i] = wo.ID.String()
		}
		sort.Strings(out)
		return out
	}
	x, y := ids(a), ids(b)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

func paginate(data interface{}, total int64, page, pageSize int) *domain.PaginatedResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}
	return &domain.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
