package handler

import (
	"net/http"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/service"
	"go.uber.org/zap"
)

type VendorHandler struct {
	vendorService *service.VendorService
	logger        *zap.Logger
}

func NewVendorHandler(vendorService *service.VendorService, logger *zap.Logger) *VendorHandler {
	return &VendorHandler{vendorService: vendorService, logger: logger}
}

// Signup godoc
// @Summary Vendor signup
// @Description Register a vendor account. The vendor starts pending until an admin approves it.
// @Tags Vendors
// @Accept json
// @Produce json
// @Param request body domain.SignupVendorRequest true "Vendor details"
// @Success 201 {object} domain.VendorDTO
// @Failure 400 {object} domain.APIError
// @Router /vendors/signup [post]
func (h *VendorHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupVendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	vendor, err := h.vendorService.Signup(r.Context(), &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Location", "/api/v1/vendors/"+vendor.ID.String())
	respondJSON(w, http.StatusCreated, vendor)
}

// List godoc
// @Summary List vendors
// @Description Get a paginated list of vendors. Staff only.
// @Tags Vendors
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status (pending, approved, blocked)"
// @Param category query string false "Filter by service category"
// @Param search query string false "Search name, business name and email"
// @Param sortBy query string false "Sort field (createdAt, updatedAt, name, businessName, rating)"
// @Param sortOrder query string false "Sort order (asc, desc)"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.VendorDTO}
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /vendors [get]
func (h *VendorHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	filters := &domain.VendorFilters{Search: searchTerm(r)}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.VendorStatus(raw)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status. Valid values: pending, approved, blocked")
			return
		}
		filters.Status = &status
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		category := domain.ServiceCategory(raw)
		if !category.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid service category")
			return
		}
		filters.Category = &category
	}

	result, err := h.vendorService.List(r.Context(), page, pageSize, filters, sortConfig(r))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Get godoc
// @Summary Get vendor
// @Description Get a vendor profile. Vendors may only read their own.
// @Tags Vendors
// @Produce json
// @Param id path string true "Vendor ID" format(uuid)
// @Success 200 {object} domain.VendorDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /vendors/{id} [get]
func (h *VendorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	vendor, err := h.vendorService.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}

// Approve godoc
// @Summary Approve vendor
// @Description Approve a pending vendor. Admin only.
// @Tags Vendors
// @Produce json
// @Param id path string true "Vendor ID" format(uuid)
// @Success 200 {object} domain.VendorDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /vendors/{id}/approve [post]
func (h *VendorHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	vendor, err := h.vendorService.Approve(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}

// Reject godoc
// @Summary Reject vendor
// @Description Reject a pending vendor, which blocks it. Admin only.
// @Tags Vendors
// @Accept json
// @Produce json
// @Param id path string true "Vendor ID" format(uuid)
// @Param request body domain.ReasonRequest false "Reason"
// @Success 200 {object} domain.VendorDTO
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /vendors/{id}/reject [post]
func (h *VendorHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.ReasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	vendor, err := h.vendorService.Reject(r.Context(), id, req.Reason)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}

// Block godoc
// @Summary Block vendor
// @Description Block a vendor. Its active work orders return to published and its pending proposals are rejected. Admin only.
// @Tags Vendors
// @Accept json
// @Produce json
// @Param id path string true "Vendor ID" format(uuid)
// @Param request body domain.ReasonRequest false "Reason"
// @Success 200 {object} domain.VendorDTO
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /vendors/{id}/block [post]
func (h *VendorHandler) Block(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.ReasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	vendor, err := h.vendorService.Block(r.Context(), id, req.Reason)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}
