package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WorkOrderHandler struct {
	workOrderService *service.WorkOrderService
	activityService  *service.ActivityService
	logger           *zap.Logger
}

func NewWorkOrderHandler(workOrderService *service.WorkOrderService, activityService *service.ActivityService, logger *zap.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{
		workOrderService: workOrderService,
		activityService:  activityService,
		logger:           logger,
	}
}

// Create godoc
// @Summary Create work order
// @Description Create a work order. It is published right away unless asDraft is set. Staff only.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param request body domain.CreateWorkOrderRequest true "Work order"
// @Success 201 {object} domain.WorkOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders [post]
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWorkOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	wo, err := h.workOrderService.Create(r.Context(), &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Location", "/api/v1/work-orders/"+wo.ID.String())
	respondJSON(w, http.StatusCreated, wo)
}

// List godoc
// @Summary List work orders
// @Description Get a paginated list of work orders. Vendors only see orders assigned to them.
// @Tags WorkOrders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by lifecycle status"
// @Param category query string false "Filter by service category"
// @Param propertyId query string false "Filter by property" format(uuid)
// @Param assignedVendorId query string false "Filter by assigned vendor" format(uuid)
// @Param breached query bool false "Only orders whose SLA is breached (true) or not (false)"
// @Param search query string false "Search title, id and property address (alias q)"
// @Param sortBy query string false "Sort field (createdAt, updatedAt, title, status, priority, category, slaDeadline)"
// @Param sortOrder query string false "Sort order (asc, desc)"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.WorkOrderDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders [get]
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	filters := &domain.WorkOrderFilters{Search: searchTerm(r)}
	query := r.URL.Query()

	if raw := query.Get("status"); raw != "" {
		status := domain.WorkOrderStatus(raw)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid work order status")
			return
		}
		filters.Status = &status
	}
	if raw := query.Get("category"); raw != "" {
		category := domain.ServiceCategory(raw)
		if !category.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid service category")
			return
		}
		filters.Category = &category
	}
	var ok bool
	if filters.PropertyID, ok = queryID(w, r, "propertyId"); !ok {
		return
	}
	if filters.AssignedVendorID, ok = queryID(w, r, "assignedVendorId"); !ok {
		return
	}
	if raw := query.Get("breached"); raw != "" {
		breached, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid breached value, must be true or false")
			return
		}
		filters.Breached = &breached
	}

	result, err := h.workOrderService.List(r.Context(), page, pageSize, filters, sortConfig(r))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ListAvailable godoc
// @Summary List available work orders
// @Description Open work orders that match the calling vendor's categories and service areas
// @Tags WorkOrders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search title, id and property address (alias q)"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.WorkOrderDTO}
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/available [get]
func (h *WorkOrderHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	result, err := h.workOrderService.ListAvailable(r.Context(), searchTerm(r), page, pageSize)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Get godoc
// @Summary Get work order
// @Description Get a work order with its tasks and allowed next statuses
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {object} domain.WorkOrderDetailDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id} [get]
func (h *WorkOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	wo, err := h.workOrderService.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, wo)
}

// UpdateDraft godoc
// @Summary Update draft
// @Description Edit a work order that is still a draft. Staff only.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param request body domain.UpdateDraftRequest true "Changed fields"
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id} [patch]
func (h *WorkOrderHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	wo, err := h.workOrderService.UpdateDraft(r.Context(), id, &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, wo)
}

// Publish godoc
// @Summary Publish work order
// @Description Publish a draft so matching vendors can send proposals. Staff only.
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id}/publish [post]
func (h *WorkOrderHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.workOrderService.Publish)
}

// OpenReview godoc
// @Summary Open review
// @Description Move an order with proposals to under review. Staff only.
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id}/review [post]
func (h *WorkOrderHandler) OpenReview(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.workOrderService.OpenReview)
}

// StartWork godoc
// @Summary Start work
// @Description The assigned vendor starts work on the order
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id}/start [post]
func (h *WorkOrderHandler) StartWork(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.workOrderService.StartWork)
}

// MarkComplete godoc
// @Summary Mark complete
// @Description The assigned vendor marks the work done. Open tasks are completed with it.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param request body domain.MarkCompleteRequest false "Completion details"
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id}/complete [post]
func (h *WorkOrderHandler) MarkComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.MarkCompleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	wo, err := h.workOrderService.MarkComplete(r.Context(), id, &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, wo)
}

// ExtendSLA godoc
// @Summary Extend SLA
// @Description Move the SLA deadline later. A breached order starts a new breach episode. Staff only.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param request body domain.ExtendSLARequest true "New deadline"
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id}/sla [put]
func (h *WorkOrderHandler) ExtendSLA(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.ExtendSLARequest
	if !decodeJSON(w, r, &req) {
		return
	}
	wo, err := h.workOrderService.ExtendSLA(r.Context(), id, &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, wo)
}

// Rate godoc
// @Summary Rate work order
// @Description Rate the vendor's work on a closed order, once. Staff only.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param request body domain.RateWorkOrderRequest true "Score from 1 to 5"
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id}/rating [post]
func (h *WorkOrderHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.RateWorkOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	wo, err := h.workOrderService.Rate(r.Context(), id, &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, wo)
}

// History godoc
// @Summary Status history
// @Description Every status change of the order, oldest first
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {array} domain.StatusHistoryDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id}/history [get]
func (h *WorkOrderHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	history, err := h.workOrderService.History(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// Activity godoc
// @Summary Work order activity
// @Description Events recorded for the order, oldest first
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {array} domain.EventDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id}/activity [get]
func (h *WorkOrderHandler) Activity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	events, err := h.activityService.ListByWorkOrder(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

func (h *WorkOrderHandler) transition(w http.ResponseWriter, r *http.Request, move func(ctx context.Context, id uuid.UUID) (*domain.WorkOrderDTO, error)) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	wo, err := move(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, wo)
}
