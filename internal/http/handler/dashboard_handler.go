package handler

import (
	"net/http"
	"strconv"

	"github.com/Satheshwaran26/rentr/internal/service"
	"go.uber.org/zap"
)

// DashboardHandler serves the read-only views behind each role's dashboard
type DashboardHandler struct {
	dashboardService *service.DashboardService
	activityService  *service.ActivityService
	propertyService  *service.PropertyService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, activityService *service.ActivityService, propertyService *service.PropertyService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		activityService:  activityService,
		propertyService:  propertyService,
		logger:           logger,
	}
}

// Stats godoc
// @Summary Dashboard counters
// @Description Counters for the caller's role. Vendor counters cover their own work only.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardStatsDTO
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Activity godoc
// @Summary Recent activity
// @Description The newest events. Vendors only see events that concern them.
// @Tags Dashboard
// @Produce json
// @Param limit query int false "Maximum number of events (max 200)" default(20)
// @Success 200 {array} domain.EventDTO
// @Security BearerAuth
// @Router /activity [get]
func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.activityService.ListRecent(r.Context(), limit)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// Properties godoc
// @Summary List properties
// @Tags Dashboard
// @Produce json
// @Success 200 {array} domain.PropertyDTO
// @Security BearerAuth
// @Router /properties [get]
func (h *DashboardHandler) Properties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.propertyService.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, properties)
}
