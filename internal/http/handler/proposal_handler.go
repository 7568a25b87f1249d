package handler

import (
	"net/http"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/service"
	"go.uber.org/zap"
)

type ProposalHandler struct {
	proposalService *service.ProposalService
	logger          *zap.Logger
}

func NewProposalHandler(proposalService *service.ProposalService, logger *zap.Logger) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService, logger: logger}
}

// Submit godoc
// @Summary Submit proposal
// @Description An approved vendor whose categories and areas match the order proposes to do the work
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param request body domain.SubmitProposalRequest true "Proposal"
// @Success 201 {object} domain.ProposalDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id}/proposals [post]
func (h *ProposalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	workOrderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.SubmitProposalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	proposal, err := h.proposalService.Submit(r.Context(), workOrderID, &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, proposal)
}

// ListByWorkOrder godoc
// @Summary List proposals of a work order
// @Description Staff see every proposal, vendors only their own
// @Tags Proposals
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {array} domain.ProposalDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id}/proposals [get]
func (h *ProposalHandler) ListByWorkOrder(w http.ResponseWriter, r *http.Request) {
	workOrderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	proposals, err := h.proposalService.ListByWorkOrder(r.Context(), workOrderID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, proposals)
}

// ListMine godoc
// @Summary List my proposals
// @Description Proposals submitted by the calling vendor, newest first
// @Tags Proposals
// @Produce json
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Success 200 {array} domain.ProposalDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /proposals/mine [get]
func (h *ProposalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	var status *domain.ProposalStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.ProposalStatus(raw)
		switch s {
		case domain.ProposalStatusPending, domain.ProposalStatusApproved, domain.ProposalStatusRejected:
			status = &s
		default:
			respondWithError(w, http.StatusBadRequest, "Invalid status. Valid values: pending, approved, rejected")
			return
		}
	}

	proposals, err := h.proposalService.ListMine(r.Context(), status)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, proposals)
}

// Approve godoc
// @Summary Approve proposal
// @Description Select the proposal's vendor for the order. Competing proposals are rejected. Staff only.
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID" format(uuid)
// @Success 200 {object} domain.ProposalDTO
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /proposals/{id}/approve [post]
func (h *ProposalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	proposal, err := h.proposalService.Approve(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, proposal)
}

// Reject godoc
// @Summary Reject proposal
// @Description Decline a pending proposal. Staff only.
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID" format(uuid)
// @Param request body domain.ReasonRequest false "Reason"
// @Success 200 {object} domain.ProposalDTO
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /proposals/{id}/reject [post]
func (h *ProposalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.ReasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	proposal, err := h.proposalService.Reject(r.Context(), id, req.Reason)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, proposal)
}
