package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/service"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	maxUploadMB    int64
	logger         *zap.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, maxUploadMB int64, logger *zap.Logger) *InvoiceHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &InvoiceHandler{invoiceService: invoiceService, maxUploadMB: maxUploadMB, logger: logger}
}

// Submit godoc
// @Summary Submit invoice
// @Description The assigned vendor bills a completed order. Send JSON, or multipart/form-data with amount, notes and an optional document file.
// @Tags Invoices
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param request body domain.SubmitInvoiceRequest false "Invoice (JSON)"
// @Param amount formData number false "Invoiced amount (multipart)"
// @Param notes formData string false "Notes (multipart)"
// @Param document formData file false "Invoice document (multipart)"
// @Success 201 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id}/invoices [post]
func (h *InvoiceHandler) Submit(w http.ResponseWriter, r *http.Request) {
	workOrderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req domain.SubmitInvoiceRequest
	var doc *service.Document
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		limit := h.maxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, limit+maxJSONBody)
		if err := r.ParseMultipartForm(limit); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
				return
			}
			respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		if raw := strings.TrimSpace(r.FormValue("amount")); raw != "" {
			amount, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "Invalid amount, must be a number")
				return
			}
			req.Amount = amount
		}
		req.Notes = r.FormValue("notes")

		file, header, err := r.FormFile("document")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			respondWithError(w, http.StatusBadRequest, "Invalid document upload")
			return
		default:
			defer file.Close()
			doc = &service.Document{
				Name:        filepath.Base(header.Filename),
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
			}
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}

	invoice, err := h.invoiceService.Submit(r.Context(), workOrderID, &req, doc)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, invoice)
}

// List godoc
// @Summary List invoices
// @Description Staff see every invoice, vendors only their own
// @Tags Invoices
// @Produce json
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Success 200 {array} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.InvoiceStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.InvoiceStatus(raw)
		switch s {
		case domain.InvoiceStatusPending, domain.InvoiceStatusApproved, domain.InvoiceStatusRejected:
			status = &s
		default:
			respondWithError(w, http.StatusBadRequest, "Invalid status. Valid values: pending, approved, rejected")
			return
		}
	}

	invoices, err := h.invoiceService.List(r.Context(), status)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, invoices)
}

// Approve godoc
// @Summary Approve invoice
// @Description Accept a pending invoice. The order records the amount as its actual cost and closes. Staff only.
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Success 200 {object} domain.InvoiceDTO
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /invoices/{id}/approve [post]
func (h *InvoiceHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.Approve(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

// Reject godoc
// @Summary Reject invoice
// @Description Decline a pending invoice and send the order back to completed. Staff only.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Param request body domain.RequiredReasonRequest true "Reason"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /invoices/{id}/reject [post]
func (h *InvoiceHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.RequiredReasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	invoice, err := h.invoiceService.Reject(r.Context(), id, &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

// Download godoc
// @Summary Download invoice document
// @Tags Invoices
// @Produce octet-stream
// @Param id path string true "Invoice ID" format(uuid)
// @Success 200 {file} binary
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /invoices/{id}/document [get]
func (h *InvoiceHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	reader, filename, err := h.invoiceService.Download(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("invoice download interrupted", zap.String("invoice_id", id.String()), zap.Error(err))
	}
}
