package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Satheshwaran26/rentr/internal/auth"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func authedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID: uuid.New(),
		Role:   domain.RoleAgent,
	}))
}

func TestRespondError_KindToStatus(t *testing.T) {
	tests := []struct {
		kind   domain.ErrorKind
		status int
	}{
		{domain.KindValidation, http.StatusBadRequest},
		{domain.KindNotFound, http.StatusNotFound},
		{domain.KindUnauthorized, http.StatusForbidden},
		{domain.KindInvalidTransition, http.StatusConflict},
		{domain.KindOrderNotOpen, http.StatusConflict},
		{domain.KindAlreadyDecided, http.StatusConflict},
		{domain.KindVendorNotEligible, http.StatusUnprocessableEntity},
		{domain.KindBusy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			w := httptest.NewRecorder()
			err := domain.NewError(tt.kind, "something about %s", "work order")
			respondError(w, authedRequest(http.MethodPost, "/api/v1/work-orders"), zap.NewNop(), err)

			require.Equal(t, tt.status, w.Code)
			var body domain.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, string(tt.kind), body.Type)
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, "something about work order", body.Detail)
		})
	}
}

func TestRespondError_BusyIsRetryable(t *testing.T) {
	w := httptest.NewRecorder()
	err := &domain.Error{Kind: domain.KindBusy, Message: "Try again", Cause: context.DeadlineExceeded}
	respondError(w, authedRequest(http.MethodPost, "/api/v1/proposals/x/approve"), zap.NewNop(), fmt.Errorf("approve: %w", err))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.NotContains(t, w.Body.String(), "deadline")
}

func TestRespondError_FieldErrors(t *testing.T) {
	w := httptest.NewRecorder()
	err := domain.NewValidationError("Invalid request", map[string]string{"title": "This field is required"})
	respondError(w, authedRequest(http.MethodPost, "/api/v1/work-orders"), zap.NewNop(), fmtWrap(err))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "This field is required", body.Errors["title"])
}

func TestRespondError_Unauthenticated(t *testing.T) {
	w := httptest.NewRecorder()
	respondError(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), zap.NewNop(),
		domain.NewError(domain.KindUnauthorized, "Authentication required"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	respondError(w, authedRequest(http.MethodPost, "/api/v1/auth/login"), zap.NewNop(), service.ErrInvalidCredentials)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRespondError_InternalErrorsAreNotLeaked(t *testing.T) {
	w := httptest.NewRecorder()
	respondError(w, authedRequest(http.MethodGet, "/api/v1/vendors"), zap.NewNop(), errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrorTypeInternal, body.Type)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestDecodeJSON(t *testing.T) {
	var req domain.SubmitProposalRequest

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.True(t, decodeJSON(w, r, &req), "an empty body is allowed")

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"estimatedCost": "lots"}`))
	assert.False(t, decodeJSON(w, r, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"estimatedCost": 120.5, "availability": "Monday"}`))
	require.True(t, decodeJSON(w, r, &req))
	assert.InDelta(t, 120.5, req.EstimatedCost, 0.001)
	assert.Equal(t, "Monday", req.Availability)
}

func TestPaginationAndSort(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=0&pageSize=5000&sortBy=slaDeadline&sortOrder=asc", nil)
	page, pageSize := pagination(r)
	assert.Equal(t, 1, page)
	assert.Equal(t, 200, pageSize)

	sort := sortConfig(r)
	assert.Equal(t, "slaDeadline", sort.Field)

	w := httptest.NewRecorder()
	_, ok := queryID(w, httptest.NewRequest(http.MethodGet, "/?propertyId=nope", nil), "propertyId")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func fmtWrap(err error) error {
	return errors.Join(errors.New("create work order"), err)
}

func TestSearchTerm(t *testing.T) {
	assert.Equal(t, "leak", searchTerm(httptest.NewRequest(http.MethodGet, "/?search=+leak+", nil)))
	assert.Equal(t, "baker", searchTerm(httptest.NewRequest(http.MethodGet, "/?q=baker", nil)))
	assert.Equal(t, "leak", searchTerm(httptest.NewRequest(http.MethodGet, "/?search=leak&q=baker", nil)))
	assert.Empty(t, searchTerm(httptest.NewRequest(http.MethodGet, "/", nil)))
}
