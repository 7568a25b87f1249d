package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/Satheshwaran26/rentr/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxJSONBody bounds request bodies that are decoded as JSON
const maxJSONBody = 1 << 20

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// respondError renders a service error. Lifecycle errors keep their kind and message,
// anything else is logged and reported as an internal error.
func respondError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	status := statusForKind(de.Kind)
	if errors.Is(err, service.ErrInvalidCredentials) || (de.Kind == domain.KindUnauthorized && !authenticated(r)) {
		status = http.StatusUnauthorized
	}
	if de.Kind == domain.KindBusy {
		w.Header().Set("Retry-After", "1")
	}
	respondJSON(w, status, domain.APIError{
		Type:   string(de.Kind),
		Title:  http.StatusText(status),
		Status: status,
		Detail: de.Error(),
		Errors: de.Fields,
	})
}

// statusForKind maps lifecycle error kinds to HTTP status codes
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusForbidden
	case domain.KindInvalidTransition, domain.KindOrderNotOpen, domain.KindAlreadyDecided:
		return http.StatusConflict
	case domain.KindVendorNotEligible:
		return http.StatusUnprocessableEntity
	case domain.KindBusy:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// getErrorType returns the error type for an HTTP status code that has no lifecycle kind
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthenticated
	case http.StatusForbidden:
		return string(domain.KindUnauthorized)
	case http.StatusNotFound:
		return string(domain.KindNotFound)
	case http.StatusTooManyRequests:
		return domain.ErrorTypeTooManyRequests
	default:
		return domain.ErrorTypeInternal
	}
}

func authenticated(r *http.Request) bool {
	_, ok := actorOf(r)
	return ok
}

// decodeJSON reads the request body into target. An empty body leaves target untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(target); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	return true
}

// pathID parses a uuid path parameter
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s, must be a valid UUID", name))
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional uuid query parameter
func queryID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s format, must be a valid UUID", name))
		return nil, false
	}
	return &id, true
}

// pagination reads page and pageSize, clamped to the repository limits
func pagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	return repository.NormalizePage(page, pageSize)
}

// sortConfig reads sortBy and sortOrder
func sortConfig(r *http.Request) repository.SortConfig {
	sort := repository.DefaultSortConfig()
	if field := r.URL.Query().Get("sortBy"); field != "" {
		sort.Field = field
	}
	if order := r.URL.Query().Get("sortOrder"); order != "" {
		sort.Order = repository.ParseSortOrder(order)
	}
	return sort
}

// searchTerm reads the free-text search parameter, accepting q as a short alias
func searchTerm(r *http.Request) string {
	query := r.URL.Query()
	term := query.Get("search")
	if term == "" {
		term = query.Get("q")
	}
	return strings.TrimSpace(term)
}
