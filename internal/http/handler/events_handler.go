package handler

import (
	"net/http"

	"github.com/Satheshwaran26/rentr/internal/events"
	"go.uber.org/zap"
)

type EventsHandler struct {
	hub    *events.Hub
	logger *zap.Logger
}

func NewEventsHandler(hub *events.Hub, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, logger: logger}
}

// Stream godoc
// @Summary Event stream
// @Description Upgrade to a websocket that receives lifecycle events as JSON. Browsers pass the session token as access_token.
// @Tags Events
// @Param access_token query string false "Session token"
// @Success 101
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /events/ws [get]
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if err := h.hub.Serve(w, r, actor); err != nil {
		// The upgrader has already written the error response
		h.logger.Debug("websocket handshake failed", zap.Error(err))
	}
}
