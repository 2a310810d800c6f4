package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/account-api/internal/auth"
	"github.com/isdelr/account-api/internal/services"
	"github.com/rs/zerolog/log"
)

// EventHandler handles HTTP requests related to account activity.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent returns the authenticated user's recent events.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user ID from context")
		writeJSON(w, http.StatusInternalServerError, msgResponse{Msg: internalError})
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = services.DefaultEventLimit
	}

	events, err := h.service.GetRecentEvents(r.Context(), userID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to retrieve events")
		writeJSON(w, http.StatusInternalServerError, msgResponse{Msg: internalError})
		return
	}

	writeJSON(w, http.StatusOK, events)
}
