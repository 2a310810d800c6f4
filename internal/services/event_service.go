package services

import (
	"context"

	"github.com/isdelr/account-api/internal/models"
	"github.com/isdelr/account-api/internal/store"
	"github.com/rs/zerolog/log"
)

// DefaultEventLimit is used when no positive limit is requested.
const DefaultEventLimit = 20

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Record(ctx context.Context, eventType, userID, message string)
	GetRecentEvents(ctx context.Context, userID string, limit int) ([]models.Event, error)
}

// EventService keeps the account activity log.
type EventService struct {
	store store.EventStore
}

// NewEventService creates a new EventService.
func NewEventService(s store.EventStore) *EventService {
	return &EventService{store: s}
}

// Record appends an event. Failures are logged and otherwise ignored so that
// the account operation that triggered the event is never affected.
func (s *EventService) Record(ctx context.Context, eventType, userID, message string) {
	event := models.Event{Type: eventType, UserID: userID, Message: message}
	if err := s.store.CreateEvent(ctx, &event); err != nil {
		log.Error().Err(err).Str("type", eventType).Str("user_id", userID).Msg("Failed to record event")
	}
}

// GetRecentEvents returns the user's most recent events, newest first.
func (s *EventService) GetRecentEvents(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	return s.store.RecentEvents(ctx, userID, limit)
}
