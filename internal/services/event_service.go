package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/gymdiary/internal/models"
	"github.com/isdelr/gymdiary/internal/store"
	"github.com/rs/zerolog/log"
)

// Event types recorded by the application.
const (
	EventSignup         = "auth.signup"
	EventLoginSuccess   = "auth.login.success"
	EventLoginFail      = "auth.login.fail"
	EventLogout         = "auth.logout"
	EventDiaryReconcile = "diary.reconcile"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string, userID *string) error
	GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error)
}

// EventService records audit events.
type EventService struct {
	store store.EventStore
}

// NewEventService creates a new EventService.
func NewEventService(s store.EventStore) *EventService {
	return &EventService{store: s}
}

// CreateEvent logs a new event to the store.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string, userID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	return s.store.RecordEvent(ctx, event)
}

// GetRecentEvents retrieves the most recent events.
func (s *EventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	return s.store.RecentEvents(ctx, limit)
}

// recordEvent writes an audit event; failing to audit never fails the caller.
func recordEvent(ctx context.Context, events EventServiceProvider, eventType, level, message string, userID *string) {
	if events == nil {
		return
	}
	if err := events.CreateEvent(ctx, eventType, level, message, userID); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to record event")
	}
}
