package events

import (
	"time"

	"museum-backend/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Onboarding Events

const (
	// SourceBackend is the EventBridge source for events raised by this service
	SourceBackend = "museum.backend"

	EventTypeThemeAssigned = "onboarding.theme_assigned"
)

// ThemeAssigned is raised when a user's onboarding answers were classified into a theme
type ThemeAssigned struct {
	BaseEvent
	UserID               string               `json:"user_id"`
	ThemeID              valueobjects.ThemeID `json:"theme_id"`
	Reason               string               `json:"reason"`
	DefaultObjectCreated bool                 `json:"default_object_created"`
	DefaultObjectID      string               `json:"default_object_id,omitempty"`
}

// NewThemeAssigned creates a ThemeAssigned event
func NewThemeAssigned(userID string, themeID valueobjects.ThemeID, reason string, defaultObjectID string, timestamp time.Time) ThemeAssigned {
	return ThemeAssigned{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   EventTypeThemeAssigned,
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:               userID,
		ThemeID:              themeID,
		Reason:               reason,
		DefaultObjectCreated: defaultObjectID != "",
		DefaultObjectID:      defaultObjectID,
	}
}
