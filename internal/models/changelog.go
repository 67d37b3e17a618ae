package models

import (
	"time"

	"github.com/google/uuid"
)

// EntityType is the kind of entity a change log entry refers to
type EntityType string

const (
	EntityTask       EntityType = "task"
	EntityHabit      EntityType = "habit"
	EntityEvent      EntityType = "event"
	EntityOccurrence EntityType = "occurrence"
)

// EditScope records which portion of a recurring entity an edit applied to
type EditScope string

const (
	ScopeSingle    EditScope = "single"
	ScopeFollowing EditScope = "following"
	ScopeSeries    EditScope = "series"
)

// ChangeLogEntry is an immutable audit record. Entries are created once per
// mutation and never updated or deleted.
type ChangeLogEntry struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"user_id"`
	EntityType EntityType     `json:"entity_type" validate:"entity_type"`
	EntityID   uuid.UUID      `json:"entity_id" validate:"required"`
	Action     string         `json:"action" validate:"required"`
	Scope      EditScope      `json:"scope,omitempty" validate:"omitempty,edit_scope"`
	EventID    *uuid.UUID     `json:"event_id,omitempty"`
	SeriesID   *uuid.UUID     `json:"series_id,omitempty"`
	Actor      string         `json:"actor,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	CreatedAt  time.Time      `json:"created_at"`
}
