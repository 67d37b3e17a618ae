package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceType identifies the kind of recurring item a series drives
type SourceType string

const (
	SourceTask  SourceType = "task"
	SourceHabit SourceType = "habit"
)

// SourceRef identifies the recurring item a series is bound to
type SourceRef struct {
	Type SourceType `json:"type" validate:"source_type"`
	ID   uuid.UUID  `json:"id" validate:"required"`
}

// WorkItemSeries is the durable binding between a recurring source item and
// its current recurrence pattern. There is at most one series per
// (owner, source item) pair. The scheduling cursors are owned by the
// occurrence generator; this engine stores them but never writes them.
type WorkItemSeries struct {
	ID                  uuid.UUID  `json:"id"`
	UserID              uuid.UUID  `json:"user_id"`
	SourceType          SourceType `json:"source_type"`
	SourceTaskID        *uuid.UUID `json:"source_task_id,omitempty"`
	SourceHabitID       *uuid.UUID `json:"source_habit_id,omitempty"`
	RecurrencePatternID uuid.UUID  `json:"recurrence_pattern_id"`
	IsActive            bool       `json:"is_active"`
	AnchorStart         *time.Time `json:"anchor_start,omitempty"`
	HorizonCursor       *time.Time `json:"horizon_cursor,omitempty"`
	LastOccurrenceAt    *time.Time `json:"last_occurrence_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Source returns the ref this series is bound to
func (s *WorkItemSeries) Source() SourceRef {
	ref := SourceRef{Type: s.SourceType}
	switch {
	case s.SourceTaskID != nil:
		ref.ID = *s.SourceTaskID
	case s.SourceHabitID != nil:
		ref.ID = *s.SourceHabitID
	}
	return ref
}
