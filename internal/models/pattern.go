package models

import (
	"time"

	"github.com/google/uuid"
)

// Frequency is the legacy enum-based frequency representation. It survives
// only for backward compatibility with consumers that predate rule strings.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// RecoveryPolicy controls what happens to an occurrence that was missed
type RecoveryPolicy string

const (
	RecoverySkip    RecoveryPolicy = "skip"
	RecoveryRecover RecoveryPolicy = "recover"
)

// RecurrencePattern is a persisted, deduplicated recurrence specification.
// For a given owner there is at most one live row per fingerprint; the row
// is immutable once created except for UpdatedAt, which is touched on every
// dedup hit.
type RecurrencePattern struct {
	ID                   uuid.UUID      `json:"id"`
	UserID               uuid.UUID      `json:"user_id"`
	Fingerprint          string         `json:"fingerprint"`
	RecurrenceRule       string         `json:"recurrence_rule"`
	Frequency            Frequency      `json:"frequency"`
	RepeatsPerPeriod     int            `json:"repeats_per_period"`
	RecoveryPolicy       RecoveryPolicy `json:"recovery_policy"`
	StartDate            string         `json:"start_date,omitempty"`
	EndDate              string         `json:"end_date,omitempty"`
	PreferredWindowStart string         `json:"preferred_window_start,omitempty"`
	PreferredWindowEnd   string         `json:"preferred_window_end,omitempty"`
	PreferredDays        []int          `json:"preferred_days"`
	Timezone             string         `json:"timezone,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// RecurrencePatternInput is the specification item-management mutations
// assemble from validated user input. Date fields are calendar date strings
// (YYYY-MM-DD) and window fields are clock strings (HH:MM); both travel as
// sidecar scheduling metadata and never enter the rule string.
type RecurrencePatternInput struct {
	RecurrenceRule       string         `json:"recurrence_rule" validate:"required"`
	Frequency            Frequency      `json:"frequency" validate:"omitempty,legacy_frequency"`
	RepeatsPerPeriod     int            `json:"repeats_per_period" validate:"min=0"`
	RecoveryPolicy       RecoveryPolicy `json:"recovery_policy" validate:"omitempty,recovery_policy"`
	StartDate            string         `json:"start_date,omitempty"`
	EndDate              string         `json:"end_date,omitempty"`
	PreferredWindowStart string         `json:"preferred_window_start,omitempty"`
	PreferredWindowEnd   string         `json:"preferred_window_end,omitempty"`
	PreferredDays        []int          `json:"preferred_days" validate:"dive,min=0,max=6"`
	Timezone             string         `json:"timezone,omitempty"`
}
