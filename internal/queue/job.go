package queue

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeSeriesRefresh tells the occurrence generator that a series was
	// created or rebound and its occurrences need rematerializing
	JobTypeSeriesRefresh JobType = "series_refresh"
	// JobTypeSeriesDeactivated tells the occurrence generator to stop
	// materializing occurrences for a series
	JobTypeSeriesDeactivated JobType = "series_deactivated"
)

// Job is one unit of work published for the occurrence generator
type Job struct {
	ID         uuid.UUID      `json:"id"`
	Type       JobType        `json:"type"`
	UserID     uuid.UUID      `json:"user_id"`
	SeriesID   *uuid.UUID     `json:"series_id,omitempty"`
	NotBefore  *time.Time     `json:"not_before,omitempty"` // earliest processing time (nil = immediate)
	NotAfter   *time.Time     `json:"not_after,omitempty"`  // expiry (nil = never)
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	RetryCount int            `json:"retry_count"`
	MaxRetries int            `json:"max_retries"`
}

// NewJob creates a new job
func NewJob(jobType JobType, userID uuid.UUID, seriesID *uuid.UUID) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		UserID:     userID,
		SeriesID:   seriesID,
		Metadata:   make(map[string]any),
		CreatedAt:  time.Now(),
		MaxRetries: 3,
	}
}

// ShouldProcess checks whether the job is inside its processing window
func (j *Job) ShouldProcess() bool {
	now := time.Now()
	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}
	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}
	return true
}

// IsExpired checks whether the job's NotAfter has passed
func (j *Job) IsExpired() bool {
	return j.NotAfter != nil && time.Now().After(*j.NotAfter)
}

// CanRetry checks whether the job has retry budget left
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
