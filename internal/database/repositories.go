package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/flowplan/flowplan/internal/models"
)

// RecurrencePatternStore defines the interface for pattern persistence
// This interface enables better testability by allowing mock implementations
type RecurrencePatternStore interface {
	Upsert(ctx context.Context, pattern *models.RecurrencePattern) (uuid.UUID, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.RecurrencePattern, error)
	GetByFingerprint(ctx context.Context, userID uuid.UUID, fingerprint string) (*models.RecurrencePattern, error)
}

// WorkItemSeriesStore defines the interface for series persistence
type WorkItemSeriesStore interface {
	GetBySource(ctx context.Context, userID uuid.UUID, source models.SourceRef) (*models.WorkItemSeries, error)
	Insert(ctx context.Context, series *models.WorkItemSeries) error
	UpdateBinding(ctx context.Context, id uuid.UUID, patternID uuid.UUID, isActive bool, now time.Time) error
}

// ChangeLogStore defines the interface for change log persistence
type ChangeLogStore interface {
	Append(ctx context.Context, entry *models.ChangeLogEntry) error
}

// Ensure concrete types implement the interfaces
var (
	_ RecurrencePatternStore = (*RecurrencePatternRepository)(nil)
	_ WorkItemSeriesStore    = (*WorkItemSeriesRepository)(nil)
	_ ChangeLogStore         = (*ChangeLogRepository)(nil)
)
