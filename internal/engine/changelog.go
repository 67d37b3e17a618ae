package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	logpkg "github.com/flowplan/flowplan/internal/logger"
	"github.com/flowplan/flowplan/internal/models"
)

// RecordChange appends an immutable audit entry. The entry id and
// timestamps are filled in when the caller left them zero; everything else
// is written as given. The change log is write-only from this engine's
// perspective: querying belongs to the audit/history collaborator.
func (e *Engine) RecordChange(ctx context.Context, entry *models.ChangeLogEntry) error {
	ctx, span := e.tracer.Start(ctx, "engine.RecordChange")
	defer span.End()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = e.now()
	}
	entry.CreatedAt = e.now()

	if err := e.changeLog.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to record change: %w", err)
	}

	// Action is caller-supplied text; sanitize before it reaches a log line.
	e.logger.Debug("change_recorded",
		zap.String("user_id", entry.UserID.String()),
		zap.String("entity_id", entry.EntityID.String()),
		zap.String("action", logpkg.SanitizeString(entry.Action, logpkg.MaxActionLength)),
	)

	return nil
}

// recordSeriesChange writes the audit entry for a series mutation. Series
// edits always apply to the whole series, so the scope is fixed.
func (e *Engine) recordSeriesChange(ctx context.Context, ownerID uuid.UUID, source models.SourceRef, seriesID uuid.UUID, action string, changedFields []string) error {
	entityType := models.EntityTask
	if source.Type == models.SourceHabit {
		entityType = models.EntityHabit
	}

	entry := &models.ChangeLogEntry{
		UserID:     ownerID,
		EntityType: entityType,
		EntityID:   source.ID,
		Action:     action,
		Scope:      models.ScopeSeries,
		SeriesID:   &seriesID,
		Metadata: map[string]any{
			"changed_fields": changedFields,
		},
	}

	return e.RecordChange(ctx, entry)
}
