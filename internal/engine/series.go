package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flowplan/flowplan/internal/database"
	logpkg "github.com/flowplan/flowplan/internal/logger"
	"github.com/flowplan/flowplan/internal/models"
	"github.com/flowplan/flowplan/internal/queue"
)

// EnsureSeries maintains the single series row binding a source item to
// its current pattern. An existing series is patched only when the pattern
// binding or active flag actually changed; a missing one is created with
// all scheduling cursors unset; those belong to the occurrence generator
// and are never initialized here. A create that loses to a concurrent
// writer falls back to patching the winner's row.
func (e *Engine) EnsureSeries(ctx context.Context, ownerID uuid.UUID, source models.SourceRef, patternID uuid.UUID, isActive bool) (uuid.UUID, error) {
	ctx, span := e.tracer.Start(ctx, "engine.EnsureSeries")
	defer span.End()

	if e.locker != nil {
		release, err := e.locker.Lock(ctx, ownerID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to lock owner: %w", err)
		}
		defer release()
	}

	existing, err := e.series.GetBySource(ctx, ownerID, source)
	switch {
	case err == nil:
		return e.patchSeries(ctx, ownerID, source, existing, patternID, isActive)
	case errors.Is(err, database.ErrSeriesNotFound):
		// No series yet; create one below.
	default:
		return uuid.Nil, fmt.Errorf("failed to look up series: %w", err)
	}

	now := e.now()
	series := &models.WorkItemSeries{
		ID:                  uuid.New(),
		UserID:              ownerID,
		SourceType:          source.Type,
		RecurrencePatternID: patternID,
		IsActive:            isActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	switch source.Type {
	case models.SourceHabit:
		series.SourceHabitID = &source.ID
	default:
		series.SourceTaskID = &source.ID
	}

	if err := e.series.Insert(ctx, series); err != nil {
		if errors.Is(err, database.ErrSeriesExists) {
			// Lost the insert race; the winner's row is the series now.
			winner, getErr := e.series.GetBySource(ctx, ownerID, source)
			if getErr != nil {
				return uuid.Nil, fmt.Errorf("failed to reload series after conflict: %w", getErr)
			}
			return e.patchSeries(ctx, ownerID, source, winner, patternID, isActive)
		}
		return uuid.Nil, fmt.Errorf("failed to create series: %w", err)
	}

	e.logger.Info("series_created",
		zap.String("user_id", ownerID.String()),
		zap.String("series_id", series.ID.String()),
		zap.String("pattern_id", patternID.String()),
		zap.Bool("is_active", isActive),
	)

	if err := e.recordSeriesChange(ctx, ownerID, source, series.ID, "series_created", []string{"recurrence_pattern_id", "is_active"}); err != nil {
		return uuid.Nil, err
	}
	e.notifySeriesChange(ctx, ownerID, series.ID, patternID, isActive)

	return series.ID, nil
}

// patchSeries updates the binding when it drifted from the requested state
// and leaves the row untouched otherwise.
func (e *Engine) patchSeries(ctx context.Context, ownerID uuid.UUID, source models.SourceRef, existing *models.WorkItemSeries, patternID uuid.UUID, isActive bool) (uuid.UUID, error) {
	var changed []string
	if existing.RecurrencePatternID != patternID {
		changed = append(changed, "recurrence_pattern_id")
	}
	if existing.IsActive != isActive {
		changed = append(changed, "is_active")
	}
	if len(changed) == 0 {
		return existing.ID, nil
	}

	if err := e.series.UpdateBinding(ctx, existing.ID, patternID, isActive, e.now()); err != nil {
		return uuid.Nil, fmt.Errorf("failed to patch series binding: %w", err)
	}

	e.logger.Info("series_patched",
		zap.String("user_id", ownerID.String()),
		zap.String("series_id", existing.ID.String()),
		zap.String("pattern_id", patternID.String()),
		zap.Strings("changed_fields", changed),
	)

	if err := e.recordSeriesChange(ctx, ownerID, source, existing.ID, "series_updated", changed); err != nil {
		return uuid.Nil, err
	}
	e.notifySeriesChange(ctx, ownerID, existing.ID, patternID, isActive)

	return existing.ID, nil
}

// notifySeriesChange tells the occurrence generator to rematerialize (or
// stop materializing) occurrences for a series. Best-effort only.
func (e *Engine) notifySeriesChange(ctx context.Context, ownerID, seriesID, patternID uuid.UUID, isActive bool) {
	if e.notifier == nil {
		return
	}

	jobType := queue.JobTypeSeriesRefresh
	if !isActive {
		jobType = queue.JobTypeSeriesDeactivated
	}

	job := queue.NewJob(jobType, ownerID, &seriesID)
	job.Metadata["recurrence_pattern_id"] = patternID.String()

	if err := e.notifier.Enqueue(ctx, job); err != nil {
		e.logger.Warn("failed_to_enqueue_series_job",
			zap.String("user_id", ownerID.String()),
			zap.String("series_id", seriesID.String()),
			zap.String("job_type", string(jobType)),
			zap.String("error", logpkg.SanitizeError(err)),
		)
	}
}
