package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flowplan/flowplan/internal/models"
)

// WorkItemSeriesRepository handles work item series database operations
type WorkItemSeriesRepository struct {
	db *DB
}

// NewWorkItemSeriesRepository creates a new work item series repository
func NewWorkItemSeriesRepository(db *DB) *WorkItemSeriesRepository {
	return &WorkItemSeriesRepository{db: db}
}

const seriesSelect = `
	SELECT id, user_id, source_type, source_task_id, source_habit_id,
	       recurrence_pattern_id, is_active, anchor_start, horizon_cursor,
	       last_occurrence_at, created_at, updated_at
	FROM work_item_series
`

// GetBySource retrieves the series bound to a source item. Returns
// ErrSeriesNotFound when the item has no series yet.
func (r *WorkItemSeriesRepository) GetBySource(ctx context.Context, userID uuid.UUID, source models.SourceRef) (*models.WorkItemSeries, error) {
	query := seriesSelect + `
		WHERE user_id = $1 AND source_type = $2
		  AND COALESCE(source_task_id, source_habit_id) = $3
	`
	return r.scanSeries(r.db.QueryRowContext(ctx, query, userID, source.Type, source.ID))
}

// Insert creates a new series row. The scheduling cursors are written as
// NULL; they belong to the occurrence generator. Returns ErrSeriesExists
// when a concurrent writer created the series for the same source first.
func (r *WorkItemSeriesRepository) Insert(ctx context.Context, series *models.WorkItemSeries) error {
	query := `
		INSERT INTO work_item_series (
			id, user_id, source_type, source_task_id, source_habit_id,
			recurrence_pattern_id, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		series.ID,
		series.UserID,
		series.SourceType,
		series.SourceTaskID,
		series.SourceHabitID,
		series.RecurrencePatternID,
		series.IsActive,
		series.CreatedAt,
		series.UpdatedAt,
	).Scan(&series.CreatedAt, &series.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrSeriesExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert work item series: %w", err)
	}

	return nil
}

// UpdateBinding patches the pattern binding and active flag of an existing
// series. No other column is touched.
func (r *WorkItemSeriesRepository) UpdateBinding(ctx context.Context, id uuid.UUID, patternID uuid.UUID, isActive bool, now time.Time) error {
	query := `
		UPDATE work_item_series
		SET recurrence_pattern_id = $2, is_active = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, patternID, isActive, now)
	if err != nil {
		return fmt.Errorf("failed to update series binding: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSeriesNotFound
	}

	return nil
}

func (r *WorkItemSeriesRepository) scanSeries(row *sql.Row) (*models.WorkItemSeries, error) {
	series := &models.WorkItemSeries{}
	var (
		taskID           uuid.NullUUID
		habitID          uuid.NullUUID
		anchorStart      sql.NullTime
		horizonCursor    sql.NullTime
		lastOccurrenceAt sql.NullTime
	)

	err := row.Scan(
		&series.ID,
		&series.UserID,
		&series.SourceType,
		&taskID,
		&habitID,
		&series.RecurrencePatternID,
		&series.IsActive,
		&anchorStart,
		&horizonCursor,
		&lastOccurrenceAt,
		&series.CreatedAt,
		&series.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSeriesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work item series: %w", err)
	}

	if taskID.Valid {
		series.SourceTaskID = &taskID.UUID
	}
	if habitID.Valid {
		series.SourceHabitID = &habitID.UUID
	}
	if anchorStart.Valid {
		series.AnchorStart = &anchorStart.Time
	}
	if horizonCursor.Valid {
		series.HorizonCursor = &horizonCursor.Time
	}
	if lastOccurrenceAt.Valid {
		series.LastOccurrenceAt = &lastOccurrenceAt.Time
	}

	return series, nil
}
