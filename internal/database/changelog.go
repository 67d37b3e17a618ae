package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/flowplan/flowplan/internal/models"
)

// ChangeLogRepository handles change log database operations. The change
// log is append-only: there are no update or delete operations, and reads
// belong to the external audit/history collaborator.
type ChangeLogRepository struct {
	db *DB
}

// NewChangeLogRepository creates a new change log repository
func NewChangeLogRepository(db *DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: db}
}

// Append writes an immutable change log entry
func (r *ChangeLogRepository) Append(ctx context.Context, entry *models.ChangeLogEntry) error {
	query := `
		INSERT INTO change_log_entries (
			id, user_id, entity_type, entity_id, action, scope,
			event_id, series_id, actor, metadata, ts, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`

	var metadataJSON []byte
	if entry.Metadata != nil {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal change log metadata: %w", err)
		}
		metadataJSON = raw
	}

	var scope sql.NullString
	if entry.Scope != "" {
		scope = sql.NullString{String: string(entry.Scope), Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.EntityType,
		entry.EntityID,
		entry.Action,
		scope,
		entry.EventID,
		entry.SeriesID,
		nullString(entry.Actor),
		metadataJSON,
		entry.Timestamp,
		entry.CreatedAt,
	).Scan(&entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append change log entry: %w", err)
	}

	return nil
}
