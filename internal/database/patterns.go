package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/flowplan/flowplan/internal/models"
)

// RecurrencePatternRepository handles recurrence pattern database operations
type RecurrencePatternRepository struct {
	db *DB
}

// NewRecurrencePatternRepository creates a new recurrence pattern repository
func NewRecurrencePatternRepository(db *DB) *RecurrencePatternRepository {
	return &RecurrencePatternRepository{db: db}
}

// Upsert resolves the canonical row for (owner, fingerprint). When a row
// already exists only its updated_at is touched; none of the other columns
// are rewritten. The unique index on (user_id, fingerprint) makes the
// operation atomic under concurrent writers. Returns the canonical row id
// and whether a new row was created.
func (r *RecurrencePatternRepository) Upsert(ctx context.Context, pattern *models.RecurrencePattern) (uuid.UUID, bool, error) {
	query := `
		INSERT INTO recurrence_patterns (
			id, user_id, fingerprint, recurrence_rule, frequency,
			repeats_per_period, recovery_policy, start_date, end_date,
			preferred_window_start, preferred_window_end, preferred_days,
			timezone, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (user_id, fingerprint)
		DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at, (xmax = 0)
	`

	var (
		id       uuid.UUID
		inserted bool
	)
	err := r.db.QueryRowContext(ctx, query,
		pattern.ID,
		pattern.UserID,
		pattern.Fingerprint,
		pattern.RecurrenceRule,
		pattern.Frequency,
		pattern.RepeatsPerPeriod,
		pattern.RecoveryPolicy,
		nullString(pattern.StartDate),
		nullString(pattern.EndDate),
		nullString(pattern.PreferredWindowStart),
		nullString(pattern.PreferredWindowEnd),
		pq.Array(pattern.PreferredDays),
		nullString(pattern.Timezone),
		pattern.CreatedAt,
		pattern.UpdatedAt,
	).Scan(&id, &pattern.CreatedAt, &pattern.UpdatedAt, &inserted)

	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to upsert recurrence pattern: %w", err)
	}

	pattern.ID = id
	return id, inserted, nil
}

// GetByID retrieves a recurrence pattern by id
func (r *RecurrencePatternRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RecurrencePattern, error) {
	query := patternSelect + ` WHERE id = $1`
	return r.scanPattern(r.db.QueryRowContext(ctx, query, id))
}

// GetByFingerprint retrieves the pattern on file for (owner, fingerprint)
func (r *RecurrencePatternRepository) GetByFingerprint(ctx context.Context, userID uuid.UUID, fingerprint string) (*models.RecurrencePattern, error) {
	query := patternSelect + ` WHERE user_id = $1 AND fingerprint = $2`
	return r.scanPattern(r.db.QueryRowContext(ctx, query, userID, fingerprint))
}

const patternSelect = `
	SELECT id, user_id, fingerprint, recurrence_rule, frequency,
	       repeats_per_period, recovery_policy, start_date, end_date,
	       preferred_window_start, preferred_window_end, preferred_days,
	       timezone, created_at, updated_at
	FROM recurrence_patterns
`

func (r *RecurrencePatternRepository) scanPattern(row *sql.Row) (*models.RecurrencePattern, error) {
	pattern := &models.RecurrencePattern{}
	var (
		startDate   sql.NullString
		endDate     sql.NullString
		windowStart sql.NullString
		windowEnd   sql.NullString
		timezone    sql.NullString
		days        pq.Int64Array
	)

	err := row.Scan(
		&pattern.ID,
		&pattern.UserID,
		&pattern.Fingerprint,
		&pattern.RecurrenceRule,
		&pattern.Frequency,
		&pattern.RepeatsPerPeriod,
		&pattern.RecoveryPolicy,
		&startDate,
		&endDate,
		&windowStart,
		&windowEnd,
		&days,
		&timezone,
		&pattern.CreatedAt,
		&pattern.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPatternNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recurrence pattern: %w", err)
	}

	pattern.StartDate = startDate.String
	pattern.EndDate = endDate.String
	pattern.PreferredWindowStart = windowStart.String
	pattern.PreferredWindowEnd = windowEnd.String
	pattern.Timezone = timezone.String
	pattern.PreferredDays = make([]int, len(days))
	for i, d := range days {
		pattern.PreferredDays[i] = int(d)
	}

	return pattern, nil
}

// nullString maps an empty string to SQL NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
