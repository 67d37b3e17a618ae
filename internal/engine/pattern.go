package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	logpkg "github.com/flowplan/flowplan/internal/logger"
	"github.com/flowplan/flowplan/internal/models"
	"github.com/flowplan/flowplan/internal/recurrence"
)

// EnsurePattern resolves the persisted pattern for a specification,
// creating a row only when the owner has no pattern with the same
// fingerprint on file. On a dedup hit the existing row is canonical: its
// updated_at is touched and nothing else is rewritten. The specification
// is stored normalized (recovery policy defaulted to skip, preferred days
// sorted) so that equivalent inputs always converge on one row.
func (e *Engine) EnsurePattern(ctx context.Context, ownerID uuid.UUID, input models.RecurrencePatternInput) (uuid.UUID, error) {
	ctx, span := e.tracer.Start(ctx, "engine.EnsurePattern")
	defer span.End()

	if e.locker != nil {
		release, err := e.locker.Lock(ctx, ownerID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to lock owner: %w", err)
		}
		defer release()
	}

	now := e.now()
	pattern := patternFromInput(ownerID, input)
	pattern.CreatedAt = now
	pattern.UpdatedAt = now

	id, created, err := e.patterns.Upsert(ctx, pattern)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to ensure recurrence pattern: %w", err)
	}

	e.logger.Debug("ensured_pattern",
		zap.String("user_id", ownerID.String()),
		zap.String("pattern_id", id.String()),
		zap.String("rule", logpkg.SanitizeRule(input.RecurrenceRule)),
		zap.Bool("created", created),
	)

	return id, nil
}

func patternFromInput(ownerID uuid.UUID, input models.RecurrencePatternInput) *models.RecurrencePattern {
	policy := input.RecoveryPolicy
	if policy == "" {
		policy = models.RecoverySkip
	}

	days := append([]int(nil), input.PreferredDays...)
	sort.Ints(days)

	return &models.RecurrencePattern{
		ID:                   uuid.New(),
		UserID:               ownerID,
		Fingerprint:          recurrence.Fingerprint(input),
		RecurrenceRule:       input.RecurrenceRule,
		Frequency:            input.Frequency,
		RepeatsPerPeriod:     input.RepeatsPerPeriod,
		RecoveryPolicy:       policy,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		PreferredWindowStart: input.PreferredWindowStart,
		PreferredWindowEnd:   input.PreferredWindowEnd,
		PreferredDays:        days,
		Timezone:             input.Timezone,
	}
}
