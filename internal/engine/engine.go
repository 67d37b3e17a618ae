// Package engine implements the recurrence mutation core: pattern
// deduplication, series lifecycle, and change log recording. It is an
// in-process library consumed by item-management mutations; it exposes no
// network surface of its own.
package engine

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/flowplan/flowplan/internal/database"
	"github.com/flowplan/flowplan/internal/lock"
	"github.com/flowplan/flowplan/internal/queue"
)

// Engine wires the recurrence stores together for item-management mutations
type Engine struct {
	patterns  database.RecurrencePatternStore
	series    database.WorkItemSeriesStore
	changeLog database.ChangeLogStore

	locker   lock.OwnerLocker
	notifier queue.JobQueue
	logger   *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithOwnerLocker serializes mutations per owner. Optional: the Postgres
// repositories already enforce uniqueness through their indexes, so the
// lock only matters when the backing store cannot.
func WithOwnerLocker(locker lock.OwnerLocker) Option {
	return func(e *Engine) { e.locker = locker }
}

// WithNotifier publishes series-change jobs for the occurrence generator.
// Publishing is best-effort; a queue failure never fails the mutation.
func WithNotifier(notifier queue.JobQueue) Option {
	return func(e *Engine) { e.notifier = notifier }
}

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given stores
func New(patterns database.RecurrencePatternStore, series database.WorkItemSeriesStore, changeLog database.ChangeLogStore, opts ...Option) *Engine {
	e := &Engine{
		patterns:  patterns,
		series:    series,
		changeLog: changeLog,
		logger:    zap.NewNop(),
		tracer:    otel.Tracer("flowplan/engine"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
