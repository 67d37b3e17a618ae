package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flowplan/flowplan/internal/config"
	"github.com/flowplan/flowplan/internal/database"
	"github.com/flowplan/flowplan/internal/engine"
	"github.com/flowplan/flowplan/internal/lock"
	"github.com/flowplan/flowplan/internal/logger"
	"github.com/flowplan/flowplan/internal/models"
	"github.com/flowplan/flowplan/internal/queue"
	"github.com/flowplan/flowplan/internal/telemetry"
	"github.com/flowplan/flowplan/internal/validation"
)

// NewEnsureCmd creates the ensure command: the full pattern + series
// mutation path against the configured stores.
func NewEnsureCmd() *cobra.Command {
	var (
		owner       string
		sourceType  string
		sourceID    string
		rule        string
		frequency   string
		repeats     int
		recovery    string
		startDate   string
		endDate     string
		windowStart string
		windowEnd   string
		days        string
		timezone    string
		inactive    bool
	)

	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Ensure a recurrence pattern and series for a source item",
		Long:  "Deduplicates the pattern for the owner, binds the source item's series to it, and records the change.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := uuid.Parse(owner)
			if err != nil {
				return fmt.Errorf("invalid --owner: %w", err)
			}
			itemID, err := uuid.Parse(sourceID)
			if err != nil {
				return fmt.Errorf("invalid --source-id: %w", err)
			}
			preferredDays, err := parseDays(days)
			if err != nil {
				return err
			}

			input := models.RecurrencePatternInput{
				RecurrenceRule:       rule,
				Frequency:            models.Frequency(frequency),
				RepeatsPerPeriod:     repeats,
				RecoveryPolicy:       models.RecoveryPolicy(recovery),
				StartDate:            startDate,
				EndDate:              endDate,
				PreferredWindowStart: windowStart,
				PreferredWindowEnd:   windowEnd,
				PreferredDays:        preferredDays,
				Timezone:             timezone,
			}
			if err := validation.ValidatePatternInput(input); err != nil {
				return err
			}
			source := models.SourceRef{Type: models.SourceType(sourceType), ID: itemID}
			if err := validation.Validate.Struct(source); err != nil {
				return fmt.Errorf("invalid source: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			zapLogger, err := logger.NewDevelopmentLogger(cfg.DebugMode)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() {
				_ = logger.Sync(zapLogger)
			}()

			ctx := context.Background()

			if cfg.OTELEnabled {
				tp, err := telemetry.InitTracer(ctx, "recurctl", cfg.OTELEndpoint)
				if err != nil {
					return fmt.Errorf("init tracing: %w", err)
				}
				defer func() {
					_ = telemetry.Shutdown(ctx, tp)
				}()
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			opts := []engine.Option{engine.WithLogger(zapLogger)}

			if cfg.RedisURL != "" {
				locker, err := lock.NewRedisLocker(cfg.RedisURL)
				if err != nil {
					return fmt.Errorf("connect to redis: %w", err)
				}
				defer func() {
					_ = locker.Close()
				}()
				opts = append(opts, engine.WithOwnerLocker(locker))
			}

			if cfg.RabbitMQURL != "" {
				jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
				if err != nil {
					return fmt.Errorf("connect to rabbitmq: %w", err)
				}
				defer func() {
					_ = jobQueue.Close()
				}()
				opts = append(opts, engine.WithNotifier(jobQueue))
			}

			eng := engine.New(
				database.NewRecurrencePatternRepository(db),
				database.NewWorkItemSeriesRepository(db),
				database.NewChangeLogRepository(db),
				opts...,
			)

			patternID, err := eng.EnsurePattern(ctx, ownerID, input)
			if err != nil {
				return fmt.Errorf("ensure pattern: %w", err)
			}
			seriesID, err := eng.EnsureSeries(ctx, ownerID, source, patternID, !inactive)
			if err != nil {
				return fmt.Errorf("ensure series: %w", err)
			}

			fmt.Printf("pattern: %s\nseries:  %s\n", patternID, seriesID)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner user id (required)")
	cmd.Flags().StringVar(&sourceType, "source-type", "task", "source item type: task or habit")
	cmd.Flags().StringVar(&sourceID, "source-id", "", "source item id (required)")
	cmd.Flags().StringVar(&rule, "rule", "", "canonical recurrence rule string (required)")
	cmd.Flags().StringVar(&frequency, "frequency", "", "legacy frequency metadata")
	cmd.Flags().IntVar(&repeats, "repeats", 1, "repeats per period")
	cmd.Flags().StringVar(&recovery, "recovery", "", "recovery policy: skip or recover (default skip)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&windowStart, "window-start", "", "preferred window start (HH:MM)")
	cmd.Flags().StringVar(&windowEnd, "window-end", "", "preferred window end (HH:MM)")
	cmd.Flags().StringVar(&days, "preferred-days", "", "comma-separated preferred weekday numbers")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone name")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "bind the series as inactive")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("source-id")
	_ = cmd.MarkFlagRequired("rule")

	return cmd
}
