package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flowplan/flowplan/internal/config"
	"github.com/flowplan/flowplan/internal/logger"
	"github.com/flowplan/flowplan/internal/queue"
)

// NewQueueCmd creates the queue command group: maintenance operations on
// the series job queue.
func NewQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Series job queue maintenance",
	}
	cmd.AddCommand(newQueueGCCmd())
	return cmd
}

// newQueueGCCmd runs the DLQ garbage collector until interrupted. Failed
// series jobs dead-letter into the DLQ and nothing else bounds its growth.
func newQueueGCCmd() *cobra.Command {
	var (
		interval  time.Duration
		retention time.Duration
	)

	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Purge dead-lettered series jobs older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.RabbitMQURL == "" {
				return fmt.Errorf("RABBITMQ_URL is required for queue gc")
			}

			zapLogger, err := logger.NewProductionLogger(cfg.DebugMode)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() {
				_ = logger.Sync(zapLogger)
			}()

			jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
			if err != nil {
				return fmt.Errorf("connect to rabbitmq: %w", err)
			}
			defer func() {
				_ = jobQueue.Close()
			}()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gc := queue.NewGarbageCollector(jobQueue, interval, retention, zapLogger)
			zapLogger.Info("started_dlq_garbage_collector",
				zap.Duration("interval", interval),
				zap.Duration("retention", retention),
			)

			if err := gc.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("garbage collector: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Hour, "how often to sweep the DLQ")
	cmd.Flags().DurationVar(&retention, "retention", 24*time.Hour, "how long dead-lettered jobs are kept")

	return cmd
}
