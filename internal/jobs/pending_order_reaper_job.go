package jobs

import (
	"context"
	"log/slog"
	"time"

	"shipbook/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PendingOrderReaperJob periodically cancels orders stuck in pending.
// These are the leftovers of checkouts that died mid-payment before their
// compensation ran, so the sweep is what makes compensation failure safe to
// surface instead of retry forever.
type PendingOrderReaperJob struct {
	handler  *commands.CancelStaleOrdersCommandHandler
	maxAge   time.Duration
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewPendingOrderReaperJob creates the reaper. maxAge is how old a pending
// order must be before it is swept; schedule is a standard 5-field cron
// expression.
func NewPendingOrderReaperJob(
	handler *commands.CancelStaleOrdersCommandHandler,
	maxAge time.Duration,
	schedule string,
	logger *slog.Logger,
) *PendingOrderReaperJob {
	return &PendingOrderReaperJob{
		handler:  handler,
		maxAge:   maxAge,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "pending_order_reaper_job"),
	}
}

// Start schedules the sweep.
func (j *PendingOrderReaperJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		cmd, err := commands.NewCancelStaleOrdersCommand(j.maxAge)
		if err != nil {
			j.logger.ErrorContext(ctx, "Pending order reaper misconfigured", "error", err)
			return
		}

		cancelled, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Pending order sweep failed", "error", err)
			return
		}
		if cancelled > 0 {
			j.logger.InfoContext(ctx, "Cancelled stale pending orders", "count", cancelled)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pending order reaper started",
		"schedule", j.schedule, "max_age", j.maxAge.String())
	return nil
}

// Stop stops the sweep.
func (j *PendingOrderReaperJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Pending order reaper stopped")
}
