package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"shipbook/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	pendingOrderReaperJob *PendingOrderReaperJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	cancelStaleOrdersHandler *commands.CancelStaleOrdersCommandHandler,
	staleOrderMaxAge time.Duration,
	reaperSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		pendingOrderReaperJob: NewPendingOrderReaperJob(
			cancelStaleOrdersHandler, staleOrderMaxAge, reaperSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.pendingOrderReaperJob.Start(); err != nil {
		return fmt.Errorf("failed to start pending order reaper job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.pendingOrderReaperJob.Stop()
}
