// Package jobs provides scheduled background tasks for the booking system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the shipment booking service.
//
// # Available Jobs
//
// 1. PendingOrderReaperJob - Cancels orders left pending longer than the
// configured max age. Pending orders outlive their checkout only when the
// process died mid-payment or a compensation could not complete, so the
// sweep is the system's safety net for abandoned money states.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(cancelStaleOrdersHandler, maxAge, schedule, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The reaper uses a standard 5-field cron expression from configuration,
// "*/5 * * * *" by default. Sweeping does not need to be frequent: a
// pending order only becomes sweepable after the stale max age elapses.
package jobs
