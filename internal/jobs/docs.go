// Package jobs provides scheduled background tasks for the fulfillment
// subsystem.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations.
//
// # Available Jobs
//
// 1. DownloadExpiryJob - Runs every minute to expire download grants whose
// seven-day window has closed
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(expireDownloadsHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// An empty sweep is the normal case and is not logged; sweep failures are
// logged and retried on the next tick.
package jobs
