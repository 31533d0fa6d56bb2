// Package jobs provides scheduled background tasks of the dispatch bot.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. ReservationSweeperJob - releases reservations whose confirmation deadline has passed
// 2. NotificationRetryJob - redelivers notifications that failed after a ledger commit
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(facade, deliverHandler, jobs.Config{
//		SweepInterval: 30 * time.Second,
//		RetryInterval: 10 * time.Second,
//		RetryBatch:    50,
//		MaxAttempts:   5,
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Jobs run on "@every <interval>" schedules. A run that is still going when
// the next tick arrives makes the tick skip, so runs never overlap.
//
// # Error Handling
//
// Both jobs log failures and keep their schedule. Every run is idempotent,
// so a failed run is simply repeated on the next tick.
package jobs
