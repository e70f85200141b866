// Package jobs provides scheduled background tasks for the order hub.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// with second-level schedules.
//
// # Available Jobs
//
// 1. CatalogSyncJob - Pulls the canonical catalog from its source and swaps the mirror
// 2. IdempotencyPurgeJob - Deletes idempotency keys older than the replay window
// 3. CartPurgeJob - Drops abandoned carts from the in-memory cart store
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(purgeJob, syncJob, cartPurgeJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - CatalogSyncJob runs its first sync in the background right after Start
// - A failed catalog sync leaves the previous catalog in place; the catalog store logs it
// - Purge failures are logged and retried on the next tick
// - A run that is still busy when the next tick fires is skipped
// - Failed job starts will stop any already running jobs
package jobs
