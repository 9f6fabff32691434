// Package jobs provides the background tasks of the dispatch service.
//
// Both jobs use github.com/robfig/cron/v3 and react to events from the event bus.
//
// # Available Jobs
//
//  1. OfferRefreshJob - re-evaluates couriers' offers when requests or couriers change,
//     and on a schedule as a safety net
//  2. CourierTrackingJob - moves a simulated marker along the active leg of every request
//     with a courier, one cron entry per request, and relocates the courier when a
//     delivery completes
//
// # Usage
//
//	jobManager := jobs.NewJobManager(offerRefreshJob, courierTrackingJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules accept six-field cron expressions (with seconds) and descriptors.
// The defaults are "@every 5s" for offers and "@every 1s" for tracking ticks.
//
// # Error Handling
//
// Job failures are logged and never stop the job. Failed job starts will stop any
// already running jobs.
package jobs
