// Package jobs provides scheduled background tasks for the marketplace.
//
// Jobs are cron-based (github.com/robfig/cron/v3) and hold no state of their own:
// every run re-reads the data it acts on, so a restart loses nothing.
//
// # Available Jobs
//
// EscrowReleaseJob releases held escrow for orders whose delivery was confirmed
// or whose auto-release time has passed. It runs on ESCROW_SWEEP_SCHEDULE,
// every five minutes by default.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(releaseEscrowHandler, cfg.EscrowSweepSchedule, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs
