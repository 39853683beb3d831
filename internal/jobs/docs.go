// Package jobs provides the scheduled background work of the service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// The only job today is DeltaSyncJob, which runs the delta reconciliation
// against the carrier's event feed on a configurable schedule (every five
// minutes by default).
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(syncHandler, runLock, "*/5 * * * *", logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Every tick acquires the shared advisory run lock before processing, so a
// scheduled tick never overlaps a still-running batch or a manual CLI
// invocation against the same database. A tick that finds the lock held
// skips and is counted in the returnsync_sync_runs_total{result="locked"}
// metric.
package jobs
