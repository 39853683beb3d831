package jobs

import (
	"fmt"
	"log/slog"

	"returnsync/internal/core/application/usecases/commands"
	"returnsync/internal/core/ports"
)

// JobManager coordinates the scheduled jobs of the service. Today that is
// only the delta sync, but serve mode starts and stops everything through
// this single interface.
type JobManager struct {
	deltaSyncJob *DeltaSyncJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(
	syncHandler commands.SyncReturnsCommandHandler,
	lock ports.RunLock,
	syncCronExpr string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		deltaSyncJob: NewDeltaSyncJob(syncHandler, lock, syncCronExpr, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.deltaSyncJob.Start(); err != nil {
		return fmt.Errorf("failed to start delta sync job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.deltaSyncJob.Stop()
}
