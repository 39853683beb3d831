package jobs

import (
	"context"
	"log/slog"
	"time"

	"returnsync/internal/core/application/usecases/commands"
	"returnsync/internal/core/ports"
	"returnsync/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// DeltaSyncJob runs the delta reconciliation on a cron schedule in serve
// mode. Every tick competes for the advisory run lock first, so a tick
// overlapping a still-running batch (or a CLI invocation on another host)
// skips instead of double-processing.
type DeltaSyncJob struct {
	handler  commands.SyncReturnsCommandHandler
	lock     ports.RunLock
	cronExpr string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewDeltaSyncJob creates the scheduled delta sync. cronExpr is a standard
// five-field cron expression (e.g. "*/5 * * * *").
func NewDeltaSyncJob(
	handler commands.SyncReturnsCommandHandler,
	lock ports.RunLock,
	cronExpr string,
	logger *slog.Logger,
) *DeltaSyncJob {
	return &DeltaSyncJob{
		handler:  handler,
		lock:     lock,
		cronExpr: cronExpr,
		cron:     cron.New(),
		logger:   logger.With("component", "delta_sync_job"),
	}
}

// Start schedules the job.
func (j *DeltaSyncJob) Start() error {
	_, err := j.cron.AddFunc(j.cronExpr, j.runOnce)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delta sync job started", "schedule", j.cronExpr)
	return nil
}

// Stop stops the job. A batch already running finishes; only future ticks
// are cancelled.
func (j *DeltaSyncJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Delta sync job stopped")
}

func (j *DeltaSyncJob) runOnce() {
	ctx := context.Background()
	start := time.Now()

	acquired, err := j.lock.TryAcquire(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Delta sync lock acquisition failed", "error", err)
		metrics.SyncRuns.WithLabelValues(metrics.ResultFailure).Inc()
		return
	}
	if !acquired {
		j.logger.InfoContext(ctx, "Delta sync skipped, another run is active")
		metrics.SyncRuns.WithLabelValues(metrics.ResultLocked).Inc()
		return
	}

	defer func() {
		if releaseErr := j.lock.Release(ctx); releaseErr != nil {
			j.logger.ErrorContext(ctx, "Delta sync lock release failed", "error", releaseErr)
		}
	}()

	result, err := j.handler.Handle(ctx, commands.NewDeltaSyncCommand())
	metrics.SyncDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		j.logger.ErrorContext(ctx, "Delta sync failed", "error", err)
		metrics.SyncRuns.WithLabelValues(metrics.ResultFailure).Inc()
		return
	}

	metrics.SyncRuns.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.EventsProcessed.Add(float64(result.Processed))
	metrics.Anomalies.Add(float64(len(result.Anomalies)))

	j.logger.InfoContext(ctx, "Delta sync finished",
		"processed", result.Processed,
		"anomalies", len(result.Anomalies),
	)
}
