package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"returnsync/internal/core/application/usecases/commands"
	"returnsync/internal/core/ports"
	"returnsync/internal/pkg/metrics"
)

const usage = "usage: returnsync [serve | <date YYYY-MM-DD> | <from RFC3339> <to RFC3339>]"

// RunResult is the single JSON line the driver prints to stdout. Anomalies
// of a successful run and the abort reason of a failed one both land in
// Errors; Success distinguishes them.
type RunResult struct {
	Success   bool     `json:"success"`
	Processed int      `json:"processed"`
	Errors    []string `json:"errors"`
}

// syncHandlerFactory defers processor construction until the arguments are
// known to be valid.
type syncHandlerFactory func() (commands.SyncReturnsCommandHandler, error)

// RunSync executes one reconciliation run for the given CLI arguments and
// prints the result contract to stdout. Returns the process exit code: 0
// when the run succeeded, 1 on any failure including malformed arguments,
// a held run lock and recovered panics. The driver never lets a fault
// escape without printing a result line.
func RunSync(ctx context.Context, root *CompositionRoot, args []string) int {
	return runSync(ctx, root.CreateSyncReturnsCommandHandler, root.CreateRunLock(), root.logger, args)
}

// PrintFailureResult emits the driver's failure contract for faults that
// happen before a run can start, such as a failed database connection.
func PrintFailureResult(errors ...string) {
	printResult(RunResult{Errors: errors})
}

func runSync(
	ctx context.Context,
	newHandler syncHandlerFactory,
	lock ports.RunLock,
	logger *slog.Logger,
	args []string,
) (code int) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "Sync run panicked", "panic", r)
			metrics.SyncRuns.WithLabelValues(metrics.ResultFailure).Inc()
			printResult(RunResult{Errors: []string{"internal error"}})
			code = 1
		}
	}()

	cmd, err := parseSyncArgs(args)
	if err != nil {
		logger.ErrorContext(ctx, "Invalid arguments", "error", err)
		printResult(RunResult{Errors: []string{err.Error(), usage}})
		return 1
	}

	handler, err := newHandler()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to construct sync handler", "error", err)
		printResult(RunResult{Errors: []string{err.Error()}})
		return 1
	}

	acquired, err := lock.TryAcquire(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to acquire run lock", "error", err)
		printResult(RunResult{Errors: []string{err.Error()}})
		return 1
	}
	if !acquired {
		logger.WarnContext(ctx, "Another sync run is active, exiting")
		metrics.SyncRuns.WithLabelValues(metrics.ResultLocked).Inc()
		printResult(RunResult{Errors: []string{"already running"}})
		return 1
	}
	defer func() {
		if releaseErr := lock.Release(context.Background()); releaseErr != nil {
			logger.ErrorContext(ctx, "Failed to release run lock", "error", releaseErr)
		}
	}()

	start := time.Now()
	result, err := handler.Handle(ctx, cmd)
	metrics.SyncDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.ErrorContext(ctx, "Sync run failed", "error", err)
		metrics.SyncRuns.WithLabelValues(metrics.ResultFailure).Inc()
		printResult(RunResult{Errors: []string{err.Error()}})
		return 1
	}

	metrics.SyncRuns.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.EventsProcessed.Add(float64(result.Processed))
	metrics.Anomalies.Add(float64(len(result.Anomalies)))

	printResult(RunResult{
		Success:   true,
		Processed: result.Processed,
		Errors:    result.Anomalies,
	})
	return 0
}

// parseSyncArgs maps positional arguments to a sync command: no arguments
// selects delta mode, one date argument selects daily mode, a from/to pair
// selects an explicit window.
func parseSyncArgs(args []string) (commands.SyncReturnsCommand, error) {
	switch len(args) {
	case 0:
		return commands.NewDeltaSyncCommand(), nil

	case 1:
		day, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return commands.SyncReturnsCommand{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", args[0])
		}
		return commands.NewDailySyncCommand(day)

	case 2:
		from, err := time.Parse(time.RFC3339, args[0])
		if err != nil {
			return commands.SyncReturnsCommand{}, fmt.Errorf("invalid from %q: expected RFC 3339", args[0])
		}
		to, err := time.Parse(time.RFC3339, args[1])
		if err != nil {
			return commands.SyncReturnsCommand{}, fmt.Errorf("invalid to %q: expected RFC 3339", args[1])
		}
		return commands.NewWindowSyncCommand(from, to)

	default:
		return commands.SyncReturnsCommand{}, fmt.Errorf("too many arguments")
	}
}

// printResult writes the result contract as exactly one line on stdout.
// Operational logs go to stderr, so stdout stays machine-readable.
func printResult(result RunResult) {
	if result.Errors == nil {
		result.Errors = []string{}
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		fmt.Fprintln(os.Stdout, `{"success":false,"processed":0,"errors":["failed to encode result"]}`)
		return
	}
	fmt.Fprintln(os.Stdout, string(encoded))
}
