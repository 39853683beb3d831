package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"returnsync/internal/core/domain/model/audit"
	"returnsync/internal/core/domain/model/carrier"
	"returnsync/internal/core/domain/model/cursor"
	"returnsync/internal/core/domain/model/discrepancy"
	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/core/domain/model/returns"
	"returnsync/internal/core/domain/services"
	"returnsync/internal/core/ports"
	"returnsync/internal/pkg/errs"
)

// defaultFirstRunLookback bounds the delta window before the first cursor
// exists. One day is enough to pick up the backlog of a fresh deployment
// without paging through the carrier's full history.
const defaultFirstRunLookback = 24 * time.Hour

// SyncReturnsResult summarizes one reconciliation batch. Anomalies are
// per-event problems that did not stop the batch; an aborted batch is
// reported through the handler's error instead.
type SyncReturnsResult struct {
	// Processed counts the events that moved a return forward.
	Processed int

	// Anomalies lists every skipped or rejected event with its reason.
	Anomalies []string
}

// SyncReturnsCommandHandler is the reconciliation processor. It pulls the
// carrier's return events for a window, applies them to the matching return
// aggregates through the status state machine, records every decision in the
// audit log and commits the advanced cursor atomically with the batch.
//
// Failure policy: a transient infrastructure error (carrier timeout, 5xx,
// database failure) aborts the whole batch with the cursor untouched, so the
// next run retries the same window. Per-event problems (unmatched AWB,
// unknown status code, malformed payload, backward transition) never abort
// the batch; they are audited and surfaced as anomalies.
type SyncReturnsCommandHandler struct {
	uowFactory    SyncUoWFactory
	carrierClient ports.CarrierClient
	statusMapper  *services.StatusMapper
	cursorSource  string
	logger        *slog.Logger
}

// NewSyncReturnsCommandHandler creates the processor. cursorSource names the
// event feed the cursor row is keyed by (e.g. "cargus").
func NewSyncReturnsCommandHandler(
	uowFactory SyncUoWFactory,
	carrierClient ports.CarrierClient,
	statusMapper *services.StatusMapper,
	cursorSource string,
	logger *slog.Logger,
) (SyncReturnsCommandHandler, error) {
	if uowFactory == nil {
		return SyncReturnsCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if carrierClient == nil {
		return SyncReturnsCommandHandler{}, errs.NewValueIsRequiredError("carrierClient")
	}
	if statusMapper == nil {
		return SyncReturnsCommandHandler{}, errs.NewValueIsRequiredError("statusMapper")
	}
	if cursorSource == "" {
		return SyncReturnsCommandHandler{}, errs.NewValueIsRequiredError("cursorSource")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return SyncReturnsCommandHandler{
		uowFactory:    uowFactory,
		carrierClient: carrierClient,
		statusMapper:  statusMapper,
		cursorSource:  cursorSource,
		logger:        logger,
	}, nil
}

// Handle runs one reconciliation batch. The returned result is only
// meaningful when err is nil; on error nothing was committed.
func (h SyncReturnsCommandHandler) Handle(
	ctx context.Context, cmd SyncReturnsCommand,
) (SyncReturnsResult, error) {
	if err := cmd.Validate(); err != nil {
		return SyncReturnsResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SyncReturnsResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	bw, err := h.resolveWindow(ctx, uow, cmd)
	if err != nil {
		return SyncReturnsResult{}, err
	}
	if bw.empty {
		h.logger.Info("sync batch skipped, cursor not behind the clock",
			"mode", cmd.Mode().String(),
		)
		return SyncReturnsResult{}, nil
	}

	h.logger.Info("sync batch started",
		"mode", cmd.Mode().String(),
		"window", bw.window.String(),
	)

	events, err := h.fetchAllPages(ctx, bw.window)
	if err != nil {
		return SyncReturnsResult{}, err
	}

	var result SyncReturnsResult
	for _, event := range events {
		applied, anomaly, err := h.processEvent(ctx, uow, event)
		if err != nil {
			return SyncReturnsResult{}, err
		}
		if applied {
			result.Processed++
		}
		if anomaly != "" {
			result.Anomalies = append(result.Anomalies, anomaly)
			h.logger.Warn("event anomaly",
				"event_id", event.EventID,
				"tracking_id", event.TrackingID,
				"reason", anomaly,
			)
		}
	}

	// Only the delta mode owns the cursor. Backfills over past days must not
	// drag the checkpoint backward, and an empty batch leaves it where the
	// last successful run put it.
	if cmd.Mode() == SyncModeDelta {
		if last, ok := lastPositionedEvent(events); ok {
			next, err := h.advancedCursor(bw.stored, bw.hasCursor, last)
			if err != nil {
				return SyncReturnsResult{}, err
			}
			if err = uow.CursorRepository().Save(ctx, next); err != nil {
				return SyncReturnsResult{}, err
			}
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return SyncReturnsResult{}, err
	}

	h.logger.Info("sync batch committed",
		"fetched", len(events),
		"processed", result.Processed,
		"anomalies", len(result.Anomalies),
	)
	return result, nil
}

// batchWindow is the resolved input of one batch: the window to fetch, the
// cursor state backing it, and whether there is anything to fetch at all.
type batchWindow struct {
	window    kernel.TimeWindow
	stored    cursor.SyncCursor
	hasCursor bool
	empty     bool
}

// resolveWindow derives the batch window. Delta mode reads the cursor and
// spans from its last synced point to now, falling back to a fixed lookback
// before the first run. Daily/window modes carry their window explicitly.
func (h SyncReturnsCommandHandler) resolveWindow(
	ctx context.Context, uow SyncUoW, cmd SyncReturnsCommand,
) (batchWindow, error) {
	if cmd.Mode() != SyncModeDelta {
		return batchWindow{window: cmd.Window()}, nil
	}

	now := time.Now().UTC()
	from := now.Add(-defaultFirstRunLookback)

	storedCursor, err := uow.CursorRepository().Get(ctx, h.cursorSource)
	switch {
	case err == nil:
		from = storedCursor.LastSyncedAt()
	case errors.Is(err, errs.ErrObjectNotFound):
		// First run for this source.
	default:
		return batchWindow{}, err
	}

	// A carrier event stamped ahead of our clock parks the cursor in the
	// future. That run has nothing new to fetch; it must not fail until the
	// wall clock catches up.
	if !from.Before(now) {
		return batchWindow{stored: storedCursor, hasCursor: err == nil, empty: true}, nil
	}

	window, werr := kernel.NewTimeWindow(from, now)
	if werr != nil {
		return batchWindow{}, werr
	}
	return batchWindow{window: window, stored: storedCursor, hasCursor: err == nil}, nil
}

// fetchAllPages drains the carrier's paginated listing for the window before
// anything is applied. Any fetch error aborts the batch; the caller's
// rollback leaves the cursor untouched so the window is retried whole.
func (h SyncReturnsCommandHandler) fetchAllPages(
	ctx context.Context, window kernel.TimeWindow,
) ([]carrier.ReturnEvent, error) {
	var (
		events    []carrier.ReturnEvent
		pageToken string
	)

	for {
		page, err := h.carrierClient.ListEvents(ctx, window, pageToken)
		if err != nil {
			return nil, err
		}

		events = append(events, page.Events...)
		if !page.HasMore() {
			return events, nil
		}
		pageToken = page.NextPageToken
	}
}

// processEvent applies one carrier event. It returns applied=true when the
// return moved forward, a non-empty anomaly string for per-event problems,
// and a non-nil error only for infrastructure failures that must abort the
// batch.
func (h SyncReturnsCommandHandler) processEvent(
	ctx context.Context, uow SyncUoW, event carrier.ReturnEvent,
) (bool, string, error) {
	// The audit log is the idempotency guard: an existing row for this event
	// id means a previous (possibly crashed-after-commit) run already decided
	// it, and redelivery is silently dropped.
	if event.EventID != "" {
		exists, err := uow.AuditRepository().ExistsByEventID(ctx, event.EventID)
		if err != nil {
			return false, "", err
		}
		if exists {
			h.logger.Debug("duplicate event dropped", "event_id", event.EventID)
			return false, "", nil
		}
	}

	if err := event.Validate(); err != nil {
		anomaly := fmt.Sprintf("event %q: malformed payload: %s", event.EventID, err)
		if event.EventID == "" {
			// Nothing to key an audit row by.
			return false, anomaly, nil
		}
		return false, anomaly, h.audit(ctx, uow, event, nil, audit.DecisionSkipped, "malformed payload")
	}

	ret, err := uow.ReturnRepository().GetByTrackingID(ctx, event.TrackingID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			anomaly := fmt.Sprintf("event %q: no return matches tracking id %q", event.EventID, event.TrackingID)
			return false, anomaly, h.audit(ctx, uow, event, nil, audit.DecisionSkipped, "unmatched tracking id")
		}
		return false, "", err
	}
	returnID := ret.ID()

	target, known := h.statusMapper.Map(event.StatusCode)
	if !known {
		anomaly := fmt.Sprintf("event %q: unknown carrier status code %q", event.EventID, event.StatusCode)
		return false, anomaly, h.audit(ctx, uow, event, &returnID, audit.DecisionSkipped, "unknown status code")
	}

	if err = ret.ApplyStatus(target, event.OccurredAt); err != nil {
		anomaly := fmt.Sprintf(
			"event %q: transition %s -> %s rejected for return %s",
			event.EventID, ret.Status(), target, returnID,
		)
		return false, anomaly, h.audit(ctx, uow, event, &returnID, audit.DecisionRejected, "backward transition")
	}

	if err = uow.ReturnRepository().Update(ctx, ret); err != nil {
		return false, "", err
	}

	if target == returns.Discrepancy {
		if err = h.openCarrierDiscrepancy(ctx, uow, ret, event); err != nil {
			return false, "", err
		}
	}

	reason := fmt.Sprintf("carrier code %s applied", event.StatusCode)
	return true, "", h.audit(ctx, uow, event, &returnID, audit.DecisionApplied, reason)
}

// openCarrierDiscrepancy opens a carrier_refused discrepancy for the return
// unless one is already open, so repeated problem reports for the same
// shipment do not pile up records.
func (h SyncReturnsCommandHandler) openCarrierDiscrepancy(
	ctx context.Context, uow SyncUoW, ret *returns.Return, event carrier.ReturnEvent,
) error {
	open, err := uow.DiscrepancyRepository().HasOpenForReturn(
		ctx, ret.ID(), discrepancy.TypeCarrierRefused,
	)
	if err != nil || open {
		return err
	}

	d, err := discrepancy.NewDiscrepancy(
		kernel.NewUUID(), ret.ID(), "", discrepancy.TypeCarrierRefused,
		fmt.Sprintf("carrier reported %s for %s", event.StatusCode, event.TrackingID),
	)
	if err != nil {
		return err
	}
	return uow.DiscrepancyRepository().Add(ctx, d)
}

// audit appends the decision row for an event. A duplicate event id at this
// point means a concurrent run beat us to it; the event is treated as
// already decided rather than failing the batch.
func (h SyncReturnsCommandHandler) audit(
	ctx context.Context,
	uow SyncUoW,
	event carrier.ReturnEvent,
	returnID *kernel.UUID,
	decision audit.Decision,
	reason string,
) error {
	entry, err := audit.NewEntry(
		kernel.NewUUID(), event.EventID, event.TrackingID, returnID, decision, reason,
	)
	if err != nil {
		return err
	}

	if err = uow.AuditRepository().Add(ctx, entry); err != nil {
		if errors.Is(err, ports.ErrDuplicateAuditEntry) {
			h.logger.Debug("audit row already present", "event_id", event.EventID)
			return nil
		}
		return err
	}
	return nil
}

// lastPositionedEvent returns the newest event carrying a usable timestamp.
// Malformed events without one are skipped per-event and cannot position
// the cursor.
func lastPositionedEvent(events []carrier.ReturnEvent) (carrier.ReturnEvent, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if !events[i].OccurredAt.IsZero() {
			return events[i], true
		}
	}
	return carrier.ReturnEvent{}, false
}

// advancedCursor moves the checkpoint to the last event of the batch,
// creating the first cursor when none exists yet.
func (h SyncReturnsCommandHandler) advancedCursor(
	storedCursor cursor.SyncCursor, hasCursor bool, last carrier.ReturnEvent,
) (cursor.SyncCursor, error) {
	if hasCursor {
		return storedCursor.Advanced(last.EventID, last.OccurredAt)
	}
	return cursor.NewSyncCursor(h.cursorSource, last.EventID, last.OccurredAt)
}
