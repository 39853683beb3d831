package ports

import (
	"context"

	"returnsync/internal/core/domain/model/carrier"
	"returnsync/internal/core/domain/model/kernel"
)

// CarrierClient is the remote carrier's event feed. Implementations must
// classify failures through the errs package so the processor can decide
// retry-versus-abort:
//
//   - errs.TransientError: timeouts, connection failures, 5xx, rate limits:
//     the batch aborts with the cursor untouched and the window is retried
//     on the next scheduled run;
//   - errs.PermanentError: other 4xx responses and payloads that fail schema
//     validation. Never retried.
type CarrierClient interface {
	// ListEvents fetches one page of return events inside the window.
	// Pass the previous page's NextPageToken to continue; an empty token
	// starts from the beginning. The returned page's HasMore reports
	// whether more pages follow.
	ListEvents(ctx context.Context, window kernel.TimeWindow, pageToken string) (carrier.EventPage, error)

	// GetReturnStatus looks up the carrier's current status code for a
	// single AWB.
	GetReturnStatus(ctx context.Context, trackingID string) (string, error)
}
