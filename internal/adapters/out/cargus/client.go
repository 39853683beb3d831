// Package cargus implements the carrier client port against the Cargus REST
// API. The adapter owns failure classification: transport failures and
// retryable HTTP statuses surface as transient errors that abort the sync
// batch, everything else as permanent errors that must not be retried.
package cargus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"returnsync/internal/core/domain/model/carrier"
	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/pkg/errs"
)

// defaultTimeout bounds every carrier call. A hung carrier endpoint must
// fail the batch as transient instead of stalling the whole run.
const defaultTimeout = 15 * time.Second

// Client is the HTTPS client for the Cargus return-events feed.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Cargus client. timeout bounds each request; zero
// selects the default.
func NewClient(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if apiKey == "" {
		return nil, errs.NewValueIsRequiredError("apiKey")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// eventDTO is the wire shape of one return event. OccurredAt stays a string
// so one unparsable timestamp degrades to a single skipped event instead of
// failing the page.
type eventDTO struct {
	EventID    string `json:"eventId"`
	AWB        string `json:"awb"`
	StatusCode string `json:"statusCode"`
	OccurredAt string `json:"occurredAt"`
}

// eventPageDTO is the wire shape of one events listing page.
type eventPageDTO struct {
	Events        []eventDTO `json:"events"`
	NextPageToken string     `json:"nextPageToken"`
}

// returnStatusDTO is the wire shape of a single-AWB status lookup.
type returnStatusDTO struct {
	StatusCode string `json:"statusCode"`
}

// ListEvents fetches one page of return events inside the window.
func (c *Client) ListEvents(
	ctx context.Context, window kernel.TimeWindow, pageToken string,
) (carrier.EventPage, error) {
	if err := window.Validate(); err != nil {
		return carrier.EventPage{}, err
	}

	query := url.Values{}
	query.Set("from", window.From().Format(time.RFC3339))
	query.Set("to", window.To().Format(time.RFC3339))
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	endpoint := fmt.Sprintf("%s/v3/returns/events?%s", c.baseURL, query.Encode())

	var page eventPageDTO
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return carrier.EventPage{}, err
	}

	events := make([]carrier.ReturnEvent, 0, len(page.Events))
	for _, dto := range page.Events {
		occurredAt, _ := time.Parse(time.RFC3339, dto.OccurredAt)

		events = append(events, carrier.ReturnEvent{
			EventID:    dto.EventID,
			TrackingID: dto.AWB,
			StatusCode: dto.StatusCode,
			OccurredAt: occurredAt,
		})
	}

	return carrier.EventPage{
		Events:        events,
		NextPageToken: page.NextPageToken,
	}, nil
}

// GetReturnStatus looks up the carrier's current status code for one AWB.
func (c *Client) GetReturnStatus(ctx context.Context, trackingID string) (string, error) {
	if trackingID == "" {
		return "", errs.NewValueIsRequiredError("trackingID")
	}

	endpoint := fmt.Sprintf("%s/v3/awbs/%s/status", c.baseURL, url.PathEscape(trackingID))

	var status returnStatusDTO
	if err := c.getJSON(ctx, endpoint, &status); err != nil {
		return "", err
	}

	return status.StatusCode, nil
}

// getJSON performs one authenticated GET and decodes the response body,
// classifying every failure as transient or permanent.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errs.NewPermanentError("cargus: build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts, DNS failures, connection resets.
		return errs.NewTransientError("cargus: "+endpoint, err)
	}
	defer resp.Body.Close()

	if retryable(resp.StatusCode) {
		return errs.NewTransientError(
			"cargus: "+endpoint,
			fmt.Errorf("carrier responded %s", resp.Status),
		)
	}
	if resp.StatusCode != http.StatusOK {
		return errs.NewPermanentError(
			"cargus: "+endpoint,
			fmt.Errorf("carrier responded %s", resp.Status),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewTransientError("cargus: "+endpoint, err)
	}

	if err = json.Unmarshal(body, out); err != nil {
		return errs.NewPermanentError("cargus: "+endpoint, err)
	}
	return nil
}

// retryable reports whether the HTTP status marks a failure the next run may
// not see: rate limits and server-side errors.
func retryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}
