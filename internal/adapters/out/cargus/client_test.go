package cargus_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"returnsync/internal/adapters/out/cargus"
	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWindow(t *testing.T) kernel.TimeWindow {
	t.Helper()
	window, err := kernel.NewTimeWindow(
		time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return window
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *cargus.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := cargus.NewClient(server.URL, "test-key", 2*time.Second)
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	_, err := cargus.NewClient("", "key", 0)
	require.Error(t, err)

	_, err = cargus.NewClient("https://api.example", "", 0)
	require.Error(t, err)
}

func TestClient_ListEvents_ParsesPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/returns/events", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "2026-08-27T00:00:00Z", r.URL.Query().Get("from"))
		assert.Equal(t, "2026-08-28T00:00:00Z", r.URL.Query().Get("to"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"events": []map[string]string{
				{
					"eventId":    "evt-1",
					"awb":        "CGS001",
					"statusCode": "in_transit",
					"occurredAt": "2026-08-27T10:00:00Z",
				},
			},
			"nextPageToken": "page-2",
		})
	})

	page, err := client.ListEvents(t.Context(), testWindow(t), "")
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	assert.Equal(t, "evt-1", page.Events[0].EventID)
	assert.Equal(t, "CGS001", page.Events[0].TrackingID)
	assert.Equal(t, "in_transit", page.Events[0].StatusCode)
	assert.Equal(t, time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC), page.Events[0].OccurredAt)
	assert.True(t, page.HasMore())
	assert.Equal(t, "page-2", page.NextPageToken)
}

func TestClient_ListEvents_PassesPageToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "page-2", r.URL.Query().Get("pageToken"))
		_ = json.NewEncoder(w).Encode(map[string]any{"events": []any{}})
	})

	page, err := client.ListEvents(t.Context(), testWindow(t), "page-2")
	require.NoError(t, err)
	assert.Empty(t, page.Events)
	assert.False(t, page.HasMore())
}

func TestClient_ListEvents_UnparsableTimestampDegradesToZeroTime(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"events": []map[string]string{
				{
					"eventId":    "evt-1",
					"awb":        "CGS001",
					"statusCode": "in_transit",
					"occurredAt": "yesterday-ish",
				},
			},
		})
	})

	// The page still succeeds; the zero OccurredAt fails event validation
	// downstream, so only this event is skipped.
	page, err := client.ListEvents(t.Context(), testWindow(t), "")
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	assert.True(t, page.Events[0].OccurredAt.IsZero())
	require.Error(t, page.Events[0].Validate())
}

func TestClient_ListEvents_ServerErrorIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ListEvents(t.Context(), testWindow(t), "")
	require.Error(t, err)
	assert.True(t, errs.IsTransient(err))
}

func TestClient_ListEvents_RateLimitIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.ListEvents(t.Context(), testWindow(t), "")
	require.Error(t, err)
	assert.True(t, errs.IsTransient(err))
}

func TestClient_ListEvents_ClientErrorIsPermanent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.ListEvents(t.Context(), testWindow(t), "")
	require.Error(t, err)
	assert.True(t, errs.IsPermanent(err))
	assert.False(t, errs.IsTransient(err))
}

func TestClient_ListEvents_MalformedBodyIsPermanent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	})

	_, err := client.ListEvents(t.Context(), testWindow(t), "")
	require.Error(t, err)
	assert.True(t, errs.IsPermanent(err))
}

func TestClient_ListEvents_TimeoutIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]any{"events": []any{}})
	}))
	t.Cleanup(server.Close)

	// Client timeout shorter than the handler's sleep.
	client, err := cargus.NewClient(server.URL, "test-key", 50*time.Millisecond)
	require.NoError(t, err)

	_, err = client.ListEvents(t.Context(), testWindow(t), "")
	require.Error(t, err)
	assert.True(t, errs.IsTransient(err))
}

func TestClient_GetReturnStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/awbs/CGS001/status", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"statusCode": "returned_to_sender"})
	})

	code, err := client.GetReturnStatus(t.Context(), "CGS001")
	require.NoError(t, err)
	assert.Equal(t, "returned_to_sender", code)
}

func TestClient_GetReturnStatus_RequiresTrackingID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.GetReturnStatus(t.Context(), "")
	require.Error(t, err)
}
