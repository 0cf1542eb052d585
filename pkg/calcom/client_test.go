package calcom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenline365/pregreet/internal/resilience"
)

func window(t *testing.T) SlotsRequest {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	return SlotsRequest{
		EventTypeID: "4242",
		Start:       start,
		End:         start.Add(24*time.Hour - time.Second),
		TimeZone:    "America/New_York",
	}
}

func TestSlots_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/slots", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("apiKey"))
		assert.Equal(t, "4242", q.Get("eventTypeId"))
		assert.Equal(t, "2026-03-10T00:00:00-04:00", q.Get("startTime"))
		assert.Equal(t, "2026-03-10T23:59:59-04:00", q.Get("endTime"))
		assert.Equal(t, "America/New_York", q.Get("timeZone"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"slots":{"2026-03-10":[{"time":"2026-03-10T13:00:00Z"},"2026-03-10T15:30:00Z"]}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.Slots(context.Background(), window(t))
	require.NoError(t, err)

	times := got.Times()
	sort.Strings(times)
	assert.Equal(t, []string{"2026-03-10T13:00:00Z", "2026-03-10T15:30:00Z"}, times)
}

func TestSlots_EmptyBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{}) //nolint:errcheck
	}))
	defer srv.Close()

	got, err := NewClient("k", WithBaseURL(srv.URL)).Slots(context.Background(), window(t))
	require.NoError(t, err)
	assert.Empty(t, got.Times())
}

func TestSlots_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message":"maintenance"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).Slots(context.Background(), window(t))
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resilience.StatusCode(err))
	assert.True(t, resilience.ProviderFault(err))
}

func TestSlots_BadJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"slots":`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).Slots(context.Background(), window(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calcom: decode slots")
}

func TestSlots_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient("k", WithBaseURL(srv.URL)).Slots(ctx, window(t))
	require.Error(t, err)
}

func TestSlots_RateLimitHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("k", WithBaseURL("http://127.0.0.1:1"), WithRateLimit(0.001))
	_, err := client.Slots(ctx, window(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
}

func TestSlotsResponse_TimesNil(t *testing.T) {
	var r *SlotsResponse
	assert.Nil(t, r.Times())
}
