package itglue

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedServer answers with the given status codes in order, then 200 forever.
func scriptedServer(t *testing.T, statuses []int, retryAfter string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1)) - 1
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		if n < len(statuses) && statuses[n] != http.StatusOK {
			if statuses[n] == http.StatusTooManyRequests && retryAfter != "" {
				w.Header().Set("Retry-After", retryAfter)
			}
			w.WriteHeader(statuses[n])
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestFetcher(t *testing.T) (*Fetcher, *[]time.Duration) {
	t.Helper()
	f := NewFetcher(&http.Client{}, "secret", zerolog.Nop())
	var waits []time.Duration
	f.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return f, &waits
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestFetch_ThrottledTwiceThenSuccess(t *testing.T) {
	srv, calls := scriptedServer(t, []int{429, 429, 200}, "7")
	f, waits := newTestFetcher(t)

	body, err := f.Fetch(context.Background(), mustURL(t, srv.URL+"/organizations"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, 2, f.RateLimitHits())
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Equal(t, []time.Duration{7 * time.Second, 7 * time.Second}, *waits)
}

func TestFetch_ThrottleUsesFallbackWithoutHeader(t *testing.T) {
	srv, _ := scriptedServer(t, []int{429}, "")
	f, waits := newTestFetcher(t)

	_, err := f.Fetch(context.Background(), mustURL(t, srv.URL))
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{DefaultThrottleFallback}, *waits)
}

func TestFetch_ThrottlingDoesNotConsumeAttempts(t *testing.T) {
	// two failures and three throttles still fit into a budget of three attempts
	srv, calls := scriptedServer(t, []int{500, 429, 429, 503, 429, 200}, "1")
	f, _ := newTestFetcher(t)

	_, err := f.Fetch(context.Background(), mustURL(t, srv.URL))
	require.NoError(t, err)
	assert.Equal(t, 3, f.RateLimitHits())
	assert.Equal(t, int32(6), atomic.LoadInt32(calls))
}

func TestFetch_ExhaustsRetryBudget(t *testing.T) {
	srv, calls := scriptedServer(t, []int{500, 502, 500, 500}, "")
	f, waits := newTestFetcher(t)

	_, err := f.Fetch(context.Background(), mustURL(t, srv.URL+"/passwords/9"))
	require.Error(t, err)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, srv.URL+"/passwords/9", exhausted.URL)

	var status *StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusInternalServerError, status.StatusCode)

	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Equal(t, []time.Duration{DefaultFailureBackoff, DefaultFailureBackoff}, *waits)
	assert.Zero(t, f.RateLimitHits())
}

func TestFetch_CancelledWhileThrottled(t *testing.T) {
	srv, _ := scriptedServer(t, []int{429, 429, 429}, "30")
	f := NewFetcher(&http.Client{}, "secret", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	f.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	}

	_, err := f.Fetch(ctx, mustURL(t, srv.URL))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, f.RateLimitHits())
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{name: "empty", header: "", want: time.Minute},
		{name: "seconds", header: "12", want: 12 * time.Second},
		{name: "zero", header: "0", want: 0},
		{name: "negative", header: "-3", want: time.Minute},
		{name: "http date", header: now.Add(90 * time.Second).Format(http.TimeFormat), want: 90 * time.Second},
		{name: "date in the past", header: now.Add(-time.Hour).Format(http.TimeFormat), want: 0},
		{name: "garbage", header: "soon", want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryAfter(tt.header, time.Minute, now))
		})
	}
}
