package itglue

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	DefaultMaxAttempts      = 3
	DefaultThrottleFallback = 60 * time.Second
	DefaultFailureBackoff   = 5 * time.Second
)

// ExhaustedError is returned once a URL has failed MaxAttempts times for reasons other than
// throttling.
type ExhaustedError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("itglue: giving up on %s after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// StatusError describes a non-2xx, non-throttling response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("itglue: unexpected HTTP response status: %s", e.Status)
}

// Fetcher performs GET requests against the API.  Throttling responses (HTTP 429) are waited out
// for as long as the server keeps asking and never consume an attempt; every other failure
// consumes one attempt out of MaxAttempts.
//
// A Fetcher is not safe for concurrent use.
type Fetcher struct {
	MaxAttempts      int
	ThrottleFallback time.Duration
	FailureBackoff   time.Duration

	client *resty.Client
	logger zerolog.Logger

	// swapped out in tests
	sleep func(ctx context.Context, d time.Duration) error

	rateLimitHits int
}

func NewFetcher(client *http.Client, apiKey string, logger zerolog.Logger) *Fetcher {
	rc := resty.NewWithClient(client).
		SetHeader("Accept", "application/vnd.api+json").
		SetHeader("x-api-key", apiKey)

	return &Fetcher{
		MaxAttempts:      DefaultMaxAttempts,
		ThrottleFallback: DefaultThrottleFallback,
		FailureBackoff:   DefaultFailureBackoff,
		client:           rc,
		logger:           logger.With().Str("component", "fetcher").Logger(),
		sleep:            sleepContext,
	}
}

// RateLimitHits is the number of throttling responses seen since the Fetcher was created.
func (f *Fetcher) RateLimitHits() int {
	return f.rateLimitHits
}

// Fetch returns the body of a successful GET on u.
func (f *Fetcher) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	target := u.String()
	maxAttempts := f.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempt := 0
	for {
		resp, err := f.client.R().SetContext(ctx).Get(target)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("itglue: request to %s abandoned: %w", target, context.Cause(ctx))
		}

		if err == nil && resp.StatusCode() == http.StatusTooManyRequests {
			f.rateLimitHits++
			wait := retryAfter(resp.Header().Get("Retry-After"), f.ThrottleFallback, time.Now())
			f.logger.Warn().
				Str("url", target).
				Dur("wait", wait).
				Int("rate_limit_hits", f.rateLimitHits).
				Msg("Rate limited, waiting before retry")
			if err := f.sleep(ctx, wait); err != nil {
				return nil, fmt.Errorf("itglue: interrupted while throttled on %s: %w", target, err)
			}
			continue
		}

		if err == nil && resp.IsSuccess() {
			return resp.Body(), nil
		}

		if err == nil {
			err = &StatusError{StatusCode: resp.StatusCode(), Status: resp.Status()}
		}

		attempt++
		f.logger.Warn().
			Err(err).
			Str("url", target).
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Msg("Request failed")

		if attempt >= maxAttempts {
			return nil, &ExhaustedError{URL: target, Attempts: attempt, Err: err}
		}

		if err := f.sleep(ctx, f.FailureBackoff); err != nil {
			return nil, fmt.Errorf("itglue: interrupted while retrying %s: %w", target, err)
		}
	}
}

// retryAfter reads a Retry-After header given either as delay-seconds or as an HTTP date.
func retryAfter(header string, fallback time.Duration, now time.Time) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return fallback
	}

	if secs, err := strconv.Atoi(header); err == nil {
		if secs < 0 {
			return fallback
		}
		return time.Duration(secs) * time.Second
	}

	if when, err := http.ParseTime(header); err == nil {
		if d := when.Sub(now); d > 0 {
			return d
		}
		return 0
	}

	return fallback
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-t.C:
		return nil
	}
}
