package client

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig holds retry configuration
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 3)
	MaxRetries int

	// InitialBackoff is the initial backoff duration (default: 100ms)
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration (default: 10s)
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff (default: 2.0)
	BackoffMultiplier float64

	// Jitter adds randomness to backoff (default: true)
	Jitter bool

	// RetryableStatusCodes are HTTP status codes that trigger retries
	RetryableStatusCodes map[int]bool

	// Enabled indicates whether retries are enabled
	Enabled bool
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
		RetryableStatusCodes: map[int]bool{
			http.StatusRequestTimeout:      true, // 408
			http.StatusTooManyRequests:     true, // 429
			http.StatusInternalServerError: true, // 500
			http.StatusBadGateway:          true, // 502
			http.StatusServiceUnavailable:  true, // 503
			http.StatusGatewayTimeout:      true, // 504
		},
		Enabled: true,
	}
}

// shouldRetry determines if a request should be retried based on status code
func (rc *RetryConfig) shouldRetry(statusCode int) bool {
	if !rc.Enabled {
		return false
	}
	return rc.RetryableStatusCodes[statusCode]
}

// backoffDuration calculates the delay before the given attempt is retried.
// A 429 response carrying a Retry-After hint overrides the computed backoff.
func (rc *RetryConfig) backoffDuration(attempt int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		if d, ok := retryAfterHint(resp); ok {
			return d
		}
	}

	backoff := float64(rc.InitialBackoff) * math.Pow(rc.BackoffMultiplier, float64(attempt))
	if backoff > float64(rc.MaxBackoff) {
		backoff = float64(rc.MaxBackoff)
	}

	if rc.Jitter {
		// Up to 25% random jitter
		backoff += backoff * 0.25 * rand.Float64()
	}

	return time.Duration(backoff)
}

// retryAfterHint parses the Retry-After header, which is either a delay in
// seconds or an HTTP date
func retryAfterHint(resp *http.Response) (time.Duration, bool) {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := time.Until(at); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

// retryWithBackoff executes fn with retry logic, invoking onRetry before
// each re-attempt. Only request establishment is retried; the caller never
// reaches here for a stream that already produced events.
func retryWithBackoff(ctx context.Context, config *RetryConfig, onRetry func(), fn func() (*http.Response, error)) (*http.Response, error) {
	if config == nil || !config.Enabled {
		return fn()
	}

	var lastErr error
	var resp *http.Response

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		resp, lastErr = fn()

		if lastErr == nil && resp != nil {
			if !config.shouldRetry(resp.StatusCode) {
				return resp, nil
			}
		}

		// Don't sleep after the last attempt
		if attempt < config.MaxRetries {
			delay := config.backoffDuration(attempt, resp)
			if resp != nil && resp.Body != nil {
				resp.Body.Close()
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			if onRetry != nil {
				onRetry()
			}
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return resp, nil
}
