package github

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	defaultRateLimit     = 5000
	defaultRetryAttempts = 3
	defaultBaseDelay     = 1 * time.Second
	defaultMaxDelay      = 60 * time.Second
)

// RateLimitStatus represents the current rate limit status.
type RateLimitStatus struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
	Used      int       `json:"used"`
}

// RateLimitTracker tracks rate limit information from GitHub API responses.
type RateLimitTracker struct {
	mu    sync.RWMutex
	limit RateLimitStatus
}

// NewRateLimitTracker creates a new rate limit tracker.
func NewRateLimitTracker() *RateLimitTracker {
	return &RateLimitTracker{
		limit: RateLimitStatus{
			Limit: defaultRateLimit,
		},
	}
}

// Update updates the rate limit status from HTTP response headers.
func (r *RateLimitTracker) Update(resp *http.Response) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit := resp.Header.Get("X-RateLimit-Limit"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit.Limit = val
		}
	}

	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.limit.Remaining = val
		}
	}

	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.limit.Reset = time.Unix(val, 0)
		}
	}

	if used := resp.Header.Get("X-RateLimit-Used"); used != "" {
		if val, err := strconv.Atoi(used); err == nil {
			r.limit.Used = val
		}
	}
}

// GetStatus returns a copy of the current rate limit status.
func (r *RateLimitTracker) GetStatus() RateLimitStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.limit
}

// WaitForRateLimitReset waits until the rate limit resets if no requests
// remain. The wait is bounded by the context.
func (r *RateLimitTracker) WaitForRateLimitReset(ctx context.Context) error {
	r.mu.RLock()
	reset := r.limit.Reset
	remaining := r.limit.Remaining
	r.mu.RUnlock()

	if remaining > 0 || reset.IsZero() {
		return nil
	}

	waitDuration := time.Until(reset)
	if waitDuration <= 0 {
		return nil
	}

	select {
	case <-time.After(waitDuration):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryConfig configures retry behavior with exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the backoff growth.
	MaxDelay time.Duration
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: defaultRetryAttempts,
		BaseDelay:   defaultBaseDelay,
		MaxDelay:    defaultMaxDelay,
	}
}

// GetDelay returns the backoff delay for the given retry (zero-based), with
// jitter.
func (c *RetryConfig) GetDelay(retry int) time.Duration {
	delay := c.BaseDelay << uint(retry)
	if delay > c.MaxDelay || delay <= 0 {
		delay = c.MaxDelay
	}

	// Up to 25% jitter to avoid thundering herds.
	jitter := time.Duration(rand.Int63n(int64(delay) / 4))
	return delay + jitter
}

// ShouldRetry reports whether a status code warrants a retry.
func (c *RetryConfig) ShouldRetry(statusCode int) bool {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return true
	case statusCode >= 500 && statusCode != http.StatusNotImplemented:
		return true
	default:
		return false
	}
}

// IsRetryableError reports whether a transport error is worth retrying.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return errors.Is(err, context.DeadlineExceeded)
}
