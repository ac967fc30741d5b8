package llm

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RateLimitBackoff decides whether and how long to wait after a rate-limited
// model call.
type RateLimitBackoff struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func NewRateLimitBackoff() *RateLimitBackoff {
	return &RateLimitBackoff{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

func containsRateLimitPhrases(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "rate limit") ||
		strings.Contains(s, "too many requests") ||
		strings.Contains(s, "resource_exhausted") ||
		(strings.Contains(s, "quota") && strings.Contains(s, "exceeded"))
}

// IsRateLimitError checks if an error or HTTP response indicates a rate limit
func (b *RateLimitBackoff) IsRateLimitError(err error, resp *http.Response) bool {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "status 429") || containsRateLimitPhrases(s)
}

// CalculateBackoffDelay prefers a Retry-After header and falls back to
// exponential backoff.
func (b *RateLimitBackoff) CalculateBackoffDelay(resp *http.Response, attempt int) time.Duration {
	if resp != nil {
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil {
				return b.capDelay(time.Duration(seconds) * time.Second)
			}
		}
	}
	return b.capDelay(b.BaseDelay * time.Duration(math.Pow(2, float64(attempt))))
}

func (b *RateLimitBackoff) capDelay(delay time.Duration) time.Duration {
	if delay > b.MaxDelay {
		return b.MaxDelay
	}
	if delay < 0 {
		return b.BaseDelay
	}
	return delay
}

// ShouldRetry determines if we should retry based on attempt count
func (b *RateLimitBackoff) ShouldRetry(attempt int) bool {
	return attempt < b.MaxRetries
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
