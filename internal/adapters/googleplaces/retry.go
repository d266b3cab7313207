package googleplaces

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultMaxRetries  = 3
	defaultBaseBackoff = 500 * time.Millisecond
)

// SetRetryPolicy overrides the retry budget and base backoff for transient
// failures. Non-positive values keep the current policy.
func (c *Client) SetRetryPolicy(maxRetries int, baseBackoff time.Duration) {
	if maxRetries > 0 {
		c.maxRetries = maxRetries
	}
	if baseBackoff > 0 {
		c.baseBackoff = baseBackoff
	}
}

// doRequestWithRetry issues the request, retrying transient failures with
// exponential backoff. Every request through here is a body-less GET, so
// attempts can be repeated without replaying a body.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("places adapter: request canceled: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		retryAfter, retry := shouldRetry(resp, err)
		if !retry {
			return resp, err
		}

		if err != nil {
			log.Printf("WARN places adapter: retry attempt %d/%d after error: %v", attempt, c.maxRetries, err)
		} else {
			log.Printf("WARN places adapter: retry attempt %d/%d after status %d", attempt, c.maxRetries, resp.StatusCode)
			_ = resp.Body.Close()
		}

		if attempt >= c.maxRetries {
			if err != nil {
				return nil, fmt.Errorf("places adapter: request failed after %d attempts: %w", c.maxRetries, err)
			}
			return nil, fmt.Errorf("places adapter: request failed after %d attempts: status %d", c.maxRetries, resp.StatusCode)
		}

		backoff := c.baseBackoff * time.Duration(1<<(attempt-1))
		if retryAfter > 0 {
			backoff = retryAfter
		}

		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, err
		}
	}
}

func shouldRetry(resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, true
	}
	if resp == nil {
		return 0, false
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return parseRetryAfter(resp), true
	}

	return 0, false
}

func parseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(retryAfter); err == nil {
		until := time.Until(when)
		if until > 0 {
			return until
		}
	}

	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("places adapter: request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
