package github

import (
	"context"
	"errors"
	"net/url"
	"time"

	gh "github.com/google/go-github/v68/github"
)

// do executes one API call with bounded retries. Any failure counts: network
// errors, timeouts and non-2xx responses all surface from go-github as
// errors. The pause before retry k is retryBase * 2^(k-1); exhausting the
// attempt ceiling yields an *APIError carrying the attempt count. Each call
// retries independently, there is no circuit state shared between calls.
func do[T any](ctx context.Context, c *Client, op string, call func() (T, *gh.Response, error)) (T, error) {
	var zero T
	var lastErr error
	var lastURL string

	for attempt := 1; ; attempt++ {
		if err := c.bucket.Wait(ctx); err != nil {
			return zero, err
		}

		v, resp, err := call()
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		lastErr = err
		lastURL = requestURL(resp, err)
		if attempt >= c.maxAttempts {
			break
		}

		delay := c.backoff(attempt)
		c.log.Warn("request failed, retrying",
			"op", op,
			"url", lastURL,
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"wait", delay,
			"error", err,
		)
		if err := c.sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	c.log.Error("request failed after all attempts",
		"op", op,
		"url", lastURL,
		"attempts", c.maxAttempts,
		"error", lastErr,
	)
	return zero, &APIError{URL: lastURL, Attempts: c.maxAttempts, Err: lastErr}
}

// backoff returns the pause before retry k (1-indexed).
func (c *Client) backoff(k int) time.Duration {
	return c.retryBase << (k - 1)
}

func requestURL(resp *gh.Response, err error) string {
	if resp != nil && resp.Response != nil && resp.Request != nil {
		return resp.Request.URL.String()
	}
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.Request != nil {
		return ghErr.Response.Request.URL.String()
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.URL
	}
	return ""
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
