// Package fetch is the single place the engine touches the network: one GET
// with a timeout, bounded retries with exponential backoff, and per-host rate
// limiting. Adapters never build their own http.Client.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const userAgent = "PartScout/1.0 (+local)"

// Error is returned when all retries for a URL are exhausted. Err carries the
// last underlying cause.
type Error struct {
	URL      string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Client struct {
	hc         *http.Client
	limiter    *HostLimiter
	maxRetries int
	baseDelay  time.Duration
}

type Options struct {
	MaxRetries int           // default 3
	Timeout    time.Duration // per-request, default 30s
	BaseDelay  time.Duration // backoff unit, default 1s
	Limiter    *HostLimiter  // optional
}

func New(opts Options) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second
	}
	return &Client{
		hc:         &http.Client{Timeout: opts.Timeout},
		limiter:    opts.Limiter,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
	}
}

// Get fetches a URL, retrying transport-level failures (including non-2xx
// statuses) with 2^attempt backoff. An empty 2xx body is returned as-is:
// emptiness is a content-level concern for the adapter, not a transport
// failure. Backoff sleeps only suspend this call, never a shared resource.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.baseDelay << (attempt - 1)
			log.Printf("[fetch] retry %d for %s in %s (last: %v)", attempt, url, wait, lastErr)
			select {
			case <-ctx.Done():
				return nil, &Error{URL: url, Attempts: attempt, Err: ctx.Err()}
			case <-time.After(wait):
			}
		}

		body, err := c.once(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return nil, &Error{URL: url, Attempts: c.maxRetries, Err: lastErr}
}

func (c *Client) once(ctx context.Context, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, url); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}

	return io.ReadAll(res.Body)
}
