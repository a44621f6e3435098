// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// Client wraps http.Client with a token-bucket rate limiter, a default
// User-Agent, and retry on rate-limited responses. It is safe for
// concurrent use.
type Client struct {
	HTTP       *http.Client
	Limiter    *rate.Limiter
	UserAgent  string
	MaxRetries int
}

// NewClient returns a client allowing ratePerSecond sustained requests with
// the given burst. A non-positive rate disables limiting.
func NewClient(httpClient *http.Client, ratePerSecond float64, burst int, userAgent string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{HTTP: httpClient, UserAgent: userAgent}
	if ratePerSecond > 0 {
		if burst <= 0 {
			burst = 1
		}
		c.Limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}
	return c
}

// Do waits for the limiter, sets the User-Agent when the request has none,
// and executes the request with DoWithRetry.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}
	if req.Header.Get("User-Agent") == "" && c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	return DoWithRetry(ctx, c.HTTP, req, c.MaxRetries)
}
