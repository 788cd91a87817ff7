package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dmitrymomot/sitekit/pkg/telemetry"
)

// ErrUnexpectedStatus is returned by Healthcheck for a non-2xx response.
var ErrUnexpectedStatus = errors.New("httpclient: unexpected status")

// Client is the process-wide outbound HTTP client.
// It embeds *resty.Client so every resty method is available directly.
type Client struct {
	*resty.Client
}

// Option configures New.
type Option func(*resty.Client)

// WithTimeout sets the per-request timeout. Default: 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithRetry retries failed requests count times, waiting at least wait between attempts.
func WithRetry(count int, wait time.Duration) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(count).SetRetryWaitTime(wait)
	}
}

// WithUserAgent sets the User-Agent header of every request.
func WithUserAgent(ua string) Option {
	return func(c *resty.Client) { c.SetHeader("User-Agent", ua) }
}

// WithTransport replaces the round tripper. It is still wrapped for tracing.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *resty.Client) { c.SetTransport(telemetry.Transport(rt)) }
}

// New creates a client whose requests are traced with OpenTelemetry.
func New(opts ...Option) *Client {
	c := resty.New().
		SetTimeout(10 * time.Second).
		SetTransport(telemetry.Transport(nil))
	for _, opt := range opts {
		opt(c)
	}
	return &Client{Client: c}
}

// Healthcheck returns a check that GETs url and expects a 2xx status.
func Healthcheck(c *Client, url string) func(context.Context) error {
	return func(ctx context.Context) error {
		resp, err := c.R().SetContext(ctx).Get(url)
		if err != nil {
			return fmt.Errorf("httpclient: GET %s: %w", url, err)
		}
		if !resp.IsSuccess() {
			return fmt.Errorf("%w: GET %s returned %d", ErrUnexpectedStatus, url, resp.StatusCode())
		}
		return nil
	}
}
