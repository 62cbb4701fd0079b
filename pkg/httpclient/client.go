// Package httpclient performs single-attempt JSON GET requests against
// upstream APIs and classifies their failures.
package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/weathermcp/pkg/metricskey"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/weathermcp/pkg", "httpclient")

// DefaultTimeout is applied when Config.Timeout is not set
const DefaultTimeout = 30 * time.Second

// maxBodySize limits the response body read from upstream
const maxBodySize = 8 << 20

// Config is the immutable configuration of the Client
type Config struct {
	// Timeout for the whole request, including reading the body
	Timeout time.Duration
	// UserAgent is sent with each request, if set
	UserAgent string
}

// Fetcher issues a GET request and decodes the JSON response into out.
type Fetcher interface {
	FetchJSON(ctx context.Context, endpoint string, params url.Values, out any) error
}

// Client implements Fetcher over net/http
type Client struct {
	httpClient *http.Client
	userAgent  string
}

var _ Fetcher = (*Client)(nil)

// New returns a Client
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  cfg.UserAgent,
	}
}

// Timeout returns the configured request timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// FetchJSON performs a single GET of endpoint with params appended to its query,
// and decodes the JSON body into out.
// The returned error is *Error for any upstream failure.
func (c *Client) FetchJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return errors.Wrapf(err, "invalid endpoint: %s", endpoint)
	}
	q := u.Query()
	for k, vals := range params {
		for _, v := range vals {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	target := u.String()
	host := u.Host

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	started := time.Now()
	defer metricskey.PerfUpstreamCall.MeasureSince(started, host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.failed(ctx, host, &Error{Kind: classify(err), URL: target, Err: err})
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return c.failed(ctx, host, &Error{
			Kind:       KindStatus,
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        errors.Newf("%s", resp.Status),
		})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return c.failed(ctx, host, &Error{Kind: classify(err), URL: target, Err: err})
	}
	if err = json.Unmarshal(body, out); err != nil {
		return c.failed(ctx, host, &Error{Kind: KindDecode, URL: target, Err: err})
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"host", host,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(started).String(),
	)
	return nil
}

func (c *Client) failed(ctx context.Context, host string, e *Error) error {
	metricskey.StatsUpstreamErrors.IncrCounter(1, host, string(e.Kind))
	logger.ContextKV(ctx, xlog.WARNING,
		"host", host,
		"kind", e.Kind,
		"err", e.Error(),
	)
	return errors.WithStack(e)
}

func classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}
