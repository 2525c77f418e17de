package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"apistatus/internal/domain"
	"apistatus/internal/platform/telemetry"
)

const (
	defaultTimeout      = 15 * time.Second
	defaultMaxErrorBody = 64 << 10 // 64KB
)

// Options configures a Client. The zero value is usable.
type Options struct {
	// Timeout bounds each request, including reading the headers.
	Timeout time.Duration
	// Transport is the round tripper requests are sent through, usually a
	// middleware chain. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
	// MaxErrorBody caps how much of a failed response body is kept.
	MaxErrorBody int64
	// Metrics is optional; nil skips metric recording.
	Metrics *telemetry.ClientMetrics
}

// Client sends requests to a single API and runs every outcome through its
// response interceptors. Responses outside [200, 300) are failures.
type Client struct {
	baseURL      *url.URL
	http         *http.Client
	maxErrorBody int64
	metrics      *telemetry.ClientMetrics
	responses    InterceptorManager
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse base URL: %q is not absolute", baseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if opts.MaxErrorBody <= 0 {
		opts.MaxErrorBody = defaultMaxErrorBody
	}
	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		maxErrorBody: opts.MaxErrorBody,
		metrics:      opts.Metrics,
	}, nil
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ResponseInterceptors returns the hooks every response passes through.
func (c *Client) ResponseInterceptors() *InterceptorManager {
	return &c.responses
}

// Get issues a GET for path relative to the base URL.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.Do(req)
}

// Do sends req and passes the outcome through the response interceptors.
// Failures are returned as *ClientError unless a hook replaced them.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.send(req)
	if err != nil {
		code := ""
		if ce, ok := AsClientError(err); ok {
			code = ce.Code
		}
		c.metrics.RecordClientError(req.Context(), code)
	}

	resp, err = c.responses.run(resp, err)
	if resp == nil && err == nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, domain.ErrNoResponse)
	}
	return resp, err
}

// Transport adapts the client, hooks included, to an http.RoundTripper so
// it can be handed to code that expects a plain *http.Client. Failed
// requests surface as round-trip errors.
func (c *Client) Transport() http.RoundTripper {
	return roundTripperFunc(c.Do)
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newTransportError(req, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	// A truncated body is fine; the status is what matters.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, c.maxErrorBody))
	return nil, newStatusError(req, &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       body,
	})
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(c.baseURL.String(), "/") + "/" + strings.TrimPrefix(path, "/")
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
