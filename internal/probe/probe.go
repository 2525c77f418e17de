// Package probe checks the API's health endpoint through the intercepted
// client, so a failing check is also what trips the API status toast.
package probe

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"apistatus/internal/httpclient"
)

// Getter is the part of *httpclient.Client a probe needs.
type Getter interface {
	Get(ctx context.Context, path string) (*http.Response, error)
}

// Result is the outcome of one health check.
type Result struct {
	// Status is the HTTP status, or 0 when no response arrived.
	Status    int
	Latency   time.Duration
	Err       error
	CheckedAt time.Time
}

// OK reports whether the check succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Code returns the client error code of a failed check, if any.
func (r Result) Code() string {
	if ce, ok := httpclient.AsClientError(r.Err); ok {
		return ce.Code
	}
	return ""
}

// Probe issues GET requests against a health path.
type Probe struct {
	client Getter
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// New creates a probe for path. A nil logger means slog.Default().
func New(client Getter, path string, logger *slog.Logger) *Probe {
	if logger == nil {
		logger = slog.Default()
	}
	return &Probe{client: client, path: path, logger: logger, now: time.Now}
}

// Check runs a single health check. Failures are reported in Result.Err.
func (p *Probe) Check(ctx context.Context) Result {
	start := p.now()
	resp, err := p.client.Get(ctx, p.path)
	res := Result{CheckedAt: start, Err: err}
	if resp != nil {
		res.Status = resp.StatusCode
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	} else if ce, ok := httpclient.AsClientError(err); ok {
		res.Status, _ = ce.StatusCode()
	}
	res.Latency = p.now().Sub(start)

	if err != nil {
		p.logger.Debug("health check failed", "path", p.path, "status", res.Status, "code", res.Code(), "error", err)
	} else {
		p.logger.Debug("health check ok", "path", p.path, "status", res.Status, "latency_ms", res.Latency.Milliseconds())
	}
	return res
}

// Run checks every interval until ctx is done, delivering each result to
// report. The first check runs immediately.
func (p *Probe) Run(ctx context.Context, interval time.Duration, report func(Result)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		report(p.Check(ctx))
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
