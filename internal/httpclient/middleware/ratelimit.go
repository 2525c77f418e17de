package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"apistatus/internal/domain"
	"apistatus/internal/httpclient"
	"apistatus/internal/platform/telemetry"
)

// RateLimit returns middleware that enforces per-host rate limits on
// outgoing requests. A denied request never leaves the process: it gets a
// local 429 response carrying Retry-After.
func RateLimit(limiter httpclient.RateLimiter, m *telemetry.ClientMetrics) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			host := r.URL.Host
			if result := limiter.Allow(host); !result.Allowed {
				m.RecordRateLimitDecision(r.Context(), host, "denied")
				slog.Debug("request rate limited", "host", host, "retry_after", result.RetryAfter)
				return rateLimitedResponse(r, result.RetryAfter), nil
			}

			m.RecordRateLimitDecision(r.Context(), host, "allowed")
			return next.RoundTrip(r)
		})
	}
}

func rateLimitedResponse(r *http.Request, retryAfter int) *http.Response {
	body, err := json.Marshal(domain.ErrorResponse{
		Error:      "rate_limited",
		Message:    "too many requests",
		RetryAfter: retryAfter,
	})
	if err != nil {
		slog.Error("encoding error response", "error", err)
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	header.Set("Retry-After", strconv.Itoa(retryAfter))

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests)),
		StatusCode:    http.StatusTooManyRequests,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       r,
	}
}
