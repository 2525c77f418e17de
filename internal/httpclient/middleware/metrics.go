package middleware

import (
	"net/http"
	"time"

	"apistatus/internal/platform/telemetry"
)

// Metrics returns middleware that records request metrics.
// Place as the outermost middleware to capture the full round trip.
func Metrics(m *telemetry.ClientMetrics) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.RoundTrip(r)

			status := 0
			if err == nil && resp != nil {
				status = resp.StatusCode
			}
			m.RecordRequest(r.Context(), r.Method, r.URL.Host, status, time.Since(start).Seconds())
			return resp, err
		})
	}
}
