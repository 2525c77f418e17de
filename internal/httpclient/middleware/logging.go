package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"apistatus/internal/httpclient"
)

// Logging returns a middleware that logs each round trip using slog.
// Failures and responses >= 400 are logged at warn level.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.RoundTrip(r)

			status := 0
			if resp != nil {
				status = resp.StatusCode
			}
			level := slog.LevelInfo
			if err != nil || status >= 400 {
				level = slog.LevelWarn
			}
			attrs := []any{
				"method", r.Method,
				"url", r.URL.String(),
				"status", status,
				"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
				"request_id", httpclient.RequestIDFromContext(r.Context()),
			}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
			}
			logger.Log(r.Context(), level, "api request", attrs...)

			return resp, err
		})
	}
}
