package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"apistatus/internal/domain"
	"apistatus/internal/httpclient"
)

// Recovery turns a panic in a downstream round tripper into an error
// wrapping domain.ErrTransportPanic.
func Recovery(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (resp *http.Response, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered",
					"error", rec,
					"url", r.URL.String(),
					"request_id", httpclient.RequestIDFromContext(r.Context()),
					"stack", string(debug.Stack()),
				)
				resp = nil
				err = fmt.Errorf("%w: %v", domain.ErrTransportPanic, rec)
			}
		}()
		return next.RoundTrip(r)
	})
}
