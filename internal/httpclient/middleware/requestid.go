package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"apistatus/internal/httpclient"
)

// RequestID stamps each outgoing request with an X-Request-ID header and
// stores it in the request context. An existing header is preserved.
func RequestID(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		r = r.Clone(httpclient.ContextWithRequestID(r.Context(), id))
		r.Header.Set("X-Request-ID", id)
		return next.RoundTrip(r)
	})
}
