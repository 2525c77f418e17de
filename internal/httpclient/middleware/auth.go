package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const maxClockSkew = 30 * time.Second

// Auth returns a middleware that sends token as a bearer credential.
// Requests that already carry an Authorization header are left alone and an
// empty token disables the middleware.
//
// API keys are opaque, but when the token is a JWT whose exp has passed a
// warning is logged up front: every request is going to come back 401.
func Auth(token string, logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	if exp, ok := tokenExpiry(token); ok && time.Now().After(exp.Add(maxClockSkew)) {
		logger.Warn("api token has expired", "expired_at", exp.Format(time.RFC3339))
	}

	return func(next http.RoundTripper) http.RoundTripper {
		if token == "" {
			return next
		}
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("Authorization") != "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(r)
		})
	}
}

// tokenExpiry reads the exp claim of a JWT without verifying its signature;
// the API does the verifying.
func tokenExpiry(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
