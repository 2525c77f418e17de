package middleware

import "net/http"

// Middleware is a function that wraps an http.RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts an ordinary function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Chain applies middleware in order: the first middleware is the outermost wrapper.
func Chain(rt http.RoundTripper, mw ...Middleware) http.RoundTripper {
	for i := len(mw) - 1; i >= 0; i-- {
		rt = mw[i](rt)
	}
	return rt
}
