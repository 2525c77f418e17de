package middleware_test

import (
	"io"
	"net/http"
	"strings"

	"apistatus/internal/httpclient/middleware"
)

// respond returns a round tripper that answers every request with status
// and body, recording the last request it saw.
func respond(status int, body string, seen **http.Request) http.RoundTripper {
	return middleware.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if seen != nil {
			*seen = r
		}
		return &http.Response{
			StatusCode: status,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	})
}

func newRequest(method, url string) *http.Request {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		panic(err)
	}
	return req
}
