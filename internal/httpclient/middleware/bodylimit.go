package middleware

import (
	"fmt"
	"io"
	"net/http"

	"apistatus/internal/domain"
)

// MaxBodySize returns middleware that limits response bodies to maxBytes.
// Reading past the limit fails with domain.ErrBodyTooLarge.
func MaxBodySize(maxBytes int64) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(r)
			if err != nil || resp == nil || resp.Body == nil {
				return resp, err
			}
			resp.Body = &maxBytesBody{rc: resp.Body, remaining: maxBytes, limit: maxBytes}
			return resp, nil
		})
	}
}

type maxBytesBody struct {
	rc        io.ReadCloser
	remaining int64
	limit     int64
	err       error
}

func (b *maxBytesBody) Read(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	// Read one byte past the limit to tell "exactly at" from "over".
	if int64(len(p)) > b.remaining+1 {
		p = p[:b.remaining+1]
	}
	n, err := b.rc.Read(p)

	if int64(n) <= b.remaining {
		b.remaining -= int64(n)
		b.err = err
		return n, err
	}

	n = int(b.remaining)
	b.remaining = 0
	b.err = fmt.Errorf("%w: limit is %d bytes", domain.ErrBodyTooLarge, b.limit)
	return n, b.err
}

func (b *maxBytesBody) Close() error {
	return b.rc.Close()
}
