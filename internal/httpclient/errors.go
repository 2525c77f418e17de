package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
)

// Error codes carried by ClientError.Code.
const (
	CodeNetwork     = "ERR_NETWORK"
	CodeTimeout     = "ECONNABORTED"
	CodeCanceled    = "ERR_CANCELED"
	CodeBadRequest  = "ERR_BAD_REQUEST"
	CodeBadResponse = "ERR_BAD_RESPONSE"
)

// Response is the part of a failed response kept on a ClientError.
// The body is read (up to a limit) and closed before the error is returned.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// ClientError is returned by Client for every failed request: transport
// failures carry only a Code, status failures also carry the Response.
type ClientError struct {
	Code     string
	Message  string
	Method   string
	URL      string
	Request  *http.Request
	Response *Response
	Err      error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// StatusCode returns the response status, if a response was received.
func (e *ClientError) StatusCode() (int, bool) {
	if e.Response == nil {
		return 0, false
	}
	return e.Response.StatusCode, true
}

// AsClientError reports whether err is, or wraps, a *ClientError.
func AsClientError(err error) (*ClientError, bool) {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func newStatusError(req *http.Request, resp *Response) *ClientError {
	code := CodeBadRequest
	if resp.StatusCode >= 500 {
		code = CodeBadResponse
	}
	return &ClientError{
		Code:     code,
		Message:  fmt.Sprintf("request failed with status code %d", resp.StatusCode),
		Method:   req.Method,
		URL:      req.URL.String(),
		Request:  req,
		Response: resp,
	}
}

func newTransportError(req *http.Request, err error) *ClientError {
	return &ClientError{
		Code:    transportCode(err),
		Message: err.Error(),
		Method:  req.Method,
		URL:     req.URL.String(),
		Request: req,
		Err:     err,
	}
}

// transportCode maps a round-trip failure to an error code. Failures that
// are not network related get an empty code.
func transportCode(err error) string {
	if errors.Is(err, context.Canceled) {
		return CodeCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}

	// *url.Error implements net.Error itself, so look underneath it.
	inner := err
	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() {
			return CodeTimeout
		}
		inner = ue.Err
	}

	var ne net.Error
	if errors.As(inner, &ne) {
		if ne.Timeout() {
			return CodeTimeout
		}
		return CodeNetwork
	}
	if errors.Is(inner, io.EOF) || errors.Is(inner, io.ErrUnexpectedEOF) ||
		errors.Is(inner, syscall.ECONNRESET) || errors.Is(inner, syscall.ECONNREFUSED) {
		return CodeNetwork
	}
	return ""
}
