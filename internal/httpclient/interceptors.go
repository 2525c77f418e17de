package httpclient

import (
	"net/http"
	"sync"
)

// FulfilledHandler observes or replaces a successful response.
type FulfilledHandler func(*http.Response) (*http.Response, error)

// RejectedHandler observes, replaces or recovers a failed request.
// Returning the error unchanged keeps the request failed.
type RejectedHandler func(error) (*http.Response, error)

type interceptor struct {
	fulfilled FulfilledHandler
	rejected  RejectedHandler
}

// InterceptorManager holds the response hooks of a Client.
// Hooks run in registration order; each sees the outcome left by the
// previous one, so a rejected handler that returns a response recovers
// the request and a fulfilled handler that returns an error fails it.
type InterceptorManager struct {
	mu       sync.RWMutex
	handlers []*interceptor // ejected slots are nil so ids stay stable
}

// Use registers a pair of handlers and returns a handle for Eject.
// Either handler may be nil to pass that outcome through.
func (m *InterceptorManager) Use(fulfilled FulfilledHandler, rejected RejectedHandler) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, &interceptor{fulfilled: fulfilled, rejected: rejected})
	return len(m.handlers) - 1
}

// Eject removes the handlers registered under id. Unknown ids are ignored.
// Requests already running their hooks are not affected.
func (m *InterceptorManager) Eject(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id >= 0 && id < len(m.handlers) {
		m.handlers[id] = nil
	}
}

// Len returns the number of registered (not ejected) handler pairs.
func (m *InterceptorManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, h := range m.handlers {
		if h != nil {
			n++
		}
	}
	return n
}

func (m *InterceptorManager) snapshot() []*interceptor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*interceptor, 0, len(m.handlers))
	for _, h := range m.handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// run passes an outcome through every registered hook. The lock is not
// held while handlers execute, so a handler may Eject itself.
func (m *InterceptorManager) run(resp *http.Response, err error) (*http.Response, error) {
	for _, h := range m.snapshot() {
		if err == nil {
			if h.fulfilled != nil {
				resp, err = h.fulfilled(resp)
			}
			continue
		}
		if h.rejected != nil {
			resp, err = h.rejected(err)
		}
	}
	return resp, err
}
