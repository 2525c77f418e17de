// Package mockapi is a fake API whose health can be switched at runtime.
// It backs cmd/mockapi and the end-to-end tests.
package mockapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"apistatus/internal/domain"
)

// Mode is the behavior of the API's endpoints.
type Mode string

const (
	ModeOK        Mode = "ok"
	ModeAuth      Mode = "auth"      // 401
	ModeForbidden Mode = "forbidden" // 403
	ModeError     Mode = "error"     // 503
	ModeNotFound  Mode = "notfound"  // 404
	ModeHang      Mode = "hang"      // block until the client gives up
)

var modeStatus = map[Mode]int{
	ModeOK:        http.StatusOK,
	ModeAuth:      http.StatusUnauthorized,
	ModeForbidden: http.StatusForbidden,
	ModeError:     http.StatusServiceUnavailable,
	ModeNotFound:  http.StatusNotFound,
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := modeStatus[m]; ok || m == ModeHang {
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// API is an http.Handler serving GET /health and POST /admin/mode.
type API struct {
	mux  *http.ServeMux
	hits atomic.Int64

	mu   sync.RWMutex
	mode Mode
}

// New creates an API starting in the given mode.
func New(mode Mode) *API {
	a := &API{mux: http.NewServeMux(), mode: mode}
	a.mux.HandleFunc("GET /health", a.health)
	a.mux.HandleFunc("POST /admin/mode", a.setMode)
	return a
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// SetMode switches the API's behavior for subsequent requests.
func (a *API) SetMode(m Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = m
}

// Mode returns the current behavior.
func (a *API) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// Hits returns how many health requests were served.
func (a *API) Hits() int64 {
	return a.hits.Load()
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	a.hits.Add(1)

	mode := a.Mode()
	if mode == ModeHang {
		<-r.Context().Done()
		return
	}

	status := modeStatus[mode]
	if status == http.StatusOK {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	writeJSON(w, status, domain.ErrorResponse{
		Error:   string(mode),
		Message: http.StatusText(status),
	})
}

func (a *API) setMode(w http.ResponseWriter, r *http.Request) {
	mode, err := ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}
	a.SetMode(mode)
	slog.Info("mock api mode changed", "mode", mode)
	writeJSON(w, http.StatusOK, map[string]string{"mode": string(mode)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}
