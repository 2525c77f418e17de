package probe_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"apistatus/internal/httpclient"
	"apistatus/internal/mockapi"
	"apistatus/internal/probe"
	"apistatus/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProbe(t *testing.T, baseURL string) *probe.Probe {
	t.Helper()
	client, err := httpclient.New(baseURL, httpclient.Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return probe.New(client, "/health", quietLogger())
}

func TestCheckStatuses(t *testing.T) {
	tests := []struct {
		mode   mockapi.Mode
		status int
		ok     bool
		code   string
	}{
		{mockapi.ModeOK, http.StatusOK, true, ""},
		{mockapi.ModeAuth, http.StatusUnauthorized, false, httpclient.CodeBadRequest},
		{mockapi.ModeError, http.StatusServiceUnavailable, false, httpclient.CodeBadResponse},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			srv := httptest.NewServer(mockapi.New(tt.mode))
			defer srv.Close()

			res := newProbe(t, srv.URL).Check(context.Background())
			if res.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, res.Status)
			}
			if res.OK() != tt.ok {
				t.Errorf("expected OK() = %v, err %v", tt.ok, res.Err)
			}
			if res.Code() != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, res.Code())
			}
			if res.CheckedAt.IsZero() {
				t.Error("expected CheckedAt to be set")
			}
		})
	}
}

func TestCheckUnreachable(t *testing.T) {
	res := newProbe(t, "http://"+testutil.FreeAddr(t)).Check(context.Background())

	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Status != 0 {
		t.Errorf("expected no status, got %d", res.Status)
	}
	if res.Code() != httpclient.CodeNetwork {
		t.Errorf("expected ERR_NETWORK, got %q", res.Code())
	}
}

func TestRunReportsUntilCancelled(t *testing.T) {
	srv := httptest.NewServer(mockapi.New(mockapi.ModeOK))
	defer srv.Close()
	p := newProbe(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	var results []probe.Result
	done := make(chan struct{})
	go func() {
		p.Run(ctx, 10*time.Millisecond, func(r probe.Result) {
			mu.Lock()
			results = append(results, r)
			n := len(results)
			mu.Unlock()
			if n == 3 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(results) < 3 {
		t.Errorf("expected at least 3 results, got %d", len(results))
	}
	for i, r := range results[:3] {
		if !r.OK() {
			t.Errorf("result %d: unexpected error %v", i, r.Err)
		}
	}
}
