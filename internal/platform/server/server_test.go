package server_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"apistatus/internal/platform/server"
	"apistatus/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServerStartAndShutdown(t *testing.T) {
	addr := testutil.FreeAddr(t)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	srv := server.New("test", addr, mux, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx)
	}()

	testutil.WaitForReady(t, "http://"+addr+"/ping")

	resp, err := http.Get("http://" + addr + "/ping")
	if err != nil {
		t.Fatalf("server should be running: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("server shutdown error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestShutdownReleasesBlockedHandlers(t *testing.T) {
	addr := testutil.FreeAddr(t)

	entered := make(chan struct{}, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})
	mux.HandleFunc("GET /block", func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		<-r.Context().Done()
	})

	srv := server.New("test", addr, mux, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx)
	}()
	testutil.WaitForReady(t, "http://"+addr+"/ping")

	go http.Get("http://" + addr + "/block")
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("blocking handler was not reached")
	}

	start := time.Now()
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("server shutdown error: %v", err)
		}
		if time.Since(start) > 3*time.Second {
			t.Errorf("shutdown waited too long for the blocked handler: %s", time.Since(start))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestRunReturnsListenError(t *testing.T) {
	srv := server.New("test", "256.0.0.1:0", http.NewServeMux(), quietLogger())

	select {
	case err := <-runAsync(srv):
		if err == nil {
			t.Error("expected listen error for an invalid address")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func runAsync(srv *server.Server) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- srv.Run(context.Background()) }()
	return ch
}
