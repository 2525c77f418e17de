package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"apistatus/internal/httpclient/middleware"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	rt := middleware.Logging(logger)(respond(http.StatusOK, "ok", nil))
	if _, err := rt.RoundTrip(newRequest(http.MethodGet, "http://api.local/health")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("parsing log output: %v\nraw: %s", err, buf.String())
	}

	if logEntry["method"] != "GET" {
		t.Errorf("expected method GET, got %v", logEntry["method"])
	}
	if logEntry["url"] != "http://api.local/health" {
		t.Errorf("expected url, got %v", logEntry["url"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("expected INFO level, got %v", logEntry["level"])
	}
	status, ok := logEntry["status"].(float64)
	if !ok || int(status) != 200 {
		t.Errorf("expected status 200, got %v", logEntry["status"])
	}
	if _, ok := logEntry["duration_ms"]; !ok {
		t.Error("expected duration_ms in log output")
	}
}

func TestLoggingWarnsOnFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	failing := middleware.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	rt := middleware.Logging(logger)(failing)
	rt.RoundTrip(newRequest(http.MethodGet, "http://api.local/health"))

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("parsing log output: %v\nraw: %s", err, buf.String())
	}
	if logEntry["level"] != "WARN" {
		t.Errorf("expected WARN level, got %v", logEntry["level"])
	}
	if logEntry["error"] != "connection refused" {
		t.Errorf("expected error in log, got %v", logEntry["error"])
	}
}
