package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// ShutdownFunc releases telemetry resources.
type ShutdownFunc func(ctx context.Context) error

// Setup initializes OpenTelemetry with a Prometheus exporter.
// Returns a shutdown function that must be called on exit.
func Setup(ctx context.Context, serviceName string) (ShutdownFunc, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	return provider.Shutdown, nil
}

// MetricsHandler returns an http.Handler that serves Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// ClientMetrics holds the OTel instruments for the API client and its
// status notifier. A nil *ClientMetrics is valid and records nothing.
type ClientMetrics struct {
	requestsTotal           otelmetric.Int64Counter
	requestDuration         otelmetric.Float64Histogram
	errorsTotal             otelmetric.Int64Counter
	interceptionsTotal      otelmetric.Int64Counter
	notificationsTotal      otelmetric.Int64Counter
	rateLimitDecisionsTotal otelmetric.Int64Counter
}

// NewClientMetrics creates and registers all client metrics.
func NewClientMetrics() (*ClientMetrics, error) {
	meter := otel.Meter("apistatus")
	m := &ClientMetrics{}
	var err error

	latencyBuckets := otelmetric.WithExplicitBucketBoundaries(
		0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0,
	)

	if m.requestsTotal, err = meter.Int64Counter("apistatus_client_requests_total",
		otelmetric.WithDescription("Total outgoing API requests")); err != nil {
		return nil, fmt.Errorf("creating client_requests_total: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("apistatus_client_request_duration_seconds",
		otelmetric.WithDescription("Outgoing API request duration"), latencyBuckets); err != nil {
		return nil, fmt.Errorf("creating client_request_duration: %w", err)
	}
	if m.errorsTotal, err = meter.Int64Counter("apistatus_client_errors_total",
		otelmetric.WithDescription("Total failed API requests by error code")); err != nil {
		return nil, fmt.Errorf("creating client_errors_total: %w", err)
	}
	if m.interceptionsTotal, err = meter.Int64Counter("apistatus_interceptions_total",
		otelmetric.WithDescription("Errors inspected by the status hook")); err != nil {
		return nil, fmt.Errorf("creating interceptions_total: %w", err)
	}
	if m.notificationsTotal, err = meter.Int64Counter("apistatus_notifications_total",
		otelmetric.WithDescription("API status notifications shown")); err != nil {
		return nil, fmt.Errorf("creating notifications_total: %w", err)
	}
	if m.rateLimitDecisionsTotal, err = meter.Int64Counter("apistatus_ratelimit_decisions_total",
		otelmetric.WithDescription("Total client-side rate limit decisions")); err != nil {
		return nil, fmt.Errorf("creating ratelimit_decisions_total: %w", err)
	}

	return m, nil
}

// RecordRequest records a completed round trip. status is 0 when no
// response was received.
func (m *ClientMetrics) RecordRequest(ctx context.Context, method, host string, status int, durationSec float64) {
	if m == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		methodAttr(method),
		hostAttr(host),
		statusAttr(status),
	)
	m.requestsTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, durationSec, attrs)
}

// RecordClientError records a request that the client rejected.
func (m *ClientMetrics) RecordClientError(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.errorsTotal.Add(ctx, 1, otelmetric.WithAttributes(codeAttr(code)))
}

// RecordInterception records whether the status hook matched an error.
func (m *ClientMetrics) RecordInterception(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.interceptionsTotal.Add(ctx, 1, otelmetric.WithAttributes(resultAttr(result)))
}

// RecordNotification records a shown notification.
func (m *ClientMetrics) RecordNotification(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.notificationsTotal.Add(ctx, 1, otelmetric.WithAttributes(kindAttr(kind)))
}

// RecordRateLimitDecision records a client-side rate limit decision.
func (m *ClientMetrics) RecordRateLimitDecision(ctx context.Context, host, result string) {
	if m == nil {
		return
	}
	m.rateLimitDecisionsTotal.Add(ctx, 1, otelmetric.WithAttributes(
		hostAttr(host),
		resultAttr(result),
	))
}
