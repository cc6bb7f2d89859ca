package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
	// Registry defaults to a fresh registry so repeated initialization in
	// tests does not collide on the global one.
	Registry *prometheus.Registry
}

// InitMetrics initializes the Prometheus-backed otel MeterProvider, installs it
// globally and returns it with the handler for the /metrics endpoint.
func InitMetrics(cfg MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(resource.NewSchemaless(semconv.ServiceName(cfg.ServiceName))),
	)
	otel.SetMeterProvider(provider)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return provider, handler, nil
}

// DecisionMetrics records underwriting outcomes.
type DecisionMetrics struct {
	decisions      metric.Int64Counter
	sanctions      metric.Int64Counter
	sanctionAmount metric.Float64Histogram
}

// NewDecisionMetrics creates the instruments on the given meter provider.
func NewDecisionMetrics(provider metric.MeterProvider) (*DecisionMetrics, error) {
	meter := provider.Meter("github.com/bibbank/loan-origination")

	decisions, err := meter.Int64Counter("origination_eligibility_decisions_total",
		metric.WithDescription("Eligibility decisions by outcome and reason."))
	if err != nil {
		return nil, fmt.Errorf("create decisions counter: %w", err)
	}

	sanctions, err := meter.Int64Counter("origination_sanctions_total",
		metric.WithDescription("Loans sanctioned."))
	if err != nil {
		return nil, fmt.Errorf("create sanctions counter: %w", err)
	}

	amount, err := meter.Float64Histogram("origination_sanction_amount_inr",
		metric.WithDescription("Sanctioned principal in INR."),
		metric.WithExplicitBucketBoundaries(50_000, 100_000, 250_000, 500_000, 1_000_000, 2_500_000, 5_000_000))
	if err != nil {
		return nil, fmt.Errorf("create sanction amount histogram: %w", err)
	}

	return &DecisionMetrics{decisions: decisions, sanctions: sanctions, sanctionAmount: amount}, nil
}

// RecordDecision counts one eligibility decision. reason may be empty.
func (m *DecisionMetrics) RecordDecision(ctx context.Context, outcome, reason string) {
	if m == nil {
		return
	}
	m.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("reason", reason),
	))
}

// RecordSanction counts one sanctioned loan and its principal.
func (m *DecisionMetrics) RecordSanction(ctx context.Context, amount float64) {
	if m == nil {
		return
	}
	m.sanctions.Add(ctx, 1)
	m.sanctionAmount.Record(ctx, amount)
}
