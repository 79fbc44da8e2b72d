package main

import (
	"context"
	"fmt"
	"net/http"

	recall "github.com/icco/recall"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// metrics owns the meter provider and the registry /metrics serves.
type metrics struct {
	registry   *prometheus.Registry
	provider   *sdkmetric.MeterProvider
	operations metric.Int64Counter
}

func newMetrics() (*metrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(recall.Service)

	operations, err := meter.Int64Counter(
		"recall.operations",
		metric.WithDescription("Game operations handled, by operation and outcome."),
	)
	if err != nil {
		return nil, fmt.Errorf("create operations counter: %w", err)
	}

	return &metrics{
		registry:   registry,
		provider:   provider,
		operations: operations,
	}, nil
}

// record counts one operation. The outcome is "ok" or the error kind.
func (m *metrics) record(ctx context.Context, operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(recall.KindOf(err))
	}
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
