package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	turnCounter   otelmetric.Int64Counter
	turnDuration  otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	turnCounter, _ := meter.Int64Counter(
		"dialog.turns.processed",
		otelmetric.WithDescription("Number of dialog turns processed"),
	)

	turnDuration, _ := meter.Float64Histogram(
		"dialog.turns.duration",
		otelmetric.WithDescription("Dialog turn processing duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		turnCounter:   turnCounter,
		turnDuration:  turnDuration,
	}
}

func (o *Observability) RecordTurn(ctx context.Context, outcome string) {
	if o.turnCounter != nil {
		o.turnCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) RecordTurnDuration(ctx context.Context, duration time.Duration, outcome string) {
	if o.turnDuration != nil {
		o.turnDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
