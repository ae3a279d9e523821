package inventory

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records pipeline counters. A nil *Metrics records nothing.
type Metrics struct {
	ordersValidated metric.Int64Counter
	errorEvents     metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	ordersValidated, err := meter.Int64Counter("inventory.orders.validated",
		metric.WithDescription("Orders processed by the validation pipeline"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	errorEvents, err := meter.Int64Counter("inventory.error_events.published",
		metric.WithDescription("Error events written to the error topic"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{ordersValidated: ordersValidated, errorEvents: errorEvents}, nil
}

func (m *Metrics) OrderValidated(ctx context.Context, outcome Outcome) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("status", string(outcome.Status))}
	if outcome.Failed() {
		attrs = append(attrs, attribute.String("kind", string(outcome.Kind)))
	}
	m.ordersValidated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) ErrorEventPublished(ctx context.Context, kind ErrorKind) {
	if m == nil {
		return
	}
	m.errorEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(kind))))
}
