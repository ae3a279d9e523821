package kafka

import (
	"context"

	"inventoryservice/internal/config"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Header names understood by request/reply clients.
const (
	HeaderReplyTopic    = "kafka_replyTopic"
	HeaderCorrelationID = "kafka_correlationId"
	HeaderRoutingKey    = "routing-key"
	HeaderEventID       = "event-id"
)

// NewConsumer creates a consumer-group reader. Offsets are committed explicitly.
func NewConsumer(brokers []string, topic, groupID string) Consumer {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		CommitInterval: 0,
	})
}

// NewTopicProducer creates an instrumented writer bound to a single topic.
func NewTopicProducer(brokers []string, topic string, tp trace.TracerProvider) (Producer, error) {
	baseWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: config.BatchTimeout,
		BatchSize:    config.BatchSize,
	}
	return newInstrumentedWriter(baseWriter, tp,
		semconv.MessagingDestinationNameKey.String(topic),
	)
}

// NewRoutingProducer creates an instrumented writer without a fixed topic; each
// message must name its own destination.
func NewRoutingProducer(brokers []string, tp trace.TracerProvider) (Producer, error) {
	baseWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           config.BatchTimeout,
		BatchSize:              config.BatchSize,
		AllowAutoTopicCreation: true,
	}
	return newInstrumentedWriter(baseWriter, tp)
}

func newInstrumentedWriter(w *kafka.Writer, tp trace.TracerProvider, attrs ...attribute.KeyValue) (Producer, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	attrs = append(attrs, attribute.String("messaging.kafka.client_id", config.ServiceName))
	writer, err := otelkafka.NewWriter(w,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes(attrs),
	)
	if err != nil {
		return nil, err
	}
	return writer, nil
}

// ExtractTraceContext restores the producer's trace context from message headers.
func ExtractTraceContext(ctx context.Context, headers []kafka.Header) context.Context {
	carrier := propagation.MapCarrier{}
	for _, header := range headers {
		carrier[string(header.Key)] = string(header.Value)
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// HeaderValue returns the last value of the named header.
func HeaderValue(headers []kafka.Header, key string) (string, bool) {
	value, found := "", false
	for _, header := range headers {
		if header.Key == key {
			value, found = string(header.Value), true
		}
	}
	return value, found
}
