package inventory

import (
	"context"
	"encoding/json"
	"time"

	"inventoryservice/internal/platform/kafka"
	"inventoryservice/internal/platform/observability"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Reporter publishes an ErrorEvent for every failed outcome. Publishing is
// fire-and-forget: failures are logged and never returned.
type Reporter struct {
	producer   kafka.Producer
	routingKey string
	logger     observability.Logger
	metrics    *Metrics
	now        func() time.Time
}

func NewReporter(producer kafka.Producer, routingKey string, logger observability.Logger, metrics *Metrics) *Reporter {
	return &Reporter{
		producer:   producer,
		routingKey: routingKey,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Report does nothing for a successful outcome.
func (r *Reporter) Report(ctx context.Context, outcome Outcome, order OrderRequest) {
	if !outcome.Failed() {
		return
	}

	kind := outcome.Kind
	if kind == "" {
		kind = KindGenericError
	}
	event := ErrorEvent{
		ErrorKind:    kind,
		Message:      outcome.Message,
		OrderRequest: order,
		Timestamp:    r.now().UTC(),
	}
	r.publish(ctx, event)
}

func (r *Reporter) publish(ctx context.Context, event ErrorEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("❌ Failed to serialize error event",
			zap.Error(err),
			zap.String("error_kind", string(event.ErrorKind)),
		)
		return
	}

	msg := kafkago.Message{
		Key:   []byte(r.routingKey),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: kafka.HeaderRoutingKey, Value: []byte(r.routingKey)},
			{Key: kafka.HeaderEventID, Value: []byte(uuid.NewString())},
		},
	}
	if err := r.producer.WriteMessage(ctx, msg); err != nil {
		r.logger.Error("❌ Failed to publish error event",
			zap.Error(err),
			zap.String("error_kind", string(event.ErrorKind)),
			zap.Int64("order_client_id", event.OrderRequest.ClientID),
		)
		return
	}

	r.metrics.ErrorEventPublished(ctx, event.ErrorKind)
	r.logger.Info("📤 Published error event",
		zap.String("error_kind", string(event.ErrorKind)),
		zap.Int64("order_client_id", event.OrderRequest.ClientID),
	)
}
