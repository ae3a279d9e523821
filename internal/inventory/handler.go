package inventory

import (
	"context"
	"encoding/json"
	"fmt"

	"inventoryservice/internal/platform/kafka"
	"inventoryservice/internal/platform/observability"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler processes one inbound message. A returned error means the
// message could not be decoded; it is still considered consumed.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg kafkago.Message) error
}

// OrderChecker is the validation step used by the handler.
type OrderChecker interface {
	ValidateOrder(ctx context.Context, order OrderRequest) Outcome
}

// KafkaMessageHandler is the inbound listener for order validation requests.
// It keeps no state between messages.
type KafkaMessageHandler struct {
	validator OrderChecker
	reporter  *Reporter
	replies   kafka.Producer
	metrics   *Metrics
	logger    observability.Logger
}

// NewMessageHandler wires the listener. replies may be nil when the
// deployment has no request/reply clients.
func NewMessageHandler(validator OrderChecker, reporter *Reporter, replies kafka.Producer, metrics *Metrics, logger observability.Logger) *KafkaMessageHandler {
	return &KafkaMessageHandler{
		validator: validator,
		reporter:  reporter,
		replies:   replies,
		metrics:   metrics,
		logger:    logger,
	}
}

func (h *KafkaMessageHandler) HandleMessage(ctx context.Context, msg kafkago.Message) error {
	msgCtx := kafka.ExtractTraceContext(ctx, msg.Headers)

	h.logger.Info("📨 Raw Kafka message received",
		zap.ByteString("key", msg.Key),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	)

	var envelope Envelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		h.logger.Error("❌ Invalid JSON in order validation request",
			zap.Error(err),
			zap.ByteString("raw_value", msg.Value),
		)
		return fmt.Errorf("decode order envelope: %w", err)
	}

	h.logger.Info("✅ Received order validation request",
		zap.String("pattern", envelope.Pattern),
		zap.Int64("order_client_id", envelope.Data.ClientID),
		zap.Int("item_count", len(envelope.Data.Items)),
	)

	outcome := h.Process(msgCtx, envelope.Data)
	h.reply(msgCtx, msg, outcome)
	return nil
}

// Process validates the order and reports a failure. It always produces an
// outcome, including when validation panics.
func (h *KafkaMessageHandler) Process(ctx context.Context, order OrderRequest) (outcome Outcome) {
	reported := false
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("❌ Unexpected failure in order validation pipeline",
				zap.Any("panic", r),
				zap.Int64("order_client_id", order.ClientID),
			)
			outcome = failed(KindGenericError, genericFailureMessage(r))
			if !reported {
				h.reporter.Report(ctx, outcome, order)
			}
		}
		h.metrics.OrderValidated(ctx, outcome)
	}()

	outcome = h.validator.ValidateOrder(ctx, order)
	if outcome.Failed() {
		reported = true
		h.reporter.Report(ctx, outcome, order)
	}
	return outcome
}

func (h *KafkaMessageHandler) reply(ctx context.Context, request kafkago.Message, outcome Outcome) {
	replyTopic, ok := kafka.HeaderValue(request.Headers, kafka.HeaderReplyTopic)
	if !ok || replyTopic == "" || h.replies == nil {
		h.logger.Info("Outcome not replied, request has no reply topic",
			zap.String("status", string(outcome.Status)),
			zap.String("message", outcome.Message),
		)
		return
	}

	payload, err := json.Marshal(outcome)
	if err != nil {
		h.logger.Error("❌ Failed to serialize validation outcome", zap.Error(err))
		return
	}

	correlationID, ok := kafka.HeaderValue(request.Headers, kafka.HeaderCorrelationID)
	if !ok || correlationID == "" {
		correlationID = uuid.NewString()
	}

	msg := kafkago.Message{
		Topic: replyTopic,
		Key:   []byte(correlationID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: kafka.HeaderCorrelationID, Value: []byte(correlationID)},
		},
	}
	if err := h.replies.WriteMessage(ctx, msg); err != nil {
		h.logger.Error("❌ Failed to publish validation outcome",
			zap.Error(err),
			zap.String("reply_topic", replyTopic),
		)
		return
	}

	h.logger.Info("📤 Sent validation outcome",
		zap.String("reply_topic", replyTopic),
		zap.String("status", string(outcome.Status)),
	)
}
