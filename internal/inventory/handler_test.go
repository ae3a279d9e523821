package inventory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"inventoryservice/internal/platform/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubChecker struct {
	outcome Outcome
	panicOn any
	calls   int
}

func (s *stubChecker) ValidateOrder(ctx context.Context, order OrderRequest) Outcome {
	s.calls++
	if s.panicOn != nil {
		panic(s.panicOn)
	}
	return s.outcome
}

type handlerFixture struct {
	handler *KafkaMessageHandler
	errors  *recordingProducer
	replies *recordingProducer
}

func newHandlerFixture(checker OrderChecker) handlerFixture {
	errs := &recordingProducer{}
	replies := &recordingProducer{}
	return handlerFixture{
		handler: NewMessageHandler(checker, newTestReporter(errs), replies, nil, zap.NewNop()),
		errors:  errs,
		replies: replies,
	}
}

func envelopeMessage(t *testing.T, order OrderRequest, headers ...kafkago.Header) kafkago.Message {
	t.Helper()
	value, err := json.Marshal(Envelope{Pattern: "inventory-validate", Data: order})
	require.NoError(t, err)
	return kafkago.Message{Value: value, Headers: headers}
}

func TestProcess_ErrorOutcomeReportedOnce(t *testing.T) {
	// Arrange
	checker := &stubChecker{outcome: failed(KindProductNotFound, productNotFoundMessage(5))}
	f := newHandlerFixture(checker)

	// Act
	outcome := f.handler.Process(context.Background(), OrderRequest{ClientID: 3, Items: []OrderLineItem{item(5, 1)}})

	// Assert
	assert.Equal(t, KindProductNotFound, outcome.Kind)
	assert.Len(t, f.errors.Messages(), 1)
}

func TestProcess_SuccessNotReported(t *testing.T) {
	f := newHandlerFixture(&stubChecker{outcome: succeeded(orderValidatedMessage, nil)})

	outcome := f.handler.Process(context.Background(), OrderRequest{ClientID: 3})

	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Empty(t, f.errors.Messages())
}

func TestProcess_RecoversFromPanic(t *testing.T) {
	f := newHandlerFixture(&stubChecker{panicOn: "validator exploded"})

	outcome := f.handler.Process(context.Background(), OrderRequest{ClientID: 3})

	assert.Equal(t, KindGenericError, outcome.Kind)
	assert.Contains(t, outcome.Message, "validator exploded")
	require.Len(t, f.errors.Messages(), 1)

	var event ErrorEvent
	require.NoError(t, json.Unmarshal(f.errors.Messages()[0].Value, &event))
	assert.Equal(t, KindGenericError, event.ErrorKind)
}

func TestHandleMessage_InvalidJSON(t *testing.T) {
	checker := &stubChecker{}
	f := newHandlerFixture(checker)

	err := f.handler.HandleMessage(context.Background(), kafkago.Message{Value: []byte("{not json")})

	assert.ErrorContains(t, err, "decode order envelope")
	assert.Zero(t, checker.calls)
	assert.Empty(t, f.errors.Messages())
	assert.Empty(t, f.replies.Messages())
}

func TestHandleMessage_RepliesToReplyTopic(t *testing.T) {
	// Arrange
	product := stockedProduct(1, 10)
	f := newHandlerFixture(&stubChecker{outcome: failed(KindInsufficientStock, "insufficient stock")})
	msg := envelopeMessage(t, OrderRequest{ClientID: 4, Items: []OrderLineItem{item(product.ID, 20)}},
		kafkago.Header{Key: kafka.HeaderReplyTopic, Value: []byte("inventory-queue.reply")},
		kafkago.Header{Key: kafka.HeaderCorrelationID, Value: []byte("corr-1")},
	)

	// Act
	err := f.handler.HandleMessage(context.Background(), msg)

	// Assert
	require.NoError(t, err)
	replies := f.replies.Messages()
	require.Len(t, replies, 1)
	assert.Equal(t, "inventory-queue.reply", replies[0].Topic)
	assert.Equal(t, "corr-1", string(replies[0].Key))
	correlationID, _ := kafka.HeaderValue(replies[0].Headers, kafka.HeaderCorrelationID)
	assert.Equal(t, "corr-1", correlationID)

	var body map[string]any
	require.NoError(t, json.Unmarshal(replies[0].Value, &body))
	assert.Equal(t, "ERROR", body["status"])
	assert.Equal(t, "insufficient stock", body["message"])
	assert.NotContains(t, body, "Kind")

	assert.Len(t, f.errors.Messages(), 1)
}

func TestHandleMessage_NoReplyTopic(t *testing.T) {
	f := newHandlerFixture(&stubChecker{outcome: succeeded(orderValidatedMessage, nil)})

	err := f.handler.HandleMessage(context.Background(), envelopeMessage(t, OrderRequest{ClientID: 4}))

	require.NoError(t, err)
	assert.Empty(t, f.replies.Messages())
}

func TestHandleMessage_EndToEndWithStore(t *testing.T) {
	// Arrange
	store := NewMemoryStore(stockedProduct(1, 100))
	validator := newTestValidator(store)
	f := newHandlerFixture(validator)
	order := OrderRequest{ClientID: 11, Items: []OrderLineItem{item(1, 150)}}

	// Act
	err := f.handler.HandleMessage(context.Background(), envelopeMessage(t, order))

	// Assert
	require.NoError(t, err)
	require.Len(t, f.errors.Messages(), 1)
	var event ErrorEvent
	require.NoError(t, json.Unmarshal(f.errors.Messages()[0].Value, &event))
	assert.Equal(t, KindInsufficientStock, event.ErrorKind)
	assert.Equal(t, order, event.OrderRequest)

	stored, _ := store.FindByID(context.Background(), 1)
	assert.Equal(t, 100, stored.AvailableQuantity)
}

func TestHandleMessage_ErrorEventTimestampNotBeforeInvocation(t *testing.T) {
	// Arrange
	errs := &recordingProducer{}
	validator := newTestValidator(NewMemoryStore(stockedProduct(1, 100)))
	reporter := NewReporter(errs, "error-routing-key", zap.NewNop(), nil)
	handler := NewMessageHandler(validator, reporter, nil, nil, zap.NewNop())
	msg := envelopeMessage(t, OrderRequest{ClientID: 5, Items: []OrderLineItem{item(1, 150)}})
	start := time.Now()

	// Act
	err := handler.HandleMessage(context.Background(), msg)

	// Assert
	require.NoError(t, err)
	require.Len(t, errs.Messages(), 1)
	var event ErrorEvent
	require.NoError(t, json.Unmarshal(errs.Messages()[0].Value, &event))
	assert.False(t, event.Timestamp.Before(start), "timestamp %s before %s", event.Timestamp, start)
	assert.Equal(t, time.UTC, event.Timestamp.Location())
}

func TestHandleMessage_UnitPriceReemittedAsNumber(t *testing.T) {
	f := newHandlerFixture(newTestValidator(NewMemoryStore()))
	msg := kafkago.Message{Value: []byte(`{"pattern":"inventory-validate","data":{"clientId":5,"items":[{"productId":9,"quantity":1,"unitPrice":19.90}]}}`)}

	require.NoError(t, f.handler.HandleMessage(context.Background(), msg))

	require.Len(t, f.errors.Messages(), 1)
	var raw struct {
		OrderRequest struct {
			Items []map[string]json.RawMessage `json:"items"`
		} `json:"orderRequest"`
	}
	require.NoError(t, json.Unmarshal(f.errors.Messages()[0].Value, &raw))
	require.Len(t, raw.OrderRequest.Items, 1)
	assert.Equal(t, "19.9", string(raw.OrderRequest.Items[0]["unitPrice"]))
	assert.Equal(t, "null", string(mustReemit(t, OrderLineItem{ProductID: 1, Quantity: 1})["unitPrice"]))
}

func mustReemit(t *testing.T, li OrderLineItem) map[string]json.RawMessage {
	t.Helper()
	b, err := json.Marshal(li)
	require.NoError(t, err)
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}
