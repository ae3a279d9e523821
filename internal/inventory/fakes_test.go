package inventory

import (
	"context"
	"sync"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

var testTracer = tracenoop.NewTracerProvider().Tracer("inventory-test")

// MockStore stubs the product store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*Product)
	return p, args.Error(1)
}

func (m *MockStore) List(ctx context.Context, spec PageSpec) (Page, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(Page), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, p *Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockStore) Update(ctx context.Context, p *Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// recordingProducer keeps every message written to it.
type recordingProducer struct {
	mutex    sync.Mutex
	messages []kafkago.Message
	err      error
}

func (p *recordingProducer) WriteMessage(ctx context.Context, msg kafkago.Message) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func (p *recordingProducer) Messages() []kafkago.Message {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]kafkago.Message(nil), p.messages...)
}

func stockedProduct(id int64, quantity int) Product {
	return Product{
		ID:                id,
		Name:              "Keyboard",
		Description:       "Mechanical keyboard",
		AvailableQuantity: quantity,
		Price:             decimal.RequireFromString("49.90"),
	}
}

func item(productID int64, quantity int) OrderLineItem {
	return OrderLineItem{ProductID: productID, Quantity: quantity}
}
