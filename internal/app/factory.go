package app

import (
	"fmt"

	"inventoryservice/internal/inventory"
	"inventoryservice/internal/transport/rest"

	"github.com/gin-gonic/gin"
)

// ServiceFactory creates business logic services with their dependencies
type ServiceFactory struct {
	container *Container
}

func NewServiceFactory(container *Container) *ServiceFactory {
	return &ServiceFactory{container: container}
}

// Services is the wired application graph.
type Services struct {
	Ledger    *inventory.Ledger
	Validator *inventory.OrderValidator
	Handler   *inventory.KafkaMessageHandler
	Consumer  inventory.ConsumerService
	Router    *gin.Engine
}

// Build wires the ledger, the validation pipeline and the HTTP router.
func (f *ServiceFactory) Build() (*Services, error) {
	c := f.container

	metrics, err := inventory.NewMetrics(c.Meter())
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	ledger := inventory.NewLedger(c.Store(), inventory.NewValidation(), c.Logger())
	validator := inventory.NewOrderValidator(c.Store(), c.Logger(), c.Tracer())
	reporter := inventory.NewReporter(c.ErrorProducer(), c.Config().ErrorRoutingKey, c.Logger(), metrics)
	handler := inventory.NewMessageHandler(validator, reporter, c.ReplyProducer(), metrics, c.Logger())
	consumer := inventory.NewConsumerService(c.MessageConsumer(), handler, c.Config().WorkerCount, c.Logger())
	router := rest.NewRouter(rest.NewProductHandler(ledger, c.Logger()), c.Logger())

	return &Services{
		Ledger:    ledger,
		Validator: validator,
		Handler:   handler,
		Consumer:  consumer,
		Router:    router,
	}, nil
}
