package app

import (
	"context"
	"fmt"

	"inventoryservice/internal/config"
	"inventoryservice/internal/inventory"
	"inventoryservice/internal/platform/kafka"
	"inventoryservice/internal/platform/observability"
	"inventoryservice/internal/platform/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Container holds expensive-to-create singleton resources and dependencies
type Container struct {
	config         *config.Config
	logger         observability.Logger
	tracer         observability.Tracer
	meter          metric.Meter
	consumer       kafka.Consumer
	errorProducer  kafka.Producer
	replyProducer  kafka.Producer
	store          inventory.Store
	pool           *pgxpool.Pool
	telemetryClose observability.ShutdownFunc
}

// NewContainer creates and initializes all infrastructure components
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	c := &Container{config: cfg}

	c.setupObservability(ctx)

	if err := c.setupKafka(); err != nil {
		c.Shutdown(context.Background())
		return nil, err
	}

	if err := c.setupStore(ctx); err != nil {
		c.Shutdown(context.Background())
		return nil, err
	}

	return c, nil
}

// setupObservability configures OpenTelemetry logging, tracing and metrics.
// Export failures leave the service running without telemetry.
func (c *Container) setupObservability(ctx context.Context) {
	var setupErrs []error

	logShutdown, err := observability.SetupLoggingSDK(ctx, c.config)
	if err != nil {
		setupErrs = append(setupErrs, err)
	}

	_, traceShutdown, err := observability.SetupTracingSDK(ctx, c.config)
	if err != nil {
		setupErrs = append(setupErrs, err)
	}

	metricShutdown, err := observability.SetupMetricsSDK(ctx, c.config)
	if err != nil {
		setupErrs = append(setupErrs, err)
	}

	c.telemetryClose = observability.JoinShutdown(metricShutdown, traceShutdown, logShutdown)

	// The logger is built after the log SDK so the bridge uses the real provider.
	c.logger = observability.NewLogger()
	for _, err := range setupErrs {
		c.logger.Error("Failed to setup OpenTelemetry", zap.Error(err))
	}

	c.tracer = otel.Tracer(config.ServiceName)
	c.meter = otel.Meter(config.ServiceName)
	c.logger.Info("Logger initialized with OpenTelemetry bridge",
		zap.Bool("export_enabled", c.config.OtelEndpoint != ""),
	)
}

func (c *Container) setupKafka() error {
	tp := otel.GetTracerProvider()

	c.consumer = kafka.NewConsumer(c.config.KafkaBrokers, c.config.InboundTopic, c.config.ConsumerGroup)

	errorProducer, err := kafka.NewTopicProducer(c.config.KafkaBrokers, c.config.ErrorTopic, tp)
	if err != nil {
		return fmt.Errorf("failed to create error producer: %w", err)
	}
	c.errorProducer = errorProducer

	replyProducer, err := kafka.NewRoutingProducer(c.config.KafkaBrokers, tp)
	if err != nil {
		return fmt.Errorf("failed to create reply producer: %w", err)
	}
	c.replyProducer = replyProducer

	c.logger.Info("Kafka clients configured",
		zap.Strings("brokers", c.config.KafkaBrokers),
		zap.String("inbound_topic", c.config.InboundTopic),
		zap.String("error_topic", c.config.ErrorTopic),
		zap.String("consumer_group", c.config.ConsumerGroup),
	)
	return nil
}

func (c *Container) setupStore(ctx context.Context) error {
	switch c.config.StoreDriver {
	case config.StoreDriverMemory:
		c.store = inventory.NewMemoryStore()
	default:
		pool, err := postgres.Connect(ctx, c.config.DatabaseURL, c.logger)
		if err != nil {
			return err
		}
		c.pool = pool

		store := postgres.NewProductStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		c.store = store
	}

	c.logger.Info("Product store ready", zap.String("driver", c.config.StoreDriver))
	return nil
}

// Shutdown gracefully shuts down all infrastructure components
func (c *Container) Shutdown(ctx context.Context) {
	if c.logger == nil {
		return
	}
	c.logger.Info("Shutting down infrastructure...")

	if c.consumer != nil {
		if err := c.consumer.Close(); err != nil {
			c.logger.Error("Failed to close message consumer", zap.Error(err))
		}
	}

	for name, producer := range map[string]kafka.Producer{"error": c.errorProducer, "reply": c.replyProducer} {
		if producer == nil {
			continue
		}
		if err := producer.Close(); err != nil {
			c.logger.Error("Failed to close message producer", zap.String("producer", name), zap.Error(err))
		}
	}

	if c.pool != nil {
		c.pool.Close()
	}

	c.logger.Info("Infrastructure shutdown complete")

	if c.telemetryClose != nil {
		if err := c.telemetryClose(ctx); err != nil {
			c.logger.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}

	// stdout sync fails on some platforms; nothing is left to report it to.
	_ = c.logger.Sync()
}

// Getters for accessing infrastructure components
func (c *Container) Config() *config.Config          { return c.config }
func (c *Container) Logger() observability.Logger    { return c.logger }
func (c *Container) Tracer() observability.Tracer    { return c.tracer }
func (c *Container) Meter() metric.Meter             { return c.meter }
func (c *Container) MessageConsumer() kafka.Consumer { return c.consumer }
func (c *Container) ErrorProducer() kafka.Producer   { return c.errorProducer }
func (c *Container) ReplyProducer() kafka.Producer   { return c.replyProducer }
func (c *Container) Store() inventory.Store          { return c.store }
