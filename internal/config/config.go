package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ServiceName    = "inventory-service"
	ServiceVersion = "0.1.0"
)

// Kafka settings that do not change between environments.
const (
	BatchTimeout = 10 * time.Millisecond
	BatchSize    = 100
)

const (
	LogsPath      = "/otlp/v1/logs"
	TracesPath    = "/otlp/v1/traces"
	MetricsPath   = "/otlp/v1/metrics"
	ExportTimeout = 30 * time.Second
	MaxQueueSize  = 2048
)

// Product store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultWorkerCount     = 4
	defaultInboundTopic    = "inventory-queue"
	defaultErrorTopic      = "error-queue"
	defaultErrorRoutingKey = "error-routing-key"
	defaultConsumerGroup   = "inventory-service-group"
)

type Config struct {
	KafkaBrokers    []string
	InboundTopic    string
	ErrorTopic      string
	ErrorRoutingKey string
	ConsumerGroup   string
	WorkerCount     int

	HTTPAddr    string
	StoreDriver string
	DatabaseURL string

	// Telemetry export is disabled when OtelEndpoint is empty.
	OtelEndpoint   string
	OtelAuthHeader string
}

func LoadConfig() (*Config, error) {
	config := &Config{
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKER")),
		InboundTopic:    getEnv("INBOUND_TOPIC", defaultInboundTopic),
		ErrorTopic:      getEnv("ERROR_TOPIC", defaultErrorTopic),
		ErrorRoutingKey: getEnv("ERROR_ROUTING_KEY", defaultErrorRoutingKey),
		ConsumerGroup:   getEnv("CONSUMER_GROUP", defaultConsumerGroup),
		HTTPAddr:        getEnv("HTTP_ADDR", defaultHTTPAddr),
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		OtelEndpoint:    os.Getenv("OTEL_ENDPOINT"),
		OtelAuthHeader:  os.Getenv("OTEL_AUTH_HEADER"),
	}

	workers, err := getEnvInt("WORKER_COUNT", defaultWorkerCount)
	if err != nil {
		return nil, err
	}
	config.WorkerCount = workers

	if len(config.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKER environment variable is required")
	}
	if config.WorkerCount < 1 {
		return nil, fmt.Errorf("WORKER_COUNT must be at least 1, got %d", config.WorkerCount)
	}
	if config.InboundTopic == config.ErrorTopic {
		return nil, fmt.Errorf("ERROR_TOPIC must differ from INBOUND_TOPIC (%q)", config.InboundTopic)
	}

	switch config.StoreDriver {
	case StoreDriverPostgres:
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for the %s store", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", config.StoreDriver)
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
