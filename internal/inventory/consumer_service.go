package inventory

import (
	"context"
	"errors"
	"sync"

	"inventoryservice/internal/platform/kafka"
	"inventoryservice/internal/platform/observability"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type ConsumerService interface {
	Start(ctx context.Context) error
}

// KafkaConsumerService fetches messages and hands them to a fixed pool of
// workers. A message is committed once its handler returns.
type KafkaConsumerService struct {
	consumer       kafka.Consumer
	messageHandler MessageHandler
	workers        int
	logger         observability.Logger
}

func NewConsumerService(consumer kafka.Consumer, messageHandler MessageHandler, workers int, logger observability.Logger) *KafkaConsumerService {
	if workers < 1 {
		workers = 1
	}
	return &KafkaConsumerService{
		consumer:       consumer,
		messageHandler: messageHandler,
		workers:        workers,
		logger:         logger,
	}
}

// Start blocks until ctx is cancelled. Messages already handed to a worker
// run to completion and are committed before Start returns.
func (c *KafkaConsumerService) Start(ctx context.Context) error {
	c.logger.Info("Kafka consumer started. Waiting for messages...", zap.Int("workers", c.workers))

	jobs := make(chan kafkago.Message)
	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range jobs {
				c.process(context.WithoutCancel(ctx), msg)
			}
		}()
	}

fetch:
	for {
		msg, err := c.consumer.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				c.logger.Info("Context done, exiting Kafka read loop.", zap.Error(err))
				break
			}
			c.logger.Error("❌ Error reading from Kafka", zap.Error(err))
			continue
		}

		select {
		case jobs <- msg:
		case <-ctx.Done():
			// Not handed to a worker, so left uncommitted for redelivery.
			break fetch
		}
	}

	close(jobs)
	wg.Wait()

	c.logger.Info("Consumer service finished. Shutting down...")
	return nil
}

func (c *KafkaConsumerService) process(ctx context.Context, msg kafkago.Message) {
	if err := c.messageHandler.HandleMessage(ctx, msg); err != nil {
		c.logger.Warn("Message discarded",
			zap.Error(err),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		)
	}

	if err := c.consumer.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("❌ Failed to commit message",
			zap.Error(err),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		)
	}
}
