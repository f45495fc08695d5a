package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler processes one message. Returning nil allows the offset to be
// committed.
type Handler func(ctx context.Context, m kafkago.Message) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads a topic as part of a consumer group and fans messages out
// to a fixed pool of workers. Offsets are committed only after the handler
// succeeds.
type Consumer struct {
	reader     messageReader
	workers    int
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

func NewConsumer(brokers []string, group, topic string, workers int, logger *zap.Logger) *Consumer {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
	})
	return newConsumer(r, workers, logger)
}

func newConsumer(r messageReader, workers int, logger *zap.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{
		reader:     r,
		workers:    workers,
		maxRetries: 3,
		backoff:    time.Second,
		logger:     logger,
	}
}

// Start blocks until ctx is cancelled or the reader fails.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.reader.Close()

	jobs := make(chan kafkago.Message, c.workers*4)
	var wg sync.WaitGroup

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				if err := c.handleWithRetry(ctx, h, m); err != nil {
					c.logger.Error("Failed to handle message",
						zap.String("topic", m.Topic),
						zap.Int64("offset", m.Offset),
						zap.Error(err),
					)
					// poison messages are committed so they are not redelivered
					if !errors.Is(err, ErrPoisonMessage) {
						continue
					}
				}
				if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
					c.logger.Error("Failed to commit offset", zap.Int64("offset", m.Offset), zap.Error(err))
				}
			}
		}()
	}

	c.logger.Info("Kafka consumer started", zap.Int("workers", c.workers))

	err := c.dispatch(ctx, jobs)
	close(jobs)
	wg.Wait()
	return err
}

func (c *Consumer) dispatch(ctx context.Context, jobs chan<- kafkago.Message) error {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		select {
		case jobs <- m:
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Consumer) handleWithRetry(ctx context.Context, h Handler, m kafkago.Message) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		err := h(ctx, m)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrPoisonMessage) {
			return err
		}
		lastErr = err
		if attempt < c.maxRetries {
			backoff := time.Duration(attempt) * c.backoff
			c.logger.Warn("Retrying message handling",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", c.maxRetries, lastErr)
}
