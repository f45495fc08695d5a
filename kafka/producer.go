package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DivyaP1063/shophub/models"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func InitProducer(brokers []string, logger *zap.Logger) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info("Kafka producer initialized", zap.Strings("brokers", brokers))
	return producer, nil
}

// Publisher writes order events to a single topic, keyed by order id.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

func NewPublisher(producer sarama.SyncProducer, topic string, logger *zap.Logger) *Publisher {
	return &Publisher{producer: producer, topic: topic, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, event models.OrderEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(eventJSON),
	}

	// Inject trace context into Kafka message headers
	carrier := make(saramaHeaderCarrier, 0)
	otel.GetTextMapPropagator().Inject(ctx, &carrier)
	msg.Headers = []sarama.RecordHeader(carrier)

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	traceID := ""
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		traceID = span.SpanContext().TraceID().String()
	}

	p.logger.Info("Event published",
		zap.String("trace_id", traceID),
		zap.String("topic", p.topic),
		zap.String("event_type", event.EventType),
		zap.String("order_id", event.OrderID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops events. It is used when no brokers are configured.
type NopPublisher struct {
	logger *zap.Logger
}

func NewNopPublisher(logger *zap.Logger) *NopPublisher {
	return &NopPublisher{logger: logger}
}

func (p *NopPublisher) Publish(_ context.Context, event models.OrderEvent) error {
	p.logger.Debug("Kafka disabled, dropping event",
		zap.String("event_type", event.EventType),
		zap.String("order_id", event.OrderID),
	)
	return nil
}
