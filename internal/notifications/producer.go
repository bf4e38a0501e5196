package notifications

import (
	"context"
	"fmt"
	"time"

	"seatlock/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher sends seat lifecycle events to the message broker.
// A nil *Producer is a valid no-op publisher, so callers can stay
// unconditional when Kafka is disabled.
type Publisher interface {
	Publish(ctx context.Context, event SeatEvent) error
	Close() error
}

type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *logger.Logger
}

func NewProducer(brokers []string, topic string, log *logger.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Retry.Backoff = 100 * time.Millisecond
	config.Producer.Return.Successes = true
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    topic,
		logger:   log,
	}, nil
}

func (p *Producer) Publish(ctx context.Context, event SeatEvent) error {
	if p == nil {
		return nil
	}

	payload, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal seat event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.PartitionKey()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.ErrorWithContext(ctx, "Failed to publish seat event", err,
			map[string]interface{}{
				"type":     event.Type,
				"event_id": event.EventID,
			})
		return fmt.Errorf("failed to publish seat event: %w", err)
	}

	p.logger.InfoWithContext(ctx, "Seat event published", map[string]interface{}{
		"type":      event.Type,
		"event_id":  event.EventID,
		"partition": partition,
		"offset":    offset,
	})

	return nil
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
