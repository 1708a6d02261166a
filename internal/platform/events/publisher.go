package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Publisher emits billing lifecycle events to a Kafka topic. Events are
// advisory: delivery failures are logged by the caller, never surfaced to API
// clients.
type Publisher struct {
	writer *kafka.Writer
	log    zerolog.Logger
}

// NewPublisher creates a Kafka publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string, log zerolog.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Publisher{writer: writer, log: log}
}

// Publish serializes payload as JSON and writes it to the topic, keyed so
// events for the same entity land on the same partition in order.
func (p *Publisher) Publish(ctx context.Context, eventType, key string, payload interface{}) error {
	value, err := json.Marshal(map[string]interface{}{
		"type":        eventType,
		"occurred_at": time.Now().UTC().Format(time.RFC3339),
		"payload":     payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", eventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event %s: %w", eventType, err)
	}

	p.log.Debug().Str("type", eventType).Str("key", key).Msg("event published")
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
