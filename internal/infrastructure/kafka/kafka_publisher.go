package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/bibbank/loan-origination/internal/domain/event"
	"github.com/bibbank/loan-origination/pkg/events"
	pkgkafka "github.com/bibbank/loan-origination/pkg/kafka"
)

// Producer is the subset of pkg/kafka.Producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// KafkaEventPublisher implements port.EventPublisher by writing events to Kafka.
type KafkaEventPublisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

// NewKafkaEventPublisher creates a publisher targeting the given Kafka producer and topic.
func NewKafkaEventPublisher(producer Producer, topic string, logger *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish serialises domain events into envelopes keyed by aggregate ID, so
// events of one application or customer stay ordered within a partition.
func (p *KafkaEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	messages := make([]pkgkafka.Message, 0, len(evts))
	for _, evt := range evts {
		payload, err := events.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"topic", p.topic,
			"payload_size", len(payload),
		)

		headers := map[string]string{
			"event_type":     evt.EventType(),
			"event_id":       evt.EventID(),
			"aggregate_type": evt.AggregateType(),
			"content_type":   "application/json",
		}
		// Consumers continue the sanction trace from traceparent.
		otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))

		messages = append(messages, pkgkafka.Message{
			Key:     []byte(evt.AggregateID()),
			Value:   payload,
			Headers: headers,
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}
	return nil
}
