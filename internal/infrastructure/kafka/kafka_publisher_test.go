package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/loan-origination/internal/domain/event"
	pkgkafka "github.com/bibbank/loan-origination/pkg/kafka"
)

type recordingProducer struct {
	err      error
	topic    string
	messages []pkgkafka.Message
}

func (r *recordingProducer) Publish(_ context.Context, topic string, messages ...pkgkafka.Message) error {
	if r.err != nil {
		return r.err
	}
	r.topic = topic
	r.messages = append(r.messages, messages...)
	return nil
}

func TestKafkaEventPublisher_Publish(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	sanctioned := event.NewLoanSanctioned("app-1", "cust-001",
		decimal.RequireFromString("500000"), 36, decimal.RequireFromString("10.5"),
		decimal.RequireFromString("16251.22"), decimal.RequireFromString("85043.98"),
		decimal.RequireFromString("585043.98"), now)

	t.Run("envelope keyed by aggregate", func(t *testing.T) {
		producer := &recordingProducer{}
		pub := NewKafkaEventPublisher(producer, "origination.events", logger)

		require.NoError(t, pub.Publish(context.Background(), sanctioned))

		assert.Equal(t, "origination.events", producer.topic)
		require.Len(t, producer.messages, 1)
		msg := producer.messages[0]
		assert.Equal(t, "app-1", string(msg.Key))
		assert.Equal(t, event.TypeLoanSanctioned, msg.Headers["event_type"])
		assert.Equal(t, sanctioned.EventID(), msg.Headers["event_id"])

		var envelope struct {
			EventType string          `json:"event_type"`
			Payload   json.RawMessage `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(msg.Value, &envelope))
		assert.Equal(t, event.TypeLoanSanctioned, envelope.EventType)
		assert.Contains(t, string(envelope.Payload), `"16251.22"`)
	})

	t.Run("nothing to publish", func(t *testing.T) {
		producer := &recordingProducer{err: errors.New("must not be called")}
		pub := NewKafkaEventPublisher(producer, "origination.events", logger)

		assert.NoError(t, pub.Publish(context.Background()))
	})

	t.Run("producer failure", func(t *testing.T) {
		producer := &recordingProducer{err: errors.New("leader not available")}
		pub := NewKafkaEventPublisher(producer, "origination.events", logger)

		err := pub.Publish(context.Background(), sanctioned)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "origination.events")
	})
}

func TestKafkaEventPublisher_PropagatesTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36},
		SpanID:     trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	producer := &recordingProducer{}
	pub := NewKafkaEventPublisher(producer, "origination.events", slog.New(slog.NewTextHandler(io.Discard, nil)))
	evt := event.NewSalarySlipRecorded("cust-001", true, "", time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC))

	require.NoError(t, pub.Publish(ctx, evt))
	require.Len(t, producer.messages, 1)
	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", producer.messages[0].Headers["traceparent"])
	assert.Equal(t, "application/json", producer.messages[0].Headers["content_type"])
}
