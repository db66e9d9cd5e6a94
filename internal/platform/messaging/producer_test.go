package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type recordingWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_PublishInjectsTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "parent")
	defer span.End()

	writer := &recordingWriter{}
	producer := NewProducerWithWriter(writer, "orders.events")

	err := producer.Publish(ctx, "order-1", map[string]int{"quantity": 500}, Header{Key: "event-type", Value: "orders.order.placed"})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	require.Equal(t, "order-1", string(msg.Key))
	var body map[string]int
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	require.Equal(t, 500, body["quantity"])

	carrier := NewMessageCarrier(&msg)
	require.Equal(t, "orders.order.placed", carrier.Get("event-type"))
	require.NotEmpty(t, carrier.Get("traceparent"))
	require.Contains(t, carrier.Get("traceparent"), span.SpanContext().TraceID().String())
}

func TestProducer_PublishReturnsWriterError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker down")}
	producer := NewProducerWithWriter(writer, "orders.events")

	err := producer.Publish(context.Background(), "order-1", struct{}{})
	require.EqualError(t, err, "broker down")
}

func TestProducer_NilIsNotConfigured(t *testing.T) {
	var producer *Producer
	require.Error(t, producer.Publish(context.Background(), "k", struct{}{}))
	require.NoError(t, producer.Close())
}

func TestMessageCarrier_SetOverwrites(t *testing.T) {
	msg := kafka.Message{}
	carrier := NewMessageCarrier(&msg)
	carrier.Set("a", "1")
	carrier.Set("a", "2")
	carrier.Set("b", "3")

	require.Equal(t, "2", carrier.Get("a"))
	require.Equal(t, []string{"a", "b"}, carrier.Keys())
	require.Empty(t, carrier.Get("missing"))
}
