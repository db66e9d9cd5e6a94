// Package events delivers order domain events to Kafka.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"
	"github.com/name-hansel/kore-ai-api/internal/platform/messaging"
)

const defaultPublishTimeout = 5 * time.Second

// Producer is satisfied by *messaging.Producer.
type Producer interface {
	Publish(ctx context.Context, key string, event any, headers ...messaging.Header) error
}

// Envelope is the JSON body written for every event.
type Envelope struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// KafkaPublisher sends events in the background. Delivery failures are logged and never reach the caller.
type KafkaPublisher struct {
	producer Producer
	logger   *slog.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher builds a publisher. A nil logger falls back to slog.Default.
func NewKafkaPublisher(producer Producer, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{producer: producer, logger: logger.With("component", "order-events"), timeout: defaultPublishTimeout}
}

// Publish queues events for delivery keyed by order id.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...domain.Event) {
	if p == nil || p.producer == nil || len(events) == 0 {
		return
	}
	// Keep the caller's span for propagation but not its cancellation.
	spanCtx := trace.ContextWithSpanContext(context.Background(), trace.SpanContextFromContext(ctx))
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		publishCtx, cancel := context.WithTimeout(spanCtx, p.timeout)
		defer cancel()
		for _, event := range events {
			envelope := Envelope{
				Type:       event.EventName(),
				OrderID:    event.AggregateID(),
				OccurredAt: event.OccurredAt().UTC(),
				Payload:    event,
			}
			err := p.producer.Publish(publishCtx, event.AggregateID(), envelope, messaging.Header{Key: "event-type", Value: event.EventName()})
			if err != nil {
				p.logger.Warn("order event not delivered", "event", event.EventName(), "orderId", event.AggregateID(), "error", err)
				continue
			}
			p.logger.Debug("order event delivered", "event", event.EventName(), "orderId", event.AggregateID())
		}
	}()
}

// Wait blocks until every queued event has been attempted.
func (p *KafkaPublisher) Wait() {
	if p == nil {
		return
	}
	p.wg.Wait()
}
