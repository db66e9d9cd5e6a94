package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
	"github.com/name-hansel/kore-ai-api/internal/platform/messaging"
)

type publishedMessage struct {
	key     string
	event   any
	headers []messaging.Header
}

type fakeProducer struct {
	mu        sync.Mutex
	published []publishedMessage
	err       error
}

func (f *fakeProducer) Publish(_ context.Context, key string, event any, headers ...messaging.Header) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedMessage{key: key, event: event, headers: headers})
	return nil
}

func TestKafkaPublisher_PublishesEnvelopes(t *testing.T) {
	producer := &fakeProducer{}
	publisher := NewKafkaPublisher(producer, nil)
	at := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	publisher.Publish(context.Background(),
		domain.OrderPlaced{BaseEvent: domain.BaseEvent{OrderID: "o-1", Timestamp: at}, CustomerID: "c-1", Quantity: 500, Status: domain.StatusPlaced},
		domain.OrderDeleted{BaseEvent: domain.BaseEvent{OrderID: "o-1", Timestamp: at}},
	)
	publisher.Wait()

	require.Len(t, producer.published, 2)
	first := producer.published[0]
	require.Equal(t, "o-1", first.key)
	envelope, ok := first.event.(Envelope)
	require.True(t, ok)
	require.Equal(t, "orders.order.placed", envelope.Type)
	require.Equal(t, at, envelope.OccurredAt)
	require.Equal(t, []messaging.Header{{Key: "event-type", Value: "orders.order.placed"}}, first.headers)
	require.Equal(t, "orders.order.deleted", producer.published[1].event.(Envelope).Type)
}

func TestKafkaPublisher_FailuresAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	publisher := NewKafkaPublisher(&fakeProducer{err: errors.New("broker down")}, logger)

	publisher.Publish(context.Background(), domain.OrderDeleted{BaseEvent: domain.BaseEvent{OrderID: "o-2"}})
	publisher.Wait()

	require.Contains(t, buf.String(), "order event not delivered")
	require.Contains(t, buf.String(), "broker down")
}

func TestKafkaPublisher_NilIsNoop(t *testing.T) {
	var publisher *KafkaPublisher
	publisher.Publish(context.Background(), domain.OrderDeleted{})
	publisher.Wait()
}
