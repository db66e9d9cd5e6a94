package ports

import (
	"context"

	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
)

// EventPublisher hands domain events to an outbound channel. Implementations own their failure
// handling; Publish never blocks the caller on delivery.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event)
}
