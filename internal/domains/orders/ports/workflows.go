package ports

import (
	"context"

	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
)

// WorkflowOrchestrator runs order placement as a durable workflow.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input ordertypes.AddOrderInput) (*ordertypes.OrderProjection, error)
}
