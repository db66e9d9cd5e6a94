package ports

import (
	"context"

	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
)

// Service defines the orders use cases exposed to adapters (inbound/driving port).
type Service interface {
	AddOrder(ctx context.Context, input ordertypes.AddOrderInput) (*ordertypes.OrderProjection, error)
	GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error)
	ListOrders(ctx context.Context, input ordertypes.ListOrdersInput) ([]*ordertypes.OrderProjection, error)
	EditOrder(ctx context.Context, input ordertypes.EditOrderInput) (*ordertypes.OrderProjection, error)
	UpdateStatus(ctx context.Context, input ordertypes.UpdateStatusInput) (*ordertypes.OrderProjection, error)
	DeleteOrder(ctx context.Context, input ordertypes.OrderIdentifier) error
	CheckCapacity(ctx context.Context, input ordertypes.CapacityQuery) (*ordertypes.Capacity, error)
}
