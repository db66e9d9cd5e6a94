package types

import "github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"

// OrderIdentifier references an order by its aggregate ID.
type OrderIdentifier struct {
	ID string
}

// ListOrdersInput optionally filters orders by status.
type ListOrdersInput struct {
	Statuses []string
}

// CapacityQuery asks for remaining capacity on a dd-mm-yyyy date.
type CapacityQuery struct {
	Date string
}

// Capacity is the point-in-time capacity view for one calendar day. MilkLeft goes negative when the
// day is overbooked.
type Capacity struct {
	Date        domain.Day
	MaxCapacity int64
	Ordered     int64
	MilkLeft    int64
}
