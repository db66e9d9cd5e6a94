package domain

import "time"

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	OrderID   string
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the order the event belongs to.
func (e BaseEvent) AggregateID() string {
	return e.OrderID
}

// OrderPlaced is raised when a new order is accepted.
type OrderPlaced struct {
	BaseEvent
	CustomerID string
	Quantity   int64
	Status     Status
	OrderedAt  time.Time
}

// EventName returns the event type identifier.
func (e OrderPlaced) EventName() string {
	return "orders.order.placed"
}

// OrderUpdated is raised when delivery details or quantity are edited.
type OrderUpdated struct {
	BaseEvent
	Quantity         int64
	PreviousQuantity int64
	Status           Status
}

// EventName returns the event type identifier.
func (e OrderUpdated) EventName() string {
	return "orders.order.updated"
}

// OrderStatusChanged is raised when the status differs after a write.
type OrderStatusChanged struct {
	BaseEvent
	FromStatus Status
	ToStatus   Status
}

// EventName returns the event type identifier.
func (e OrderStatusChanged) EventName() string {
	return "orders.order.status_changed"
}

// OrderDeleted is raised when an order is removed.
type OrderDeleted struct {
	BaseEvent
}

// EventName returns the event type identifier.
func (e OrderDeleted) EventName() string {
	return "orders.order.deleted"
}
