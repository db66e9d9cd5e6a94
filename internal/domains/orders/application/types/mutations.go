package types

import "encoding/json"

// DeliveryAddressInput carries the address block of an order payload as received.
type DeliveryAddressInput struct {
	Address string
	City    string
	State   string
	Pincode string
}

// OrderInput is the candidate payload shared by the create and edit flows. Quantity is kept as the
// raw JSON number so non-integral or absent values can be reported by validation.
type OrderInput struct {
	CustomerID      string
	DeliveryAddress *DeliveryAddressInput
	Quantity        json.Number
	Status          string
}

// AddOrderInput captures the request to place a new order.
type AddOrderInput struct {
	OrderInput
	// IdempotencyKey is optional; retries with the same key replay the stored order.
	IdempotencyKey string
}

// EditOrderInput replaces the delivery details of an existing order.
type EditOrderInput struct {
	ID string
	OrderInput
	// IfVersion enables compare-and-swap when non-zero.
	IfVersion int64
}

// UpdateStatusInput moves an existing order to another status.
type UpdateStatusInput struct {
	ID        string
	Status    string
	IfVersion int64
}
