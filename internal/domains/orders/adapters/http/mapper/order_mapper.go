package mapper

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
)

// NumberOrString accepts a JSON number or a string and keeps the raw text, so
// non-numeric input becomes a validation message rather than a decoding failure.
type NumberOrString struct {
	Raw string
	Set bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumberOrString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = NumberOrString{}
		return nil
	}
	n.Set = true
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.Raw = strings.TrimSpace(s)
		return nil
	}
	n.Raw = string(data)
	return nil
}

// MarshalJSON renders the value as a JSON string.
func (n NumberOrString) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Raw)
}

// DeliveryAddress is the HTTP representation of a delivery address.
type DeliveryAddress struct {
	Address string         `json:"address"`
	City    string         `json:"city"`
	State   string         `json:"state"`
	Pincode NumberOrString `json:"pincode"`
}

// MutationOrder captures inbound payloads for create/edit flows while preserving field presence.
type MutationOrder struct {
	CustomerID      string           `json:"customerId"`
	DeliveryAddress *DeliveryAddress `json:"deliveryAddress"`
	Quantity        NumberOrString   `json:"quantity"`
	Status          string           `json:"status"`
}

// StatusUpdate is the body of PATCH /api/orders/:orderId/status.
type StatusUpdate struct {
	Status string `json:"status"`
}

// OrderAddress is the outbound address shape.
type OrderAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// Order is the HTTP representation returned by the orders endpoints.
type Order struct {
	ID              string       `json:"id"`
	CustomerID      string       `json:"customerId"`
	DeliveryAddress OrderAddress `json:"deliveryAddress"`
	Quantity        int64        `json:"quantity"`
	Status          string       `json:"status"`
	OrderedAt       time.Time    `json:"orderedAt"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	Version         int64        `json:"version"`
}

// Capacity is the response of GET /api/capacity/:date.
type Capacity struct {
	MilkLeft    int64  `json:"milkLeft"`
	MaxCapacity int64  `json:"maxCapacity"`
	Ordered     int64  `json:"ordered"`
	Date        string `json:"date"`
}

// ToOrderInput maps a transport payload into the application input.
func ToOrderInput(payload MutationOrder) ordertypes.OrderInput {
	input := ordertypes.OrderInput{
		CustomerID: strings.TrimSpace(payload.CustomerID),
		Quantity:   json.Number(payload.Quantity.Raw),
		Status:     payload.Status,
	}
	if payload.DeliveryAddress != nil {
		input.DeliveryAddress = &ordertypes.DeliveryAddressInput{
			Address: payload.DeliveryAddress.Address,
			City:    payload.DeliveryAddress.City,
			State:   payload.DeliveryAddress.State,
			Pincode: payload.DeliveryAddress.Pincode.Raw,
		}
	}
	return input
}

// FromProjection converts a stored order into the transport representation.
func FromProjection(p *ordertypes.OrderProjection) Order {
	if p == nil || p.Entity == nil {
		return Order{}
	}
	o := p.Entity
	return Order{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		DeliveryAddress: OrderAddress{
			Address: o.DeliveryAddress.Address,
			City:    o.DeliveryAddress.City,
			State:   o.DeliveryAddress.State,
			Pincode: o.DeliveryAddress.Pincode,
		},
		Quantity:  o.Quantity,
		Status:    string(o.Status),
		OrderedAt: o.OrderedAt,
		CreatedAt: p.Metadata.CreatedAt,
		UpdatedAt: p.Metadata.UpdatedAt,
		Version:   p.Metadata.Version,
	}
}

// FromProjectionList maps a list of projections, never returning nil.
func FromProjectionList(list []*ordertypes.OrderProjection) []Order {
	result := make([]Order, 0, len(list))
	for _, p := range list {
		if p == nil {
			continue
		}
		result = append(result, FromProjection(p))
	}
	return result
}

// FromCapacity maps the capacity view.
func FromCapacity(c *ordertypes.Capacity) Capacity {
	if c == nil {
		return Capacity{}
	}
	return Capacity{
		MilkLeft:    c.MilkLeft,
		MaxCapacity: c.MaxCapacity,
		Ordered:     c.Ordered,
		Date:        c.Date.String(),
	}
}

// ETag renders a version as a strong entity tag.
func ETag(version int64) string {
	return strconv.Quote(strconv.FormatInt(version, 10))
}

// ParseIfMatch reads an If-Match header produced by ETag. Empty or "*" yields 0 (unconditional).
func ParseIfMatch(header string) (int64, bool) {
	header = strings.TrimSpace(header)
	if header == "" || header == "*" {
		return 0, true
	}
	header = strings.TrimPrefix(header, "W/")
	if unquoted, err := strconv.Unquote(header); err == nil {
		header = unquoted
	}
	version, err := strconv.ParseInt(header, 10, 64)
	if err != nil || version <= 0 {
		return 0, false
	}
	return version, true
}
