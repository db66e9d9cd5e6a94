package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Region enumerates the states we deliver to.
type Region string

const (
	RegionMaharashtra   Region = "Maharashtra"
	RegionAndhraPradesh Region = "Andhra Pradesh"
	RegionKarnataka     Region = "Karnataka"
)

// IsValidRegion reports whether the value names a deliverable region.
func IsValidRegion(value string) bool {
	switch Region(value) {
	case RegionMaharashtra, RegionAndhraPradesh, RegionKarnataka:
		return true
	default:
		return false
	}
}

const (
	// MaxOrderQuantity bounds a single order in milliliters so daily totals stay within int64.
	MaxOrderQuantity int64 = 1_000_000_000
	// MaxPincodeLength matches the width of the stored pincode column.
	MaxPincodeLength = 16
)

var (
	ErrEmptyCustomerID = errors.New("customer id is required")
	ErrEmptyAddress    = errors.New("delivery address line is required")
	ErrEmptyCity       = errors.New("delivery city is required")
	ErrInvalidRegion   = errors.New("delivery state is not a supported region")
	ErrInvalidPincode  = errors.New("pincode must be a non-negative integer of at most 16 digits")
	ErrInvalidQuantity = errors.New("quantity must be between zero and the per-order maximum")
)

// DeliveryAddress is where the milk goes. Pincode is kept as text.
type DeliveryAddress struct {
	Address string
	City    string
	State   string
	Pincode string
}

// Validate enforces the address invariants.
func (a DeliveryAddress) Validate() error {
	if strings.TrimSpace(a.Address) == "" {
		return ErrEmptyAddress
	}
	if strings.TrimSpace(a.City) == "" {
		return ErrEmptyCity
	}
	if !IsValidRegion(a.State) {
		return ErrInvalidRegion
	}
	if !IsValidPincode(a.Pincode) {
		return ErrInvalidPincode
	}
	return nil
}

// IsValidPincode reports whether the text is a non-negative base-10 integer that fits the pincode column.
func IsValidPincode(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || len(value) > MaxPincodeLength {
		return false
	}
	n, err := strconv.ParseInt(value, 10, 64)
	return err == nil && n >= 0
}

// Order models a single customer delivery request for a quantity of milk.
type Order struct {
	ID              string
	CustomerID      string
	DeliveryAddress DeliveryAddress
	// Quantity is expressed in milliliters.
	Quantity  int64
	Status    Status
	OrderedAt time.Time
}

// NewOrder validates and constructs a new Order aggregate. An empty status defaults to placed and a
// zero orderedAt is left for the caller to stamp.
func NewOrder(customerID string, address DeliveryAddress, quantity int64, status Status, orderedAt time.Time) (*Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrEmptyCustomerID
	}
	order := &Order{
		CustomerID:      customerID,
		DeliveryAddress: normalizeAddress(address),
		Quantity:        quantity,
		OrderedAt:       orderedAt.UTC(),
	}
	if err := order.setStatus(status); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.Quantity < 0 || o.Quantity > MaxOrderQuantity {
		return ErrInvalidQuantity
	}
	if !o.Status.IsValid() {
		return ErrInvalidStatus
	}
	return o.DeliveryAddress.Validate()
}

// Edit replaces the delivery details. An empty status keeps the current one.
func (o *Order) Edit(address DeliveryAddress, quantity int64, status Status, policy TransitionPolicy) error {
	next := *o
	next.DeliveryAddress = normalizeAddress(address)
	next.Quantity = quantity
	if status != "" {
		if err := next.UpdateStatus(status, policy); err != nil {
			return err
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*o = next
	return nil
}

// UpdateStatus moves the order to a new lifecycle state under the given policy.
func (o *Order) UpdateStatus(status Status, policy TransitionPolicy) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	if err := policy.Check(o.Status, status); err != nil {
		return err
	}
	o.Status = status
	return nil
}

func (o *Order) setStatus(status Status) error {
	if status == "" {
		status = StatusPlaced
	}
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	o.Status = status
	return nil
}

func normalizeAddress(a DeliveryAddress) DeliveryAddress {
	return DeliveryAddress{
		Address: strings.TrimSpace(a.Address),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		Pincode: strings.TrimSpace(a.Pincode),
	}
}
