// Package validation checks order payloads and capacity dates before they reach the service.
//
// Every rule is evaluated and every failure is reported, in a fixed order, so clients can fix a
// payload in one round trip.
package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
)

const (
	MsgInvalidCustomerID       = "Invalid customer ID"
	MsgDeliveryAddressRequired = "Delivery address required"
	MsgAddressRequired         = "Address required"
	MsgCityRequired            = "City required"
	MsgStateRequired           = "State required"
	MsgInvalidState            = "Invalid state"
	MsgInvalidPincode          = "Invalid pincode"
	MsgInvalidQuantity         = "Invalid quantity"
	MsgInvalidStatus           = "Invalid status"
)

// ValidateCreate returns the problems with a new order payload, or nil when it is acceptable.
func ValidateCreate(input types.OrderInput) []string {
	var problems []string
	if strings.TrimSpace(input.CustomerID) == "" {
		problems = append(problems, MsgInvalidCustomerID)
	}
	return append(problems, validateBody(input)...)
}

// ValidateEdit is ValidateCreate without the customer rule; the customer of an order never changes.
func ValidateEdit(input types.OrderInput) []string {
	return validateBody(input)
}

// ValidateStatus reports whether raw names a known status. Empty is not a status.
func ValidateStatus(raw string) []string {
	if !domain.Status(raw).IsValid() {
		return []string{MsgInvalidStatus}
	}
	return nil
}

func validateBody(input types.OrderInput) []string {
	var problems []string
	if input.DeliveryAddress == nil {
		problems = append(problems, MsgDeliveryAddressRequired)
	} else {
		problems = append(problems, validateAddress(*input.DeliveryAddress)...)
	}
	if _, ok := ParseQuantity(input.Quantity); !ok {
		problems = append(problems, MsgInvalidQuantity)
	}
	if input.Status != "" && !domain.Status(input.Status).IsValid() {
		problems = append(problems, MsgInvalidStatus)
	}
	return problems
}

func validateAddress(a types.DeliveryAddressInput) []string {
	var problems []string
	if strings.TrimSpace(a.Address) == "" {
		problems = append(problems, MsgAddressRequired)
	}
	if strings.TrimSpace(a.City) == "" {
		problems = append(problems, MsgCityRequired)
	}
	state := strings.TrimSpace(a.State)
	switch {
	case state == "":
		problems = append(problems, MsgStateRequired)
	case !domain.IsValidRegion(state):
		problems = append(problems, MsgInvalidState)
	}
	if !domain.IsValidPincode(a.Pincode) {
		problems = append(problems, MsgInvalidPincode)
	}
	return problems
}

// ParseQuantity converts a JSON number into milliliters. Integral floats such as 500.0 are accepted;
// absent, fractional, negative or values above domain.MaxOrderQuantity are not.
func ParseQuantity(raw json.Number) (int64, bool) {
	text := strings.TrimSpace(raw.String())
	if text == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, n >= 0 && n <= domain.MaxOrderQuantity
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f >= math.MaxInt64 {
		return 0, false
	}
	n := int64(f)
	return n, n <= domain.MaxOrderQuantity
}
