package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/validation"
)

type normalizedAddOrderInput struct {
	CustomerID      string                     `json:"customerId"`
	DeliveryAddress *normalizedDeliveryAddress `json:"deliveryAddress"`
	Quantity        string                     `json:"quantity"`
	Status          string                     `json:"status"`
}

type normalizedDeliveryAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// FingerprintAddOrder builds a deterministic hash of the add-order payload (excluding the idempotency key).
func FingerprintAddOrder(input ordertypes.AddOrderInput) (string, error) {
	normalized := normalizedAddOrderInput{
		CustomerID: strings.TrimSpace(input.CustomerID),
		Quantity:   strings.TrimSpace(input.Quantity.String()),
		Status:     input.Status,
	}
	if qty, ok := validation.ParseQuantity(input.Quantity); ok {
		normalized.Quantity = strconv.FormatInt(qty, 10)
	}
	if addr := input.DeliveryAddress; addr != nil {
		normalized.DeliveryAddress = &normalizedDeliveryAddress{
			Address: strings.TrimSpace(addr.Address),
			City:    strings.TrimSpace(addr.City),
			State:   strings.TrimSpace(addr.State),
			Pincode: strings.TrimSpace(addr.Pincode),
		}
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
