package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validAddress() DeliveryAddress {
	return DeliveryAddress{Address: "12 MG Road", City: "Pune", State: "Maharashtra", Pincode: "411001"}
}

func TestNewOrder_DefaultsStatusToPlaced(t *testing.T) {
	orderedAt := time.Date(2024, 3, 15, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	order, err := NewOrder("cust-1", validAddress(), 500, "", orderedAt)
	require.NoError(t, err)
	require.Equal(t, StatusPlaced, order.Status)
	require.Equal(t, int64(500), order.Quantity)
	require.Equal(t, time.UTC, order.OrderedAt.Location())
	require.True(t, order.OrderedAt.Equal(orderedAt))
}

func TestNewOrder_AcceptsZeroQuantity(t *testing.T) {
	order, err := NewOrder("cust-1", validAddress(), 0, StatusPacked, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(0), order.Quantity)
	require.Equal(t, StatusPacked, order.Status)
}

func TestNewOrder_RejectsInvariantViolations(t *testing.T) {
	cases := map[string]struct {
		customer string
		address  DeliveryAddress
		quantity int64
		status   Status
		want     error
	}{
		"empty customer":   {customer: " ", address: validAddress(), quantity: 1, want: ErrEmptyCustomerID},
		"negative qty":     {customer: "c", address: validAddress(), quantity: -1, want: ErrInvalidQuantity},
		"qty over maximum": {customer: "c", address: validAddress(), quantity: MaxOrderQuantity + 1, want: ErrInvalidQuantity},
		"long pincode":     {customer: "c", address: DeliveryAddress{Address: "a", City: "b", State: "Karnataka", Pincode: "00000000000000000560001"}, quantity: 1, want: ErrInvalidPincode},
		"unknown status":   {customer: "c", address: validAddress(), quantity: 1, status: "lost", want: ErrInvalidStatus},
		"unknown region":   {customer: "c", address: DeliveryAddress{Address: "a", City: "b", State: "Goa", Pincode: "1"}, quantity: 1, want: ErrInvalidRegion},
		"negative pincode": {customer: "c", address: DeliveryAddress{Address: "a", City: "b", State: "Karnataka", Pincode: "-5"}, quantity: 1, want: ErrInvalidPincode},
		"empty city":       {customer: "c", address: DeliveryAddress{Address: "a", State: "Karnataka", Pincode: "5"}, quantity: 1, want: ErrEmptyCity},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewOrder(tc.customer, tc.address, tc.quantity, tc.status, time.Now())
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestOrder_EditKeepsStatusWhenEmpty(t *testing.T) {
	order, err := NewOrder("cust-1", validAddress(), 500, StatusPacked, time.Now())
	require.NoError(t, err)

	newAddress := DeliveryAddress{Address: "1 Brigade Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001"}
	require.NoError(t, order.Edit(newAddress, 750, "", TransitionAny))
	require.Equal(t, newAddress, order.DeliveryAddress)
	require.Equal(t, int64(750), order.Quantity)
	require.Equal(t, StatusPacked, order.Status)
}

func TestOrder_EditIsAtomicOnFailure(t *testing.T) {
	order, err := NewOrder("cust-1", validAddress(), 500, StatusPlaced, time.Now())
	require.NoError(t, err)
	before := *order

	err = order.Edit(validAddress(), -10, StatusPacked, TransitionAny)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	require.Equal(t, before, *order)
}

func TestOrder_UpdateStatusAllowsBackwardsByDefault(t *testing.T) {
	order, err := NewOrder("cust-1", validAddress(), 500, StatusDelivered, time.Now())
	require.NoError(t, err)

	require.NoError(t, order.UpdateStatus(StatusPlaced, TransitionAny))
	require.Equal(t, StatusPlaced, order.Status)
}

func TestOrder_UpdateStatusForwardOnly(t *testing.T) {
	order, err := NewOrder("cust-1", validAddress(), 500, StatusPlaced, time.Now())
	require.NoError(t, err)

	require.ErrorIs(t, order.UpdateStatus(StatusDispatched, TransitionForwardOnly), ErrInvalidTransition)
	require.NoError(t, order.UpdateStatus(StatusPacked, TransitionForwardOnly))
	require.NoError(t, order.UpdateStatus(StatusPacked, TransitionForwardOnly))
	require.ErrorIs(t, order.UpdateStatus(StatusPlaced, TransitionForwardOnly), ErrInvalidTransition)
	require.Equal(t, StatusPacked, order.Status)
}

func TestIsValidPincode(t *testing.T) {
	require.True(t, IsValidPincode("411001"))
	require.True(t, IsValidPincode(" 0 "))
	require.False(t, IsValidPincode(""))
	require.False(t, IsValidPincode("41a001"))
	require.False(t, IsValidPincode("-1"))
	require.False(t, IsValidPincode("4.5"))
	require.True(t, IsValidPincode(" 0000000000560001 "))
	require.False(t, IsValidPincode("00000000000560001"))
}

func TestNewOrder_AcceptsMaximumQuantity(t *testing.T) {
	order, err := NewOrder("cust-1", validAddress(), MaxOrderQuantity, "", time.Now())
	require.NoError(t, err)
	require.Equal(t, MaxOrderQuantity, order.Quantity)
}

func TestNewOrder_TrimsAddressToStoredWidth(t *testing.T) {
	address := DeliveryAddress{Address: " 12 MG Road ", City: " Pune ", State: "  Karnataka  ", Pincode: " 560001 "}
	order, err := NewOrder("cust-1", address, 1, "", time.Now())
	require.NoError(t, err)
	require.Equal(t, "Karnataka", order.DeliveryAddress.State)
	require.Equal(t, "560001", order.DeliveryAddress.Pincode)
}
