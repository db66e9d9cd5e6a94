package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMutationOrder_AcceptsNumbersAndStrings(t *testing.T) {
	var payload MutationOrder
	err := json.Unmarshal([]byte(`{
		"customerId": "c1",
		"deliveryAddress": {"address": "a", "city": "b", "state": "Karnataka", "pincode": 560001},
		"quantity": "750"
	}`), &payload)
	require.NoError(t, err)

	input := ToOrderInput(payload)
	require.Equal(t, "560001", input.DeliveryAddress.Pincode)
	require.Equal(t, json.Number("750"), input.Quantity)
}

func TestMutationOrder_KeepsInvalidTextForValidation(t *testing.T) {
	var payload MutationOrder
	err := json.Unmarshal([]byte(`{"quantity": "lots", "deliveryAddress": {"pincode": true}}`), &payload)
	require.NoError(t, err)

	input := ToOrderInput(payload)
	require.Equal(t, json.Number("lots"), input.Quantity)
	require.Equal(t, "true", input.DeliveryAddress.Pincode)
}

func TestMutationOrder_LeavesStatusUntrimmed(t *testing.T) {
	var payload MutationOrder
	require.NoError(t, json.Unmarshal([]byte(`{"status": "  "}`), &payload))

	input := ToOrderInput(payload)
	require.Equal(t, "  ", input.Status)
}

func TestMutationOrder_MissingFields(t *testing.T) {
	var payload MutationOrder
	require.NoError(t, json.Unmarshal([]byte(`{"quantity": null}`), &payload))

	input := ToOrderInput(payload)
	require.Nil(t, input.DeliveryAddress)
	require.Equal(t, json.Number(""), input.Quantity)
}

func TestParseIfMatch(t *testing.T) {
	v, ok := ParseIfMatch(ETag(3))
	require.True(t, ok)
	require.Equal(t, int64(3), v)

	v, ok = ParseIfMatch(`W/"7"`)
	require.True(t, ok)
	require.Equal(t, int64(7), v)

	v, ok = ParseIfMatch("")
	require.True(t, ok)
	require.Zero(t, v)

	_, ok = ParseIfMatch(`"abc"`)
	require.False(t, ok)
}
