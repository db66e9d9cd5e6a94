package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	ordermemory "github.com/name-hansel/kore-ai-api/internal/domains/orders/adapters/memory"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/application"
	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
)

func TestService_RecordsPlacedOrdersAndLogsFailures(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	inner := application.NewService(ordermemory.NewRepository(), application.Config{MaxDailyCapacity: 1000})
	svc := New(inner, WithLogger(logger), WithMeter(provider.Meter("test")))

	_, err := svc.AddOrder(context.Background(), ordertypes.AddOrderInput{OrderInput: ordertypes.OrderInput{
		CustomerID: "cust-1",
		DeliveryAddress: &ordertypes.DeliveryAddressInput{
			Address: "12 MG Road", City: "Pune", State: "Maharashtra", Pincode: "411001",
		},
		Quantity: json.Number("250"),
	}})
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), ordertypes.OrderIdentifier{ID: "nope"})
	require.Error(t, err)
	require.Contains(t, logs.String(), "failed to load order")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	totals := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[m.Name] += dp.Value
				}
			}
		}
	}
	require.Equal(t, int64(1), totals["orders.service.placed"])
	require.Equal(t, int64(250), totals["orders.service.ordered_ml"])
}
