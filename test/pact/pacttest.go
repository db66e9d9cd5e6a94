//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "orders-api"
	ConsumerName = "dispatch-portal"

	StateOrdersBaseline = "orders baseline"
	StateOrderExists    = "order 3f1c2a9e exists"
	StateOrderMissing   = "no order with id 00000000-0000-4000-8000-000000000404"
	StateCapacityBooked = "1200 ml booked on 15-03-2024"
)

const (
	ExistingOrderID = "3f1c2a9e-5b7d-4c11-9a2e-0d6f8b1c7e42"
	MissingOrderID  = "00000000-0000-4000-8000-000000000404"

	CapacityDate        = "15-03-2024"
	MaxDailyCapacity    = 5000
	BookedOnCapacityDay = 1200
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the dispatch portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderPayload is the body the consumer sends to place an order.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"customerId": "cust-101",
		"deliveryAddress": map[string]any{
			"address": "12 MG Road",
			"city":    "Pune",
			"state":   "Maharashtra",
			"pincode": "411001",
		},
		"quantity": 500,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
