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
	ProviderName = "brewery-api"
	ConsumerName = "brewery-storefront"

	StateCatalogBaseline = "customer 1 and beer 1 exist"
	StateOrderExists     = "order 1 exists"
	StateOrderMissing    = "no order with id 404"
)

const (
	ExistingCustomerID int64 = 1
	ExistingBeerID     int64 = 1
	MissingBeerID      int64 = 404

	ExistingOrderID int64 = 1
	MissingOrderID  int64 = 404

	ExampleOrderQuantity int32 = 3
)

const (
	ExampleBeerName  = "Mango Bobs"
	ExampleBeerStyle = "ALE"
	ExampleBeerUPC   = "0631234200036"
	ExampleBeerPrice = "12.95"

	ExampleCustomerName  = "Tasting Room"
	ExampleCustomerEmail = "orders@tasting-room.example"
	ExampleCustomerPhone = "555-0100"

	ExampleCallbackURL = "https://storefront.example/callbacks/orders"
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

// PactFile returns the canonical pact file path for the storefront consumer.
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

// ExampleOrderRequest is the body the storefront posts to place an order.
func ExampleOrderRequest(beerID int64) map[string]any {
	return map[string]any{
		"customerId":             ExistingCustomerID,
		"orderStatusCallbackUrl": ExampleCallbackURL,
		"orderLines": []map[string]any{
			{"beerId": beerID, "orderQuantity": ExampleOrderQuantity},
		},
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
