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
	ProviderName = "store-orders-api"
	ConsumerName = "store-backoffice"

	StateOrderExists  = "store loja@pact.com has order 301 in state CRIADO"
	StateOrderMissing = "store loja@pact.com has no order 999"
)

const (
	ExistingOrderID int64 = 301
	MissingOrderID  int64 = 999

	StoreEmail   = "loja@pact.com"
	SessionToken = "pact-session-token"
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

// PactFile returns the pact file path for the backoffice consumer.
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

// ExampleOrderPayload is the order the provider seeds for StateOrderExists.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"id":           ExistingOrderID,
		"state":        "CRIADO",
		"orderCreated": "12/01/2024",
		"totalValue":   "20.00",
		"store":        map[string]any{"email": StoreEmail},
		"products": []map[string]any{
			{"code": "123", "quantity": 2, "price": "10.00"},
		},
	}
}

func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
