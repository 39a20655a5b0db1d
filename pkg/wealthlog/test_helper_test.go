package wealthlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setupTestDB creates a temporary database for testing and returns a Core
// instance. The caller should defer cleanup() to remove the temp file.
func setupTestDB(t *testing.T) (*Core, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "wealthlog-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	core, err := Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open test db: %v", err)
	}

	cleanup := func() {
		core.Close()
		os.RemoveAll(tmpDir)
	}

	return core, cleanup
}

// testFixedHolding creates a FIXED holding with an opening principal.
func testFixedHolding(t *testing.T, core *Core, name string, principal, rate float64, depositDate string) int64 {
	t.Helper()
	id, err := core.AddHolding(AddHoldingRequest{
		Name:        name,
		Category:    "fixed_income",
		Behavior:    BehaviorFixed,
		Currency:    "CNY",
		DepositDate: depositDate,
		AnnualRate:  &rate,
		Principal:   principal,
	})
	if err != nil {
		t.Fatalf("failed to create test FIXED holding: %v", err)
	}
	return id
}

// testFloatingHolding creates a FLOATING holding with an opening principal.
func testFloatingHolding(t *testing.T, core *Core, name string, principal float64, qty *float64, depositDate string) int64 {
	t.Helper()
	id, err := core.AddHolding(AddHoldingRequest{
		Name:        name,
		Category:    "fund",
		Behavior:    BehaviorFloating,
		Currency:    "CNY",
		DepositDate: depositDate,
		Principal:   principal,
		Quantity:    qty,
	})
	if err != nil {
		t.Fatalf("failed to create test FLOATING holding: %v", err)
	}
	return id
}

// floatEquals checks if two floats are approximately equal.
func floatEquals(a, b, epsilon float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

// assertFloatEquals fails the test if the floats are not approximately equal.
func assertFloatEquals(t *testing.T, got, want float64, msg string) {
	t.Helper()
	if !floatEquals(got, want, 0.001) {
		t.Errorf("%s: got %.4f, want %.4f", msg, got, want)
	}
}

// assertNoError fails the test if err is not nil.
func assertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// assertError fails the test if err is nil.
func assertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}

// mustParseDate parses a YYYY-MM-DD string or fails the test.
func mustParseDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, ok := parseDate(value)
	if !ok {
		t.Fatalf("failed to parse date %q", value)
	}
	return d
}
