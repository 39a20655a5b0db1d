package mobile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupMobileCore(t *testing.T) (*Core, func()) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "wealthlog-mobile-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	core, err := Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open mobile core: %v", err)
	}
	return core, func() {
		core.Close()
		os.RemoveAll(tmpDir)
	}
}

func TestMobileHoldingRoundTrip(t *testing.T) {
	core, cleanup := setupMobileCore(t)
	defer cleanup()

	id, err := core.AddHoldingJSON(`{
		"name": "定期存款",
		"category": "bank_deposit",
		"behavior": "FIXED",
		"currency": "CNY",
		"deposit_date": "2024-01-01",
		"annual_rate": 2.8,
		"principal": 50000
	}`)
	if err != nil {
		t.Fatalf("AddHoldingJSON: %v", err)
	}
	if id == 0 {
		t.Fatal("expected holding id")
	}

	holdingsJSON, err := core.GetHoldingsJSON()
	if err != nil {
		t.Fatalf("GetHoldingsJSON: %v", err)
	}
	if !strings.Contains(holdingsJSON, "定期存款") {
		t.Errorf("holdings JSON missing name: %s", holdingsJSON)
	}

	txnsJSON, err := core.GetTransactionsJSON(id)
	if err != nil {
		t.Fatalf("GetTransactionsJSON: %v", err)
	}
	var txns []map[string]any
	if err := json.Unmarshal([]byte(txnsJSON), &txns); err != nil {
		t.Fatalf("decode transactions: %v", err)
	}
	if len(txns) != 1 {
		t.Errorf("expected opening transaction, got %d", len(txns))
	}
}

func TestMobileStatsAndValuation(t *testing.T) {
	core, cleanup := setupMobileCore(t)
	defer cleanup()

	if _, err := core.AddHoldingJSON(`{
		"name": "基金",
		"category": "fund",
		"behavior": "FLOATING",
		"currency": "CNY",
		"deposit_date": "2024-01-01",
		"principal": 10000
	}`); err != nil {
		t.Fatalf("AddHoldingJSON: %v", err)
	}

	statsJSON, err := core.GetPortfolioStatsJSON()
	if err != nil {
		t.Fatalf("GetPortfolioStatsJSON: %v", err)
	}
	if !strings.Contains(statsJSON, "CNY") {
		t.Errorf("stats JSON missing currency: %s", statsJSON)
	}

	valuationJSON, err := core.GetValuationJSON("CNY")
	if err != nil {
		t.Fatalf("GetValuationJSON: %v", err)
	}
	var valuation map[string]any
	if err := json.Unmarshal([]byte(valuationJSON), &valuation); err != nil {
		t.Fatalf("decode valuation: %v", err)
	}
	if valuation["total"].(float64) != 10000 {
		t.Errorf("valuation total: got %v", valuation["total"])
	}
}

func TestMobileInvalidRequestJSON(t *testing.T) {
	core, cleanup := setupMobileCore(t)
	defer cleanup()

	if _, err := core.AddHoldingJSON("{broken"); err == nil {
		t.Error("expected decode error")
	}
	if _, err := core.AddTransactionJSON("not json"); err == nil {
		t.Error("expected decode error")
	}
}
