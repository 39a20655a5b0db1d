package wealthlog

import "testing"

func TestComputeMetricsPendingFixed(t *testing.T) {
	now := mustParseDate(t, "2025-06-01")
	rate := 3.2
	h := Holding{
		ID:          1,
		Behavior:    BehaviorFixed,
		DepositDate: "2025-07-01",
		AnnualRate:  &rate,
		Basis:       365,
	}

	m := computeMetrics(h, nil, now)

	if !m.IsPending {
		t.Fatal("expected pending")
	}
	if m.IsCompleted {
		t.Fatal("pending holding must not be completed")
	}
	if m.AnnualYield == nil || m.ComprehensiveYield == nil {
		t.Fatal("pending fixed holding projects its rate")
	}
	assertFloatEquals(t, *m.AnnualYield, 3.2, "projected annual yield")
	assertFloatEquals(t, *m.ComprehensiveYield, 3.2, "projected comprehensive yield")
	assertFloatEquals(t, m.Profit, 0, "no profit before start")
}

func TestComputeMetricsCompletedFixed(t *testing.T) {
	now := mustParseDate(t, "2025-06-01")
	rate := 3.65
	// 2023-01-01 至 2023-12-31 首尾均计息，共 365 天。
	withdraw := "2023-12-31"
	h := Holding{
		ID:           2,
		Behavior:     BehaviorFixed,
		DepositDate:  "2023-01-01",
		WithdrawDate: &withdraw,
		AnnualRate:   &rate,
		Basis:        365,
		Rebate:       200,
		RebateGot:    true,
		TotalCost:    100000,
	}

	m := computeMetrics(h, nil, now)

	if !m.IsCompleted {
		t.Fatal("expected completed")
	}
	if m.HoldingDays != 365 {
		t.Errorf("holding days: got %d, want 365", m.HoldingDays)
	}
	assertFloatEquals(t, m.BaseInterest, 3650, "full-span base interest")
	assertFloatEquals(t, m.TotalReturn, 3850, "base interest plus rebate")
	if m.HoldingYield == nil || m.AnnualYield == nil || m.ComprehensiveYield == nil {
		t.Fatal("completed holding with cost must have yields")
	}
	assertFloatEquals(t, *m.HoldingYield, 3.65, "holding yield")
	assertFloatEquals(t, *m.AnnualYield, 3.65, "annualized yield over 365 days")
	assertFloatEquals(t, *m.ComprehensiveYield, 3.85, "comprehensive yield includes rebate")
}

func TestComputeMetricsCompletedWinsOverPending(t *testing.T) {
	// A record carrying both a future deposit date and a withdrawal date
	// is treated as completed.
	now := mustParseDate(t, "2024-01-01")
	withdraw := "2025-06-01"
	h := Holding{
		ID:           3,
		Behavior:     BehaviorFloating,
		DepositDate:  "2025-01-01",
		WithdrawDate: &withdraw,
	}

	m := computeMetrics(h, nil, now)

	if m.IsPending {
		t.Error("completed must win over pending")
	}
	if !m.IsCompleted {
		t.Error("expected completed")
	}
}

func TestComputeMetricsActiveFixed(t *testing.T) {
	now := mustParseDate(t, "2024-12-31")
	rate := 3.65
	maturity := "2025-07-01"
	h := Holding{
		ID:           4,
		Behavior:     BehaviorFixed,
		DepositDate:  "2024-01-01",
		MaturityDate: &maturity,
		AnnualRate:   &rate,
		Basis:        365,
		Principal:    100000,
		TotalCost:    100000,
	}
	txns := []Transaction{
		{ID: 1, Date: "2024-01-01", Type: TxBuy, Amount: 100000},
	}

	m := computeMetrics(h, txns, now)

	if m.IsPending || m.IsCompleted {
		t.Fatal("expected active")
	}
	if m.HoldingDays != 366 {
		t.Errorf("holding days: got %d, want 366", m.HoldingDays)
	}
	if m.DaysToMaturity == nil || *m.DaysToMaturity != 182 {
		t.Errorf("days to maturity: got %v, want 182", m.DaysToMaturity)
	}
	assertFloatEquals(t, m.AccruedReturn, 3660, "accrued to date")
	if m.AnnualYield == nil {
		t.Fatal("active fixed holding has a stated rate")
	}
	assertFloatEquals(t, *m.AnnualYield, 3.65, "annual yield is the stated rate")
	if m.HoldingYield == nil {
		t.Fatal("maturity and principal present, holding yield expected")
	}
	// Full term 2024-01-01 through 2025-07-01 inclusive is 548 days.
	assertFloatEquals(t, *m.HoldingYield, round2(100000*0.0365*548/365/100000*100), "term yield to maturity")
	if m.ComprehensiveYield == nil {
		t.Fatal("comprehensive yield expected")
	}
	assertFloatEquals(t, *m.ComprehensiveYield, 3.65, "no rebate, comprehensive equals rate")
}

func TestComputeMetricsActiveFixedRebateBoostsComprehensive(t *testing.T) {
	now := mustParseDate(t, "2024-07-01")
	rate := 3.0
	maturity := "2024-12-31"
	h := Holding{
		ID:           5,
		Behavior:     BehaviorFixed,
		DepositDate:  "2024-01-01",
		MaturityDate: &maturity,
		AnnualRate:   &rate,
		Basis:        365,
		Rebate:       366,
		Principal:    100000,
		TotalCost:    100000,
	}
	txns := []Transaction{
		{ID: 1, Date: "2024-01-01", Type: TxBuy, Amount: 100000},
	}

	m := computeMetrics(h, txns, now)

	if m.ComprehensiveYield == nil {
		t.Fatal("comprehensive yield expected")
	}
	// Term is 366 days, so the rebate annualizes to
	// 366/100000*100*365/366 = 0.365 points on top of the rate.
	assertFloatEquals(t, *m.ComprehensiveYield, round2(3.0+366.0/100000*100*365/366), "rate plus annualized rebate")
}

func TestComputeMetricsActiveFloatingWithSignal(t *testing.T) {
	now := mustParseDate(t, "2024-12-31")
	current := 800.0
	h := Holding{
		ID:            6,
		Behavior:      BehaviorFloating,
		DepositDate:   "2024-01-01",
		CurrentReturn: &current,
		Principal:     10000,
		TotalCost:     10000,
		RealizedProfit: 200,
	}

	m := computeMetrics(h, nil, now)

	assertFloatEquals(t, m.Profit, 1000, "current plus realized")
	assertFloatEquals(t, m.TotalReturn, 1000, "no rebate")
	if m.HoldingYield == nil {
		t.Fatal("return signal present, holding yield expected")
	}
	assertFloatEquals(t, *m.HoldingYield, 10, "holding yield percent")
	if m.AnnualYield == nil {
		t.Fatal("annual yield expected")
	}
	// 2024-01-01 through 2024-12-31 inclusive is 366 days.
	assertFloatEquals(t, *m.AnnualYield, round2(10*365/366.0), "annualized over the inclusive span")
}

func TestComputeMetricsActiveFloatingWithoutSignalHasNilYields(t *testing.T) {
	now := mustParseDate(t, "2024-12-31")
	h := Holding{
		ID:          7,
		Behavior:    BehaviorFloating,
		DepositDate: "2024-01-01",
		Principal:   10000,
		TotalCost:   10000,
	}

	m := computeMetrics(h, nil, now)

	if m.AnnualYield != nil || m.HoldingYield != nil || m.ComprehensiveYield != nil {
		t.Error("no return signal: yields must be nil, not zero")
	}
	assertFloatEquals(t, m.Profit, 0, "no signal means zero profit")
}

func TestComputeMetricsUnitFigures(t *testing.T) {
	now := mustParseDate(t, "2024-12-31")
	current := 500.0
	h := Holding{
		ID:            8,
		Behavior:      BehaviorFloating,
		DepositDate:   "2024-01-01",
		CurrentReturn: &current,
		Principal:     10000,
		Quantity:      1000,
		TotalCost:     10000,
		RealizedProfit: 100,
	}

	m := computeMetrics(h, nil, now)

	if m.UnitCost == nil || m.UnitValue == nil {
		t.Fatal("quantity present, unit figures expected")
	}
	assertFloatEquals(t, *m.UnitCost, 10, "unit cost")
	// (principal + current return + realized) / quantity
	assertFloatEquals(t, *m.UnitValue, 10.6, "computed unit value proxy")
}

func TestComputeMetricsNoUnitFiguresWithoutQuantity(t *testing.T) {
	now := mustParseDate(t, "2024-12-31")
	h := Holding{
		ID:          9,
		Behavior:    BehaviorFixed,
		DepositDate: "2024-01-01",
		Principal:   10000,
		TotalCost:   10000,
	}

	m := computeMetrics(h, nil, now)

	if m.UnitCost != nil || m.UnitValue != nil {
		t.Error("no quantity: unit figures must be nil")
	}
}

func TestComputeMetricsCompletedZeroCostDegradesSilently(t *testing.T) {
	now := mustParseDate(t, "2025-01-01")
	withdraw := "2024-06-01"
	h := Holding{
		ID:           10,
		Behavior:     BehaviorFixed,
		DepositDate:  "2024-01-01",
		WithdrawDate: &withdraw,
	}

	m := computeMetrics(h, nil, now)

	if m.HoldingYield != nil || m.AnnualYield != nil {
		t.Error("zero cost: yields unavailable, not infinite")
	}
	assertFloatEquals(t, m.TotalReturn, 0, "nothing earned")
}
