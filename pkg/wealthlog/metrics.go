package wealthlog

import "time"

// computeMetrics derives the performance record for a holding whose
// derived columns have already been refreshed by replayTransactions.
//
// A holding is in exactly one of three phases: pending (deposit date in
// the future), completed (withdrawal date set) or active. The phase and
// the FIXED/FLOATING behavior select how yields are produced; completed
// wins over pending if a record somehow carries both markers.
func computeMetrics(h Holding, txns []Transaction, now time.Time) Metrics {
	today := dateOnly(now)
	deposit, hasDeposit := parseDate(h.DepositDate)
	withdraw, completed := parseDatePtr(h.WithdrawDate)
	pending := hasDeposit && deposit.After(today) && !completed
	fixed := normalizeBehavior(h.Behavior) == BehaviorFixed

	m := Metrics{
		HoldingID:   h.ID,
		IsPending:   pending,
		IsCompleted: completed,
	}

	switch {
	case pending:
		pendingMetrics(&m, h, fixed)
	case completed:
		completedMetrics(&m, h, fixed, deposit, withdraw)
	default:
		activeMetrics(&m, h, txns, fixed, deposit, today)
	}

	unitFigures(&m, h, fixed)
	return m
}

// pendingMetrics: the position has not started, so every figure is a pure
// projection. Fixed holdings project their stated rate; floating holdings
// have nothing to project.
func pendingMetrics(m *Metrics, h Holding, fixed bool) {
	if fixed && h.AnnualRate != nil {
		m.AnnualYield = floatPtr(*h.AnnualRate)
		m.ComprehensiveYield = floatPtr(*h.AnnualRate)
	}
}

// completedMetrics: the realized-on-close view. Base interest is the full
// cost basis earning for the whole elapsed span (fixed only) plus whatever
// the transaction log locked in. The withdrawal day itself earns, so a
// deposit on 2024-01-01 withdrawn 2024-12-31 spans 366 days.
func completedMetrics(m *Metrics, h Holding, fixed bool, deposit, withdraw time.Time) {
	elapsed := daysBetween(deposit, withdraw) + 1
	if elapsed < 0 {
		elapsed = 0
	}
	m.HoldingDays = elapsed

	base := h.RealizedProfit
	if fixed {
		base += fixedInterestOver(h, h.TotalCost, elapsed)
	}
	m.BaseInterest = round2(base)
	m.Profit = m.BaseInterest
	m.TotalReturn = round2(base + h.Rebate)

	if h.TotalCost > 0 {
		holdingYield := base / h.TotalCost * 100
		m.HoldingYield = floatPtr(round2(holdingYield))
		if elapsed > 0 {
			m.AnnualYield = floatPtr(round2(holdingYield * 365 / float64(elapsed)))
			m.ComprehensiveYield = floatPtr(round2((base + h.Rebate) / h.TotalCost * 100 * 365 / float64(elapsed)))
		}
	}
}

func activeMetrics(m *Metrics, h Holding, txns []Transaction, fixed bool, deposit, today time.Time) {
	elapsed := daysBetween(deposit, today) + 1
	if elapsed < 0 {
		elapsed = 0
	}
	m.HoldingDays = elapsed

	if maturity, ok := parseDatePtr(h.MaturityDate); ok {
		m.DaysToMaturity = intPtr(daysBetween(today, maturity))
	}

	if fixed && h.AnnualRate != nil {
		accrued := accruedInterest(h, txns, today)
		m.AccruedReturn = round2(accrued)
		m.BaseInterest = m.AccruedReturn
		m.Profit = round2(accrued + h.RealizedProfit)
		m.TotalReturn = round2(accrued + h.RealizedProfit + h.Rebate)
		m.AnnualYield = floatPtr(*h.AnnualRate)
		if h.MaturityDate != nil && h.Principal > 0 {
			m.HoldingYield = floatPtr(round2(maturityInterest(h, txns) / h.Principal * 100))
		}
		m.ComprehensiveYield = floatPtr(round2(activeFixedComprehensiveYield(h, deposit, elapsed)))
		return
	}

	// Floating, or fixed without a stated rate: yields only exist when
	// some return signal was supplied. A nil yield says "unavailable",
	// never a misleading zero.
	current := 0.0
	if h.CurrentReturn != nil {
		current = *h.CurrentReturn
	}
	pnl := current + h.RealizedProfit
	m.AccruedReturn = round2(current)
	m.Profit = round2(pnl)
	m.TotalReturn = round2(pnl + h.Rebate)

	hasSignal := h.CurrentReturn != nil || h.AnnualRate != nil
	if hasSignal && h.TotalCost > 0 {
		holdingYield := pnl / h.TotalCost * 100
		m.HoldingYield = floatPtr(round2(holdingYield))
		if elapsed > 0 {
			m.AnnualYield = floatPtr(round2(holdingYield * 365 / float64(elapsed)))
			m.ComprehensiveYield = floatPtr(round2((pnl + h.Rebate) / h.TotalCost * 100 * 365 / float64(elapsed)))
		}
	}
}

// activeFixedComprehensiveYield blends the stated rate with the rebate
// annualized over the holding's contractual term. Without a rebate the
// comprehensive yield is just the rate.
func activeFixedComprehensiveYield(h Holding, deposit time.Time, elapsed int) float64 {
	rate := *h.AnnualRate
	if h.Rebate <= 0 || h.Principal <= 0 {
		return rate
	}
	termDays := 0
	if maturity, ok := parseDatePtr(h.MaturityDate); ok {
		termDays = daysBetween(deposit, maturity) + 1
	}
	if termDays <= 0 {
		termDays = elapsed
	}
	if termDays <= 0 {
		return rate
	}
	return rate + h.Rebate/h.Principal*100*365/float64(termDays)
}

// unitFigures fills quantity-denominated cost and the computed unit value
// proxy. The proxy is model-derived (current total value over quantity),
// deliberately kept apart from any externally quoted price.
func unitFigures(m *Metrics, h Holding, fixed bool) {
	if h.Quantity <= 0 {
		return
	}
	m.UnitCost = floatPtr(round4(h.TotalCost / h.Quantity))
	value := h.Principal + m.AccruedReturn
	if !fixed {
		value += h.RealizedProfit
	}
	m.UnitValue = floatPtr(round4(value / h.Quantity))
}
