package wealthlog

import "time"

// holdingLedger pairs a holding (derived columns already replayed) with
// its full transaction log, the unit of input for aggregation.
type holdingLedger struct {
	holding Holding
	txns    []Transaction
}

// computeStats folds every holding's all-time contribution into per
// currency statistics.
//
// Projected profit is "as of today": active fixed holdings contribute
// accrued-to-date interest plus rebate and realized profit, not a
// full-maturity projection. The weighted comprehensive yield weights each
// holding by the capital actually at risk: cost basis for completed and
// floating holdings, current principal for active fixed ones.
func computeStats(ledgers []holdingLedger, now time.Time) map[string]PortfolioStats {
	type accum struct {
		stats       PortfolioStats
		yieldWeight float64
		yieldSum    float64
	}
	byCurrency := map[string]*accum{}

	for _, l := range ledgers {
		h := l.holding
		acc := byCurrency[h.Currency]
		if acc == nil {
			acc = &accum{stats: PortfolioStats{Currency: h.Currency}}
			byCurrency[h.Currency] = acc
		}
		m := computeMetrics(h, l.txns, now)
		s := &acc.stats

		s.HoldingCount++
		s.TotalInvested += h.TotalCost
		if m.IsCompleted {
			s.CompletedPrincipal += h.TotalCost
		} else {
			s.ActivePrincipal += h.Principal
		}

		s.TotalRebate += h.Rebate
		if h.RebateGot {
			s.ReceivedRebate += h.Rebate
		} else {
			s.PendingRebate += h.Rebate
		}

		if m.IsCompleted {
			s.RealizedInterest += m.BaseInterest
		} else {
			s.RealizedInterest += h.RealizedProfit
		}
		if h.RebateGot {
			s.RealizedInterest += h.Rebate
		}

		s.ProjectedProfit += m.TotalReturn

		if !m.IsPending && !m.IsCompleted && isFixed(h) && h.AnnualRate != nil {
			s.TodayProfit += h.Principal * (*h.AnnualRate / 100) / dayCountBasis(h)
		}

		if m.ComprehensiveYield != nil {
			weight := yieldWeight(h, m)
			if weight > 0 {
				acc.yieldSum += *m.ComprehensiveYield * weight
				acc.yieldWeight += weight
			}
		}
	}

	result := map[string]PortfolioStats{}
	for currency, acc := range byCurrency {
		s := acc.stats
		s.TotalInvested = round2(s.TotalInvested)
		s.ActivePrincipal = round2(s.ActivePrincipal)
		s.CompletedPrincipal = round2(s.CompletedPrincipal)
		s.TotalRebate = round2(s.TotalRebate)
		s.PendingRebate = round2(s.PendingRebate)
		s.ReceivedRebate = round2(s.ReceivedRebate)
		s.RealizedInterest = round2(s.RealizedInterest)
		s.ProjectedProfit = round2(s.ProjectedProfit)
		s.TodayProfit = round2(s.TodayProfit)
		s.ComprehensiveYield = round2(safeDiv(acc.yieldSum, acc.yieldWeight))
		result[currency] = s
	}
	return result
}

// computePeriodStats allocates each holding's contribution to an
// arbitrary [start, end) window.
//
// Interest is pro-rated over the overlap between the window and the
// holding's active life. When a holding completes inside the window its
// actual lifetime net profit replaces the projection, minus whatever had
// already been allocated to earlier time: interest over the pre-window
// span and P&L transactions dated strictly before the window. Together
// with rebates being recognized only on the withdrawal date, adjacent
// windows that tile a holding's life sum exactly to its all-time profit.
func computePeriodStats(ledgers []holdingLedger, start, end, now time.Time) map[string]PeriodStats {
	type accum struct {
		stats       PeriodStats
		yieldWeight float64
		yieldSum    float64
	}
	byCurrency := map[string]*accum{}
	start = dateOnly(start)
	end = dateOnly(end)

	for _, l := range ledgers {
		h := l.holding
		deposit, ok := parseDate(h.DepositDate)
		if !ok {
			continue
		}
		withdraw, completed := parseDatePtr(h.WithdrawDate)

		lifeEnd := end
		if completed {
			lifeEnd = minDate(withdraw, end)
		}
		overlapStart := maxDate(deposit, start)
		overlapEnd := minDate(lifeEnd, end)
		overlapDays := daysBetween(overlapStart, overlapEnd)
		if overlapDays <= 0 {
			continue
		}

		profit := periodProfit(h, l.txns, start, end, overlapStart, overlapEnd, overlapDays, now)

		weight := periodWeight(h, completed)
		yield := 0.0
		if weight > 0 && overlapDays > 0 {
			yield = profit / weight * 100 * 365 / float64(overlapDays)
		}

		acc := byCurrency[h.Currency]
		if acc == nil {
			acc = &accum{stats: PeriodStats{
				Currency:  h.Currency,
				StartDate: start.Format(dateLayout),
				EndDate:   end.Format(dateLayout),
			}}
			byCurrency[h.Currency] = acc
		}
		acc.stats.Profit += profit
		acc.stats.Contributions = append(acc.stats.Contributions, PeriodContribution{
			HoldingID:   h.ID,
			Name:        h.Name,
			Currency:    h.Currency,
			OverlapDays: overlapDays,
			Profit:      round2(profit),
			Yield:       round2(yield),
		})
		if weight > 0 {
			acc.yieldSum += yield * weight
			acc.yieldWeight += weight
		}
	}

	result := map[string]PeriodStats{}
	for currency, acc := range byCurrency {
		s := acc.stats
		s.Profit = round2(s.Profit)
		s.WeightedYield = round2(safeDiv(acc.yieldSum, acc.yieldWeight))
		result[currency] = s
	}
	return result
}

func periodProfit(h Holding, txns []Transaction, start, end, overlapStart, overlapEnd time.Time, overlapDays int, now time.Time) float64 {
	deposit, _ := parseDate(h.DepositDate)
	withdraw, completed := parseDatePtr(h.WithdrawDate)
	today := dateOnly(now)
	fixed := isFixed(h)

	if completed {
		completedInWindow := !withdraw.Before(start) && withdraw.Before(end)
		if completedInWindow {
			// Actual completion profit, minus what earlier windows
			// already claimed. The lifetime span counts the withdrawal
			// day, matching the completed metrics view.
			elapsed := daysBetween(deposit, withdraw) + 1
			lifetime := h.RealizedProfit
			if fixed {
				lifetime += fixedInterestOver(h, h.TotalCost, elapsed)
			}
			if h.RebateGot {
				lifetime += h.Rebate
			}
			preDays := daysBetween(deposit, overlapStart)
			pre := pnlTransactionsBefore(txns, start)
			if fixed {
				pre += fixedInterestOver(h, h.TotalCost, preDays)
			}
			return lifetime - pre
		}
		profit := pnlTransactionsWithin(txns, start, end, today)
		if fixed {
			profit += fixedInterestOver(h, h.TotalCost, overlapDays)
		}
		return profit
	}

	profit := pnlTransactionsWithin(txns, start, end, today)
	if fixed && h.AnnualRate != nil {
		profit += accruedInterest(h, txns, overlapEnd) - accruedInterest(h, txns, overlapStart)
	}
	return profit
}

// pnlTransactionsBefore sums signed dividend/interest/fee/tax amounts
// dated strictly before cutoff.
func pnlTransactionsBefore(txns []Transaction, cutoff time.Time) float64 {
	total := 0.0
	for _, t := range txns {
		d, ok := parseDate(t.Date)
		if !ok || !d.Before(cutoff) {
			continue
		}
		total += signedPnL(t)
	}
	return total
}

// pnlTransactionsWithin sums signed P&L amounts dated in [start, end),
// excluding future-dated entries not yet recognized.
func pnlTransactionsWithin(txns []Transaction, start, end, today time.Time) float64 {
	total := 0.0
	for _, t := range txns {
		d, ok := parseDate(t.Date)
		if !ok || d.Before(start) || !d.Before(end) || d.After(today) {
			continue
		}
		total += signedPnL(t)
	}
	return total
}

func signedPnL(t Transaction) float64 {
	switch t.Type {
	case TxDividend, TxInterest:
		return t.Amount
	case TxFee, TxTax:
		return -t.Amount
	}
	return 0
}

func isFixed(h Holding) bool {
	return normalizeBehavior(h.Behavior) == BehaviorFixed
}

// yieldWeight is the all-time weighting base: capital at risk, not
// notional size.
func yieldWeight(h Holding, m Metrics) float64 {
	if m.IsCompleted || !isFixed(h) {
		return h.TotalCost
	}
	return h.Principal
}

func periodWeight(h Holding, completed bool) float64 {
	if completed || !isFixed(h) {
		return h.TotalCost
	}
	return h.Principal
}
