package wealthlog

import "time"

// dayCountBasis returns the holding's days-per-year divisor.
func dayCountBasis(h Holding) float64 {
	if h.Basis > 0 {
		return float64(h.Basis)
	}
	return DefaultDayCountBasis
}

// accruedInterest computes interest earned by a FIXED holding from its
// deposit date through asOf inclusive, using segmented accrual: the
// balance is walked through every principal-changing transaction so that
// a partial withdrawal stops earning on the withdrawn portion the day it
// leaves.
//
// Each segment contributes balance * rate/100 * segmentDays/basis. The
// terminal day earns: a full leap year deposited 2024-01-01 and measured
// on 2024-12-31 counts 366 days. Segments with zero or negative days
// contribute nothing, as do transactions dated before the deposit (no
// position existed yet).
func accruedInterest(h Holding, txns []Transaction, asOf time.Time) float64 {
	rate := 0.0
	if h.AnnualRate != nil {
		rate = *h.AnnualRate
	}
	if rate == 0 {
		return 0
	}
	deposit, ok := parseDate(h.DepositDate)
	if !ok {
		return 0
	}
	basis := dayCountBasis(h)
	target := dateOnly(asOf)

	interest := 0.0
	balance := 0.0
	breakpoint := deposit

	for _, t := range sortTransactions(txns) {
		if t.Type != TxBuy && t.Type != TxSell {
			continue
		}
		txDate, ok := parseDate(t.Date)
		if !ok || txDate.Before(deposit) {
			continue
		}
		if txDate.After(target) {
			break
		}
		if days := daysBetween(breakpoint, txDate); days > 0 && balance > 0 {
			interest += balance * (rate / 100) * (float64(days) / basis)
		}
		if t.Type == TxBuy {
			balance += t.Amount
		} else {
			balance -= t.Amount
			if balance < 0 {
				balance = 0
			}
		}
		if txDate.After(breakpoint) {
			breakpoint = txDate
		}
	}

	if days := daysBetween(breakpoint, target) + 1; days > 0 && balance > 0 {
		interest += balance * (rate / 100) * (float64(days) / basis)
	}
	return interest
}

// maturityInterest computes the interest a FIXED holding will have earned
// through its maturity date, maturity day included. Zero when no rate or
// maturity date exists.
func maturityInterest(h Holding, txns []Transaction) float64 {
	maturity, ok := parseDatePtr(h.MaturityDate)
	if !ok {
		return 0
	}
	return accruedInterest(h, txns, maturity)
}

// fixedInterestOver is the plain single-segment formula used for completed
// holdings, where the full cost basis is treated as having worked for the
// whole elapsed span.
func fixedInterestOver(h Holding, amount float64, days int) float64 {
	if h.AnnualRate == nil || days <= 0 || amount <= 0 {
		return 0
	}
	return amount * (*h.AnnualRate / 100) * (float64(days) / dayCountBasis(h))
}
