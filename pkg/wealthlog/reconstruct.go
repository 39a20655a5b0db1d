package wealthlog

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DerivedState is the reconstructed running state of a holding: what the
// transaction log says about capital still at work, units held, lifetime
// contributions and locked-in profit.
type DerivedState struct {
	Principal      float64
	Quantity       float64
	TotalCost      float64
	RealizedProfit float64
}

// sortTransactions orders a log chronologically, with the insert id as a
// tie break so same-day entries replay in recording order.
func sortTransactions(txns []Transaction) []Transaction {
	sorted := make([]Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// replayTransactions rebuilds a holding's derived state from its full
// transaction log. The replay is the single source of truth: persisted
// derived columns are overwritten by it, never fed back in.
//
// Floating sells with a positive running quantity use average-cost
// accounting; everything else is cash-basis. Dividends, interest, fees
// and taxes are recognized only once their date is on or before now.
// Malformed rows (missing date, zero-coerced numerics) are tolerated
// rather than rejected.
func replayTransactions(behavior string, txns []Transaction, now time.Time) DerivedState {
	today := dateOnly(now)
	floating := normalizeBehavior(behavior) == BehaviorFloating

	principal := decimal.Zero
	quantity := decimal.Zero
	totalCost := decimal.Zero
	realized := decimal.Zero

	for _, t := range sortTransactions(txns) {
		amount := decimal.NewFromFloat(t.Amount)
		var qty decimal.Decimal
		if t.Quantity != nil {
			qty = decimal.NewFromFloat(*t.Quantity)
		}

		switch t.Type {
		case TxBuy:
			principal = principal.Add(amount)
			totalCost = totalCost.Add(amount)
			quantity = quantity.Add(qty)

		case TxSell:
			if floating && quantity.IsPositive() && qty.IsPositive() {
				// AVCO: unit cost from the current basis, gain is
				// proceeds over cost of the units sold. An over-sell
				// can cost out at most the remaining basis; principal
				// and quantity never go negative mid-replay, so a
				// later buy lands on a clean zero balance.
				unitCost := principal.Div(quantity)
				costOut := unitCost.Mul(qty)
				if costOut.GreaterThan(principal) {
					costOut = principal
				}
				realized = realized.Add(amount.Sub(costOut))
				principal = principal.Sub(costOut)
				quantity = quantity.Sub(qty)
				if quantity.IsNegative() {
					quantity = decimal.Zero
				}
			} else {
				principal = principal.Sub(amount)
				if principal.IsNegative() {
					if floating {
						// Final settlement paid out more than the
						// tracked principal; the overshoot is gain.
						realized = realized.Add(principal.Neg())
					}
					principal = decimal.Zero
				}
			}

		case TxDividend, TxInterest:
			if recognizedOnOrBefore(t.Date, today) {
				realized = realized.Add(amount)
			}

		case TxFee, TxTax:
			if recognizedOnOrBefore(t.Date, today) {
				realized = realized.Sub(amount)
			}
		}
	}

	if principal.IsNegative() {
		principal = decimal.Zero
	}
	if quantity.IsNegative() {
		quantity = decimal.Zero
	}

	return DerivedState{
		Principal:      roundDecimal4(principal),
		Quantity:       roundDecimal4(quantity),
		TotalCost:      roundDecimal4(totalCost),
		RealizedProfit: roundDecimal4(realized),
	}
}

// recognizedOnOrBefore reports whether a P&L entry dated on value has been
// earned as of today. Undated entries count immediately; future-dated
// entries are scheduled income and must not be recognized early.
func recognizedOnOrBefore(value string, today time.Time) bool {
	d, ok := parseDate(value)
	if !ok {
		return true
	}
	return !d.After(today)
}

func roundDecimal4(d decimal.Decimal) float64 {
	f, _ := d.Round(4).Float64()
	return f
}
