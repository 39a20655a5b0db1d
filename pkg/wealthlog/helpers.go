package wealthlog

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

func normalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

func normalizeBehavior(behavior string) string {
	return strings.ToUpper(strings.TrimSpace(behavior))
}

func isValidCurrency(currency string) bool {
	currency = normalizeCurrency(currency)
	for _, c := range Currencies {
		if c == currency {
			return true
		}
	}
	return false
}

func isValidCategory(category string) bool {
	category = normalizeCategory(category)
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func isValidBehavior(behavior string) bool {
	behavior = normalizeBehavior(behavior)
	return behavior == BehaviorFixed || behavior == BehaviorFloating
}

func isValidTransactionType(t string) bool {
	for _, v := range TransactionTypes {
		if v == t {
			return true
		}
	}
	return false
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// round4 rounds through decimal so repeated replays do not accumulate
// binary floating drift.
func round4(value float64) float64 {
	f, _ := decimal.NewFromFloat(value).Round(4).Float64()
	return f
}

// safeDiv guards the zero-denominator degradations required across the
// engine: a zero weight, cost basis or elapsed-days divisor yields zero
// instead of NaN/Inf.
func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func floatPtr(value float64) *float64 {
	return &value
}

func intPtr(value int) *int {
	return &value
}
