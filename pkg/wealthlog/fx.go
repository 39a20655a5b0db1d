package wealthlog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const (
	defaultUSDToCNYRate = 7.2
	defaultHKDToCNYRate = 0.93

	exchangeRateSourceDefault = "default"
	exchangeRateSourceManual  = "manual"
)

// Convert converts an amount between currencies through the CNY base.
// rates maps each currency to the value of one unit expressed in CNY; a
// missing or non-positive target rate degrades to zero rather than
// producing Inf.
func Convert(amount float64, from, to string, rates map[string]float64) float64 {
	from = normalizeCurrency(from)
	to = normalizeCurrency(to)
	if from == to {
		return amount
	}
	inBase := amount * rates[from]
	return safeDiv(inBase, rates[to])
}

// currentValue is a holding's contribution to total valuation: principal
// plus earned profit while open, nothing once closed.
func currentValue(h Holding, m Metrics) float64 {
	if m.IsCompleted {
		return 0
	}
	return h.Principal + m.AccruedReturn + h.RealizedProfit
}

// totalValuation folds every holding's currency-converted current value
// into the requested reporting currency.
func totalValuation(ledgers []holdingLedger, rates map[string]float64, currency string, now time.Time) Valuation {
	total := 0.0
	for _, l := range ledgers {
		m := computeMetrics(l.holding, l.txns, now)
		total += Convert(currentValue(l.holding, m), l.holding.Currency, currency, rates)
	}
	return Valuation{Currency: normalizeCurrency(currency), Total: round2(total)}
}

// GetExchangeRates returns all maintained exchange rates.
func (c *Core) GetExchangeRates() ([]ExchangeRateSetting, error) {
	rows, err := c.db.Query(`
		SELECT id, currency, rate, source, updated_at
		FROM exchange_rates
		ORDER BY CASE currency WHEN 'USD' THEN 1 WHEN 'HKD' THEN 2 ELSE 99 END
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]ExchangeRateSetting, 0, 2)
	for rows.Next() {
		var item ExchangeRateSetting
		if err := rows.Scan(&item.ID, &item.Currency, &item.Rate, &item.Source, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetExchangeRate inserts or updates a maintained exchange rate for one
// unit of currency in CNY.
func (c *Core) SetExchangeRate(currency string, rate float64, source string) error {
	currency = normalizeCurrency(currency)
	if currency == "CNY" {
		return NewError(ErrCodeValidation, "CNY rate is fixed at 1")
	}
	if !isValidCurrency(currency) {
		return NewError(ErrCodeValidation, fmt.Sprintf("invalid currency: %s", currency))
	}
	if rate <= 0 {
		return NewError(ErrCodeValidation, "rate must be greater than 0")
	}
	normalizedSource := normalizeExchangeRateSource(source)

	_, err := c.db.Exec(`
		INSERT INTO exchange_rates (currency, rate, source, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(currency) DO UPDATE SET
			rate = excluded.rate,
			source = excluded.source,
			updated_at = CURRENT_TIMESTAMP
	`, currency, rate, normalizedSource)
	if err != nil {
		return WrapError(ErrCodeDatabase, "set exchange rate", err)
	}
	return nil
}

// RateTable returns the currency -> value-in-CNY mapping used by the
// converter, falling back to defaults for unmaintained currencies.
func (c *Core) RateTable() (map[string]float64, error) {
	rates := map[string]float64{
		"CNY": 1,
		"USD": defaultUSDToCNYRate,
		"HKD": defaultHKDToCNYRate,
	}
	rows, err := c.db.Query("SELECT currency, rate FROM exchange_rates")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var currency string
		var rate float64
		if err := rows.Scan(&currency, &rate); err != nil {
			return nil, err
		}
		if rate > 0 {
			rates[currency] = rate
		}
	}
	return rates, rows.Err()
}

// GetRateToCNY returns the configured FX rate to CNY for one currency.
func (c *Core) GetRateToCNY(currency string) (float64, error) {
	currency = normalizeCurrency(currency)
	if currency == "CNY" {
		return 1, nil
	}
	if !isValidCurrency(currency) {
		return 0, NewError(ErrCodeValidation, fmt.Sprintf("invalid currency: %s", currency))
	}

	var rate float64
	err := c.db.QueryRow("SELECT rate FROM exchange_rates WHERE currency = ?", currency).Scan(&rate)
	if err != nil {
		if err == sql.ErrNoRows {
			rates, _ := c.RateTable()
			return rates[currency], nil
		}
		return 0, err
	}
	if rate <= 0 {
		return 0, NewError(ErrCodeValidation, fmt.Sprintf("invalid exchange rate for %s/CNY", currency))
	}
	return rate, nil
}

func normalizeExchangeRateSource(source string) string {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return exchangeRateSourceManual
	}
	return strings.ToLower(trimmed)
}
