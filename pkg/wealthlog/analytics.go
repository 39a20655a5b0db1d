package wealthlog

import "fmt"

// HoldingMetrics computes the performance record for one holding as of
// today.
func (c *Core) HoldingMetrics(id int64) (*Metrics, error) {
	h, err := c.getHoldingRow(id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, NewError(ErrCodeNotFound, fmt.Sprintf("holding %d not found", id))
	}
	txns, err := c.GetTransactions(id)
	if err != nil {
		return nil, err
	}
	now := NowInShanghai()
	applyDerived(h, replayTransactions(h.Behavior, txns, now))
	m := computeMetrics(*h, txns, now)
	return &m, nil
}

// ListHoldingsWithMetrics returns every holding with replayed derived
// state and computed metrics.
func (c *Core) ListHoldingsWithMetrics() ([]HoldingWithMetrics, error) {
	ledgers, err := c.loadLedgers()
	if err != nil {
		return nil, err
	}
	now := NowInShanghai()
	result := make([]HoldingWithMetrics, 0, len(ledgers))
	for _, l := range ledgers {
		result = append(result, HoldingWithMetrics{
			Holding: l.holding,
			Metrics: computeMetrics(l.holding, l.txns, now),
		})
	}
	return result, nil
}

// PortfolioStats returns all-time statistics grouped by currency.
func (c *Core) PortfolioStats() (map[string]PortfolioStats, error) {
	ledgers, err := c.loadLedgers()
	if err != nil {
		return nil, err
	}
	return computeStats(ledgers, NowInShanghai()), nil
}

// PeriodStats returns statistics for the [start, end) window, grouped by
// currency.
func (c *Core) PeriodStats(startDate, endDate string) (map[string]PeriodStats, error) {
	start, ok := parseDate(startDate)
	if !ok {
		return nil, NewError(ErrCodeValidation, fmt.Sprintf("invalid start date: %s", startDate))
	}
	end, ok := parseDate(endDate)
	if !ok {
		return nil, NewError(ErrCodeValidation, fmt.Sprintf("invalid end date: %s", endDate))
	}
	if !end.After(start) {
		return nil, NewError(ErrCodeValidation, "end date must be after start date")
	}
	ledgers, err := c.loadLedgers()
	if err != nil {
		return nil, err
	}
	return computePeriodStats(ledgers, start, end, NowInShanghai()), nil
}

// PortfolioValuation converts every open holding's current value into the
// requested reporting currency and sums them.
func (c *Core) PortfolioValuation(currency string) (*Valuation, error) {
	currency = normalizeCurrency(currency)
	if currency == "" {
		currency = "CNY"
	}
	if !isValidCurrency(currency) {
		return nil, NewError(ErrCodeValidation, fmt.Sprintf("invalid currency: %s", currency))
	}
	ledgers, err := c.loadLedgers()
	if err != nil {
		return nil, err
	}
	rates, err := c.RateTable()
	if err != nil {
		return nil, err
	}
	v := totalValuation(ledgers, rates, currency, NowInShanghai())
	return &v, nil
}
