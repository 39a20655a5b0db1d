package mobile

import (
	"encoding/json"
	"fmt"

	"wealthlog/pkg/wealthlog"
)

// Core wraps the Wealth Log core for gomobile bindings. Arguments and
// results cross the binding boundary as JSON strings.
type Core struct {
	core *wealthlog.Core
}

// Open initializes the core with a database path.
func Open(dbPath string) (*Core, error) {
	core, err := wealthlog.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &Core{core: core}, nil
}

// Close releases resources.
func (c *Core) Close() error {
	if c == nil || c.core == nil {
		return nil
	}
	return c.core.Close()
}

// GetHoldingsJSON returns all holdings with metrics as JSON.
func (c *Core) GetHoldingsJSON() (string, error) {
	data, err := c.core.ListHoldingsWithMetrics()
	if err != nil {
		return "", err
	}
	return marshalJSON(data)
}

// AddHoldingJSON creates a holding from a request encoded as JSON and
// returns the new id.
func (c *Core) AddHoldingJSON(requestJSON string) (int64, error) {
	var req wealthlog.AddHoldingRequest
	if err := json.Unmarshal([]byte(requestJSON), &req); err != nil {
		return 0, fmt.Errorf("decode holding request: %w", err)
	}
	return c.core.AddHolding(req)
}

// WithdrawHolding closes a holding on the given date.
func (c *Core) WithdrawHolding(id int64, date string) error {
	return c.core.WithdrawHolding(id, date)
}

// DeleteHolding removes a holding and its transactions.
func (c *Core) DeleteHolding(id int64) (bool, error) {
	return c.core.DeleteHolding(id)
}

// GetTransactionsJSON returns a holding's transactions as JSON.
func (c *Core) GetTransactionsJSON(holdingID int64) (string, error) {
	data, err := c.core.GetTransactions(holdingID)
	if err != nil {
		return "", err
	}
	return marshalJSON(data)
}

// AddTransactionJSON records a transaction from a JSON request and
// returns the new id.
func (c *Core) AddTransactionJSON(requestJSON string) (int64, error) {
	var req wealthlog.AddTransactionRequest
	if err := json.Unmarshal([]byte(requestJSON), &req); err != nil {
		return 0, fmt.Errorf("decode transaction request: %w", err)
	}
	return c.core.AddTransaction(req)
}

// DeleteTransaction deletes a transaction by id.
func (c *Core) DeleteTransaction(id int64) (bool, error) {
	return c.core.DeleteTransaction(id)
}

// GetPortfolioStatsJSON returns all-time statistics by currency as JSON.
func (c *Core) GetPortfolioStatsJSON() (string, error) {
	data, err := c.core.PortfolioStats()
	if err != nil {
		return "", err
	}
	return marshalJSON(data)
}

// GetPeriodStatsJSON returns windowed statistics by currency as JSON.
func (c *Core) GetPeriodStatsJSON(startDate, endDate string) (string, error) {
	data, err := c.core.PeriodStats(startDate, endDate)
	if err != nil {
		return "", err
	}
	return marshalJSON(data)
}

// GetValuationJSON returns the converted portfolio valuation as JSON.
func (c *Core) GetValuationJSON(currency string) (string, error) {
	data, err := c.core.PortfolioValuation(currency)
	if err != nil {
		return "", err
	}
	return marshalJSON(data)
}

// SetExchangeRate maintains the FX rate for one unit of currency in CNY.
func (c *Core) SetExchangeRate(currency string, rate float64) error {
	return c.core.SetExchangeRate(currency, rate, "manual")
}

func marshalJSON(data any) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(b), nil
}
