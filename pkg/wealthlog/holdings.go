package wealthlog

import (
	"database/sql"
	"fmt"
	"time"
)

// AddHolding creates a holding and, when an opening principal is given,
// records the opening BUY transaction so the ledger itself carries the
// initial capital.
func (c *Core) AddHolding(req AddHoldingRequest) (int64, error) {
	if req.Name == "" {
		return 0, NewError(ErrCodeInvalidInput, "name required")
	}
	req.Behavior = normalizeBehavior(req.Behavior)
	if !isValidBehavior(req.Behavior) {
		return 0, NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid behavior: %s", req.Behavior))
	}
	if req.Currency == "" {
		req.Currency = "CNY"
	}
	req.Currency = normalizeCurrency(req.Currency)
	if !isValidCurrency(req.Currency) {
		return 0, NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid currency: %s", req.Currency))
	}
	if req.Category == "" {
		req.Category = "other"
	}
	req.Category = normalizeCategory(req.Category)
	if !isValidCategory(req.Category) {
		return 0, NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid category: %s", req.Category))
	}
	if req.DepositDate == "" {
		req.DepositDate = TodayISOInShanghai()
	}
	if _, ok := parseDate(req.DepositDate); !ok {
		return 0, NewError(ErrCodeValidation, fmt.Sprintf("invalid deposit_date: %s", req.DepositDate))
	}
	if req.MaturityDate != nil {
		if _, ok := parseDate(*req.MaturityDate); !ok {
			return 0, NewError(ErrCodeValidation, fmt.Sprintf("invalid maturity_date: %s", *req.MaturityDate))
		}
	}
	if req.Basis <= 0 {
		req.Basis = DefaultDayCountBasis
	}
	if req.Principal < 0 {
		return 0, NewError(ErrCodeValidation, "principal must not be negative")
	}

	tx, err := c.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rebateGot := 0
	if req.RebateGot {
		rebateGot = 1
	}
	result, err := tx.Exec(`
		INSERT INTO holdings (
			name, category, behavior, currency, deposit_date, maturity_date,
			annual_rate, basis, rebate, rebate_received, current_return, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		req.Name,
		req.Category,
		req.Behavior,
		req.Currency,
		req.DepositDate,
		nullString(req.MaturityDate),
		nullFloat(req.AnnualRate),
		req.Basis,
		req.Rebate,
		rebateGot,
		nullFloat(req.CurrentReturn),
		nullString(req.Notes),
	)
	if err != nil {
		return 0, WrapError(ErrCodeDatabase, "insert holding", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	if req.Principal > 0 {
		opening := "期初投入"
		if _, err := tx.Exec(`
			INSERT INTO transactions (holding_id, transaction_date, transaction_type, amount, quantity, price, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, req.DepositDate, TxBuy, req.Principal, nullFloat(req.Quantity), openingPrice(req), opening); err != nil {
			return 0, WrapError(ErrCodeDatabase, "insert opening transaction", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, c.refreshDerived(id, NowInShanghai())
}

func openingPrice(req AddHoldingRequest) any {
	if req.Quantity == nil || *req.Quantity <= 0 {
		return nil
	}
	return req.Principal / *req.Quantity
}

// GetHolding returns one holding with its derived state freshly replayed
// from the transaction log.
func (c *Core) GetHolding(id int64) (*Holding, error) {
	h, err := c.getHoldingRow(id)
	if err != nil || h == nil {
		return h, err
	}
	txns, err := c.GetTransactions(id)
	if err != nil {
		return nil, err
	}
	applyDerived(h, replayTransactions(h.Behavior, txns, NowInShanghai()))
	return h, nil
}

// ListHoldings returns all holdings, replaying every transaction log so
// derived columns are never served stale.
func (c *Core) ListHoldings() ([]Holding, error) {
	ledgers, err := c.loadLedgers()
	if err != nil {
		return nil, err
	}
	holdings := make([]Holding, 0, len(ledgers))
	for _, l := range ledgers {
		holdings = append(holdings, l.holding)
	}
	return holdings, nil
}

// UpdateHolding rewrites a holding's descriptive fields. Derived columns
// are not writable; they are replayed from the log.
func (c *Core) UpdateHolding(id int64, req AddHoldingRequest) error {
	existing, err := c.getHoldingRow(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewError(ErrCodeNotFound, fmt.Sprintf("holding %d not found", id))
	}
	if req.Name == "" {
		return NewError(ErrCodeInvalidInput, "name required")
	}
	req.Behavior = normalizeBehavior(req.Behavior)
	if !isValidBehavior(req.Behavior) {
		return NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid behavior: %s", req.Behavior))
	}
	req.Currency = normalizeCurrency(req.Currency)
	if !isValidCurrency(req.Currency) {
		return NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid currency: %s", req.Currency))
	}
	req.Category = normalizeCategory(req.Category)
	if !isValidCategory(req.Category) {
		return NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid category: %s", req.Category))
	}
	if req.DepositDate == "" {
		req.DepositDate = existing.DepositDate
	}
	if _, ok := parseDate(req.DepositDate); !ok {
		return NewError(ErrCodeValidation, fmt.Sprintf("invalid deposit_date: %s", req.DepositDate))
	}
	if req.Basis <= 0 {
		req.Basis = DefaultDayCountBasis
	}

	rebateGot := 0
	if req.RebateGot {
		rebateGot = 1
	}
	_, err = c.db.Exec(`
		UPDATE holdings SET
			name = ?, category = ?, behavior = ?, currency = ?,
			deposit_date = ?, maturity_date = ?, annual_rate = ?, basis = ?,
			rebate = ?, rebate_received = ?, current_return = ?, notes = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`,
		req.Name, req.Category, req.Behavior, req.Currency,
		req.DepositDate, nullString(req.MaturityDate), nullFloat(req.AnnualRate), req.Basis,
		req.Rebate, rebateGot, nullFloat(req.CurrentReturn), nullString(req.Notes),
		id,
	)
	if err != nil {
		return WrapError(ErrCodeDatabase, "update holding", err)
	}
	return c.refreshDerived(id, NowInShanghai())
}

// WithdrawHolding closes a holding on the given date.
func (c *Core) WithdrawHolding(id int64, date string) error {
	if date == "" {
		date = TodayISOInShanghai()
	}
	withdraw, ok := parseDate(date)
	if !ok {
		return NewError(ErrCodeValidation, fmt.Sprintf("invalid withdraw_date: %s", date))
	}
	h, err := c.getHoldingRow(id)
	if err != nil {
		return err
	}
	if h == nil {
		return NewError(ErrCodeNotFound, fmt.Sprintf("holding %d not found", id))
	}
	if deposit, ok := parseDate(h.DepositDate); ok && withdraw.Before(deposit) {
		return NewError(ErrCodeValidation, "withdraw_date before deposit_date")
	}
	_, err = c.db.Exec(
		"UPDATE holdings SET withdraw_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		date, id,
	)
	if err != nil {
		return WrapError(ErrCodeDatabase, "withdraw holding", err)
	}
	return nil
}

// DeleteHolding removes a holding and, via cascade, its transaction log.
func (c *Core) DeleteHolding(id int64) (bool, error) {
	result, err := c.db.Exec("DELETE FROM holdings WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// refreshDerived replays the holding's log and persists the derived
// columns. The stored values are a convenience snapshot; reads replay
// again rather than trusting them.
func (c *Core) refreshDerived(id int64, now time.Time) error {
	h, err := c.getHoldingRow(id)
	if err != nil {
		return err
	}
	if h == nil {
		return NewError(ErrCodeNotFound, fmt.Sprintf("holding %d not found", id))
	}
	txns, err := c.GetTransactions(id)
	if err != nil {
		return err
	}
	state := replayTransactions(h.Behavior, txns, now)
	_, err = c.db.Exec(`
		UPDATE holdings SET principal = ?, quantity = ?, total_cost = ?, realized_profit = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, state.Principal, state.Quantity, state.TotalCost, state.RealizedProfit, id)
	if err != nil {
		return WrapError(ErrCodeDatabase, "refresh derived state", err)
	}
	return nil
}

// loadLedgers fetches every holding with its transaction log and replays
// derived state, the shared input for metrics and aggregation.
func (c *Core) loadLedgers() ([]holdingLedger, error) {
	rows, err := c.db.Query(holdingSelect + " ORDER BY deposit_date, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []Holding
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	now := NowInShanghai()
	ledgers := make([]holdingLedger, 0, len(holdings))
	for i := range holdings {
		txns, err := c.GetTransactions(holdings[i].ID)
		if err != nil {
			return nil, err
		}
		applyDerived(&holdings[i], replayTransactions(holdings[i].Behavior, txns, now))
		ledgers = append(ledgers, holdingLedger{holding: holdings[i], txns: txns})
	}
	return ledgers, nil
}

const holdingSelect = `
	SELECT id, name, category, behavior, currency, deposit_date, maturity_date,
		withdraw_date, annual_rate, basis, rebate, rebate_received, current_return,
		notes, principal, quantity, total_cost, realized_profit, created_at, updated_at
	FROM holdings
`

func (c *Core) getHoldingRow(id int64) (*Holding, error) {
	row := c.db.QueryRow(holdingSelect+" WHERE id = ?", id)
	h, err := scanHolding(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHolding(row rowScanner) (*Holding, error) {
	var h Holding
	var maturity, withdraw, notes, createdAt, updatedAt sql.NullString
	var annualRate, currentReturn sql.NullFloat64
	var rebateGot int
	if err := row.Scan(
		&h.ID, &h.Name, &h.Category, &h.Behavior, &h.Currency, &h.DepositDate, &maturity,
		&withdraw, &annualRate, &h.Basis, &h.Rebate, &rebateGot, &currentReturn,
		&notes, &h.Principal, &h.Quantity, &h.TotalCost, &h.RealizedProfit, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	if maturity.Valid {
		h.MaturityDate = &maturity.String
	}
	if withdraw.Valid {
		h.WithdrawDate = &withdraw.String
	}
	if annualRate.Valid {
		h.AnnualRate = &annualRate.Float64
	}
	if currentReturn.Valid {
		h.CurrentReturn = &currentReturn.Float64
	}
	if notes.Valid {
		h.Notes = &notes.String
	}
	if createdAt.Valid {
		h.CreatedAt = &createdAt.String
	}
	if updatedAt.Valid {
		h.UpdatedAt = &updatedAt.String
	}
	h.RebateGot = rebateGot != 0
	return &h, nil
}

func applyDerived(h *Holding, state DerivedState) {
	h.Principal = state.Principal
	h.Quantity = state.Quantity
	h.TotalCost = state.TotalCost
	h.RealizedProfit = state.RealizedProfit
}

func nullString(value *string) sql.NullString {
	if value == nil || *value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}
