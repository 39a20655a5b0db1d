package wealthlog

import (
	"database/sql"
	"fmt"
)

// AddTransaction records a transaction against a holding and refreshes
// the holding's derived columns.
func (c *Core) AddTransaction(req AddTransactionRequest) (int64, error) {
	if req.HoldingID == 0 {
		return 0, NewError(ErrCodeInvalidInput, "holding_id required")
	}
	if req.Type == "" {
		return 0, NewError(ErrCodeInvalidInput, "type required")
	}
	if !isValidTransactionType(req.Type) {
		return 0, NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid transaction type: %s", req.Type))
	}
	if req.Date == "" {
		req.Date = TodayISOInShanghai()
	}
	if _, ok := parseDate(req.Date); !ok {
		return 0, NewError(ErrCodeValidation, fmt.Sprintf("invalid date: %s", req.Date))
	}
	h, err := c.getHoldingRow(req.HoldingID)
	if err != nil {
		return 0, err
	}
	if h == nil {
		return 0, NewError(ErrCodeNotFound, fmt.Sprintf("holding %d not found", req.HoldingID))
	}

	result, err := c.db.Exec(`
		INSERT INTO transactions (holding_id, transaction_date, transaction_type, amount, quantity, price, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		req.HoldingID,
		req.Date,
		req.Type,
		req.Amount,
		nullFloat(req.Quantity),
		nullFloat(req.Price),
		nullString(req.Notes),
	)
	if err != nil {
		return 0, WrapError(ErrCodeDatabase, "insert transaction", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, c.refreshDerived(req.HoldingID, NowInShanghai())
}

// GetTransaction fetches a single transaction by ID.
func (c *Core) GetTransaction(id int64) (*Transaction, error) {
	row := c.db.QueryRow(`
		SELECT id, holding_id, transaction_date, transaction_type, amount, quantity, price, notes, created_at
		FROM transactions
		WHERE id = ?
	`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTransactions returns a holding's transactions in chronological order.
func (c *Core) GetTransactions(holdingID int64) ([]Transaction, error) {
	rows, err := c.db.Query(`
		SELECT id, holding_id, transaction_date, transaction_type, amount, quantity, price, notes, created_at
		FROM transactions
		WHERE holding_id = ?
		ORDER BY transaction_date, id
	`, holdingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *t)
	}
	return results, rows.Err()
}

// UpdateTransaction edits a recorded transaction in place and replays the
// owning holding's log.
func (c *Core) UpdateTransaction(id int64, req AddTransactionRequest) error {
	existing, err := c.GetTransaction(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewError(ErrCodeNotFound, fmt.Sprintf("transaction %d not found", id))
	}
	if req.Type == "" {
		req.Type = existing.Type
	}
	if !isValidTransactionType(req.Type) {
		return NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid transaction type: %s", req.Type))
	}
	if req.Date == "" {
		req.Date = existing.Date
	}
	if _, ok := parseDate(req.Date); !ok {
		return NewError(ErrCodeValidation, fmt.Sprintf("invalid date: %s", req.Date))
	}

	_, err = c.db.Exec(`
		UPDATE transactions
		SET transaction_date = ?, transaction_type = ?, amount = ?, quantity = ?, price = ?, notes = ?
		WHERE id = ?
	`, req.Date, req.Type, req.Amount, nullFloat(req.Quantity), nullFloat(req.Price), nullString(req.Notes), id)
	if err != nil {
		return WrapError(ErrCodeDatabase, "update transaction", err)
	}
	return c.refreshDerived(existing.HoldingID, NowInShanghai())
}

// DeleteTransaction deletes a transaction by ID.
func (c *Core) DeleteTransaction(id int64) (bool, error) {
	existing, err := c.GetTransaction(id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	result, err := c.db.Exec("DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}
	return true, c.refreshDerived(existing.HoldingID, NowInShanghai())
}

func scanTransaction(row rowScanner) (*Transaction, error) {
	var t Transaction
	var quantity, price sql.NullFloat64
	var notes, createdAt sql.NullString
	if err := row.Scan(
		&t.ID, &t.HoldingID, &t.Date, &t.Type, &t.Amount, &quantity, &price, &notes, &createdAt,
	); err != nil {
		return nil, err
	}
	if quantity.Valid {
		t.Quantity = &quantity.Float64
	}
	if price.Valid {
		t.Price = &price.Float64
	}
	if notes.Valid {
		t.Notes = &notes.String
	}
	if createdAt.Valid {
		t.CreatedAt = &createdAt.String
	}
	return &t, nil
}
