package wealthlog

import "database/sql"

func initDatabase(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS holdings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'other',
			behavior TEXT NOT NULL CHECK(behavior IN ('FIXED', 'FLOATING')),
			currency TEXT NOT NULL CHECK(currency IN ('CNY', 'USD', 'HKD')),
			deposit_date TEXT NOT NULL,
			maturity_date TEXT,
			withdraw_date TEXT,
			annual_rate REAL,
			basis INTEGER NOT NULL DEFAULT 365,
			rebate REAL NOT NULL DEFAULT 0,
			rebate_received INTEGER NOT NULL DEFAULT 0,
			current_return REAL,
			notes TEXT,
			principal REAL NOT NULL DEFAULT 0,
			quantity REAL NOT NULL DEFAULT 0,
			total_cost REAL NOT NULL DEFAULT 0,
			realized_profit REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			holding_id INTEGER NOT NULL,
			transaction_date TEXT NOT NULL,
			transaction_type TEXT NOT NULL CHECK(
				transaction_type IN ('BUY', 'SELL', 'DIVIDEND', 'INTEREST', 'FEE', 'TAX')
			),
			amount REAL NOT NULL DEFAULT 0,
			quantity REAL,
			price REAL,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (holding_id) REFERENCES holdings(id) ON DELETE CASCADE
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE INDEX IF NOT EXISTS idx_transactions_holding_date
		ON transactions(holding_id, transaction_date)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS exchange_rates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			currency TEXT NOT NULL UNIQUE CHECK(currency IN ('USD', 'HKD')),
			rate REAL NOT NULL CHECK(rate > 0),
			source TEXT NOT NULL DEFAULT 'manual',
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS insight_settings (
			id INTEGER PRIMARY KEY CHECK(id = 1),
			provider TEXT NOT NULL DEFAULT 'openai',
			base_url TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			risk_profile TEXT NOT NULL DEFAULT 'balanced',
			tone TEXT NOT NULL DEFAULT 'balanced',
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	return tx.Commit()
}

func exec(tx *sql.Tx, statement string) error {
	_, err := tx.Exec(statement)
	return err
}
