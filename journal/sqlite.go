package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordEntry(e EntryRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO entries
		(entry_id, account_id, year, time, category, amount, delta, balance, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EntryID, e.AccountID, e.Year, e.Time, e.Category,
		e.Amount, e.Delta, e.Balance, e.Description,
	)
	return err
}

func (j *SQLiteJournal) RecordYearEnd(y YearEnd) error {
	_, err := j.db.Exec(`
		INSERT INTO year_end
		(year, regime, base_rate, inflation, total_assets, total_liabilities, net_position, open_accounts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		y.Year, y.Regime, y.BaseRate, y.Inflation,
		y.TotalAssets, y.TotalLiabilities, y.NetPosition, y.OpenAccounts,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
