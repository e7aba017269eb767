package journal

import (
	"database/sql"
	"fmt"
)

// GetEntry returns a single ledger entry record by ID.
func (j *SQLiteJournal) GetEntry(entryID string) (EntryRecord, error) {
	var rec EntryRecord

	row := j.db.QueryRow(`
		SELECT entry_id, account_id, year, time, category, amount, delta, balance, description
		FROM entries
		WHERE entry_id = ?`, entryID)

	err := row.Scan(
		&rec.EntryID,
		&rec.AccountID,
		&rec.Year,
		&rec.Time,
		&rec.Category,
		&rec.Amount,
		&rec.Delta,
		&rec.Balance,
		&rec.Description,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return EntryRecord{}, fmt.Errorf("entry %q not found", entryID)
		}
		return EntryRecord{}, err
	}
	return rec, nil
}

// ListEntriesByAccount returns an account's entries in posting order
// (entry ids are ULIDs, so id order is insertion order).
func (j *SQLiteJournal) ListEntriesByAccount(accountID string) ([]EntryRecord, error) {
	rows, err := j.db.Query(`
		SELECT entry_id, account_id, year, time, category, amount, delta, balance, description
		FROM entries
		WHERE account_id = ?
		ORDER BY entry_id ASC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EntryRecord
	for rows.Next() {
		var rec EntryRecord
		if err := rows.Scan(
			&rec.EntryID,
			&rec.AccountID,
			&rec.Year,
			&rec.Time,
			&rec.Category,
			&rec.Amount,
			&rec.Delta,
			&rec.Balance,
			&rec.Description,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListYearEnds returns year-end snapshots for years in [start, end).
func (j *SQLiteJournal) ListYearEnds(start, end int) ([]YearEnd, error) {
	rows, err := j.db.Query(`
		SELECT year, regime, base_rate, inflation, total_assets, total_liabilities, net_position, open_accounts
		FROM year_end
		WHERE year >= ? AND year < ?
		ORDER BY year ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []YearEnd
	for rows.Next() {
		var y YearEnd
		if err := rows.Scan(
			&y.Year,
			&y.Regime,
			&y.BaseRate,
			&y.Inflation,
			&y.TotalAssets,
			&y.TotalLiabilities,
			&y.NetPosition,
			&y.OpenAccounts,
		); err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, rows.Err()
}
