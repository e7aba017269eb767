package journal

const Schema = `
CREATE TABLE IF NOT EXISTS entries (
	entry_id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	year INTEGER NOT NULL,
	time DATETIME NOT NULL,
	category TEXT NOT NULL,
	amount REAL NOT NULL,
	delta REAL NOT NULL,
	balance REAL NOT NULL,
	description TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_account ON entries(account_id, year);

CREATE TABLE IF NOT EXISTS year_end (
	year INTEGER NOT NULL,
	regime TEXT NOT NULL,
	base_rate REAL NOT NULL,
	inflation REAL NOT NULL,
	total_assets REAL NOT NULL,
	total_liabilities REAL NOT NULL,
	net_position REAL NOT NULL,
	open_accounts INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_year_end_year ON year_end(year);
`
