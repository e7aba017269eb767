// Package journal persists what the engine does: every ledger entry as
// it is posted, and one year-end snapshot per simulated year. Backends
// are SQLite and CSV; the engine only sees the Journal interface.
package journal

import "time"

// EntryRecord is one posted ledger entry, denormalized with the account
// it belongs to and the balance after posting.
type EntryRecord struct {
	EntryID     string
	AccountID   string
	Year        int
	Time        time.Time
	Category    string
	Amount      float64
	Delta       float64
	Balance     float64
	Description string
}

// YearEnd is the aggregate state after one yearly update pass.
type YearEnd struct {
	Year             int
	Regime           string
	BaseRate         float64
	Inflation        float64
	TotalAssets      float64
	TotalLiabilities float64
	NetPosition      float64
	OpenAccounts     int
}

type Journal interface {
	RecordEntry(EntryRecord) error
	RecordYearEnd(YearEnd) error
	Close() error
}

// Discard is a Journal that drops everything; useful when a caller
// wants the engine without persistence.
type Discard struct{}

func (Discard) RecordEntry(EntryRecord) error { return nil }
func (Discard) RecordYearEnd(YearEnd) error   { return nil }
func (Discard) Close() error                  { return nil }
