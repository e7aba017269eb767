package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	entries *csv.Writer
	years   *csv.Writer
	ef, yf  *os.File
}

func NewCSV(entriesPath, yearsPath string) (*CSVJournal, error) {
	ef, err := os.Create(entriesPath)
	if err != nil {
		return nil, err
	}
	yf, err := os.Create(yearsPath)
	if err != nil {
		ef.Close()
		return nil, err
	}

	ew := csv.NewWriter(ef)
	yw := csv.NewWriter(yf)

	if err := ew.Write([]string{"entry_id", "account_id", "year", "time", "category", "amount", "delta", "balance", "description"}); err != nil {
		return nil, err
	}
	if err := yw.Write([]string{"year", "regime", "base_rate", "inflation", "total_assets", "total_liabilities", "net_position", "open_accounts"}); err != nil {
		return nil, err
	}

	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}
	yw.Flush()
	if err := yw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{ew, yw, ef, yf}, nil
}

func f(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func (j *CSVJournal) RecordEntry(e EntryRecord) error {
	err := j.entries.Write([]string{
		e.EntryID,
		e.AccountID,
		strconv.Itoa(e.Year),
		e.Time.Format(time.RFC3339),
		e.Category,
		f(e.Amount),
		f(e.Delta),
		f(e.Balance),
		e.Description,
	})
	if err != nil {
		return err
	}
	j.entries.Flush()
	return j.entries.Error()
}

func (j *CSVJournal) RecordYearEnd(y YearEnd) error {
	err := j.years.Write([]string{
		strconv.Itoa(y.Year),
		y.Regime,
		f(y.BaseRate),
		f(y.Inflation),
		f(y.TotalAssets),
		f(y.TotalLiabilities),
		f(y.NetPosition),
		strconv.Itoa(y.OpenAccounts),
	})
	if err != nil {
		return err
	}
	j.years.Flush()
	return j.years.Error()
}

func (j *CSVJournal) Close() error {
	j.entries.Flush()
	if err := j.entries.Error(); err != nil {
		return err
	}
	j.years.Flush()
	if err := j.years.Error(); err != nil {
		return err
	}

	if err := j.ef.Close(); err != nil {
		return err
	}
	return j.yf.Close()
}
