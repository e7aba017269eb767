package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func sampleEntry(entryID, accountID string, balance float64) EntryRecord {
	return EntryRecord{
		EntryID:     entryID,
		AccountID:   accountID,
		Year:        2030,
		Time:        time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC),
		Category:    "deposit",
		Amount:      100,
		Delta:       100,
		Balance:     balance,
		Description: "test deposit",
	}
}

func TestSQLiteJournal_EntryRoundTrip(t *testing.T) {
	j := newTestSQLite(t)

	want := sampleEntry("01AAA", "ACC-000001", 100)
	require.NoError(t, j.RecordEntry(want))

	got, err := j.GetEntry("01AAA")
	require.NoError(t, err)
	assert.Equal(t, want.AccountID, got.AccountID)
	assert.Equal(t, want.Year, got.Year)
	assert.Equal(t, want.Category, got.Category)
	assert.Equal(t, want.Amount, got.Amount)
	assert.Equal(t, want.Delta, got.Delta)
	assert.Equal(t, want.Balance, got.Balance)
	assert.Equal(t, want.Description, got.Description)
	assert.True(t, want.Time.Equal(got.Time))
}

func TestSQLiteJournal_GetEntry_NotFound(t *testing.T) {
	j := newTestSQLite(t)

	_, err := j.GetEntry("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestSQLiteJournal_DuplicateEntryID(t *testing.T) {
	j := newTestSQLite(t)

	require.NoError(t, j.RecordEntry(sampleEntry("01AAA", "ACC-000001", 100)))
	assert.Error(t, j.RecordEntry(sampleEntry("01AAA", "ACC-000001", 200)))
}

func TestSQLiteJournal_ListEntriesByAccount(t *testing.T) {
	j := newTestSQLite(t)

	// Inserted out of order; listing sorts by entry id (= posting order).
	require.NoError(t, j.RecordEntry(sampleEntry("01CCC", "ACC-000001", 300)))
	require.NoError(t, j.RecordEntry(sampleEntry("01AAA", "ACC-000001", 100)))
	require.NoError(t, j.RecordEntry(sampleEntry("01BBB", "ACC-000002", 200)))

	got, err := j.ListEntriesByAccount("ACC-000001")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "01AAA", got[0].EntryID)
	assert.Equal(t, "01CCC", got[1].EntryID)

	empty, err := j.ListEntriesByAccount("ACC-999999")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteJournal_YearEnds(t *testing.T) {
	j := newTestSQLite(t)

	for year := 2030; year <= 2034; year++ {
		require.NoError(t, j.RecordYearEnd(YearEnd{
			Year:         year,
			Regime:       "normal",
			BaseRate:     0.03,
			Inflation:    0.02,
			TotalAssets:  float64(year * 100),
			NetPosition:  float64(year * 100),
			OpenAccounts: 2,
		}))
	}

	got, err := j.ListYearEnds(2031, 2034)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 2031, got[0].Year)
	assert.Equal(t, 2033, got[2].Year)
	assert.Equal(t, "normal", got[0].Regime)
	assert.Equal(t, 203100.0, got[0].TotalAssets)
}
