package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournal(t *testing.T) {
	dir := t.TempDir()
	entriesPath := filepath.Join(dir, "entries.csv")
	yearsPath := filepath.Join(dir, "years.csv")

	j, err := NewCSV(entriesPath, yearsPath)
	require.NoError(t, err)

	require.NoError(t, j.RecordEntry(EntryRecord{
		EntryID:     "01AAA",
		AccountID:   "ACC-000001",
		Year:        2030,
		Time:        time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC),
		Category:    "deposit",
		Amount:      100.5,
		Delta:       100.5,
		Balance:     100.5,
		Description: "test, with comma",
	}))
	require.NoError(t, j.RecordYearEnd(YearEnd{
		Year:         2030,
		Regime:       "normal",
		BaseRate:     0.03,
		Inflation:    0.021,
		TotalAssets:  100.5,
		NetPosition:  100.5,
		OpenAccounts: 1,
	}))
	require.NoError(t, j.Close())

	entries := readCSV(t, entriesPath)
	require.Len(t, entries, 2)
	assert.Equal(t, "entry_id", entries[0][0])
	assert.Equal(t, []string{
		"01AAA", "ACC-000001", "2030", "2030-06-01T12:00:00Z",
		"deposit", "100.5", "100.5", "100.5", "test, with comma",
	}, entries[1])

	years := readCSV(t, yearsPath)
	require.Len(t, years, 2)
	assert.Equal(t, []string{
		"2030", "normal", "0.03", "0.021", "100.5", "0", "100.5", "1",
	}, years[1])
}

func TestDiscard(t *testing.T) {
	var j Journal = Discard{}
	assert.NoError(t, j.RecordEntry(EntryRecord{}))
	assert.NoError(t, j.RecordYearEnd(YearEnd{}))
	assert.NoError(t, j.Close())
}
