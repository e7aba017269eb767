package statefile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifesim/lifebank/account"
	"github.com/lifesim/lifebank/bank"
	"github.com/lifesim/lifebank/market"
)

func buildSystem(t *testing.T) *bank.System {
	t.Helper()
	s := bank.NewSystem(bank.DefaultPolicy(), bank.WithSeed(1))
	_, err := s.OpenAccount(bank.OpenAccountRequest{Category: account.Checking, Initial: 2500, Year: 2025})
	require.NoError(t, err)
	_, err = s.OpenAccount(bank.OpenAccountRequest{Category: account.Savings, Initial: 10000, Year: 2025})
	require.NoError(t, err)
	_, err = s.OriginateLoan(bank.LoanRequest{
		Category: account.Mortgage, Principal: 240000, TermYears: 30,
		CreditScore: 720, CollateralValue: 300000, Year: 2025,
	})
	require.NoError(t, err)
	for year := 2026; year <= 2028; year++ {
		_, err = s.AdvanceYear(year)
		require.NoError(t, err)
	}
	return s
}

func assertRestored(t *testing.T, orig, restored *bank.System) {
	t.Helper()
	assert.Equal(t, orig.Policy(), restored.Policy())
	assert.Equal(t, orig.Regime(), restored.Regime())
	assert.Equal(t, orig.CentralBankSnapshot().BaseRate, restored.CentralBankSnapshot().BaseRate)
	assert.Len(t, restored.CentralBankSnapshot().History, len(orig.CentralBankSnapshot().History))

	origAccounts, restoredAccounts := orig.Accounts(), restored.Accounts()
	require.Equal(t, len(origAccounts), len(restoredAccounts))
	for i := range origAccounts {
		assert.Equal(t, origAccounts[i].ID, restoredAccounts[i].ID)
		assert.Equal(t, origAccounts[i].Category, restoredAccounts[i].Category)
		assert.Equal(t, origAccounts[i].Balance, restoredAccounts[i].Balance)
		assert.Equal(t, origAccounts[i].RemainingYears, restoredAccounts[i].RemainingYears)
		assert.Len(t, restoredAccounts[i].Ledger, len(origAccounts[i].Ledger))
		assert.Equal(t, restoredAccounts[i].Balance, restoredAccounts[i].Replay())
	}
}

func TestSaveLoad_YAML(t *testing.T) {
	s := buildSystem(t)
	path := filepath.Join(t.TempDir(), "state.yaml")

	require.NoError(t, Save(path, s))
	restored, err := Load(path)
	require.NoError(t, err)
	assertRestored(t, s, restored)
}

func TestSaveLoad_JSON(t *testing.T) {
	s := buildSystem(t)
	path := filepath.Join(t.TempDir(), "state.json")

	require.NoError(t, Save(path, s))
	restored, err := Load(path)
	require.NoError(t, err)
	assertRestored(t, s, restored)
}

func TestLoad_RestoredSystemStaysUsable(t *testing.T) {
	s := buildSystem(t)
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, Save(path, s))

	restored, err := Load(path, bank.WithSeed(1))
	require.NoError(t, err)

	// New accounts continue past the restored id sequence.
	a, err := restored.OpenAccount(bank.OpenAccountRequest{Category: account.Checking, Year: 2029})
	require.NoError(t, err)
	assert.Equal(t, "ACC-000004", a.ID)

	_, err = restored.AdvanceYear(2029)
	require.NoError(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	good := func() *State {
		a, err := account.OpenDeposit("ACC-000001", account.Checking, 100, 0, 2025)
		require.NoError(t, err)
		return &State{Regime: market.Normal, Accounts: []*account.Account{a}}
	}

	require.NoError(t, good().Validate())

	st := good()
	st.Accounts[0].Balance = 999 // no longer matches the ledger
	assert.ErrorContains(t, st.Validate(), "replays")

	st = good()
	st.Accounts = append(st.Accounts, st.Accounts[0])
	assert.ErrorContains(t, st.Validate(), "duplicate")

	st = good()
	st.Accounts[0].Category = "offshore"
	assert.ErrorContains(t, st.Validate(), "unknown category")

	st = good()
	st.Regime = "weird"
	assert.ErrorContains(t, st.Validate(), "unknown regime")

	st = good()
	st.Accounts[0].ID = ""
	assert.ErrorContains(t, st.Validate(), "empty id")
}
