// Package statefile saves and restores the engine's full state: policy
// scalars, central bank rate and history, the market regime, and every
// account with its complete ledger. YAML or JSON is chosen by file
// extension on save; load accepts either.
package statefile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lifesim/lifebank/account"
	"github.com/lifesim/lifebank/bank"
	"github.com/lifesim/lifebank/centralbank"
	"github.com/lifesim/lifebank/market"
)

// State is the serialized engine.
type State struct {
	Policy      bank.Policy          `json:"policy" yaml:"policy"`
	CentralBank centralbank.Snapshot `json:"central_bank" yaml:"central_bank"`
	Regime      market.Regime        `json:"regime" yaml:"regime"`
	Accounts    []*account.Account   `json:"accounts" yaml:"accounts"`
}

// Capture snapshots a running system.
func Capture(sys *bank.System) State {
	return State{
		Policy:      sys.Policy(),
		CentralBank: sys.CentralBankSnapshot(),
		Regime:      sys.Regime(),
		Accounts:    sys.Accounts(),
	}
}

// Save writes the system state to path (YAML for .yaml/.yml, JSON
// otherwise).
func Save(path string, sys *bank.System) error {
	st := Capture(sys)

	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(st)
	} else {
		data, err = json.MarshalIndent(st, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Load reads a state file and rebuilds the system. Options (journal,
// emitter, seed) apply as in bank.NewSystem.
func Load(path string, opts ...bank.Option) (*bank.System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	st := &State{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, st); err != nil {
		if jerr := json.Unmarshal(data, st); jerr != nil {
			return nil, fmt.Errorf("parse state (tried YAML and JSON): %w", jerr)
		}
	}

	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}

	return bank.RestoreSystem(st.Policy, st.CentralBank, st.Regime, st.Accounts, opts...), nil
}

// Validate checks the restored state for internal consistency before it
// becomes live engine state.
func (s *State) Validate() error {
	seen := make(map[string]bool, len(s.Accounts))
	for _, a := range s.Accounts {
		if a == nil || a.ID == "" {
			return fmt.Errorf("account with empty id")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate account id %s", a.ID)
		}
		seen[a.ID] = true
		if !a.Category.Valid() {
			return fmt.Errorf("account %s: unknown category %q", a.ID, a.Category)
		}
		if replayed := a.Replay(); replayed != a.Balance {
			return fmt.Errorf("account %s: ledger replays to %v, balance is %v", a.ID, replayed, a.Balance)
		}
		if a.Category.IsLiability() && a.Balance < 0 {
			return fmt.Errorf("account %s: negative amount owed %v", a.ID, a.Balance)
		}
	}
	if s.Regime != "" && !s.Regime.Valid() {
		return fmt.Errorf("unknown regime %q", s.Regime)
	}
	return nil
}
