package bank

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lifesim/lifebank/account"
	"github.com/lifesim/lifebank/centralbank"
	"github.com/lifesim/lifebank/market"
)

// ErrLoanExceedsLTV flags a collateralized loan whose principal exceeds
// the policy's loan-to-value cap.
var ErrLoanExceedsLTV = errors.New("loan exceeds maximum loan-to-value")

// Policy holds the system-wide scalars. BaseRate is mirrored into the
// central bank on every change; the rest gate individual operations.
type Policy struct {
	ReserveRatio   float64 `json:"reserve_ratio" yaml:"reserve_ratio"`       // minimum reserve ratio
	InsuranceLimit float64 `json:"insurance_limit" yaml:"insurance_limit"`   // deposit insurance ceiling per account
	MaxLoanToValue float64 `json:"max_loan_to_value" yaml:"max_loan_to_value"` // cap on principal / collateral value
	BaseRate       float64 `json:"base_rate" yaml:"base_rate"`
}

// DefaultPolicy returns the standard policy scalars.
func DefaultPolicy() Policy {
	return Policy{
		ReserveRatio:   0.10,
		InsuranceLimit: 250000,
		MaxLoanToValue: 0.80,
		BaseRate:       0.03,
	}
}

// System is the policy facade over the manager: the single entry point
// external callers configure the engine through.
type System struct {
	*Manager
	policy Policy
}

// NewSystem wires a manager under the given policy. The policy base
// rate seeds the central bank (clamped to its bounds) and is read back
// so the two never disagree.
func NewSystem(policy Policy, opts ...Option) *System {
	m := NewManager(policy.BaseRate, opts...)
	policy.BaseRate = m.centralBank.BaseRate()
	return &System{Manager: m, policy: policy}
}

// Policy returns the current policy scalars.
func (s *System) Policy() Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.policy
	p.BaseRate = s.centralBank.BaseRate()
	return p
}

// SetBaseRate stores the rate clamped to the central bank's bounds and
// propagates it; out-of-range values are clamped, not rejected.
func (s *System) SetBaseRate(r float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.centralBank.SetBaseRate(r)
	s.policy.BaseRate = s.centralBank.BaseRate()
	return s.policy.BaseRate
}

// SetReserveRatio updates the minimum reserve ratio.
func (s *System) SetReserveRatio(r float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy.ReserveRatio = r
}

// SetInsuranceLimit updates the deposit insurance ceiling.
func (s *System) SetInsuranceLimit(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy.InsuranceLimit = v
}

// SetMaxLoanToValue updates the loan-to-value cap.
func (s *System) SetMaxLoanToValue(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy.MaxLoanToValue = v
}

// LoanRate prices a loan at the live base rate; it never reflects a
// stale cached value.
func (s *System) LoanRate(creditScore int, cat account.Category, termYears int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricer.Price(creditScore, cat, termYears, s.centralBank.BaseRate())
}

// OriginateLoan enforces the loan-to-value cap on collateralized loans
// before handing off to the manager.
func (s *System) OriginateLoan(req LoanRequest) (*account.Account, error) {
	if req.CollateralValue > 0 {
		maxLTV := s.Policy().MaxLoanToValue
		if req.Principal > req.CollateralValue*maxLTV {
			return nil, fmt.Errorf("principal %.2f against collateral %.2f (cap %.0f%%): %w",
				req.Principal, req.CollateralValue, maxLTV*100, ErrLoanExceedsLTV)
		}
	}
	return s.Manager.OriginateLoan(req)
}

// CentralBankSnapshot exposes the central bank state for persistence
// and inspection.
func (s *System) CentralBankSnapshot() centralbank.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.centralBank.Snapshot()
}

// RestoreSystem rebuilds a system from persisted state: policy scalars,
// central bank incl. history, current regime, and every account with
// its full ledger. Options apply as in NewSystem.
func RestoreSystem(policy Policy, cb centralbank.Snapshot, regime market.Regime, accounts []*account.Account, opts ...Option) *System {
	opts = append(opts, WithCentralBank(centralbank.FromSnapshot(cb)))
	s := NewSystem(policy, opts...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if regime.Valid() {
		s.cycle.Current = regime
	}
	for _, a := range accounts {
		s.accounts[a.ID] = a.Copy()
		// Keep sequential ids monotone past the restored set.
		if n, ok := strings.CutPrefix(a.ID, "ACC-"); ok {
			if v, err := strconv.Atoi(n); err == nil && v > s.nextID {
				s.nextID = v
			}
		}
	}
	return s
}
