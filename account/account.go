// Package account holds the unit of monetary state in the banking
// engine: an account, its append-only transaction ledger, and the
// category trait table that drives interest and amortization behavior.
//
// Sign convention: asset balances are the amount held; liability
// balances are a non-negative "amount owed". Every balance mutation is
// paired with exactly one ledger entry, so the balance is always
// reconstructable by replaying the ledger from zero.
package account

import (
	"fmt"
	"math"
	"time"

	"github.com/lifesim/lifebank/pkg/id"
)

// Entry is a single ledger record. Entries are append-only; they are
// never mutated or removed after creation.
type Entry struct {
	ID          string     `json:"id" yaml:"id"`
	Time        time.Time  `json:"time" yaml:"time"`
	Year        int        `json:"year" yaml:"year"`
	Category    TxCategory `json:"category" yaml:"category"`
	Amount      float64    `json:"amount" yaml:"amount"` // magnitude, always >= 0
	Delta       float64    `json:"delta" yaml:"delta"`   // signed balance change applied
	Description string     `json:"description" yaml:"description"`
}

// Account is one account with its full transaction history.
type Account struct {
	ID       string   `json:"id" yaml:"id"`
	Category Category `json:"category" yaml:"category"`

	// Balance is the amount held for asset categories and the amount
	// owed (non-negative) for liability categories.
	Balance float64 `json:"balance" yaml:"balance"`

	// Rate is the nominal annual interest rate (0.04 = 4%).
	Rate float64 `json:"rate" yaml:"rate"`

	OpenedYear int `json:"opened_year" yaml:"opened_year"`

	// TermYears and RemainingYears are set for amortizing loans; zero
	// otherwise. RemainingYears counts down once per yearly pass.
	TermYears      int `json:"term_years,omitempty" yaml:"term_years,omitempty"`
	RemainingYears int `json:"remaining_years,omitempty" yaml:"remaining_years,omitempty"`

	// CollateralID optionally links a loan to the financed asset.
	CollateralID string `json:"collateral_id,omitempty" yaml:"collateral_id,omitempty"`

	Closed bool    `json:"closed" yaml:"closed"`
	Ledger []Entry `json:"ledger" yaml:"ledger"`
}

// Installment summarizes one year of loan amortization.
type Installment struct {
	Interest  float64
	Principal float64
	Payment   float64
	PaidOff   bool
}

func validAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount >= 0
}

// OpenDeposit opens an asset-category account. The initial amount must
// be non-negative; when positive it is posted as the opening deposit so
// the ledger replays to the balance.
func OpenDeposit(accountID string, cat Category, initial, rate float64, year int) (*Account, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("open %q: %w", cat, ErrUnknownCategory)
	}
	if cat.IsLiability() {
		return nil, fmt.Errorf("open %q: liability category requires a loan", cat)
	}
	if !validAmount(initial) {
		return nil, fmt.Errorf("open %s: initial amount %v: %w", cat, initial, ErrInvalidAmount)
	}
	a := &Account{
		ID:         accountID,
		Category:   cat,
		Rate:       rate,
		OpenedYear: year,
	}
	if initial > 0 {
		a.post(TxDeposit, initial, initial, "initial deposit", year)
	}
	return a, nil
}

// OpenLoan opens a liability-category account with the given principal.
// The rate is supplied by the caller (priced at origination), not
// computed here. Amortizing categories require a positive term.
func OpenLoan(accountID string, cat Category, principal, rate float64, termYears, year int) (*Account, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("open %q: %w", cat, ErrUnknownCategory)
	}
	if !cat.IsLiability() {
		return nil, fmt.Errorf("open %q: not a liability category", cat)
	}
	if !validAmount(principal) || principal == 0 {
		return nil, fmt.Errorf("open %s: principal %v: %w", cat, principal, ErrInvalidAmount)
	}
	if rate < 0 {
		return nil, fmt.Errorf("open %s: rate %v: %w", cat, rate, ErrInvalidAmount)
	}
	if cat.IsAmortizing() && termYears <= 0 {
		return nil, fmt.Errorf("open %s: term must be positive, got %d", cat, termYears)
	}
	a := &Account{
		ID:             accountID,
		Category:       cat,
		Rate:           rate,
		OpenedYear:     year,
		TermYears:      termYears,
		RemainingYears: termYears,
	}
	a.post(TxLoanDisbursement, principal, principal, "loan disbursement", year)
	return a, nil
}

// post appends the ledger entry and applies the delta together. Callers
// validate first; once post runs, both sides commit.
func (a *Account) post(cat TxCategory, amount, delta float64, desc string, year int) {
	a.Ledger = append(a.Ledger, Entry{
		ID:          id.New(),
		Time:        time.Now().UTC(),
		Year:        year,
		Category:    cat,
		Amount:      amount,
		Delta:       delta,
		Description: desc,
	})
	a.Balance += delta
}

// Apply posts a transaction whose direction is fixed by the category
// table. Transfer-like categories are rejected with ErrExplicitLegs;
// the manager posts those as two explicit legs.
func (a *Account) Apply(cat TxCategory, amount float64, desc string, year int) error {
	if a.Closed {
		return fmt.Errorf("account %s: %w", a.ID, ErrAccountClosed)
	}
	dir, ok := txDirection[cat]
	if !ok {
		return fmt.Errorf("transaction %q: %w", cat, ErrUnknownCategory)
	}
	if dir == 0 {
		return fmt.Errorf("transaction %q: %w", cat, ErrExplicitLegs)
	}
	if !validAmount(amount) || amount == 0 {
		return fmt.Errorf("transaction %s for %v: %w", cat, amount, ErrInvalidAmount)
	}
	delta := amount * float64(dir)
	if err := a.checkBalanceAfter(delta); err != nil {
		return fmt.Errorf("transaction %s for %v: %w", cat, amount, err)
	}
	a.post(cat, amount, delta, desc, year)
	return nil
}

// PostLeg posts one leg of a transfer-like transaction with an explicit
// signed delta. The manager is responsible for posting the matching leg
// on the counterpart account.
func (a *Account) PostLeg(cat TxCategory, delta float64, desc string, year int) error {
	if a.Closed {
		return fmt.Errorf("account %s: %w", a.ID, ErrAccountClosed)
	}
	if !cat.Valid() {
		return fmt.Errorf("transaction %q: %w", cat, ErrUnknownCategory)
	}
	if !validAmount(math.Abs(delta)) {
		return fmt.Errorf("leg %s for %v: %w", cat, delta, ErrInvalidAmount)
	}
	if err := a.checkBalanceAfter(delta); err != nil {
		return fmt.Errorf("leg %s for %v: %w", cat, delta, err)
	}
	a.post(cat, math.Abs(delta), delta, desc, year)
	return nil
}

// checkBalanceAfter enforces category polarity: liabilities never owe a
// negative amount, and assets only overdraw when the category is
// checking (the one transient-overdraft state the engine models).
func (a *Account) checkBalanceAfter(delta float64) error {
	after := a.Balance + delta
	if after >= 0 {
		return nil
	}
	if a.Category.IsLiability() {
		return ErrInvalidAmount
	}
	if a.Category != Checking {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyInterest accrues one year of deposit interest. Categories that
// are not interest-bearing return 0 with no ledger entry; that is a
// defined no-op, not an error.
func (a *Account) ApplyInterest(year int) (float64, error) {
	if a.Closed {
		return 0, fmt.Errorf("account %s: %w", a.ID, ErrAccountClosed)
	}
	if !a.Category.IsInterestBearing() {
		return 0, nil
	}
	interest := a.Balance * a.Rate
	if interest <= 0 {
		return 0, nil
	}
	a.post(TxInterest, interest, interest, fmt.Sprintf("interest at %.2f%%", a.Rate*100), year)
	return interest, nil
}

// Amortize applies one year of the loan's payment schedule: interest
// accrues on the outstanding amount, then the annuity payment comes off.
// The account closes once the balance reaches zero.
//
// The payment is re-derived from the outstanding balance and remaining
// term, so extra payments shorten the effective schedule rather than
// changing its length.
func (a *Account) Amortize(year int) (Installment, error) {
	if a.Closed {
		return Installment{}, fmt.Errorf("account %s: %w", a.ID, ErrAccountClosed)
	}
	if !a.Category.IsAmortizing() || a.RemainingYears <= 0 {
		return Installment{}, nil
	}

	// The level payment is priced off the balance before this year's
	// interest accrues; that keeps the schedule flat across the term.
	payment := annuityPayment(a.Balance, a.Rate, a.RemainingYears)

	interest := a.Balance * a.Rate
	if interest > 0 {
		a.post(TxInterest, interest, interest, fmt.Sprintf("loan interest at %.2f%%", a.Rate*100), year)
	}
	owed := a.Balance

	if a.RemainingYears == 1 || payment >= owed {
		// Final installment settles the exact outstanding amount.
		payment = owed
	}
	a.post(TxPayment, payment, -payment, "scheduled loan payment", year)
	a.RemainingYears--

	inst := Installment{
		Interest:  interest,
		Principal: payment - interest,
		Payment:   payment,
	}
	if a.Balance == 0 {
		a.Closed = true
		inst.PaidOff = true
	}
	return inst, nil
}

// annuityPayment is the level payment that retires balance b at annual
// rate r over n periods.
func annuityPayment(b, r float64, n int) float64 {
	if n <= 0 {
		return b
	}
	if r == 0 {
		return b / float64(n)
	}
	growth := math.Pow(1+r, float64(n))
	return b * r * growth / (growth - 1)
}

// Close marks the account closed on explicit request. Accounts with an
// outstanding balance must be drained or paid off first. Closed accounts
// stay readable but reject further mutation.
func (a *Account) Close() error {
	if a.Closed {
		return fmt.Errorf("account %s: %w", a.ID, ErrAccountClosed)
	}
	if a.Balance != 0 {
		return fmt.Errorf("account %s holds %v: %w", a.ID, a.Balance, ErrBalanceOutstanding)
	}
	a.Closed = true
	return nil
}

// Replay rebuilds the balance from the ledger alone. It exists for
// auditing and tests; the result must always equal Balance.
func (a *Account) Replay() float64 {
	var b float64
	for _, e := range a.Ledger {
		b += e.Delta
	}
	return b
}

// Copy returns a deep copy, so callers can hand accounts out without
// exposing internal state.
func (a *Account) Copy() *Account {
	cp := *a
	cp.Ledger = make([]Entry, len(a.Ledger))
	copy(cp.Ledger, a.Ledger)
	return &cp
}
