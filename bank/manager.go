// Package bank orchestrates the banking engine: account lifecycle,
// money movement, loan origination, the yearly update pass, and the
// policy facade external callers configure the engine through.
//
// The engine runs single-threaded per simulated year; the manager's one
// mutex serializes every mutation so account, central-bank and market
// state can never be observed mid-update.
package bank

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lifesim/lifebank/account"
	"github.com/lifesim/lifebank/centralbank"
	"github.com/lifesim/lifebank/journal"
	"github.com/lifesim/lifebank/market"
	"github.com/lifesim/lifebank/rate"
)

// Manager owns every account and the economy-wide singletons.
type Manager struct {
	mu       sync.Mutex
	nextID   int
	accounts map[string]*account.Account

	centralBank *centralbank.Bank
	cycle       *market.Cycle
	rng         market.Rand
	pricer      rate.Model

	journal  journal.Journal
	emitter  Emitter
	validate *validator.Validate

	inflationTarget float64
	overdraftLimit  float64
	overdraftFee    float64
}

// Option configures a Manager.
type Option func(*Manager)

// WithJournal records every posted entry and year-end snapshot.
func WithJournal(j journal.Journal) Option {
	return func(m *Manager) { m.journal = j }
}

// WithEmitter receives domain events; emission is fire-and-forget.
func WithEmitter(e Emitter) Option {
	return func(m *Manager) { m.emitter = e }
}

// WithRand injects the randomness source for the market cycle and
// inflation noise.
func WithRand(r market.Rand) Option {
	return func(m *Manager) { m.rng = r }
}

// WithSeed seeds the default randomness source; identical seeds give
// identical yearly passes over identical accounts.
func WithSeed(seed int64) Option {
	return WithRand(market.NewRand(seed))
}

// WithRegimeWeights overrides the market cycle draw weights.
func WithRegimeWeights(w market.Weights) Option {
	return func(m *Manager) { m.cycle = market.NewCycle(w) }
}

// WithRateModel overrides the loan pricing model.
func WithRateModel(r rate.Model) Option {
	return func(m *Manager) { m.pricer = r }
}

// WithInflationTarget overrides the central bank inflation target.
func WithInflationTarget(t float64) Option {
	return func(m *Manager) { m.inflationTarget = t }
}

// WithOverdraft sets the checking overdraft limit and the flat fee
// posted when a withdrawal dips below zero.
func WithOverdraft(limit, fee float64) Option {
	return func(m *Manager) {
		m.overdraftLimit = limit
		m.overdraftFee = fee
	}
}

// WithCentralBank installs a pre-built central bank (used when
// restoring saved state).
func WithCentralBank(b *centralbank.Bank) Option {
	return func(m *Manager) { m.centralBank = b }
}

// NewManager builds a manager around a central bank starting at
// baseRate (clamped to the default bounds).
func NewManager(baseRate float64, opts ...Option) *Manager {
	m := &Manager{
		accounts:        make(map[string]*account.Account),
		cycle:           market.NewCycle(nil),
		rng:             market.NewRand(0),
		pricer:          rate.Default(),
		journal:         journal.Discard{},
		validate:        validator.New(),
		inflationTarget: 0.02,
		overdraftLimit:  500,
		overdraftFee:    35,
	}
	for _, o := range opts {
		o(m)
	}
	if m.centralBank == nil {
		m.centralBank = centralbank.New(baseRate, m.inflationTarget, centralbank.DefaultBounds())
	}
	return m
}

func (m *Manager) newAccountID() string {
	m.nextID++
	return fmt.Sprintf("ACC-%06d", m.nextID)
}

// OpenAccountRequest opens an asset-category account. A zero rate on an
// interest-bearing category takes the default deposit rate derived from
// the current base rate.
type OpenAccountRequest struct {
	Category account.Category `validate:"required"`
	Initial  float64          `validate:"gte=0"`
	Rate     float64          `validate:"gte=0,lte=1"`
	Year     int              `validate:"gte=0"`
}

// LoanRequest originates a liability-category account. The rate is
// priced by the rate model at call time from the borrower's credit
// score; callers never supply it.
type LoanRequest struct {
	Category        account.Category `validate:"required"`
	Principal       float64          `validate:"gt=0"`
	TermYears       int              `validate:"gte=0"`
	CreditScore     int              `validate:"gte=0"`
	CollateralID    string
	CollateralValue float64 `validate:"gte=0"`
	Year            int     `validate:"gte=0"`
}

// depositRate derives the default deposit rate for an interest-bearing
// category from the base rate. CDs earn a term premium over the base;
// demand-style accounts earn less than it.
func depositRate(cat account.Category, base float64) float64 {
	var r float64
	switch cat {
	case account.CD:
		r = base + 0.005
	case account.Savings:
		r = base - 0.01
	case account.Business:
		r = base - 0.015
	}
	if r < 0.001 {
		r = 0.001
	}
	return r
}

// OpenAccount creates an asset account and returns a copy of it.
func (m *Manager) OpenAccount(req OpenAccountRequest) (*account.Account, error) {
	if err := m.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("open account: %w", err)
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("open account %q: %w", req.Category, account.ErrUnknownCategory)
	}
	if req.Category.IsLiability() {
		return nil, fmt.Errorf("open account %q: liability categories are originated as loans", req.Category)
	}

	m.mu.Lock()
	r := req.Rate
	if r == 0 && req.Category.IsInterestBearing() {
		r = depositRate(req.Category, m.centralBank.BaseRate())
	}
	a, err := account.OpenDeposit(m.newAccountID(), req.Category, req.Initial, r, req.Year)
	if err != nil {
		m.nextID-- // id was never used
		m.mu.Unlock()
		return nil, err
	}
	m.accounts[a.ID] = a
	events := m.journalEntries(a, 0)
	cp := a.Copy()
	m.mu.Unlock()

	events = append(events, Event{
		Kind:      EventAccountOpened,
		Message:   fmt.Sprintf("opened %s account with %.2f", a.Category, req.Initial),
		AccountID: a.ID,
		Year:      req.Year,
		Time:      time.Now().UTC(),
	})
	m.emit(events)
	return cp, nil
}

// OriginateLoan prices and opens a loan, returning a copy of the new
// account. The disbursed principal is the caller's to route; the loan
// account tracks only the amount owed.
func (m *Manager) OriginateLoan(req LoanRequest) (*account.Account, error) {
	if err := m.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("originate loan: %w", err)
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("originate loan %q: %w", req.Category, account.ErrUnknownCategory)
	}
	if !req.Category.IsLiability() {
		return nil, fmt.Errorf("originate loan %q: not a liability category", req.Category)
	}

	m.mu.Lock()
	r := m.pricer.Price(req.CreditScore, req.Category, req.TermYears, m.centralBank.BaseRate())
	a, err := account.OpenLoan(m.newAccountID(), req.Category, req.Principal, r, req.TermYears, req.Year)
	if err != nil {
		m.nextID--
		m.mu.Unlock()
		return nil, err
	}
	a.CollateralID = req.CollateralID
	m.accounts[a.ID] = a
	events := m.journalEntries(a, 0)
	cp := a.Copy()
	m.mu.Unlock()

	events = append(events, Event{
		Kind:      EventAccountOpened,
		Message:   fmt.Sprintf("originated %s for %.2f at %.2f%% over %d years", a.Category, req.Principal, r*100, req.TermYears),
		AccountID: a.ID,
		Year:      req.Year,
		Time:      time.Now().UTC(),
	})
	m.emit(events)
	return cp, nil
}

// Deposit credits an asset account.
func (m *Manager) Deposit(accountID string, amount float64, desc string, year int) error {
	if desc == "" {
		desc = "deposit"
	}
	m.mu.Lock()
	a, ok := m.accounts[accountID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("deposit to %s: %w", accountID, account.ErrAccountNotFound)
	}
	if a.Category.IsLiability() {
		// A deposit's +1 polarity would increase the amount owed.
		m.mu.Unlock()
		return fmt.Errorf("deposit to %s: loans are paid with PayLoan, not deposits", accountID)
	}
	before := len(a.Ledger)
	if err := a.Apply(account.TxDeposit, amount, desc, year); err != nil {
		m.mu.Unlock()
		return err
	}
	events := m.journalEntries(a, before)
	m.mu.Unlock()

	events = append(events, Event{
		Kind:      EventDeposit,
		Message:   fmt.Sprintf("deposited %.2f", amount),
		AccountID: accountID,
		Year:      year,
		Time:      time.Now().UTC(),
	})
	m.emit(events)
	return nil
}

// Withdraw debits an asset account. Checking accounts may overdraw to
// the configured limit; doing so posts the overdraft fee, which counts
// against the limit.
func (m *Manager) Withdraw(accountID string, amount float64, desc string, year int) error {
	if desc == "" {
		desc = "withdrawal"
	}
	m.mu.Lock()
	a, ok := m.accounts[accountID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("withdraw from %s: %w", accountID, account.ErrAccountNotFound)
	}
	if a.Category.IsLiability() {
		m.mu.Unlock()
		return fmt.Errorf("withdraw from %s: %s holds an amount owed, not funds", accountID, a.Category)
	}
	// The fee posts with the withdrawal, so it counts against the limit.
	overdrawing := a.Category == account.Checking && a.Balance-amount < 0
	if overdrawing && a.Balance-amount-m.overdraftFee < -m.overdraftLimit {
		m.mu.Unlock()
		return fmt.Errorf("withdraw %.2f from %s: overdraft limit: %w", amount, accountID, account.ErrInsufficientFunds)
	}
	before := len(a.Ledger)
	if err := a.Apply(account.TxWithdrawal, amount, desc, year); err != nil {
		m.mu.Unlock()
		return err
	}
	if overdrawing && m.overdraftFee > 0 {
		if err := a.Apply(account.TxFee, m.overdraftFee, "overdraft fee", year); err != nil {
			// Validated above; unreachable short of an invariant break.
			a.Ledger = a.Ledger[:before]
			a.Balance += amount
			m.mu.Unlock()
			return err
		}
	}
	events := m.journalEntries(a, before)
	m.mu.Unlock()

	events = append(events, Event{
		Kind:      EventWithdrawal,
		Message:   fmt.Sprintf("withdrew %.2f", amount),
		AccountID: accountID,
		Year:      year,
		Time:      time.Now().UTC(),
	})
	m.emit(events)
	return nil
}

// Transfer moves amount between two asset accounts as two explicit
// transfer legs posted in the same critical section. Either both legs
// commit or neither does.
func (m *Manager) Transfer(fromID, toID string, amount float64, year int) error {
	if fromID == toID {
		return fmt.Errorf("transfer: source and destination are the same account")
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fmt.Errorf("transfer %v: %w", amount, account.ErrInvalidAmount)
	}

	m.mu.Lock()
	from, ok := m.accounts[fromID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("transfer from %s: %w", fromID, account.ErrAccountNotFound)
	}
	to, ok := m.accounts[toID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("transfer to %s: %w", toID, account.ErrAccountNotFound)
	}
	// Validate both sides before touching either balance.
	switch {
	case from.Closed:
		m.mu.Unlock()
		return fmt.Errorf("transfer from %s: %w", fromID, account.ErrAccountClosed)
	case to.Closed:
		m.mu.Unlock()
		return fmt.Errorf("transfer to %s: %w", toID, account.ErrAccountClosed)
	case from.Category.IsLiability() || to.Category.IsLiability():
		m.mu.Unlock()
		return fmt.Errorf("transfer: loans are paid with PayLoan, not transfers")
	case from.Balance < amount:
		m.mu.Unlock()
		return fmt.Errorf("transfer %.2f from %s: %w", amount, fromID, account.ErrInsufficientFunds)
	}

	beforeFrom, beforeTo := len(from.Ledger), len(to.Ledger)
	if err := from.PostLeg(account.TxTransfer, -amount, "transfer to "+toID, year); err != nil {
		m.mu.Unlock()
		return err
	}
	if err := to.PostLeg(account.TxTransfer, amount, "transfer from "+fromID, year); err != nil {
		// Roll the first leg back; validation above makes this unreachable
		// short of an internal invariant break.
		from.Ledger = from.Ledger[:beforeFrom]
		from.Balance += amount
		m.mu.Unlock()
		return err
	}
	events := m.journalEntries(from, beforeFrom)
	events = append(events, m.journalEntries(to, beforeTo)...)
	m.mu.Unlock()

	events = append(events, Event{
		Kind:      EventTransfer,
		Message:   fmt.Sprintf("transferred %.2f from %s to %s", amount, fromID, toID),
		AccountID: fromID,
		Year:      year,
		Time:      time.Now().UTC(),
	})
	m.emit(events)
	return nil
}

// PayLoan makes an ad-hoc payment against a loan, clamped to the amount
// owed. Paying to zero closes the account.
func (m *Manager) PayLoan(accountID string, amount float64, year int) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fmt.Errorf("pay loan %v: %w", amount, account.ErrInvalidAmount)
	}

	m.mu.Lock()
	a, ok := m.accounts[accountID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("pay loan %s: %w", accountID, account.ErrAccountNotFound)
	}
	if !a.Category.IsLiability() {
		m.mu.Unlock()
		return fmt.Errorf("pay loan %s: %s is not a loan", accountID, a.Category)
	}
	if amount > a.Balance {
		amount = a.Balance
	}
	before := len(a.Ledger)
	if err := a.Apply(account.TxPayment, amount, "extra loan payment", year); err != nil {
		m.mu.Unlock()
		return err
	}
	paidOff := a.Balance == 0
	if paidOff {
		a.RemainingYears = 0
		a.Closed = true
	}
	events := m.journalEntries(a, before)
	m.mu.Unlock()

	events = append(events, Event{
		Kind:      EventPayment,
		Message:   fmt.Sprintf("paid %.2f toward loan", amount),
		AccountID: accountID,
		Year:      year,
		Time:      time.Now().UTC(),
	})
	if paidOff {
		events = append(events, Event{
			Kind:      EventAccountClosed,
			Message:   "loan paid off",
			AccountID: accountID,
			Year:      year,
			Time:      time.Now().UTC(),
		})
	}
	m.emit(events)
	return nil
}

// CloseAccount closes an account on explicit request. The balance must
// already be zero.
func (m *Manager) CloseAccount(accountID string, year int) error {
	m.mu.Lock()
	a, ok := m.accounts[accountID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("close %s: %w", accountID, account.ErrAccountNotFound)
	}
	if err := a.Close(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()

	m.emit([]Event{{
		Kind:      EventAccountClosed,
		Message:   "account closed",
		AccountID: accountID,
		Year:      year,
		Time:      time.Now().UTC(),
	}})
	return nil
}

// Account returns a deep copy of one account, closed or open.
func (m *Manager) Account(accountID string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, account.ErrAccountNotFound)
	}
	return a.Copy(), nil
}

// Accounts returns deep copies of every account in ascending id order.
func (m *Manager) Accounts() []*account.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*account.Account, 0, len(m.accounts))
	for _, id := range m.sortedIDs() {
		out = append(out, m.accounts[id].Copy())
	}
	return out
}

// NetPosition is the character's aggregate monetary position: assets
// held minus amounts owed.
func (m *Manager) NetPosition() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	assets, owed := m.totalsLocked()
	return assets - owed
}

// Regime returns the current market regime.
func (m *Manager) Regime() market.Regime {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cycle.Current
}

func (m *Manager) totalsLocked() (assets, owed float64) {
	for _, a := range m.accounts {
		if a.Category.IsLiability() {
			owed += a.Balance
		} else {
			assets += a.Balance
		}
	}
	return assets, owed
}

// sortedIDs returns account ids ascending; the yearly pass depends on
// this order being deterministic.
func (m *Manager) sortedIDs() []string {
	ids := make([]string, 0, len(m.accounts))
	for id := range m.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// journalEntries records the account's ledger entries from index from
// onward. Journal failures are reported as error events, never as
// operation failures: persistence is a boundary concern and must not
// unwind committed state.
func (m *Manager) journalEntries(a *account.Account, from int) []Event {
	var events []Event

	// Reconstruct the running balance after each new entry.
	bal := a.Balance
	balances := make([]float64, len(a.Ledger)-from)
	for i := len(a.Ledger) - 1; i >= from; i-- {
		balances[i-from] = bal
		bal -= a.Ledger[i].Delta
	}

	for i := from; i < len(a.Ledger); i++ {
		e := a.Ledger[i]
		err := m.journal.RecordEntry(journal.EntryRecord{
			EntryID:     e.ID,
			AccountID:   a.ID,
			Year:        e.Year,
			Time:        e.Time,
			Category:    string(e.Category),
			Amount:      e.Amount,
			Delta:       e.Delta,
			Balance:     balances[i-from],
			Description: e.Description,
		})
		if err != nil {
			events = append(events, Event{
				Kind:      EventError,
				Message:   fmt.Sprintf("journal entry %s: %v", e.ID, err),
				AccountID: a.ID,
				Year:      e.Year,
				Time:      time.Now().UTC(),
			})
		}
	}
	return events
}

// emit relays events to the configured emitter outside the lock.
func (m *Manager) emit(events []Event) {
	if m.emitter == nil {
		return
	}
	for _, e := range events {
		m.emitter.Emit(e)
	}
}
