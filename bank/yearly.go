package bank

import (
	"fmt"
	"time"

	"github.com/lifesim/lifebank/centralbank"
	"github.com/lifesim/lifebank/journal"
	"github.com/lifesim/lifebank/market"
)

// YearSummary reports what one yearly update pass did.
type YearSummary struct {
	Year          int
	Regime        market.Regime
	RegimeChanged bool
	Shock         centralbank.Shock // empty when the regime triggered none
	BaseRate      float64
	Inflation     float64

	DepositInterest  float64
	LoanInterest     float64
	PrincipalRetired float64
	PaidOff          []string

	NetPosition float64
}

// PartialFailure reports accounts that failed during a yearly pass.
// The pass itself still completes: macro steps always run and every
// other account is still processed.
type PartialFailure struct {
	Year   int
	Errors []error
}

func (p *PartialFailure) Error() string {
	return fmt.Sprintf("yearly update %d: %d account(s) failed", p.Year, len(p.Errors))
}

func (p *PartialFailure) Unwrap() []error { return p.Errors }

// inflationNoise bounds the random spread around the regime's baseline
// inflation when recording the year.
const inflationNoise = 0.005

// regimeShock maps the year's regime to the central bank shock it
// triggers. A recession landing on a decade boundary is crisis-grade.
func regimeShock(r market.Regime, year int) centralbank.Shock {
	switch {
	case r == market.Recession && year%10 == 0:
		return centralbank.ShockFinancialCrisis
	case r == market.Recession:
		return centralbank.ShockRecession
	case r == market.Boom:
		return centralbank.ShockBoom
	default:
		return ""
	}
}

// AdvanceYear runs the once-per-year update pass:
//
//  1. advance the market cycle; a shock-grade regime moves the base rate
//  2. sweep every open account in ascending id order, applying interest
//     and scheduled amortization; a single account's failure is
//     collected and never aborts the sweep
//  3. record the year's (base rate, realized inflation) into history
//  4. emit events for the notification layer, best-effort
//
// Steps 1 and 3 always run, even if account steps fail. The returned
// error is nil or a *PartialFailure listing the per-account errors.
func (m *Manager) AdvanceYear(year int) (YearSummary, error) {
	m.mu.Lock()

	prev := m.cycle.Current
	regime := m.cycle.Advance(year, m.rng)

	s := YearSummary{
		Year:          year,
		Regime:        regime,
		RegimeChanged: regime != prev,
		Shock:         regimeShock(regime, year),
	}
	if s.Shock != "" {
		m.centralBank.RespondToShock(s.Shock)
	}
	s.BaseRate = m.centralBank.BaseRate()

	var events []Event
	var failures []error

	for _, id := range m.sortedIDs() {
		a := m.accounts[id]
		if a.Closed {
			continue
		}
		before := len(a.Ledger)

		if interest, err := a.ApplyInterest(year); err != nil {
			failures = append(failures, fmt.Errorf("account %s: %w", id, err))
		} else if interest > 0 {
			s.DepositInterest += interest
			events = append(events, Event{
				Kind:      EventInterestApplied,
				Message:   fmt.Sprintf("interest %.2f applied", interest),
				AccountID: id,
				Year:      year,
				Time:      time.Now().UTC(),
			})
		}

		if a.Category.IsAmortizing() && !a.Closed {
			inst, err := a.Amortize(year)
			switch {
			case err != nil:
				failures = append(failures, fmt.Errorf("account %s: %w", id, err))
			case inst.Payment > 0:
				s.LoanInterest += inst.Interest
				s.PrincipalRetired += inst.Principal
				if inst.PaidOff {
					s.PaidOff = append(s.PaidOff, id)
					events = append(events, Event{
						Kind:      EventPayment,
						Message:   fmt.Sprintf("final payment %.2f", inst.Payment),
						AccountID: id,
						Year:      year,
						Time:      time.Now().UTC(),
					}, Event{
						Kind:      EventAccountClosed,
						Message:   "loan paid off",
						AccountID: id,
						Year:      year,
						Time:      time.Now().UTC(),
					})
				}
			}
		}

		events = append(events, m.journalEntries(a, before)...)
	}

	// Macro close-out runs regardless of account failures.
	s.Inflation = regime.Inflation() + (m.rng.Float64()*2-1)*inflationNoise
	m.centralBank.RecordYearlyRate(year, s.Inflation)

	assets, owed := m.totalsLocked()
	s.NetPosition = assets - owed

	open := 0
	for _, a := range m.accounts {
		if !a.Closed {
			open++
		}
	}
	if err := m.journal.RecordYearEnd(journal.YearEnd{
		Year:             year,
		Regime:           string(regime),
		BaseRate:         s.BaseRate,
		Inflation:        s.Inflation,
		TotalAssets:      assets,
		TotalLiabilities: owed,
		NetPosition:      s.NetPosition,
		OpenAccounts:     open,
	}); err != nil {
		events = append(events, Event{
			Kind:    EventError,
			Message: fmt.Sprintf("journal year end %d: %v", year, err),
			Year:    year,
			Time:    time.Now().UTC(),
		})
	}

	m.mu.Unlock()

	msg := fmt.Sprintf("year %d: %s regime, base rate %.2f%%", year, regime, s.BaseRate*100)
	if s.RegimeChanged {
		msg = fmt.Sprintf("year %d: regime %s -> %s, base rate %.2f%%", year, prev, regime, s.BaseRate*100)
	}
	events = append(events, Event{
		Kind:    EventMarketUpdate,
		Message: msg,
		Year:    year,
		Time:    time.Now().UTC(),
	})
	m.emit(events)

	if len(failures) > 0 {
		return s, &PartialFailure{Year: year, Errors: failures}
	}
	return s, nil
}
