// Package rate prices loans. It is a pure function library: given a
// credit score, loan category, term and the central bank's base rate it
// returns an annual rate, with no hidden state or randomness, so the
// same inputs always price the same.
package rate

import "github.com/lifesim/lifebank/account"

// DefaultFloor is the minimum rate a loan can price at; the floor keeps
// the lender profitable even when adjustments push below the base rate.
const DefaultFloor = 0.005

// Model holds the pricing knobs. The zero value is not useful; use
// Default or fill in a floor explicitly.
type Model struct {
	Floor float64
}

// Default returns a model with the standard floor.
func Default() Model {
	return Model{Floor: DefaultFloor}
}

// scoreBand is one credit tier. Bands are contiguous and cover the full
// 300-850 FICO range; scores outside it take no adjustment.
type scoreBand struct {
	lo, hi int
	adj    float64
}

var scoreBands = []scoreBand{
	{300, 579, 0.05},    // deep subprime, largest risk premium
	{580, 669, 0.02},    // subprime
	{670, 739, 0.0},     // neutral
	{740, 799, -0.0025}, // prime
	{800, 850, -0.005},  // super-prime
}

var categoryAdjust = map[account.Category]float64{
	account.Mortgage:     0.005,
	account.AutoLoan:     0.02,
	account.StudentLoan:  -0.005,
	account.PersonalLoan: 0.03,
	account.CreditLine:   0.12,
}

// Price converts borrower and loan attributes to an annual rate:
// base rate, plus the credit-band adjustment, plus the category
// adjustment, plus a term surcharge, clamped to the floor.
func (m Model) Price(creditScore int, cat account.Category, termYears int, baseRate float64) float64 {
	r := baseRate

	for _, b := range scoreBands {
		if creditScore >= b.lo && creditScore <= b.hi {
			r += b.adj
			break
		}
	}

	r += categoryAdjust[cat]

	switch {
	case termYears > 15:
		r += 0.005
	case termYears > 7:
		r += 0.002
	}

	if r < m.Floor {
		r = m.Floor
	}
	return r
}
