// Package market generates the macroeconomic regime for each simulated
// year. Transitions are probabilistic but time-gated: recessions cluster
// on decade boundaries and booms near mid-decade points, which gives the
// simulation its path dependence.
//
// All randomness flows through the Rand interface so tests (and
// reproducible runs) can supply a seeded or scripted source.
package market

import (
	"math/rand"
	"time"
)

// Regime is the current macroeconomic condition.
type Regime string

const (
	Recession Regime = "recession"
	Recovery  Regime = "recovery"
	Normal    Regime = "normal"
	Expansion Regime = "expansion"
	Boom      Regime = "boom"
)

// regimeOrder fixes the iteration order for weighted draws; map
// iteration would break run-to-run determinism.
var regimeOrder = []Regime{Recession, Recovery, Normal, Expansion, Boom}

// Valid reports whether r is a known regime.
func (r Regime) Valid() bool {
	for _, known := range regimeOrder {
		if r == known {
			return true
		}
	}
	return false
}

// Inflation returns the baseline yearly inflation the regime implies.
// The manager layers noise on top of this when recording the year.
func (r Regime) Inflation() float64 {
	switch r {
	case Recession:
		return 0.005
	case Recovery:
		return 0.015
	case Expansion:
		return 0.03
	case Boom:
		return 0.045
	default:
		return 0.02
	}
}

// Rand is the randomness the cycle consumes. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a seeded random source. Seed 0 falls back to the
// current time for non-reproducible runs.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Weights is the relative likelihood of each regime in an ordinary
// (non-gated) year.
type Weights map[Regime]float64

// DefaultWeights makes "normal" the modal outcome.
func DefaultWeights() Weights {
	return Weights{
		Recession: 0.10,
		Recovery:  0.15,
		Normal:    0.40,
		Expansion: 0.20,
		Boom:      0.15,
	}
}

const (
	decadeRecessionChance = 0.3
	midDecadeBoomChance   = 0.4
)

// Cycle holds the current regime and the draw weights.
type Cycle struct {
	Current Regime
	weights Weights
}

// NewCycle starts in the normal regime. Nil or empty weights fall back
// to the defaults.
func NewCycle(w Weights) *Cycle {
	if len(w) == 0 {
		w = DefaultWeights()
	}
	return &Cycle{Current: Normal, weights: w}
}

// Advance produces the regime for year and stores it as current.
// Decade years carry a forced-recession chance, other multiple-of-five
// years a forced-boom chance; every other year is a weighted draw.
func (c *Cycle) Advance(year int, rng Rand) Regime {
	switch {
	case year%10 == 0 && rng.Float64() < decadeRecessionChance:
		c.Current = Recession
	case year%5 == 0 && year%10 != 0 && rng.Float64() < midDecadeBoomChance:
		c.Current = Boom
	default:
		c.Current = c.draw(rng)
	}
	return c.Current
}

func (c *Cycle) draw(rng Rand) Regime {
	var total float64
	for _, r := range regimeOrder {
		total += c.weights[r]
	}
	if total <= 0 {
		return Normal
	}

	x := rng.Float64() * total
	for _, r := range regimeOrder {
		x -= c.weights[r]
		if x < 0 {
			return r
		}
	}
	// Float round-off can leave x at exactly zero after the last weight.
	return regimeOrder[len(regimeOrder)-1]
}
