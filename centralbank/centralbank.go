// Package centralbank owns the economy-wide base rate: its bounds, its
// year-by-year history, shock responses, and forward rate projections.
package centralbank

import (
	"iter"

	"github.com/lifesim/lifebank/market"
)

// Shock is a macroeconomic event kind the bank reacts to.
type Shock string

const (
	ShockRecession       Shock = "recession"
	ShockInflationSpike  Shock = "inflation-spike"
	ShockFinancialCrisis Shock = "financial-crisis"
	ShockBoom            Shock = "economic-boom"
)

// shockDelta is the fixed base-rate move per shock kind.
var shockDelta = map[Shock]float64{
	ShockRecession:       -0.01,
	ShockInflationSpike:  0.01,
	ShockFinancialCrisis: -0.03,
	ShockBoom:            0.005,
}

// Observation is one recorded (year, base rate, inflation) point.
type Observation struct {
	Year      int     `json:"year" yaml:"year"`
	Rate      float64 `json:"rate" yaml:"rate"`
	Inflation float64 `json:"inflation" yaml:"inflation"`
}

// Bounds is the allowed base-rate range. Setters clamp into it; the
// rate is never silently out of range.
type Bounds struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// DefaultBounds is 0.1%-20%.
func DefaultBounds() Bounds { return Bounds{Min: 0.001, Max: 0.20} }

// historyLimit bounds the retention window; the oldest observation is
// evicted once the window is exceeded.
const historyLimit = 30

// projectionNoise bounds the stochastic term in rate projections
// (plus or minus 0.25pp per step).
const projectionNoise = 0.0025

// Bank is the central bank state. Not safe for concurrent use; the
// manager serializes access.
type Bank struct {
	baseRate        float64
	inflationTarget float64
	bounds          Bounds
	history         []Observation
}

// New creates a central bank with the given starting rate (clamped) and
// inflation target.
func New(baseRate, inflationTarget float64, bounds Bounds) *Bank {
	if bounds.Max <= bounds.Min {
		bounds = DefaultBounds()
	}
	b := &Bank{inflationTarget: inflationTarget, bounds: bounds}
	b.SetBaseRate(baseRate)
	return b
}

func (b *Bank) clamp(r float64) float64 {
	if r < b.bounds.Min {
		return b.bounds.Min
	}
	if r > b.bounds.Max {
		return b.bounds.Max
	}
	return r
}

// BaseRate returns the current base rate.
func (b *Bank) BaseRate() float64 { return b.baseRate }

// SetBaseRate stores the rate clamped to the configured bounds.
func (b *Bank) SetBaseRate(r float64) {
	b.baseRate = b.clamp(r)
}

// InflationTarget returns the configured inflation target.
func (b *Bank) InflationTarget() float64 { return b.inflationTarget }

// Bounds returns the configured base-rate bounds.
func (b *Bank) Bounds() Bounds { return b.bounds }

// RecordYearlyRate appends an observation of the current base rate and
// the given inflation. Calling twice for the same year records twice;
// the yearly update pass is the single caller and calls once per year.
func (b *Bank) RecordYearlyRate(year int, inflation float64) {
	b.history = append(b.history, Observation{Year: year, Rate: b.baseRate, Inflation: inflation})
	if len(b.history) > historyLimit {
		b.history = b.history[len(b.history)-historyLimit:]
	}
}

// History returns a copy of the retained observations, oldest first.
func (b *Bank) History() []Observation {
	out := make([]Observation, len(b.history))
	copy(out, b.history)
	return out
}

// RespondToShock applies the fixed rate delta for the shock kind,
// clamped to bounds, and returns the resulting base rate. Unknown
// shocks leave the rate unchanged.
func (b *Bank) RespondToShock(kind Shock) float64 {
	b.baseRate = b.clamp(b.baseRate + shockDelta[kind])
	return b.baseRate
}

// ProjectRates returns a lazy, finite, single-use sequence of future
// (year, rate, inflation) projections. Each step moves the projected
// rate to close half the gap between projected inflation and the
// inflation target, adds bounded noise from rng, and re-clamps.
//
// This is a forward-only simulation: it never mutates the bank's real
// base rate. Years continue from the last recorded observation, or
// count from 1 when no history exists.
func (b *Bank) ProjectRates(years int, projectedInflation float64, rng market.Rand) iter.Seq[Observation] {
	startYear := 0
	if n := len(b.history); n > 0 {
		startYear = b.history[n-1].Year
	}
	r := b.baseRate
	gap := projectedInflation - b.inflationTarget

	return func(yield func(Observation) bool) {
		for i := 1; i <= years; i++ {
			noise := (rng.Float64()*2 - 1) * projectionNoise
			r = b.clamp(r + 0.5*gap + noise)
			if !yield(Observation{Year: startYear + i, Rate: r, Inflation: projectedInflation}) {
				return
			}
		}
	}
}

// Snapshot captures the bank's full state for persistence.
type Snapshot struct {
	BaseRate        float64       `json:"base_rate" yaml:"base_rate"`
	InflationTarget float64       `json:"inflation_target" yaml:"inflation_target"`
	Bounds          Bounds        `json:"bounds" yaml:"bounds"`
	History         []Observation `json:"history" yaml:"history"`
}

// Snapshot exports the bank state.
func (b *Bank) Snapshot() Snapshot {
	return Snapshot{
		BaseRate:        b.baseRate,
		InflationTarget: b.inflationTarget,
		Bounds:          b.bounds,
		History:         b.History(),
	}
}

// FromSnapshot rebuilds a bank from a snapshot, re-clamping the rate so
// the bounds invariant holds even for hand-edited state files.
func FromSnapshot(s Snapshot) *Bank {
	b := New(s.BaseRate, s.InflationTarget, s.Bounds)
	b.history = make([]Observation, len(s.History))
	copy(b.history, s.History)
	if len(b.history) > historyLimit {
		b.history = b.history[len(b.history)-historyLimit:]
	}
	return b
}
