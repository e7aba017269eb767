package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand returns a fixed sequence of Float64 values.
type scriptedRand struct {
	values []float64
	i      int
}

func (r *scriptedRand) Float64() float64 {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v
}

func (r *scriptedRand) Intn(n int) int { return 0 }

func TestAdvance_DecadeRecession(t *testing.T) {
	t.Parallel()

	c := NewCycle(nil)
	got := c.Advance(2030, &scriptedRand{values: []float64{0.1}})
	assert.Equal(t, Recession, got)
	assert.Equal(t, Recession, c.Current)
}

func TestAdvance_DecadeRollFailsFallsToWeightedDraw(t *testing.T) {
	t.Parallel()

	c := NewCycle(Weights{Normal: 1})
	// 0.9 misses the 30% recession gate; the single-weight draw must
	// then land on normal.
	got := c.Advance(2030, &scriptedRand{values: []float64{0.9, 0.5}})
	assert.Equal(t, Normal, got)
}

func TestAdvance_MidDecadeBoom(t *testing.T) {
	t.Parallel()

	c := NewCycle(nil)
	got := c.Advance(2035, &scriptedRand{values: []float64{0.2}})
	assert.Equal(t, Boom, got)
}

func TestAdvance_OrdinaryYearWeightedDraw(t *testing.T) {
	t.Parallel()

	c := NewCycle(Weights{Recession: 1, Recovery: 1, Normal: 1, Expansion: 1, Boom: 1})

	tests := []struct {
		name string
		roll float64
		want Regime
	}{
		{"first bucket", 0.0, Recession},
		{"second bucket", 0.25, Recovery},
		{"middle bucket", 0.45, Normal},
		{"fourth bucket", 0.65, Expansion},
		{"last bucket", 0.99, Boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Advance(2031, &scriptedRand{values: []float64{tt.roll}})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdvance_SeededSequencesMatch(t *testing.T) {
	t.Parallel()

	a, b := NewCycle(nil), NewCycle(nil)
	ra, rb := NewRand(42), NewRand(42)

	for year := 2026; year <= 2080; year++ {
		require.Equal(t, a.Advance(year, ra), b.Advance(year, rb), "year %d diverged", year)
	}
}

func TestNewCycle_Defaults(t *testing.T) {
	t.Parallel()

	c := NewCycle(nil)
	assert.Equal(t, Normal, c.Current)

	// Zero-total weights degrade to normal rather than panicking.
	empty := NewCycle(Weights{Recession: 0})
	assert.Equal(t, Normal, empty.draw(&scriptedRand{values: []float64{0.5}}))
}

func TestRegime_Inflation(t *testing.T) {
	t.Parallel()

	// Hotter regimes imply higher baseline inflation.
	assert.Less(t, Recession.Inflation(), Normal.Inflation())
	assert.Less(t, Normal.Inflation(), Expansion.Inflation())
	assert.Less(t, Expansion.Inflation(), Boom.Inflation())
}

func TestRegime_Valid(t *testing.T) {
	t.Parallel()

	for _, r := range []Regime{Recession, Recovery, Normal, Expansion, Boom} {
		assert.True(t, r.Valid())
	}
	assert.False(t, Regime("stagflation").Valid())
}
