package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
)

// seqRNG replays a fixed list of draws.
type seqRNG struct {
	vals []float64
	i    int
}

func (s *seqRNG) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestDefaultTablesSumToOne(t *testing.T) {
	for tier, table := range DefaultTables() {
		sum := 0.0
		for _, e := range table {
			sum += e.Probability
		}
		assert.InDelta(t, 1.0, sum, ProbabilityTolerance, "tier %s", tier)
		assert.NoError(t, table.Validate(), "tier %s", tier)
	}
}

func TestResolve_MediumFixedDraws(t *testing.T) {
	e := Default()

	res, err := e.Resolve(model.RiskMedium, 12, &seqRNG{vals: []float64{0.05, 0.3}})
	require.NoError(t, err)

	assert.True(t, res.Multiplier.Equal(decimal.RequireFromString("1.00")), "got %s", res.Multiplier)
	assert.Equal(t, 3, res.Segment)
	assert.InDelta(t, math.Pi/2, res.Position, 1e-12)
}

func TestResolve_Reproducible(t *testing.T) {
	e := Default()
	draws := []float64{0.91, 0.77, 0.12, 0.5, 0.999, 0.0}

	for _, tier := range model.RiskTiers {
		for _, seg := range model.SegmentCounts {
			a, err := e.Resolve(tier, seg, &seqRNG{vals: draws})
			require.NoError(t, err)
			b, err := e.Resolve(tier, seg, &seqRNG{vals: draws})
			require.NoError(t, err)
			assert.True(t, a.Multiplier.Equal(b.Multiplier))
			assert.Equal(t, a.Position, b.Position)
			assert.Equal(t, a.Segment, b.Segment)
		}
	}
}

func TestSelectIndex_Boundaries(t *testing.T) {
	table := DefaultTables()[model.RiskMedium]

	tests := []struct {
		name string
		r    float64
		want int
	}{
		{"zero", 0, 0},
		{"exact first boundary picks first", 0.4, 0},
		{"just past first boundary", 0.41, 1},
		{"middle", 0.7, 2},
		{"near one", 0.999999, 4},
		{"above total mass falls back to last", 1.5, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectIndex(table, tt.r))
		})
	}
}

func TestPositionInRange(t *testing.T) {
	draws := []float64{0, 0.0001, 0.25, 0.5, 0.75, 0.9999999, 1.0}
	for _, seg := range model.SegmentCounts {
		for _, r := range draws {
			idx, pos := PositionFor(seg, r)
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, int(seg))
			assert.GreaterOrEqual(t, pos, 0.0)
			assert.Less(t, pos, 2*math.Pi, "segments=%d r=%v", seg, r)
		}
	}
}

func TestResolve_InvalidInputs(t *testing.T) {
	e := Default()
	rng := &seqRNG{vals: []float64{0.5}}

	_, err := e.Resolve("extreme", 12, rng)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRequest))

	_, err = e.Resolve(model.RiskLow, 15, rng)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRequest))
}

// Chi-square goodness of fit, df = 4, critical value 18.467 at p = 0.001.
func TestResolve_Distribution(t *testing.T) {
	if testing.Short() {
		t.Skip("long statistical test")
	}
	const draws = 200_000
	const critical = 18.467

	e := Default()
	rng := rand.New(rand.NewSource(1))

	for _, tier := range model.RiskTiers {
		table, _ := e.Table(tier)
		counts := make([]int, len(table))
		for i := 0; i < draws; i++ {
			counts[SelectIndex(table, rng.Float64())]++
			rng.Float64() // position draw, keeps the stream shaped like Resolve
		}

		chi := 0.0
		for i, entry := range table {
			expected := entry.Probability * draws
			diff := float64(counts[i]) - expected
			chi += diff * diff / expected
		}
		assert.Less(t, chi, critical, "tier %s counts %v", tier, counts)
	}
}

func TestNew_RejectsBadTables(t *testing.T) {
	one := decimal.NewFromInt(1)

	tests := []struct {
		name  string
		table Table
	}{
		{"empty", Table{}},
		{"negative multiplier", Table{{Multiplier: decimal.NewFromInt(-1), Probability: 1}}},
		{"zero probability", Table{{Multiplier: one, Probability: 0}, {Multiplier: one, Probability: 1}}},
		{"mass below one", Table{{Multiplier: one, Probability: 0.5}, {Multiplier: one, Probability: 0.4}}},
		{"mass above one", Table{{Multiplier: one, Probability: 0.7}, {Multiplier: one, Probability: 0.4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := DefaultTables()
			tables[model.RiskHigh] = tt.table
			_, err := New(tables)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidConfiguration))
		})
	}
}

func TestNew_MissingTier(t *testing.T) {
	tables := DefaultTables()
	delete(tables, model.RiskLow)
	_, err := New(tables)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidConfiguration))
}

func TestTable_RTP(t *testing.T) {
	table := DefaultTables()[model.RiskMedium]
	// 0.40*1 + 0.25*1.5 + 0.20*2 + 0.10*3 + 0.05*4
	assert.InDelta(t, 1.675, table.RTP(), 1e-12)
}
