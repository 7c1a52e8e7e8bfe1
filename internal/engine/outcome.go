package engine

import (
	"fmt"
	"math"

	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
)

// RNG yields uniform values in [0, 1). *math/rand.Rand satisfies it.
type RNG interface {
	Float64() float64
}

// Engine resolves spins against a validated set of tables. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	tables map[model.RiskTier]Table
}

// New validates every table and requires one per risk tier.
func New(tables map[model.RiskTier]Table) (*Engine, error) {
	copied := make(map[model.RiskTier]Table, len(tables))
	for _, tier := range model.RiskTiers {
		t, ok := tables[tier]
		if !ok {
			return nil, apperrors.NewInvalidConfiguration(fmt.Sprintf("missing table for risk %q", tier))
		}
		if err := t.Validate(); err != nil {
			return nil, apperrors.New(apperrors.ErrInvalidConfiguration, fmt.Sprintf("risk %q", tier), err)
		}
		copied[tier] = append(Table(nil), t...)
	}
	return &Engine{tables: copied}, nil
}

// Default builds an engine over DefaultTables.
func Default() *Engine {
	e, err := New(DefaultTables())
	if err != nil {
		panic("default tables invalid: " + err.Error())
	}
	return e
}

// Table returns a copy of the table for tier.
func (e *Engine) Table(tier model.RiskTier) (Table, bool) {
	t, ok := e.tables[tier]
	if !ok {
		return nil, false
	}
	return append(Table(nil), t...), true
}

// Resolve draws the multiplier first and the landing segment second. The two
// draws are independent; the landing segment is cosmetic.
func (e *Engine) Resolve(tier model.RiskTier, segments model.SegmentCount, rng RNG) (model.SpinResult, error) {
	t, ok := e.tables[tier]
	if !ok {
		return model.SpinResult{}, apperrors.NewInvalidRequest(fmt.Sprintf("unknown risk tier %q", tier))
	}
	if !segments.Valid() {
		return model.SpinResult{}, apperrors.NewInvalidRequest(fmt.Sprintf("unsupported segment count %d", segments))
	}

	idx := SelectIndex(t, rng.Float64())
	segment, position := PositionFor(segments, rng.Float64())

	return model.SpinResult{
		Multiplier: t[idx].Multiplier,
		Position:   position,
		Segment:    segment,
	}, nil
}

// SelectIndex returns the first bucket whose cumulative probability is >= r,
// or the last bucket if rounding leaves r above the total mass.
func SelectIndex(t Table, r float64) int {
	cumulative := 0.0
	for i, e := range t {
		cumulative += e.Probability
		if r <= cumulative {
			return i
		}
	}
	return len(t) - 1
}

// PositionFor maps a uniform draw to a segment index and its angle in radians.
func PositionFor(segments model.SegmentCount, r float64) (int, float64) {
	n := int(segments)
	idx := int(math.Floor(r * float64(n)))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx, float64(idx) * (2 * math.Pi / float64(n))
}
