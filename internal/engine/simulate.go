package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
)

// BucketStats compares one multiplier's configured probability with how
// often it was drawn.
type BucketStats struct {
	Multiplier  decimal.Decimal
	Probability float64
	Hits        int
	Frequency   float64
}

// SimulationReport summarises n resolutions of one tier.
type SimulationReport struct {
	Risk         model.RiskTier
	Segments     model.SegmentCount
	Spins        int
	Buckets      []BucketStats
	ExpectedRTP  float64
	EmpiricalRTP float64
	ChiSquare    float64 // Pearson statistic, len(Buckets)-1 degrees of freedom
	SegmentHits  []int
}

// Simulate resolves n spins of tier and tallies the outcomes per bucket.
func (e *Engine) Simulate(tier model.RiskTier, segments model.SegmentCount, n int, rng RNG) (SimulationReport, error) {
	t, ok := e.tables[tier]
	if !ok {
		return SimulationReport{}, apperrors.NewInvalidRequest(fmt.Sprintf("unknown risk tier %q", tier))
	}
	if !segments.Valid() {
		return SimulationReport{}, apperrors.NewInvalidRequest(fmt.Sprintf("unsupported segment count %d", segments))
	}
	if n <= 0 {
		return SimulationReport{}, apperrors.NewInvalidRequest(fmt.Sprintf("spin count must be positive, got %d", n))
	}

	report := SimulationReport{
		Risk:        tier,
		Segments:    segments,
		Spins:       n,
		Buckets:     make([]BucketStats, len(t)),
		ExpectedRTP: t.RTP(),
		SegmentHits: make([]int, int(segments)),
	}
	for i, entry := range t {
		report.Buckets[i] = BucketStats{Multiplier: entry.Multiplier, Probability: entry.Probability}
	}

	total := decimal.Zero
	for i := 0; i < n; i++ {
		// same draw order as Resolve; buckets are tallied by index since
		// multipliers may repeat within a table
		idx := SelectIndex(t, rng.Float64())
		seg, _ := PositionFor(segments, rng.Float64())
		report.Buckets[idx].Hits++
		report.SegmentHits[seg]++
		total = total.Add(t[idx].Multiplier)
	}

	spins := float64(n)
	for i := range report.Buckets {
		b := &report.Buckets[i]
		b.Frequency = float64(b.Hits) / spins
		expected := b.Probability * spins
		diff := float64(b.Hits) - expected
		report.ChiSquare += diff * diff / expected
	}
	report.EmpiricalRTP = total.InexactFloat64() / spins
	return report, nil
}
