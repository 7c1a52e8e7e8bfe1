package engine

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/wheelgate/wheelgate/internal/config"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
)

// ProbabilityTolerance bounds how far a table's probability mass may drift from 1.
const ProbabilityTolerance = 1e-9

// Entry is one multiplier bucket of a table.
type Entry struct {
	Multiplier  decimal.Decimal
	Probability float64
}

// Table is an ordered list of buckets. Order matters: sampling walks it front to back.
type Table []Entry

func (t Table) Validate() error {
	if len(t) == 0 {
		return apperrors.NewInvalidConfiguration("multiplier table is empty")
	}
	sum := 0.0
	for i, e := range t {
		if e.Multiplier.IsNegative() {
			return apperrors.NewInvalidConfiguration(fmt.Sprintf("entry %d: negative multiplier %s", i, e.Multiplier))
		}
		if !(e.Probability > 0 && e.Probability <= 1) {
			return apperrors.NewInvalidConfiguration(fmt.Sprintf("entry %d: probability %v outside (0,1]", i, e.Probability))
		}
		sum += e.Probability
	}
	if math.Abs(sum-1) > ProbabilityTolerance {
		return apperrors.NewInvalidConfiguration(fmt.Sprintf("probabilities sum to %v, want 1", sum))
	}
	return nil
}

// RTP is the expected multiplier of one spin.
func (t Table) RTP() float64 {
	rtp := 0.0
	for _, e := range t {
		rtp += e.Multiplier.InexactFloat64() * e.Probability
	}
	return rtp
}

func mustTable(multipliers []string, probabilities []float64) Table {
	t := make(Table, len(multipliers))
	for i := range multipliers {
		t[i] = Entry{
			Multiplier:  decimal.RequireFromString(multipliers[i]),
			Probability: probabilities[i],
		}
	}
	return t
}

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() map[model.RiskTier]Table {
	return map[model.RiskTier]Table{
		model.RiskLow: mustTable(
			[]string{"1.00", "1.20", "1.50", "1.70", "2.00"},
			[]float64{0.45, 0.30, 0.15, 0.07, 0.03},
		),
		model.RiskMedium: mustTable(
			[]string{"1.00", "1.50", "2.00", "3.00", "4.00"},
			[]float64{0.40, 0.25, 0.20, 0.10, 0.05},
		),
		model.RiskHigh: mustTable(
			[]string{"1.00", "2.00", "3.00", "5.00", "10.00"},
			[]float64{0.50, 0.25, 0.15, 0.07, 0.03},
		),
	}
}

// TablesFromConfig applies config overrides on top of the defaults.
// Validation happens in New.
func TablesFromConfig(overrides map[string][]config.TableEntry) (map[model.RiskTier]Table, error) {
	tables := DefaultTables()
	for name, entries := range overrides {
		tier, err := model.ParseRiskTier(name)
		if err != nil {
			return nil, apperrors.New(apperrors.ErrInvalidConfiguration, "game.tables", err)
		}
		t := make(Table, 0, len(entries))
		for _, e := range entries {
			t = append(t, Entry{
				Multiplier:  decimal.NewFromFloat(e.Multiplier),
				Probability: e.Probability,
			})
		}
		tables[tier] = t
	}
	return tables, nil
}
