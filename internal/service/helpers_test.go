package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wheelgate/wheelgate/internal/engine"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/scheduler"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type seqRNG struct {
	vals []float64
	i    int
}

func (s *seqRNG) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixedEngine pays the same multiplier on every tier.
func fixedEngine(t *testing.T, multiplier string) *engine.Engine {
	t.Helper()
	tables := make(map[model.RiskTier]engine.Table)
	for _, tier := range model.RiskTiers {
		tables[tier] = engine.Table{{Multiplier: dec(multiplier), Probability: 1}}
	}
	e, err := engine.New(tables)
	require.NoError(t, err)
	return e
}

type tableFixture struct {
	table  *Table
	sched  *scheduler.Manual
	events []model.PhaseEvent
}

func newFixture(t *testing.T, eng *engine.Engine, rng engine.RNG, balance string, interval time.Duration) *tableFixture {
	t.Helper()
	f := &tableFixture{sched: scheduler.NewManual(epoch)}
	f.table = NewTable("t1", eng, rng, f.sched, TableOptions{
		StartingBalance: dec(balance),
		Timings:         DefaultSpinTimings,
		AutoBetInterval: interval,
		MaxIterations:   100,
		HistoryLimit:    50,
		Listener:        func(ev model.PhaseEvent) { f.events = append(f.events, ev) },
	})
	return f
}

func (f *tableFixture) balance() decimal.Decimal {
	return f.table.Ledger.Balance()
}
