package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wheelgate/wheelgate/internal/engine"
	"github.com/wheelgate/wheelgate/internal/ledger"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
	"github.com/wheelgate/wheelgate/internal/scheduler"
)

// TableOptions configures a new Table.
type TableOptions struct {
	StartingBalance decimal.Decimal
	Timings         SpinTimings
	AutoBetInterval time.Duration
	MaxIterations   int
	HistoryLimit    int
	Listener        PhaseListener
}

// Table groups the state of one player session: its balance, its spin
// timeline, its history and its autobet controller.
type Table struct {
	ID      string
	Ledger  *ledger.Ledger
	History *History
	Spins   *SpinCoordinator
	AutoBet *AutoBetController

	historyLimit int
}

func NewTable(id string, eng *engine.Engine, rng engine.RNG, sched scheduler.Scheduler, opts TableOptions) *Table {
	l := ledger.New(opts.StartingBalance)
	h := NewHistory()
	spins := NewSpinCoordinator(SpinDeps{
		Engine:    eng,
		Ledger:    l,
		History:   h,
		RNG:       rng,
		Scheduler: sched,
		Timings:   opts.Timings,
		Listener:  opts.Listener,
	})
	return &Table{
		ID:           id,
		Ledger:       l,
		History:      h,
		Spins:        spins,
		AutoBet:      NewAutoBetController(spins, l, sched, opts.AutoBetInterval, opts.MaxIterations),
		historyLimit: opts.HistoryLimit,
	}
}

// PlaceBet is the manual bet entry point; it is refused while an autobet run owns the table.
func (t *Table) PlaceBet(stake decimal.Decimal, risk model.RiskTier, segments model.SegmentCount) (model.PendingBet, error) {
	if t.AutoBet.Active() {
		return model.PendingBet{}, apperrors.New(apperrors.ErrAutoBetRunning, "autobet owns this table", nil)
	}
	return t.Spins.PlaceBet(stake, risk, segments, nil)
}

func (t *Table) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, apperrors.NewInvalidAmount(fmt.Sprintf("deposit must be positive, got %s", amount))
	}
	if err := t.Ledger.Credit(amount); err != nil {
		return decimal.Zero, err
	}
	return t.Ledger.Balance(), nil
}

// Bets returns settled bets, most recent first, truncated for display.
func (t *Table) Bets(limit int) []model.BetRecord {
	if limit <= 0 || (t.historyLimit > 0 && limit > t.historyLimit) {
		limit = t.historyLimit
	}
	return t.History.List(limit)
}

func (t *Table) StartAutoBet(stake decimal.Decimal, risk model.RiskTier, segments model.SegmentCount, cfg model.AutoBetConfig) (model.AutoBetStatus, error) {
	run, err := t.AutoBet.Start(stake, risk, segments, cfg)
	if err != nil {
		return model.AutoBetStatus{}, err
	}
	return run.Status(), nil
}

func (t *Table) CancelAutoBet() (model.AutoBetStatus, error) {
	run, err := t.AutoBet.Cancel()
	if err != nil {
		return model.AutoBetStatus{}, err
	}
	return run.Status(), nil
}

// AutoBetStatus returns the current or last run, or nil if none ever ran.
func (t *Table) AutoBetStatus() *model.AutoBetStatus {
	run := t.AutoBet.Current()
	if run == nil {
		return nil
	}
	status := run.Status()
	return &status
}

func (t *Table) State() model.StateResponse {
	snap := t.Spins.Snapshot()
	return model.StateResponse{
		SessionID: t.ID,
		Phase:     snap.Phase,
		Balance:   t.Ledger.Balance(),
		Pending:   snap.Pending,
		Revealed:  snap.Revealed,
		AutoBet:   t.AutoBetStatus(),
	}
}
