package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheelgate/wheelgate/internal/engine"
	"github.com/wheelgate/wheelgate/internal/ledger"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
	"github.com/wheelgate/wheelgate/internal/pkg/logger"
	"github.com/wheelgate/wheelgate/internal/pkg/metrics"
	"github.com/wheelgate/wheelgate/internal/scheduler"
)

// PhaseListener receives every phase transition. It is called with the
// coordinator lock held and must not call back into the coordinator.
type PhaseListener func(model.PhaseEvent)

// SpinTimings are the fixed phase latencies.
type SpinTimings struct {
	Spin   time.Duration // Spinning -> Revealing
	Reveal time.Duration // Revealing -> Settled
}

var DefaultSpinTimings = SpinTimings{Spin: 3 * time.Second, Reveal: time.Second}

type SpinDeps struct {
	Engine    *engine.Engine
	Ledger    *ledger.Ledger
	History   *History
	RNG       engine.RNG
	Scheduler scheduler.Scheduler
	Timings   SpinTimings
	Listener  PhaseListener
}

// SpinCoordinator runs the Idle -> Committed -> Spinning -> Revealing ->
// Settled -> Idle timeline of one table. At most one spin is in flight.
type SpinCoordinator struct {
	engine   *engine.Engine
	ledger   *ledger.Ledger
	history  *History
	rng      engine.RNG
	sched    scheduler.Scheduler
	timings  SpinTimings
	listener PhaseListener
	log      *slog.Logger

	mu       sync.Mutex
	phase    model.Phase
	inflight *inflightSpin
	revealed *model.RevealedSpin
}

type inflightSpin struct {
	bet       model.PendingBet
	result    model.SpinResult
	onSettled func(model.BetRecord)
}

// SpinSnapshot is the externally visible part of the coordinator state.
type SpinSnapshot struct {
	Phase    model.Phase
	Pending  *model.PendingBet
	Revealed *model.RevealedSpin
}

func NewSpinCoordinator(deps SpinDeps) *SpinCoordinator {
	sched := deps.Scheduler
	if sched == nil {
		sched = scheduler.Clock{}
	}
	history := deps.History
	if history == nil {
		history = NewHistory()
	}
	return &SpinCoordinator{
		engine:   deps.Engine,
		ledger:   deps.Ledger,
		history:  history,
		rng:      deps.RNG,
		sched:    sched,
		timings:  deps.Timings,
		listener: deps.Listener,
		log:      logger.Component("spin"),
		phase:    model.PhaseIdle,
	}
}

// PlaceBet debits the stake and fixes the outcome immediately; the outcome
// is revealed later on the scheduler. onSettled, if set, runs after the table
// is back to Idle.
func (c *SpinCoordinator) PlaceBet(stake decimal.Decimal, risk model.RiskTier, segments model.SegmentCount, onSettled func(model.BetRecord)) (model.PendingBet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != model.PhaseIdle {
		metrics.BetRejects.WithLabelValues("already_spinning").Inc()
		return model.PendingBet{}, apperrors.New(apperrors.ErrAlreadySpinning, fmt.Sprintf("spin in progress (phase %s)", c.phase), nil)
	}
	if !risk.Valid() {
		metrics.BetRejects.WithLabelValues("invalid_request").Inc()
		return model.PendingBet{}, apperrors.NewInvalidRequest(fmt.Sprintf("unknown risk tier %q", risk))
	}
	if !segments.Valid() {
		metrics.BetRejects.WithLabelValues("invalid_request").Inc()
		return model.PendingBet{}, apperrors.NewInvalidRequest(fmt.Sprintf("unsupported segment count %d", segments))
	}

	if err := c.ledger.TryDebit(stake); err != nil {
		metrics.BetRejects.WithLabelValues(rejectReason(err)).Inc()
		return model.PendingBet{}, err
	}

	result, err := c.engine.Resolve(risk, segments, c.rng)
	if err != nil {
		metrics.BetRejects.WithLabelValues("resolve_failed").Inc()
		c.log.Error("resolve failed, refunding stake", "risk", risk, "segments", segments, "error", err)
		if cerr := c.ledger.Credit(stake); cerr != nil {
			c.log.Error("refund failed", "stake", stake.String(), "error", cerr)
		}
		return model.PendingBet{}, apperrors.Wrap(err)
	}

	bet := model.PendingBet{
		ID:       uuid.Must(uuid.NewV7()).String(),
		Stake:    stake,
		Risk:     risk,
		Segments: segments,
		PlacedAt: c.sched.Now(),
	}
	c.inflight = &inflightSpin{bet: bet, result: result, onSettled: onSettled}

	c.transition(model.PhaseCommitted, nil)
	c.transition(model.PhaseSpinning, nil)
	c.sched.AfterFunc(c.timings.Spin, c.reveal)

	return bet, nil
}

func (c *SpinCoordinator) reveal() {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.inflight
	if s == nil || c.phase != model.PhaseSpinning {
		return
	}
	c.revealed = &model.RevealedSpin{BetID: s.bet.ID, Result: s.result}
	c.transition(model.PhaseRevealing, nil)
	c.sched.AfterFunc(c.timings.Reveal, c.settle)
}

func (c *SpinCoordinator) settle() {
	c.mu.Lock()
	s := c.inflight
	if s == nil || c.phase != model.PhaseRevealing {
		c.mu.Unlock()
		return
	}

	payout := s.bet.Stake.Mul(s.result.Multiplier)
	if err := c.ledger.Credit(payout); err != nil {
		c.log.Error("credit failed", "bet_id", s.bet.ID, "payout", payout.String(), "error", err)
	}

	record := model.BetRecord{
		ID:         s.bet.ID,
		Stake:      s.bet.Stake,
		Risk:       s.bet.Risk,
		Segments:   s.bet.Segments,
		Multiplier: s.result.Multiplier,
		Payout:     payout,
		Position:   s.result.Position,
		PlacedAt:   s.bet.PlacedAt,
		SettledAt:  c.sched.Now(),
	}
	c.history.Append(record)

	c.transition(model.PhaseSettled, &record)
	c.inflight = nil
	c.transition(model.PhaseIdle, nil)
	c.mu.Unlock()

	outcome := "loss"
	if record.Win() {
		outcome = "win"
	}
	metrics.BetsTotal.WithLabelValues(string(record.Risk), outcome).Inc()
	metrics.StakeTotal.WithLabelValues(string(record.Risk)).Add(record.Stake.InexactFloat64())
	metrics.PayoutTotal.WithLabelValues(string(record.Risk)).Add(record.Payout.InexactFloat64())
	c.log.Info("bet settled",
		"bet_id", record.ID,
		"risk", record.Risk,
		"stake", record.Stake.String(),
		"multiplier", record.Multiplier.String(),
		"payout", record.Payout.String(),
	)

	if s.onSettled != nil {
		s.onSettled(record)
	}
}

// transition must be called with c.mu held.
func (c *SpinCoordinator) transition(to model.Phase, record *model.BetRecord) {
	c.phase = to
	c.log.Debug("phase", "phase", to)
	if c.listener == nil {
		return
	}

	ev := model.PhaseEvent{
		Phase:   to,
		Record:  record,
		Balance: c.ledger.Balance(),
		At:      c.sched.Now(),
	}
	if c.inflight != nil {
		bet := c.inflight.bet
		ev.Bet = &bet
		if to == model.PhaseRevealing || to == model.PhaseSettled {
			result := c.inflight.result
			ev.Result = &result
		}
	}
	c.listener(ev)
}

func (c *SpinCoordinator) Phase() model.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Snapshot never exposes the outcome of a spin that has not reached Revealing.
func (c *SpinCoordinator) Snapshot() SpinSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := SpinSnapshot{Phase: c.phase}
	if c.inflight != nil {
		bet := c.inflight.bet
		snap.Pending = &bet
	}
	if c.revealed != nil {
		revealed := *c.revealed
		snap.Revealed = &revealed
	}
	return snap
}

func rejectReason(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidAmount):
		return "invalid_amount"
	case apperrors.Is(err, apperrors.ErrInsufficientFunds):
		return "insufficient_funds"
	default:
		return "other"
	}
}
