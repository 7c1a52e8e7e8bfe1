package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheelgate/wheelgate/internal/ledger"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
	"github.com/wheelgate/wheelgate/internal/pkg/logger"
	"github.com/wheelgate/wheelgate/internal/pkg/metrics"
	"github.com/wheelgate/wheelgate/internal/scheduler"
)

var hundred = decimal.NewFromInt(100)

// AutoBetController sequences dependent bets on one table. It keeps the last
// run around after it stops so its outcome stays observable.
type AutoBetController struct {
	spins         *SpinCoordinator
	ledger        *ledger.Ledger
	sched         scheduler.Scheduler
	interval      time.Duration
	maxIterations int
	log           *slog.Logger

	mu      sync.Mutex
	current *AutoBetRun
}

func NewAutoBetController(spins *SpinCoordinator, l *ledger.Ledger, sched scheduler.Scheduler, interval time.Duration, maxIterations int) *AutoBetController {
	if sched == nil {
		sched = scheduler.Clock{}
	}
	return &AutoBetController{
		spins:         spins,
		ledger:        l,
		sched:         sched,
		interval:      interval,
		maxIterations: maxIterations,
		log:           logger.Component("autobet"),
	}
}

// AutoBetRun is one bounded sequence of bets. A stopped run cannot be restarted.
type AutoBetRun struct {
	c *AutoBetController

	id        string
	risk      model.RiskTier
	segments  model.SegmentCount
	cfg       model.AutoBetConfig
	startedAt time.Time

	mu           sync.Mutex
	initialStake decimal.Decimal
	currentStake decimal.Decimal
	iterations   int
	cumulative   decimal.Decimal
	running      bool
	cancelled    bool
	inFlight     bool
	timer        scheduler.Timer
	reason       model.StopReason
	stopErr      error
	steps        []model.AutoBetStep
	finishedAt   *time.Time
	done         chan struct{}
}

func (c *AutoBetController) validate(stake decimal.Decimal, risk model.RiskTier, segments model.SegmentCount, cfg model.AutoBetConfig) error {
	if !risk.Valid() {
		return apperrors.NewInvalidRequest(fmt.Sprintf("unknown risk tier %q", risk))
	}
	if !segments.Valid() {
		return apperrors.NewInvalidRequest(fmt.Sprintf("unsupported segment count %d", segments))
	}
	if cfg.IterationLimit <= 0 {
		return apperrors.NewInvalidRequest("iteration_limit must be positive")
	}
	if c.maxIterations > 0 && cfg.IterationLimit > c.maxIterations {
		return apperrors.NewInvalidRequest(fmt.Sprintf("iteration_limit must not exceed %d", c.maxIterations))
	}
	for name, v := range map[string]decimal.Decimal{
		"stake_increase_on_win_pct":  cfg.StakeIncreaseOnWinPct,
		"stake_increase_on_loss_pct": cfg.StakeIncreaseOnLossPct,
		"stop_on_profit":             cfg.StopOnProfit,
		"stop_on_loss":               cfg.StopOnLoss,
	} {
		if v.IsNegative() {
			return apperrors.NewInvalidRequest(name + " must not be negative")
		}
	}
	if !stake.IsPositive() {
		return apperrors.NewInvalidAmount(fmt.Sprintf("stake must be positive, got %s", stake))
	}
	if stake.GreaterThan(c.ledger.Balance()) {
		return apperrors.NewInsufficientFunds(fmt.Sprintf("stake %s exceeds balance %s", stake, c.ledger.Balance()))
	}
	return nil
}

// Start validates the request and places the first bet. If the first bet is
// rejected the run is returned already stopped together with the error.
func (c *AutoBetController) Start(stake decimal.Decimal, risk model.RiskTier, segments model.SegmentCount, cfg model.AutoBetConfig) (*AutoBetRun, error) {
	if err := c.validate(stake, risk, segments, cfg); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.current != nil && c.current.Running() {
		c.mu.Unlock()
		return nil, apperrors.New(apperrors.ErrAutoBetRunning, "autobet already running", nil)
	}
	run := &AutoBetRun{
		c:            c,
		id:           uuid.Must(uuid.NewV7()).String(),
		risk:         risk,
		segments:     segments,
		cfg:          cfg,
		startedAt:    c.sched.Now(),
		initialStake: stake,
		currentStake: stake,
		cumulative:   decimal.Zero,
		running:      true,
		steps:        make([]model.AutoBetStep, 0, cfg.IterationLimit),
		done:         make(chan struct{}),
	}
	c.current = run
	c.mu.Unlock()

	c.log.Info("autobet started", "run_id", run.id, "stake", stake.String(), "risk", risk, "limit", cfg.IterationLimit)

	if err := run.step(); err != nil {
		return run, err
	}
	return run, nil
}

// Current returns the running or most recently stopped run, if any.
func (c *AutoBetController) Current() *AutoBetRun {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Active reports whether a run is still placing bets.
func (c *AutoBetController) Active() bool {
	run := c.Current()
	return run != nil && run.Running()
}

// Cancel asks the running run to stop.
func (c *AutoBetController) Cancel() (*AutoBetRun, error) {
	run := c.Current()
	if run == nil || !run.Running() {
		return nil, apperrors.New(apperrors.ErrNotFound, "no autobet running", nil)
	}
	run.Cancel()
	return run, nil
}

// step places the next bet. It is the resume point after each settlement and
// after each inter-bet pause.
func (r *AutoBetRun) step() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.timer = nil
	if !r.running {
		return nil
	}
	if r.cancelled {
		r.finishLocked(model.StopCancelled, nil)
		return nil
	}

	// r.mu stays held so Cancel cannot slip in between the check and the bet
	if _, err := r.c.spins.PlaceBet(r.currentStake, r.risk, r.segments, r.onSettled); err != nil {
		reason := model.StopRejected
		if apperrors.Is(err, apperrors.ErrInsufficientFunds) {
			reason = model.StopInsufficientBalance
		}
		r.finishLocked(reason, err)
		return err
	}
	r.inFlight = true
	return nil
}

func (r *AutoBetRun) onSettled(record model.BetRecord) {
	r.mu.Lock()

	r.inFlight = false
	r.iterations++
	profit := record.Profit()
	win := record.Win()
	r.cumulative = r.cumulative.Add(profit)
	r.steps = append(r.steps, model.AutoBetStep{
		Iteration:  r.iterations,
		BetID:      record.ID,
		Stake:      record.Stake,
		Multiplier: record.Multiplier,
		Payout:     record.Payout,
		Profit:     profit,
		Win:        win,
	})

	if reason := r.evaluateLocked(win); reason != model.StopNone {
		r.finishLocked(reason, nil)
		r.mu.Unlock()
		return
	}

	if r.c.interval > 0 {
		r.timer = r.c.sched.AfterFunc(r.c.interval, func() { _ = r.step() })
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	_ = r.step()
}

// evaluateLocked applies the stop rules after a settlement and, when the run
// continues, moves currentStake to the next stake.
func (r *AutoBetRun) evaluateLocked(win bool) model.StopReason {
	cfg := r.cfg
	if cfg.StopOnProfit.IsPositive() && r.cumulative.GreaterThanOrEqual(cfg.StopOnProfit) {
		return model.StopOnProfit
	}
	if cfg.StopOnLoss.IsPositive() && r.cumulative.LessThanOrEqual(cfg.StopOnLoss.Neg()) {
		return model.StopOnLoss
	}

	pct := cfg.StakeIncreaseOnLossPct
	if win {
		pct = cfg.StakeIncreaseOnWinPct
	}
	r.currentStake = NextStake(r.currentStake, r.initialStake, pct)

	if r.currentStake.GreaterThan(r.c.ledger.Balance()) {
		return model.StopInsufficientBalance
	}
	if r.iterations >= cfg.IterationLimit {
		return model.StopIterationLimit
	}
	if r.cancelled {
		return model.StopCancelled
	}
	return model.StopNone
}

// NextStake grows current by pct percent, or resets to initial when pct is zero.
func NextStake(current, initial, pct decimal.Decimal) decimal.Decimal {
	if !pct.IsPositive() {
		return initial
	}
	return current.Mul(decimal.NewFromInt(1).Add(pct.Div(hundred)))
}

func (r *AutoBetRun) finishLocked(reason model.StopReason, err error) {
	if !r.running {
		return
	}
	r.running = false
	r.reason = reason
	r.stopErr = err
	now := r.c.sched.Now()
	r.finishedAt = &now
	close(r.done)

	metrics.AutoBetStops.WithLabelValues(string(reason)).Inc()
	r.c.log.Info("autobet stopped",
		"run_id", r.id,
		"reason", reason,
		"iterations", r.iterations,
		"profit", r.cumulative.String(),
	)
}

// Cancel stops the run. A spin already in flight settles normally and the
// run stops right after it.
func (r *AutoBetRun) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.cancelled = true
	if r.inFlight {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.finishLocked(model.StopCancelled, nil)
}

func (r *AutoBetRun) ID() string {
	return r.id
}

func (r *AutoBetRun) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Done is closed once the run stops.
func (r *AutoBetRun) Done() <-chan struct{} {
	return r.done
}

func (r *AutoBetRun) StopReason() model.StopReason {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reason
}

func (r *AutoBetRun) Status() model.AutoBetStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := model.AutoBetStatus{
		ID:                  r.id,
		Risk:                r.risk,
		Segments:            r.segments,
		Config:              r.cfg,
		InitialStake:        r.initialStake,
		CurrentStake:        r.currentStake,
		IterationsCompleted: r.iterations,
		CumulativeProfit:    r.cumulative,
		Running:             r.running,
		StopReason:          r.reason,
		Steps:               append([]model.AutoBetStep(nil), r.steps...),
		StartedAt:           r.startedAt,
		FinishedAt:          r.finishedAt,
	}
	if r.stopErr != nil {
		status.StopError = r.stopErr.Error()
	}
	return status
}
