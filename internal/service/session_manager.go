package service

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/wheelgate/wheelgate/internal/config"
	"github.com/wheelgate/wheelgate/internal/engine"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/logger"
	"github.com/wheelgate/wheelgate/internal/scheduler"
	"golang.org/x/time/rate"
)

const DefaultSessionID = "default"

// EventSink receives phase events tagged with the session they belong to.
type EventSink interface {
	Publish(sessionID string, ev model.PhaseEvent)
}

// SessionManager owns one Table and one rate limiter per session id.
// Tables are created on first use and live for the life of the process.
type SessionManager struct {
	mu       sync.RWMutex
	tables   map[string]*Table
	limiters map[string]*rate.Limiter
	config   *config.Config
	engine   *engine.Engine
	rng      engine.RNG
	sched    scheduler.Scheduler
	sink     EventSink
}

func NewSessionManager(cfg *config.Config, eng *engine.Engine, rng engine.RNG, sched scheduler.Scheduler, sink EventSink) *SessionManager {
	if sched == nil {
		sched = scheduler.Clock{}
	}
	return &SessionManager{
		tables:   make(map[string]*Table),
		limiters: make(map[string]*rate.Limiter),
		config:   cfg,
		engine:   eng,
		rng:      rng,
		sched:    sched,
		sink:     sink,
	}
}

// Engine exposes the shared outcome engine, e.g. for table listings.
func (sm *SessionManager) Engine() *engine.Engine {
	return sm.engine
}

// Get returns the table for id, creating it with the configured starting balance.
func (sm *SessionManager) Get(id string) *Table {
	if id == "" {
		id = DefaultSessionID
	}

	sm.mu.RLock()
	t, ok := sm.tables[id]
	sm.mu.RUnlock()
	if ok {
		return t
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if t, ok := sm.tables[id]; ok {
		return t
	}

	t = NewTable(id, sm.engine, sm.rng, sm.sched, sm.tableOptions(id))
	sm.tables[id] = t
	sm.limiters[id] = sm.newLimiter()
	logger.Info("Session opened", "session_id", id, "balance", t.Ledger.Balance().String())
	return t
}

func (sm *SessionManager) Lookup(id string) (*Table, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	t, ok := sm.tables[id]
	return t, ok
}

func (sm *SessionManager) GetLimiter(id string) *rate.Limiter {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.limiters[id]
}

// ListSessions returns the ids of all open sessions, sorted.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	ids := make([]string, 0, len(sm.tables))
	for id := range sm.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (sm *SessionManager) tableOptions(id string) TableOptions {
	opts := TableOptions{
		StartingBalance: decimal.NewFromInt(1000),
		Timings:         DefaultSpinTimings,
		MaxIterations:   1000,
		HistoryLimit:    50,
	}
	if cfg := sm.config; cfg != nil {
		opts.StartingBalance = decimal.NewFromFloat(cfg.Game.StartingBalance)
		opts.Timings = SpinTimings{Spin: cfg.Game.SpinDuration, Reveal: cfg.Game.RevealDelay}
		opts.AutoBetInterval = cfg.AutoBet.Interval
		opts.MaxIterations = cfg.AutoBet.MaxIterations
		opts.HistoryLimit = cfg.Game.HistoryLimit
	}
	if sm.sink != nil {
		sink := sm.sink
		opts.Listener = func(ev model.PhaseEvent) { sink.Publish(id, ev) }
	}
	return opts
}

func (sm *SessionManager) newLimiter() *rate.Limiter {
	qps, burst := 10.0, 20
	if sm.config != nil {
		qps, burst = sm.config.Rate.QPS, sm.config.Rate.Burst
	}
	limit := rate.Limit(qps)
	if limit == 0 {
		limit = rate.Inf
	}
	if burst == 0 {
		burst = 1
	}
	return rate.NewLimiter(limit, burst)
}
