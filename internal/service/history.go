package service

import (
	"sync"

	"github.com/wheelgate/wheelgate/internal/model"
)

// History is the append-only log of settled bets for one table.
type History struct {
	mu      sync.RWMutex
	records []model.BetRecord
}

func NewHistory() *History {
	return &History{records: make([]model.BetRecord, 0, 64)}
}

func (h *History) Append(r model.BetRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
}

// List returns up to limit records, most recent first. limit <= 0 means all.
func (h *History) List(limit int) []model.BetRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := len(h.records)
	if limit <= 0 || limit > total {
		limit = total
	}
	results := make([]model.BetRecord, 0, limit)
	for i := total - 1; i >= total-limit; i-- {
		results = append(results, h.records[i])
	}
	return results
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
