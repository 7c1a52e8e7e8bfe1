package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RiskTier selects which multiplier table governs a spin.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// RiskTiers lists every tier in display order.
var RiskTiers = []RiskTier{RiskLow, RiskMedium, RiskHigh}

func ParseRiskTier(s string) (RiskTier, error) {
	tier := RiskTier(strings.ToLower(strings.TrimSpace(s)))
	if !tier.Valid() {
		return "", fmt.Errorf("unknown risk tier %q", s)
	}
	return tier, nil
}

func (t RiskTier) Valid() bool {
	switch t {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// SegmentCount is the number of visual wheel segments. It never affects payout.
type SegmentCount int

// SegmentCounts lists the supported wheel layouts.
var SegmentCounts = []SegmentCount{3, 12, 24, 30}

func (s SegmentCount) Valid() bool {
	for _, c := range SegmentCounts {
		if s == c {
			return true
		}
	}
	return false
}

// Phase is a step of the spin lifecycle.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseCommitted Phase = "committed"
	PhaseSpinning  Phase = "spinning"
	PhaseRevealing Phase = "revealing"
	PhaseSettled   Phase = "settled"
)

// SpinResult is fixed at commit time and never mutated.
type SpinResult struct {
	Multiplier decimal.Decimal `json:"multiplier"`
	Position   float64         `json:"position"` // radians, [0, 2π)
	Segment    int             `json:"segment"`
}

// PendingBet describes a committed spin without its outcome.
type PendingBet struct {
	ID       string          `json:"id"`
	Stake    decimal.Decimal `json:"stake"`
	Risk     RiskTier        `json:"risk"`
	Segments SegmentCount    `json:"segments"`
	PlacedAt time.Time       `json:"placed_at"`
}

// BetRecord is the settled, append-only history entry of one bet.
type BetRecord struct {
	ID         string          `json:"id"`
	Stake      decimal.Decimal `json:"stake"`
	Risk       RiskTier        `json:"risk"`
	Segments   SegmentCount    `json:"segments"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     decimal.Decimal `json:"payout"`
	Position   float64         `json:"position"`
	PlacedAt   time.Time       `json:"placed_at"`
	SettledAt  time.Time       `json:"settled_at"`
}

// Profit is payout minus stake; negative on a loss.
func (r BetRecord) Profit() decimal.Decimal {
	return r.Payout.Sub(r.Stake)
}

// Win reports whether the bet paid back more than it staked.
func (r BetRecord) Win() bool {
	return r.Payout.GreaterThan(r.Stake)
}

// RevealedSpin pairs a bet with its outcome once the outcome may be shown.
type RevealedSpin struct {
	BetID  string     `json:"bet_id"`
	Result SpinResult `json:"result"`
}

// PhaseEvent is emitted on every phase transition. Result is only set from
// PhaseRevealing onward.
type PhaseEvent struct {
	Phase   Phase           `json:"phase"`
	Bet     *PendingBet     `json:"bet,omitempty"`
	Result  *SpinResult     `json:"result,omitempty"`
	Record  *BetRecord      `json:"record,omitempty"`
	Balance decimal.Decimal `json:"balance"`
	At      time.Time       `json:"at"`
}
