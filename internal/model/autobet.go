package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultIterationLimit = 10

// AutoBetConfig holds the user-facing knobs of one autobet run.
// Zero percentages mean "reset to the initial stake"; zero stops are disabled.
type AutoBetConfig struct {
	IterationLimit         int             `json:"iteration_limit"`
	StakeIncreaseOnWinPct  decimal.Decimal `json:"stake_increase_on_win_pct"`
	StakeIncreaseOnLossPct decimal.Decimal `json:"stake_increase_on_loss_pct"`
	StopOnProfit           decimal.Decimal `json:"stop_on_profit"`
	StopOnLoss             decimal.Decimal `json:"stop_on_loss"`
}

type StopReason string

const (
	StopNone                StopReason = ""
	StopIterationLimit      StopReason = "iteration_limit"
	StopOnProfit            StopReason = "stop_on_profit"
	StopOnLoss              StopReason = "stop_on_loss"
	StopInsufficientBalance StopReason = "insufficient_balance"
	StopCancelled           StopReason = "cancelled"
	StopRejected            StopReason = "bet_rejected"
)

// AutoBetStep is the outcome of one autobet iteration.
type AutoBetStep struct {
	Iteration  int             `json:"iteration"`
	BetID      string          `json:"bet_id"`
	Stake      decimal.Decimal `json:"stake"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     decimal.Decimal `json:"payout"`
	Profit     decimal.Decimal `json:"profit"`
	Win        bool            `json:"win"`
}

// AutoBetStatus is a point-in-time view of a run.
type AutoBetStatus struct {
	ID                  string          `json:"id"`
	Risk                RiskTier        `json:"risk"`
	Segments            SegmentCount    `json:"segments"`
	Config              AutoBetConfig   `json:"config"`
	InitialStake        decimal.Decimal `json:"initial_stake"`
	CurrentStake        decimal.Decimal `json:"current_stake"`
	IterationsCompleted int             `json:"iterations_completed"`
	CumulativeProfit    decimal.Decimal `json:"cumulative_profit"`
	Running             bool            `json:"running"`
	StopReason          StopReason      `json:"stop_reason,omitempty"`
	StopError           string          `json:"stop_error,omitempty"`
	Steps               []AutoBetStep   `json:"steps"`
	StartedAt           time.Time       `json:"started_at"`
	FinishedAt          *time.Time      `json:"finished_at,omitempty"`
}
