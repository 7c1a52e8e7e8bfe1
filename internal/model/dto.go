package model

import "github.com/shopspring/decimal"

// BetRequest represents the incoming JSON body of POST /v1/bets
type BetRequest struct {
	Stake    decimal.Decimal `json:"stake"`
	Risk     string          `json:"risk" binding:"required"`
	Segments int             `json:"segments" binding:"required,oneof=3 12 24 30"`
}

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// AutoBetRequest starts a run. Omitted config fields fall back to defaults.
type AutoBetRequest struct {
	Stake    decimal.Decimal      `json:"stake"`
	Risk     string               `json:"risk" binding:"required"`
	Segments int                  `json:"segments" binding:"required,oneof=3 12 24 30"`
	Config   AutoBetConfigRequest `json:"config"`
}

type AutoBetConfigRequest struct {
	IterationLimit         int             `json:"iteration_limit"`
	StakeIncreaseOnWinPct  decimal.Decimal `json:"stake_increase_on_win_pct"`
	StakeIncreaseOnLossPct decimal.Decimal `json:"stake_increase_on_loss_pct"`
	StopOnProfit           decimal.Decimal `json:"stop_on_profit"`
	StopOnLoss             decimal.Decimal `json:"stop_on_loss"`
}

func (r AutoBetConfigRequest) ToConfig() AutoBetConfig {
	limit := r.IterationLimit
	if limit == 0 {
		limit = DefaultIterationLimit
	}
	return AutoBetConfig{
		IterationLimit:         limit,
		StakeIncreaseOnWinPct:  r.StakeIncreaseOnWinPct,
		StakeIncreaseOnLossPct: r.StakeIncreaseOnLossPct,
		StopOnProfit:           r.StopOnProfit,
		StopOnLoss:             r.StopOnLoss,
	}
}

// StateResponse is what a rendering client polls.
type StateResponse struct {
	SessionID string          `json:"session_id"`
	Phase     Phase           `json:"phase"`
	Balance   decimal.Decimal `json:"balance"`
	Pending   *PendingBet     `json:"pending,omitempty"`
	Revealed  *RevealedSpin   `json:"revealed,omitempty"`
	AutoBet   *AutoBetStatus  `json:"autobet,omitempty"`
}

type TableEntryView struct {
	Multiplier  decimal.Decimal `json:"multiplier"`
	Probability float64         `json:"probability"`
}

type TableView struct {
	Risk    RiskTier         `json:"risk"`
	Entries []TableEntryView `json:"entries"`
	RTP     float64          `json:"rtp"` // expected multiplier
}

type TablesResponse struct {
	Tables   []TableView    `json:"tables"`
	Segments []SegmentCount `json:"segments"`
}

type BetResponse struct {
	Bet     PendingBet      `json:"bet"`
	Balance decimal.Decimal `json:"balance"`
}

type DepositResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type HistoryResponse struct {
	Bets []BetRecord `json:"bets"`
}

type SessionsResponse struct {
	Sessions []string `json:"sessions"`
}
