// Package model defines the core domain types of the bankroll manager.
// All monetary values use shopspring/decimal — never float64 for money.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BetType identifies the side a bet was placed on.
type BetType string

const (
	BetPlayer BetType = "PLAYER"
	BetBanker BetType = "BANKER"
	BetTie    BetType = "TIE"
)

// Valid reports whether t is one of the three table bet types.
func (t BetType) Valid() bool {
	return t == BetPlayer || t == BetBanker || t == BetTie
}

// BetResult is the settled outcome of a bet.
type BetResult string

const (
	ResultWin  BetResult = "WIN"
	ResultLoss BetResult = "LOSS"
)

// Valid reports whether r is a known outcome.
func (r BetResult) Valid() bool {
	return r == ResultWin || r == ResultLoss
}

// HistoryFilter selects a subset of the bet history for listing.
// "all" passes everything; WIN/LOSS filter by result; PLAYER/BANKER/TIE by type.
type HistoryFilter string

const (
	FilterAll    HistoryFilter = "all"
	FilterWin    HistoryFilter = "WIN"
	FilterLoss   HistoryFilter = "LOSS"
	FilterPlayer HistoryFilter = "PLAYER"
	FilterBanker HistoryFilter = "BANKER"
	FilterTie    HistoryFilter = "TIE"
)

// Valid reports whether f is a known filter value.
func (f HistoryFilter) Valid() bool {
	switch f {
	case FilterAll, FilterWin, FilterLoss, FilterPlayer, FilterBanker, FilterTie:
		return true
	}
	return false
}

// BetRecord is an immutable record of a settled bet. Once appended to the
// ledger it is never modified, except for the Balance snapshot which is
// regenerated when an earlier record is deleted and the ledger replayed.
type BetRecord struct {
	ID         int64            `json:"id"`
	Timestamp  time.Time        `json:"timestamp"`
	Type       BetType          `json:"type"`
	Amount     decimal.Decimal  `json:"amount"`
	Result     BetResult        `json:"result"`
	Profit     decimal.Decimal  `json:"profit"`
	Multiplier *decimal.Decimal `json:"multiplier"` // set only for TIE bets
	Balance    decimal.Decimal  `json:"balance"`    // bankroll after this bet
}

// StopLossConfig holds the cumulative-profit thresholds that block betting.
// Both thresholds are magnitudes and must be >= 0.
type StopLossConfig struct {
	Enabled   bool            `json:"enabled"`
	MaxLoss   decimal.Decimal `json:"max_loss"`
	MaxProfit decimal.Decimal `json:"max_profit"`
}

// LedgerState is the single persisted aggregate: the bankroll, the bet
// history (newest first), and the session configuration.
type LedgerState struct {
	SessionID      string          `json:"session_id"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Bets           []BetRecord     `json:"bets"` // newest first
	StopLoss       StopLossConfig  `json:"stop_loss"`
	Initialized    bool            `json:"initialized"`
	SessionStart   *time.Time      `json:"session_start"`
	HistoryFilter  HistoryFilter   `json:"history_filter"`
}

// DefaultState returns a fresh, uninitialized ledger with the stock
// stop-loss thresholds (disabled, loss 100 / profit 200).
func DefaultState() *LedgerState {
	return &LedgerState{
		Balance:        decimal.Zero,
		InitialBalance: decimal.Zero,
		Bets:           []BetRecord{},
		StopLoss: StopLossConfig{
			Enabled:   false,
			MaxLoss:   decimal.NewFromInt(100),
			MaxProfit: decimal.NewFromInt(200),
		},
		Initialized:   false,
		HistoryFilter: FilterAll,
	}
}

// Clone returns a deep copy of the state. The bet slice shares no backing
// array with the original, so callers may hand clones to the presentation
// layer without risking aliased mutation.
func (s *LedgerState) Clone() *LedgerState {
	out := *s
	out.Bets = make([]BetRecord, len(s.Bets))
	copy(out.Bets, s.Bets)
	if s.SessionStart != nil {
		t := *s.SessionStart
		out.SessionStart = &t
	}
	return &out
}

// Profit is the cumulative profit of the session: balance − initialBalance.
func (s *LedgerState) Profit() decimal.Decimal {
	return s.Balance.Sub(s.InitialBalance)
}

// AlertKind discriminates stop alerts.
type AlertKind string

const (
	AlertStopLoss AlertKind = "STOP_LOSS"
	AlertStopGain AlertKind = "STOP_GAIN"
)

// Alert signals that a stop-loss or stop-gain threshold has been reached.
type Alert struct {
	Kind   AlertKind       `json:"kind"`
	Profit decimal.Decimal `json:"profit"`
}

// Stats is the read-only analytics snapshot derived from the bet history.
type Stats struct {
	TotalBets     int             `json:"total_bets"`
	Wins          int             `json:"wins"`
	Losses        int             `json:"losses"`
	WinRate       decimal.Decimal `json:"win_rate"` // percent
	AvgBet        decimal.Decimal `json:"avg_bet"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	ROI           decimal.Decimal `json:"roi"` // percent of initial bankroll
	CurrentStreak int             `json:"current_streak"`
	BestStreak    int             `json:"best_streak"`
	SessionTime   string          `json:"session_time"` // "3h 24m", "-" when no session
}

// ProgressionType selects how the daily stake grows across the plan.
type ProgressionType string

const (
	ProgressionFixed      ProgressionType = "fixed"
	ProgressionPercentage ProgressionType = "percentage"
)

// Valid reports whether p is a known progression rule.
func (p ProgressionType) Valid() bool {
	return p == ProgressionFixed || p == ProgressionPercentage
}

// PlanEntry is one day of the staking schedule.
type PlanEntry struct {
	Day    int             `json:"day"`
	Amount decimal.Decimal `json:"amount"`
}

// Recommendation is the chip-rounded entry sizing derived from a plan.
// TieEntry is zero when the main entry is too small to justify a TIE bet.
type Recommendation struct {
	MainEntry decimal.Decimal `json:"main_entry"`
	TieEntry  decimal.Decimal `json:"tie_entry"`
}

// Plan is a 30-day staking schedule. It is ephemeral: generated on demand,
// never merged into the ledger.
type Plan struct {
	Days             []PlanEntry     `json:"days"`
	TotalProfit      decimal.Decimal `json:"total_profit"` // day 30 − day 1
	Recommendation   Recommendation  `json:"recommendation"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	ProgressionType  ProgressionType `json:"progression_type"`
	ProgressionValue decimal.Decimal `json:"progression_value"`
	Rounded          bool            `json:"rounded"`
	GeneratedAt      time.Time       `json:"generated_at"`
}
