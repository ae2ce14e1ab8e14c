// Package bet validates and applies bet outcomes against the ledger.
//
// Payout rules are fixed table business rules, not computed odds:
// PLAYER and BANKER pay 1:1, TIE pays amount × multiplier (the multiplier
// is supplied by the caller from the table, typically 8–12), and any loss
// costs the full stake.
package bet

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/ledger"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/model"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/risk"
)

var (
	// ErrInvalidAmount is returned when the stake is not strictly positive.
	ErrInvalidAmount = errors.New("bet: amount must be positive")

	// ErrMissingBetType is returned when no bet type was selected.
	ErrMissingBetType = errors.New("bet: bet type must be selected")

	// ErrInsufficientBalance is returned when the stake exceeds the bankroll.
	ErrInsufficientBalance = errors.New("bet: amount exceeds current balance")

	// ErrInvalidResult is returned for an unknown outcome value.
	ErrInvalidResult = errors.New("bet: result must be WIN or LOSS")
)

// DefaultTieMultiplier is the stock TIE payout used when the caller
// supplies none.
var DefaultTieMultiplier = decimal.NewFromInt(8)

// Engine applies bet outcomes to the ledger after validating them.
type Engine struct {
	ledger *ledger.Ledger
}

// NewEngine creates a bet engine bound to a ledger.
func NewEngine(l *ledger.Ledger) *Engine {
	return &Engine{ledger: l}
}

// PlaceBet validates the outcome, computes its profit, and appends it to
// the ledger. Preconditions are checked in a fixed order, each failing
// fast with its own error; on any failure the ledger is untouched.
//
// The returned alert, when non-nil, is the stop condition the bet itself
// crossed: thresholds are gated against the pre-bet profit, so a crossing
// bet is allowed once and flagged immediately after.
func (e *Engine) PlaceBet(
	ctx context.Context,
	amount decimal.Decimal,
	betType model.BetType,
	multiplier *decimal.Decimal,
	result model.BetResult,
) (model.BetRecord, *model.Alert, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return model.BetRecord{}, nil, ErrInvalidAmount
	}
	if betType == "" {
		return model.BetRecord{}, nil, ErrMissingBetType
	}
	if !betType.Valid() {
		return model.BetRecord{}, nil, ErrMissingBetType
	}
	if !result.Valid() {
		return model.BetRecord{}, nil, ErrInvalidResult
	}
	if amount.GreaterThan(e.ledger.Balance()) {
		return model.BetRecord{}, nil, ErrInsufficientBalance
	}

	// Pre-bet gate: a session already at a stop threshold accepts no
	// further bets, and rejection leaves no trace in the ledger.
	if err := risk.Gate(e.ledger.Balance(), e.ledger.InitialBalance(), e.ledger.StopLoss()); err != nil {
		return model.BetRecord{}, nil, err
	}

	mult := multiplier
	if betType == model.BetTie && mult == nil {
		m := DefaultTieMultiplier
		mult = &m
	}
	if betType != model.BetTie {
		mult = nil
	}

	rec := model.BetRecord{
		Type:       betType,
		Amount:     amount,
		Result:     result,
		Profit:     profitFor(amount, betType, mult, result),
		Multiplier: mult,
	}

	rec = e.ledger.AppendBet(ctx, rec)

	// Post-bet evaluation against the new profit.
	alert := risk.Evaluate(e.ledger.Balance(), e.ledger.InitialBalance(), e.ledger.StopLoss())
	return rec, alert, nil
}

// profitFor computes the signed balance delta for a settled bet.
func profitFor(amount decimal.Decimal, betType model.BetType, multiplier *decimal.Decimal, result model.BetResult) decimal.Decimal {
	if result == model.ResultLoss {
		return amount.Neg()
	}
	if betType == model.BetTie && multiplier != nil {
		return amount.Mul(*multiplier)
	}
	return amount
}

// SuggestAmount returns a stake sized as a percentage of the current
// bankroll, rounded to cents. percentage is a fraction (0.05 = 5%).
func (e *Engine) SuggestAmount(percentage decimal.Decimal) decimal.Decimal {
	return e.ledger.Balance().Mul(percentage).Round(2)
}
