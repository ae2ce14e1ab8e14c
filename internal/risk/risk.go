// Package risk implements stop-loss / stop-gain evaluation against the
// session's cumulative profit.
//
// Evaluation is a pure function of (balance, initialBalance, config). It is
// run twice around every bet: before, to gate the bet (a session already at
// a threshold accepts no further bets), and after, to flag a breach the bet
// itself caused. A bet that crosses a threshold is therefore allowed once,
// and the breach is surfaced immediately afterwards.
package risk

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/model"
)

var (
	// ErrStopLossTriggered is returned when the cumulative loss has already
	// reached the configured maximum.
	ErrStopLossTriggered = errors.New("risk: stop loss reached, betting blocked")

	// ErrStopGainTriggered is returned when the cumulative profit has
	// already reached the configured target.
	ErrStopGainTriggered = errors.New("risk: stop gain reached, betting blocked")
)

// Evaluate returns the active stop alert, or nil when no threshold is
// reached or monitoring is disabled. Loss takes precedence over gain;
// with non-negative thresholds the two conditions are mutually exclusive
// anyway.
func Evaluate(balance, initialBalance decimal.Decimal, cfg model.StopLossConfig) *model.Alert {
	if !cfg.Enabled {
		return nil
	}

	profit := balance.Sub(initialBalance)

	if profit.LessThanOrEqual(cfg.MaxLoss.Neg()) {
		return &model.Alert{Kind: model.AlertStopLoss, Profit: profit}
	}
	if profit.GreaterThanOrEqual(cfg.MaxProfit) {
		return &model.Alert{Kind: model.AlertStopGain, Profit: profit}
	}
	return nil
}

// Gate converts the current alert state into a blocking error for the bet
// engine. Returns nil when betting may proceed.
func Gate(balance, initialBalance decimal.Decimal, cfg model.StopLossConfig) error {
	alert := Evaluate(balance, initialBalance, cfg)
	if alert == nil {
		return nil
	}
	if alert.Kind == model.AlertStopLoss {
		return ErrStopLossTriggered
	}
	return ErrStopGainTriggered
}
