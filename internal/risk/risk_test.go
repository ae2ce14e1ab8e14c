package risk_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/model"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/risk"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func cfg(enabled bool, maxLoss, maxProfit float64) model.StopLossConfig {
	return model.StopLossConfig{
		Enabled:   enabled,
		MaxLoss:   d(maxLoss),
		MaxProfit: d(maxProfit),
	}
}

func TestEvaluate_Disabled(t *testing.T) {
	// Way past both thresholds, but monitoring is off.
	if alert := risk.Evaluate(d(0), d(1000), cfg(false, 100, 200)); alert != nil {
		t.Errorf("disabled config should never alert, got %+v", alert)
	}
}

func TestEvaluate_WithinBounds(t *testing.T) {
	cases := []struct {
		name    string
		balance float64
	}{
		{"flat", 1000},
		{"small loss", 950},
		{"just above loss threshold", 901},
		{"small gain", 1100},
		{"just below gain threshold", 1199},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if alert := risk.Evaluate(d(tc.balance), d(1000), cfg(true, 100, 200)); alert != nil {
				t.Errorf("balance %v should not alert, got %+v", tc.balance, alert)
			}
		})
	}
}

func TestEvaluate_StopLoss(t *testing.T) {
	// Exactly at the threshold counts as reached.
	alert := risk.Evaluate(d(900), d(1000), cfg(true, 100, 200))
	if alert == nil {
		t.Fatal("expected stop-loss alert at -100")
	}
	if alert.Kind != model.AlertStopLoss {
		t.Errorf("expected STOP_LOSS, got %s", alert.Kind)
	}
	if !alert.Profit.Equal(d(-100)) {
		t.Errorf("expected profit -100, got %s", alert.Profit)
	}
}

func TestEvaluate_StopGain(t *testing.T) {
	alert := risk.Evaluate(d(1250), d(1000), cfg(true, 100, 200))
	if alert == nil {
		t.Fatal("expected stop-gain alert at +250")
	}
	if alert.Kind != model.AlertStopGain {
		t.Errorf("expected STOP_GAIN, got %s", alert.Kind)
	}
	if !alert.Profit.Equal(d(250)) {
		t.Errorf("expected profit 250, got %s", alert.Profit)
	}
}

func TestEvaluate_ZeroThresholds(t *testing.T) {
	// maxLoss=0 means a flat session already sits at the loss threshold.
	alert := risk.Evaluate(d(1000), d(1000), cfg(true, 0, 200))
	if alert == nil || alert.Kind != model.AlertStopLoss {
		t.Fatalf("zero loss threshold should alert on flat profit, got %+v", alert)
	}
}

func TestGate(t *testing.T) {
	if err := risk.Gate(d(1000), d(1000), cfg(true, 100, 200)); err != nil {
		t.Errorf("within bounds should not block, got %v", err)
	}

	err := risk.Gate(d(850), d(1000), cfg(true, 100, 200))
	if !errors.Is(err, risk.ErrStopLossTriggered) {
		t.Errorf("expected ErrStopLossTriggered, got %v", err)
	}

	err = risk.Gate(d(1300), d(1000), cfg(true, 100, 200))
	if !errors.Is(err, risk.ErrStopGainTriggered) {
		t.Errorf("expected ErrStopGainTriggered, got %v", err)
	}
}
