package bet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/bet"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/ledger"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/model"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/risk"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/store"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func dp(f float64) *decimal.Decimal {
	v := decimal.NewFromFloat(f)
	return &v
}

func newTestEngine(t *testing.T, bankroll float64) (*bet.Engine, *ledger.Ledger) {
	t.Helper()
	l := ledger.New(store.NewMemoryStore())
	if err := l.Initialize(context.Background(), d(bankroll)); err != nil {
		t.Fatalf("failed to initialize ledger: %v", err)
	}
	return bet.NewEngine(l), l
}

func TestPlaceBet_PlayerWin(t *testing.T) {
	e, l := newTestEngine(t, 1000)

	rec, alert, err := e.PlaceBet(context.Background(), d(50), model.BetPlayer, nil, model.ResultWin)
	if err != nil {
		t.Fatalf("place bet failed: %v", err)
	}

	if !rec.Profit.Equal(d(50)) {
		t.Errorf("PLAYER win pays 1:1, expected profit 50, got %s", rec.Profit)
	}
	if rec.Multiplier != nil {
		t.Error("non-TIE bets carry no multiplier")
	}
	if !l.Balance().Equal(d(1050)) {
		t.Errorf("expected balance 1050, got %s", l.Balance())
	}
	if alert != nil {
		t.Errorf("no stop config, no alert expected, got %+v", alert)
	}
}

func TestPlaceBet_BankerLoss(t *testing.T) {
	e, l := newTestEngine(t, 1000)

	rec, _, err := e.PlaceBet(context.Background(), d(50), model.BetBanker, nil, model.ResultLoss)
	if err != nil {
		t.Fatalf("place bet failed: %v", err)
	}

	if !rec.Profit.Equal(d(-50)) {
		t.Errorf("loss costs the full stake, expected -50, got %s", rec.Profit)
	}
	if !l.Balance().Equal(d(950)) {
		t.Errorf("expected balance 950, got %s", l.Balance())
	}
}

func TestPlaceBet_TieWinMultiplier(t *testing.T) {
	e, l := newTestEngine(t, 1000)

	rec, _, err := e.PlaceBet(context.Background(), d(10), model.BetTie, dp(8), model.ResultWin)
	if err != nil {
		t.Fatalf("place bet failed: %v", err)
	}

	if !rec.Profit.Equal(d(80)) {
		t.Errorf("TIE win pays amount × multiplier, expected 80, got %s", rec.Profit)
	}
	if rec.Multiplier == nil || !rec.Multiplier.Equal(d(8)) {
		t.Error("TIE record should carry its multiplier")
	}
	if !l.Balance().Equal(d(1080)) {
		t.Errorf("expected balance 1080, got %s", l.Balance())
	}
}

func TestPlaceBet_TieDefaultMultiplier(t *testing.T) {
	e, _ := newTestEngine(t, 1000)

	rec, _, err := e.PlaceBet(context.Background(), d(10), model.BetTie, nil, model.ResultWin)
	if err != nil {
		t.Fatalf("place bet failed: %v", err)
	}
	if rec.Multiplier == nil || !rec.Multiplier.Equal(d(8)) {
		t.Errorf("TIE with no multiplier defaults to 8, got %v", rec.Multiplier)
	}
	if !rec.Profit.Equal(d(80)) {
		t.Errorf("expected profit 80, got %s", rec.Profit)
	}
}

func TestPlaceBet_TieLoss(t *testing.T) {
	e, _ := newTestEngine(t, 1000)

	// Multiplier only amplifies wins.
	rec, _, err := e.PlaceBet(context.Background(), d(10), model.BetTie, dp(8), model.ResultLoss)
	if err != nil {
		t.Fatalf("place bet failed: %v", err)
	}
	if !rec.Profit.Equal(d(-10)) {
		t.Errorf("TIE loss costs the stake only, expected -10, got %s", rec.Profit)
	}
}

func TestPlaceBet_MultiplierIgnoredForMainBets(t *testing.T) {
	e, _ := newTestEngine(t, 1000)

	rec, _, err := e.PlaceBet(context.Background(), d(50), model.BetPlayer, dp(8), model.ResultWin)
	if err != nil {
		t.Fatalf("place bet failed: %v", err)
	}
	if rec.Multiplier != nil {
		t.Error("PLAYER bet must drop the multiplier")
	}
	if !rec.Profit.Equal(d(50)) {
		t.Errorf("expected profit 50, got %s", rec.Profit)
	}
}

func TestPlaceBet_Validation(t *testing.T) {
	cases := []struct {
		name    string
		amount  decimal.Decimal
		betType model.BetType
		result  model.BetResult
		wantErr error
	}{
		{"zero amount", decimal.Zero, model.BetPlayer, model.ResultWin, bet.ErrInvalidAmount},
		{"negative amount", d(-10), model.BetPlayer, model.ResultWin, bet.ErrInvalidAmount},
		{"missing type", d(10), "", model.ResultWin, bet.ErrMissingBetType},
		{"unknown type", d(10), "DRAGON", model.ResultWin, bet.ErrMissingBetType},
		{"unknown result", d(10), model.BetPlayer, "PUSH", bet.ErrInvalidResult},
		{"over balance", d(5000), model.BetPlayer, model.ResultWin, bet.ErrInsufficientBalance},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, l := newTestEngine(t, 1000)

			_, _, err := e.PlaceBet(context.Background(), tc.amount, tc.betType, nil, tc.result)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			// Rejections leave the ledger untouched.
			if len(l.Snapshot().Bets) != 0 {
				t.Error("rejected bet must not be recorded")
			}
			if !l.Balance().Equal(d(1000)) {
				t.Errorf("rejected bet must not move the balance, got %s", l.Balance())
			}
		})
	}
}

// The precedence order is fixed: an absurd amount with a missing type
// reports the amount problem first.
func TestPlaceBet_ValidationOrder(t *testing.T) {
	e, _ := newTestEngine(t, 1000)

	_, _, err := e.PlaceBet(context.Background(), d(-1), "", nil, "PUSH")
	if !errors.Is(err, bet.ErrInvalidAmount) {
		t.Errorf("amount check runs first, got %v", err)
	}

	_, _, err = e.PlaceBet(context.Background(), d(10), "", nil, "PUSH")
	if !errors.Is(err, bet.ErrMissingBetType) {
		t.Errorf("type check runs second, got %v", err)
	}
}

// A bet that crosses a stop threshold is allowed once and flagged; the
// next bet is blocked.
func TestPlaceBet_CrossingBetAllowedOnce(t *testing.T) {
	e, l := newTestEngine(t, 1000)
	cfg := model.StopLossConfig{Enabled: true, MaxLoss: d(100), MaxProfit: d(200)}
	if err := l.SetStopLoss(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	// -60: within bounds, no alert.
	_, alert, err := e.PlaceBet(context.Background(), d(60), model.BetPlayer, nil, model.ResultLoss)
	if err != nil {
		t.Fatalf("first bet failed: %v", err)
	}
	if alert != nil {
		t.Errorf("profit -60 should not alert, got %+v", alert)
	}

	// -60 more crosses the -100 threshold: allowed, but flagged.
	_, alert, err = e.PlaceBet(context.Background(), d(60), model.BetPlayer, nil, model.ResultLoss)
	if err != nil {
		t.Fatalf("crossing bet should be allowed: %v", err)
	}
	if alert == nil || alert.Kind != model.AlertStopLoss {
		t.Fatalf("crossing bet should raise STOP_LOSS, got %+v", alert)
	}
	if !alert.Profit.Equal(d(-120)) {
		t.Errorf("expected alert profit -120, got %s", alert.Profit)
	}

	// Session is now gated.
	_, _, err = e.PlaceBet(context.Background(), d(10), model.BetPlayer, nil, model.ResultWin)
	if !errors.Is(err, risk.ErrStopLossTriggered) {
		t.Errorf("expected ErrStopLossTriggered, got %v", err)
	}
	if len(l.Snapshot().Bets) != 2 {
		t.Error("gated bet must not be recorded")
	}
}

func TestPlaceBet_StopGainGate(t *testing.T) {
	e, l := newTestEngine(t, 1000)
	cfg := model.StopLossConfig{Enabled: true, MaxLoss: d(100), MaxProfit: d(200)}
	if err := l.SetStopLoss(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	_, alert, err := e.PlaceBet(context.Background(), d(250), model.BetBanker, nil, model.ResultWin)
	if err != nil {
		t.Fatalf("winning bet failed: %v", err)
	}
	if alert == nil || alert.Kind != model.AlertStopGain {
		t.Fatalf("expected STOP_GAIN alert, got %+v", alert)
	}

	_, _, err = e.PlaceBet(context.Background(), d(10), model.BetPlayer, nil, model.ResultWin)
	if !errors.Is(err, risk.ErrStopGainTriggered) {
		t.Errorf("expected ErrStopGainTriggered, got %v", err)
	}
}

func TestSuggestAmount(t *testing.T) {
	e, _ := newTestEngine(t, 1000)

	if got := e.SuggestAmount(d(0.05)); !got.Equal(d(50)) {
		t.Errorf("5%% of 1000 should be 50, got %s", got)
	}
	if got := e.SuggestAmount(d(0.03)); !got.Equal(d(30)) {
		t.Errorf("3%% of 1000 should be 30, got %s", got)
	}
}

func TestSuggestAmount_RoundsToCents(t *testing.T) {
	e, l := newTestEngine(t, 1000)
	if err := l.UpdateInitialBalance(context.Background(), d(333.33)); err != nil {
		t.Fatal(err)
	}

	got := e.SuggestAmount(d(0.05))
	if got.Exponent() < -2 {
		t.Errorf("suggestion should be rounded to cents, got %s", got)
	}
}
