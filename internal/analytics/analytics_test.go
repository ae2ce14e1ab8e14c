package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/analytics"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/model"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// bets builds a newest-first history from results, with fixed amounts.
func bets(results ...model.BetResult) []model.BetRecord {
	out := make([]model.BetRecord, len(results))
	for i, r := range results {
		out[i] = model.BetRecord{
			ID:     int64(1000 - i),
			Type:   model.BetPlayer,
			Amount: d(10),
			Result: r,
		}
	}
	return out
}

const (
	w = model.ResultWin
	l = model.ResultLoss
)

func TestStreaks(t *testing.T) {
	cases := []struct {
		name    string
		history []model.BetRecord // newest first
		current int
		best    int
	}{
		{"empty", nil, 0, 0},
		{"single win", bets(w), 1, 1},
		{"current shorter than best", bets(w, w, l, w, w, w), 2, 3},
		{"current is best", bets(l, l, l, w), 3, 3},
		{"alternating", bets(w, l, w, l), 1, 1},
		{"all same", bets(l, l, l, l), 4, 4},
		{"best buried in the middle", bets(w, l, l, l, w), 1, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			current, best := analytics.Streaks(tc.history)
			if current != tc.current || best != tc.best {
				t.Errorf("expected current=%d best=%d, got current=%d best=%d",
					tc.current, tc.best, current, best)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	now := start.Add(3*time.Hour + 24*time.Minute)

	history := bets(w, w, l, w) // newest first: 3 wins, 1 loss
	s := &model.LedgerState{
		Balance:        d(1070),
		InitialBalance: d(1000),
		Bets:           history,
		SessionStart:   &start,
	}

	stats := analytics.Compute(s, now)

	if stats.TotalBets != 4 || stats.Wins != 3 || stats.Losses != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if !stats.WinRate.Equal(d(75)) {
		t.Errorf("expected win rate 75, got %s", stats.WinRate)
	}
	if !stats.AvgBet.Equal(d(10)) {
		t.Errorf("expected avg bet 10, got %s", stats.AvgBet)
	}
	if !stats.TotalProfit.Equal(d(70)) {
		t.Errorf("expected profit 70, got %s", stats.TotalProfit)
	}
	if !stats.ROI.Equal(d(7)) {
		t.Errorf("expected ROI 7, got %s", stats.ROI)
	}
	if stats.CurrentStreak != 2 || stats.BestStreak != 2 {
		t.Errorf("unexpected streaks: current=%d best=%d", stats.CurrentStreak, stats.BestStreak)
	}
	if stats.SessionTime != "3h 24m" {
		t.Errorf("expected session time '3h 24m', got %q", stats.SessionTime)
	}
}

func TestCompute_ZeroGuards(t *testing.T) {
	// Empty history and zero baseline must yield zeros, not panics.
	stats := analytics.Compute(model.DefaultState(), time.Now())

	if stats.TotalBets != 0 {
		t.Errorf("expected 0 bets, got %d", stats.TotalBets)
	}
	if !stats.WinRate.IsZero() || !stats.AvgBet.IsZero() || !stats.ROI.IsZero() {
		t.Errorf("expected zeroed rates: %+v", stats)
	}
	if stats.SessionTime != "-" {
		t.Errorf("expected '-' for no session, got %q", stats.SessionTime)
	}
}

func TestEquityCurve(t *testing.T) {
	// Newest first in storage.
	s := &model.LedgerState{
		InitialBalance: d(1000),
		Bets: []model.BetRecord{
			{Balance: d(980)},
			{Balance: d(1030)},
			{Balance: d(1050)},
		},
	}

	curve := analytics.EquityCurve(s)
	want := []decimal.Decimal{d(1000), d(1050), d(1030), d(980)}

	if len(curve) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(curve))
	}
	for i := range want {
		if !curve[i].Equal(want[i]) {
			t.Errorf("point %d: expected %s, got %s", i, want[i], curve[i])
		}
	}
}

func TestEquityCurve_Empty(t *testing.T) {
	curve := analytics.EquityCurve(&model.LedgerState{InitialBalance: d(500)})
	if len(curve) != 1 || !curve[0].Equal(d(500)) {
		t.Errorf("empty history should yield just the baseline, got %v", curve)
	}
}

func TestFilterBets(t *testing.T) {
	history := []model.BetRecord{
		{ID: 4, Type: model.BetPlayer, Result: model.ResultWin},
		{ID: 3, Type: model.BetTie, Result: model.ResultLoss},
		{ID: 2, Type: model.BetBanker, Result: model.ResultWin},
		{ID: 1, Type: model.BetPlayer, Result: model.ResultLoss},
	}

	cases := []struct {
		filter model.HistoryFilter
		ids    []int64
	}{
		{model.FilterAll, []int64{4, 3, 2, 1}},
		{model.FilterWin, []int64{4, 2}},
		{model.FilterLoss, []int64{3, 1}},
		{model.FilterPlayer, []int64{4, 1}},
		{model.FilterBanker, []int64{2}},
		{model.FilterTie, []int64{3}},
	}

	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			got := analytics.FilterBets(history, tc.filter)
			if len(got) != len(tc.ids) {
				t.Fatalf("expected %d bets, got %d", len(tc.ids), len(got))
			}
			for i, id := range tc.ids {
				if got[i].ID != id {
					t.Errorf("position %d: expected id %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestFormatSessionTime(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		start   *time.Time
		elapsed time.Duration
		want    string
	}{
		{"no session", nil, 0, "-"},
		{"minutes only", &start, 45 * time.Minute, "0h 45m"},
		{"hours and minutes", &start, 3*time.Hour + 24*time.Minute, "3h 24m"},
		{"clock skew clamps to zero", &start, -10 * time.Minute, "0h 0m"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := analytics.FormatSessionTime(tc.start, start.Add(tc.elapsed))
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestThresholdPercentages(t *testing.T) {
	s := &model.LedgerState{
		InitialBalance: d(1000),
		StopLoss:       model.StopLossConfig{MaxLoss: d(100), MaxProfit: d(250)},
	}

	lossPct, profitPct := analytics.ThresholdPercentages(s)
	if !lossPct.Equal(d(10)) {
		t.Errorf("expected loss pct 10, got %s", lossPct)
	}
	if !profitPct.Equal(d(25)) {
		t.Errorf("expected profit pct 25, got %s", profitPct)
	}

	// Zero baseline guards the division.
	lossPct, profitPct = analytics.ThresholdPercentages(model.DefaultState())
	if !lossPct.IsZero() || !profitPct.IsZero() {
		t.Errorf("expected zero percentages, got %s / %s", lossPct, profitPct)
	}
}
