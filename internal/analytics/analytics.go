// Package analytics derives read-only statistics from the bet history.
// Everything here is pure: recomputed on demand from the ledger snapshot,
// no cached state, no side effects.
package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Compute builds the full stats snapshot for the given state at the given
// instant. Divide-by-zero cases (empty history, zero baseline) yield
// defined zero values, never errors.
func Compute(s *model.LedgerState, now time.Time) model.Stats {
	stats := model.Stats{
		TotalBets:   len(s.Bets),
		WinRate:     decimal.Zero,
		AvgBet:      decimal.Zero,
		TotalProfit: s.Profit(),
		ROI:         decimal.Zero,
		SessionTime: FormatSessionTime(s.SessionStart, now),
	}

	totalStaked := decimal.Zero
	for _, b := range s.Bets {
		if b.Result == model.ResultWin {
			stats.Wins++
		} else {
			stats.Losses++
		}
		totalStaked = totalStaked.Add(b.Amount)
	}

	if stats.TotalBets > 0 {
		n := decimal.NewFromInt(int64(stats.TotalBets))
		stats.WinRate = decimal.NewFromInt(int64(stats.Wins)).Div(n).Mul(hundred).Round(2)
		stats.AvgBet = totalStaked.Div(n).Round(2)
	}

	if s.InitialBalance.IsPositive() {
		stats.ROI = stats.TotalProfit.Div(s.InitialBalance).Mul(hundred).Round(2)
	}

	stats.CurrentStreak, stats.BestStreak = Streaks(s.Bets)
	return stats
}

// Streaks scans the newest-first history for runs of equal results.
// The current streak is the run that starts at the most recent bet; the
// best streak is the longest run anywhere in the sequence. Empty history
// yields 0/0.
func Streaks(bets []model.BetRecord) (current, best int) {
	if len(bets) == 0 {
		return 0, 0
	}

	run := 1
	for i := 1; i <= len(bets); i++ {
		if i < len(bets) && bets[i].Result == bets[i-1].Result {
			run++
			continue
		}
		if run > best {
			best = run
		}
		if current == 0 {
			current = run // first run = the one touching the newest bet
		}
		run = 1
	}
	return current, best
}

// EquityCurve returns the balance trajectory in chronological order:
// the baseline first, then the post-bet balance of each bet oldest to
// newest. Storage is newest first, so the walk runs back-to-front.
func EquityCurve(s *model.LedgerState) []decimal.Decimal {
	curve := make([]decimal.Decimal, 0, len(s.Bets)+1)
	curve = append(curve, s.InitialBalance)
	for i := len(s.Bets) - 1; i >= 0; i-- {
		curve = append(curve, s.Bets[i].Balance)
	}
	return curve
}

// FilterBets returns the subset of bets matching the filter, preserving
// order. WIN/LOSS match on result, PLAYER/BANKER/TIE on type, "all"
// passes everything through untouched.
func FilterBets(bets []model.BetRecord, filter model.HistoryFilter) []model.BetRecord {
	if filter == model.FilterAll || filter == "" {
		return bets
	}

	out := make([]model.BetRecord, 0, len(bets))
	for _, b := range bets {
		switch filter {
		case model.FilterWin, model.FilterLoss:
			if string(b.Result) == string(filter) {
				out = append(out, b)
			}
		default:
			if string(b.Type) == string(filter) {
				out = append(out, b)
			}
		}
	}
	return out
}

// FormatSessionTime renders the elapsed session time as "3h 24m".
// Returns "-" when no session has been started.
func FormatSessionTime(start *time.Time, now time.Time) string {
	if start == nil {
		return "-"
	}
	elapsed := now.Sub(*start)
	if elapsed < 0 {
		elapsed = 0
	}
	hours := int(elapsed.Hours())
	minutes := int(elapsed.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// ThresholdPercentages expresses the stop thresholds as percentages of the
// initial bankroll, for display alongside the raw values. Zero baseline
// yields zero percentages.
func ThresholdPercentages(s *model.LedgerState) (lossPct, profitPct decimal.Decimal) {
	if !s.InitialBalance.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	lossPct = s.StopLoss.MaxLoss.Div(s.InitialBalance).Mul(hundred).Round(1)
	profitPct = s.StopLoss.MaxProfit.Div(s.InitialBalance).Mul(hundred).Round(1)
	return lossPct, profitPct
}
