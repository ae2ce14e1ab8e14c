// Package plan generates 30-day staking progressions and chip-rounded
// entry recommendations.
//
// The generator is fully deterministic given its inputs: it never reads
// the ledger, and the schedule is ephemeral — regenerated on each call,
// never persisted.
package plan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/model"
)

// Days is the fixed length of a staking plan.
const Days = 30

var (
	// ErrInvalidBaseAmount is returned when the day-1 stake is not positive.
	ErrInvalidBaseAmount = errors.New("plan: base amount must be positive")

	// ErrInvalidProgression is returned for an unknown progression type.
	ErrInvalidProgression = errors.New("plan: progression type must be fixed or percentage")
)

// chips is the denomination set recommendations snap to.
var chips = []int64{5, 10, 25, 50, 100, 250, 500, 1000}

var (
	hundred       = decimal.NewFromInt(100)
	entryFraction = decimal.NewFromFloat(0.05) // main entry = 5% of day-1 stake
	tieFraction   = decimal.NewFromFloat(0.1)  // tie entry = 10% of main entry
	tieFloor      = decimal.NewFromInt(15)     // no tie entry at or below this
)

// Generate produces the 30-day schedule.
//
// Day 1 stakes baseAmount; each later day adds progressionValue (fixed) or
// compounds by progressionValue percent. With round=true every recorded
// stake is rounded to the nearest integer, otherwise kept at two decimal
// places — the running amount compounds unrounded either way, so rounding
// changes what is recorded, not the trajectory.
//
// TotalProfit is the growth across the window: day 30 minus day 1, not a
// sum of daily stakes.
func Generate(
	baseAmount decimal.Decimal,
	progressionValue decimal.Decimal,
	progressionType model.ProgressionType,
	round bool,
	now time.Time,
) (*model.Plan, error) {
	if baseAmount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidBaseAmount
	}
	if !progressionType.Valid() {
		return nil, ErrInvalidProgression
	}

	growth := decimal.NewFromInt(1).Add(progressionValue.Div(hundred))

	days := make([]model.PlanEntry, 0, Days)
	amount := baseAmount
	for day := 1; day <= Days; day++ {
		recorded := amount.Round(2)
		if round {
			recorded = amount.Round(0)
		}
		days = append(days, model.PlanEntry{Day: day, Amount: recorded})

		if progressionType == model.ProgressionFixed {
			amount = amount.Add(progressionValue)
		} else {
			amount = amount.Mul(growth)
		}
	}

	p := &model.Plan{
		Days:             days,
		TotalProfit:      days[Days-1].Amount.Sub(days[0].Amount),
		BaseAmount:       baseAmount,
		ProgressionType:  progressionType,
		ProgressionValue: progressionValue,
		Rounded:          round,
		GeneratedAt:      now,
	}
	p.Recommendation = Recommend(days[0].Amount)
	return p, nil
}

// Recommend derives the chip-rounded entry sizing from the day-1 stake:
// the main entry is 5% of it, and the TIE side entry is 10% of the main
// entry — suppressed entirely when the main entry is 15 or less, where a
// TIE hedge is not worth the chip.
func Recommend(dayOneAmount decimal.Decimal) model.Recommendation {
	main := RoundToChip(dayOneAmount.Mul(entryFraction))

	tie := decimal.Zero
	if main.GreaterThan(tieFloor) {
		tie = RoundToChip(main.Mul(tieFraction))
	}
	return model.Recommendation{MainEntry: main, TieEntry: tie}
}

// RoundToChip snaps a value to the nearest casino chip denomination
// {5,10,25,50,100,250,500,1000} by absolute distance, ties favoring the
// lower chip. Values below 5 clamp to 5; values above 1000 round to the
// nearest multiple of 100.
func RoundToChip(value decimal.Decimal) decimal.Decimal {
	lowest := decimal.NewFromInt(chips[0])
	if value.LessThan(lowest) {
		return lowest
	}

	for i := 0; i < len(chips)-1; i++ {
		lo := decimal.NewFromInt(chips[i])
		hi := decimal.NewFromInt(chips[i+1])
		if value.GreaterThanOrEqual(lo) && value.LessThan(hi) {
			if value.Sub(lo).LessThanOrEqual(hi.Sub(value)) {
				return lo
			}
			return hi
		}
	}

	// Beyond the largest chip: nearest multiple of 100.
	return value.Div(hundred).Round(0).Mul(hundred)
}
