// Package ledger owns the canonical bankroll state: balance, bet history,
// stop-loss configuration, and session metadata. All mutation goes through
// this package; every successful mutation is followed by a full-state
// snapshot save.
//
// The ledger itself is not goroutine safe. The service layer serializes
// access — operations run request/response within one logical turn, which
// is the concurrency model the state was designed for.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/model"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/store"
)

var (
	// ErrInvalidBankroll is returned when a starting or rebased bankroll
	// is not strictly positive.
	ErrInvalidBankroll = errors.New("ledger: bankroll must be positive")

	// ErrInvalidThreshold is returned when a stop-loss threshold is negative.
	ErrInvalidThreshold = errors.New("ledger: stop thresholds must be non-negative")

	// ErrInvalidFilter is returned for an unknown history filter value.
	ErrInvalidFilter = errors.New("ledger: unknown history filter")
)

// Ledger is the single mutable aggregate of the application.
type Ledger struct {
	st    store.Store
	state *model.LedgerState
	now   func() time.Time
}

// New creates a ledger with default state backed by the given store.
// Call Restore to merge a previously saved snapshot over the defaults.
func New(st store.Store) *Ledger {
	return &Ledger{
		st:    st,
		state: model.DefaultState(),
		now:   time.Now,
	}
}

// Restore loads the last snapshot and shallow-merges it over defaults.
// A missing snapshot is not an error — the ledger stays at defaults and
// the setup flow runs.
func (l *Ledger) Restore(ctx context.Context) error {
	data, err := l.st.Load(ctx)
	if errors.Is(err, store.ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore ledger: %w", err)
	}

	state, err := store.DecodeState(data)
	if err != nil {
		return fmt.Errorf("restore ledger: %w", err)
	}
	l.state = state
	return nil
}

// Initialize sets the starting bankroll, marks the ledger initialized, and
// starts the session clock. Re-initializing an already initialized ledger
// starts a fresh session over the existing history-free defaults.
func (l *Ledger) Initialize(ctx context.Context, startingBankroll decimal.Decimal) error {
	if startingBankroll.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidBankroll
	}

	start := l.now()
	l.state.SessionID = uuid.New().String()
	l.state.Balance = startingBankroll
	l.state.InitialBalance = startingBankroll
	l.state.Bets = []model.BetRecord{}
	l.state.Initialized = true
	l.state.SessionStart = &start

	l.persist(ctx)
	return nil
}

// UpdateInitialBalance rebases the bankroll: both the baseline and the
// current balance move to the new value and the entire bet history is
// discarded. Destructive on purpose — profit and ROI are always relative
// to the current baseline.
func (l *Ledger) UpdateInitialBalance(ctx context.Context, newValue decimal.Decimal) error {
	if newValue.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidBankroll
	}

	l.state.InitialBalance = newValue
	l.state.Balance = newValue
	l.state.Bets = []model.BetRecord{}

	l.persist(ctx)
	return nil
}

// AppendBet completes the record (id, timestamp, post-bet balance), pushes
// it to the front of the history, and applies its profit to the balance.
// No bounds or risk checks happen here — those are the bet engine's job
// before it calls in.
func (l *Ledger) AppendBet(ctx context.Context, rec model.BetRecord) model.BetRecord {
	ts := l.now()
	rec.ID = l.nextBetID(ts)
	rec.Timestamp = ts
	rec.Balance = l.state.Balance.Add(rec.Profit)

	l.state.Bets = append([]model.BetRecord{rec}, l.state.Bets...)
	l.state.Balance = rec.Balance

	l.persist(ctx)
	return rec
}

// nextBetID derives a session-unique id from the creation time, bumping
// past the newest existing id when two bets land in the same millisecond.
func (l *Ledger) nextBetID(ts time.Time) int64 {
	id := ts.UnixMilli()
	if len(l.state.Bets) > 0 && id <= l.state.Bets[0].ID {
		id = l.state.Bets[0].ID + 1
	}
	return id
}

// DeleteBet removes the record with the given id and replays the remaining
// history oldest-to-newest, regenerating every balance snapshot and the
// final balance. Records are not independently correctable — deleting one
// invalidates everything after it. Unknown ids are a no-op; returns whether
// a record was removed.
func (l *Ledger) DeleteBet(ctx context.Context, id int64) bool {
	idx := -1
	for i, b := range l.state.Bets {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	l.state.Bets = append(l.state.Bets[:idx], l.state.Bets[idx+1:]...)
	l.replay()

	l.persist(ctx)
	return true
}

// replay recomputes every balance snapshot from the baseline. Bets are
// stored newest first, so the chronological walk runs back-to-front.
func (l *Ledger) replay() {
	balance := l.state.InitialBalance
	for i := len(l.state.Bets) - 1; i >= 0; i-- {
		balance = balance.Add(l.state.Bets[i].Profit)
		l.state.Bets[i].Balance = balance
	}
	l.state.Balance = balance
}

// ResetToInitial clears the bet history and restores the balance to the
// baseline. The baseline, stop-loss config, and session clock survive.
func (l *Ledger) ResetToInitial(ctx context.Context) {
	l.state.Bets = []model.BetRecord{}
	l.state.Balance = l.state.InitialBalance
	l.persist(ctx)
}

// SetStopLoss replaces the stop-loss configuration. Thresholds are
// magnitudes and must be non-negative.
func (l *Ledger) SetStopLoss(ctx context.Context, cfg model.StopLossConfig) error {
	if cfg.MaxLoss.IsNegative() || cfg.MaxProfit.IsNegative() {
		return ErrInvalidThreshold
	}
	l.state.StopLoss = cfg
	l.persist(ctx)
	return nil
}

// SetHistoryFilter stores the active history filter. View state, but
// persisted with everything else so it survives restarts.
func (l *Ledger) SetHistoryFilter(ctx context.Context, f model.HistoryFilter) error {
	if !f.Valid() {
		return ErrInvalidFilter
	}
	l.state.HistoryFilter = f
	l.persist(ctx)
	return nil
}

// Snapshot returns a deep copy of the current state for readers.
func (l *Ledger) Snapshot() *model.LedgerState {
	return l.state.Clone()
}

// Balance returns the current bankroll.
func (l *Ledger) Balance() decimal.Decimal { return l.state.Balance }

// InitialBalance returns the session baseline.
func (l *Ledger) InitialBalance() decimal.Decimal { return l.state.InitialBalance }

// StopLoss returns the active stop-loss configuration.
func (l *Ledger) StopLoss() model.StopLossConfig { return l.state.StopLoss }

// Initialized reports whether a starting bankroll has been supplied.
func (l *Ledger) Initialized() bool { return l.state.Initialized }

// persist saves the full snapshot. A failed save never rolls back the
// in-memory mutation — the operation already happened; the worst case is a
// stale snapshot on the next restart, which is logged loudly.
func (l *Ledger) persist(ctx context.Context) {
	data, err := store.EncodeState(l.state)
	if err != nil {
		slog.Error("ledger snapshot encode failed", "err", err)
		return
	}
	if err := l.st.Save(ctx, data); err != nil {
		slog.Warn("ledger snapshot save failed", "err", err)
	}
}
