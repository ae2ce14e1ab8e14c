package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/model"
)

// EncodeState serializes the ledger state to its snapshot form.
func EncodeState(s *model.LedgerState) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// snapshotFields mirrors LedgerState with pointer fields so we can tell
// "absent from the snapshot" apart from "present with zero value".
type snapshotFields struct {
	SessionID      *string               `json:"session_id"`
	Balance        *decimal.Decimal      `json:"balance"`
	InitialBalance *decimal.Decimal      `json:"initial_balance"`
	Bets           *[]model.BetRecord    `json:"bets"`
	StopLoss       *model.StopLossConfig `json:"stop_loss"`
	Initialized    *bool                 `json:"initialized"`
	SessionStart   *time.Time            `json:"session_start"`
	HistoryFilter  *model.HistoryFilter  `json:"history_filter"`
}

// DecodeState merges a snapshot over DefaultState, field by top-level field.
// The merge is deliberately shallow: a stop_loss object present in the
// snapshot replaces the default config wholesale, so sub-fields introduced
// after the snapshot was written come back zero-valued rather than
// defaulted. Matches the load semantics the app has always had.
func DecodeState(snapshot []byte) (*model.LedgerState, error) {
	var f snapshotFields
	if err := json.Unmarshal(snapshot, &f); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	s := model.DefaultState()
	if f.SessionID != nil {
		s.SessionID = *f.SessionID
	}
	if f.Balance != nil {
		s.Balance = *f.Balance
	}
	if f.InitialBalance != nil {
		s.InitialBalance = *f.InitialBalance
	}
	if f.Bets != nil {
		s.Bets = *f.Bets
	}
	if f.StopLoss != nil {
		s.StopLoss = *f.StopLoss
	}
	if f.Initialized != nil {
		s.Initialized = *f.Initialized
	}
	if f.SessionStart != nil {
		s.SessionStart = f.SessionStart
	}
	if f.HistoryFilter != nil {
		s.HistoryFilter = *f.HistoryFilter
	}

	if s.Bets == nil {
		s.Bets = []model.BetRecord{}
	}
	return s, nil
}
