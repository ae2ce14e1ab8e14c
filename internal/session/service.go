// Package session provides the HTTP handlers and orchestration for the
// bankroll manager: setup, bet recording, history, stop-loss
// configuration, analytics, plan generation, and report export.
//
// All monetary values use shopspring/decimal — never float64 for money.
package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/analytics"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/bet"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/export"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/ledger"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/metrics"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/model"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/plan"
	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/risk"
)

// sparseHistoryThreshold is the bet count below which plan generation
// carries an advisory warning.
const sparseHistoryThreshold = 5

// Service handles ledger operations. Uses a mutex for serialized mutation —
// the ledger's contract is strictly one operation at a time.
type Service struct {
	ledger *ledger.Ledger
	engine *bet.Engine
	wsHub  *WSHub // optional; nil disables broadcasting
	now    func() time.Time

	mu    sync.Mutex
	alert *model.Alert // last risk evaluation result
}

// NewService creates a session service around a restored ledger.
// Pass nil for hub if WebSocket broadcasting is not needed.
func NewService(l *ledger.Ledger, hub *WSHub) *Service {
	return &Service{
		ledger: l,
		engine: bet.NewEngine(l),
		wsHub:  hub,
		now:    time.Now,
	}
}

// Routes mounts all session endpoints on the given router.
func (s *Service) Routes(r chi.Router) {
	r.Post("/bankroll", s.SetupBankroll)
	r.Put("/bankroll", s.UpdateBankroll)
	r.Get("/state", s.GetState)
	r.Post("/bets", s.PlaceBet)
	r.Get("/bets", s.ListBets)
	r.Delete("/bets/{betID}", s.DeleteBet)
	r.Get("/bets/suggest", s.SuggestAmount)
	r.Post("/reset", s.Reset)
	r.Put("/stoploss", s.SetStopLoss)
	r.Get("/alert", s.GetAlert)
	r.Get("/stats", s.GetStats)
	r.Get("/equity", s.GetEquity)
	r.Post("/plan", s.GeneratePlan)
	r.Get("/export/history", s.ExportHistory)
	r.Post("/export/plan", s.ExportPlan)
	if s.wsHub != nil {
		r.Get("/ws", s.wsHub.HandleWS)
	}
}

// --- Request/Response types ---

// BankrollRequest carries a starting or rebased bankroll amount.
type BankrollRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// BetRequest is the JSON body for POST /bets.
type BetRequest struct {
	Amount     decimal.Decimal  `json:"amount"`
	Type       model.BetType    `json:"type"`
	Multiplier *decimal.Decimal `json:"multiplier,omitempty"` // TIE only
	Result     model.BetResult  `json:"result"`
}

// BetResponse returns the recorded bet, the new balance, and any stop
// alert the bet triggered.
type BetResponse struct {
	Bet     model.BetRecord `json:"bet"`
	Balance decimal.Decimal `json:"balance"`
	Profit  decimal.Decimal `json:"profit"`
	Alert   *model.Alert    `json:"alert,omitempty"`
}

// StopLossRequest is the JSON body for PUT /stoploss.
type StopLossRequest struct {
	Enabled   bool            `json:"enabled"`
	MaxLoss   decimal.Decimal `json:"max_loss"`
	MaxProfit decimal.Decimal `json:"max_profit"`
}

// StatsResponse extends the analytics snapshot with the stop thresholds
// expressed as percentages of the initial bankroll.
type StatsResponse struct {
	model.Stats
	MaxLossPct   decimal.Decimal `json:"max_loss_pct"`
	MaxProfitPct decimal.Decimal `json:"max_profit_pct"`
}

// PlanRequest is the JSON body for POST /plan and POST /export/plan.
type PlanRequest struct {
	BaseAmount       decimal.Decimal       `json:"base_amount"`
	ProgressionValue decimal.Decimal       `json:"progression_value"`
	ProgressionType  model.ProgressionType `json:"progression_type"`
	Round            bool                  `json:"round"`
}

// PlanResponse carries the generated plan plus an advisory warning when
// the bet history is too sparse to personalize the plan.
type PlanResponse struct {
	Plan    *model.Plan `json:"plan"`
	Warning string      `json:"warning,omitempty"`
}

// --- Handlers ---

// SetupBankroll handles POST /api/v1/bankroll — the initial setup flow.
func (s *Service) SetupBankroll(w http.ResponseWriter, r *http.Request) {
	var req BankrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Initialize(r.Context(), req.Amount); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	state := s.ledger.Snapshot()
	metrics.Balance.Set(state.Balance.InexactFloat64())
	slog.Info("bankroll initialized",
		"session", state.SessionID,
		"balance", state.Balance.String(),
	)

	writeJSON(w, http.StatusCreated, state)
}

// UpdateBankroll handles PUT /api/v1/bankroll — rebases the baseline and
// discards all history.
func (s *Service) UpdateBankroll(w http.ResponseWriter, r *http.Request) {
	var req BankrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.UpdateInitialBalance(r.Context(), req.Amount); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.reevaluate()
	state := s.ledger.Snapshot()
	metrics.Balance.Set(state.Balance.InexactFloat64())
	s.broadcastBalance(state.Balance)
	slog.Info("bankroll rebased", "balance", state.Balance.String())

	writeJSON(w, http.StatusOK, state)
}

// GetState handles GET /api/v1/state.
func (s *Service) GetState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := s.ledger.Snapshot()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, state)
}

// PlaceBet handles POST /api/v1/bets.
func (s *Service) PlaceBet(w http.ResponseWriter, r *http.Request) {
	var req BetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, alert, err := s.engine.PlaceBet(r.Context(), req.Amount, req.Type, req.Multiplier, req.Result)
	if err != nil {
		metrics.BetRejections.WithLabelValues(rejectionReason(err)).Inc()
		writeError(w, err.Error(), rejectionStatus(err))
		return
	}

	s.alert = alert
	balance := s.ledger.Balance()

	metrics.BetsTotal.WithLabelValues(string(rec.Type), string(rec.Result)).Inc()
	metrics.Balance.Set(balance.InexactFloat64())
	if alert != nil {
		metrics.StopAlerts.WithLabelValues(string(alert.Kind)).Inc()
	}

	slog.Info("bet recorded",
		"id", rec.ID,
		"type", rec.Type,
		"result", rec.Result,
		"amount", rec.Amount.String(),
		"profit", rec.Profit.String(),
		"balance", balance.String(),
	)

	if s.wsHub != nil {
		s.wsHub.Broadcast(WSMessage{
			Type:    "bet_recorded",
			BetID:   rec.ID,
			BetType: string(rec.Type),
			Result:  string(rec.Result),
			Profit:  rec.Profit.String(),
			Balance: balance.String(),
		})
		if alert != nil {
			s.wsHub.Broadcast(WSMessage{
				Type:      "alert",
				AlertKind: string(alert.Kind),
				Profit:    alert.Profit.String(),
			})
		}
	}

	writeJSON(w, http.StatusOK, BetResponse{
		Bet:     rec,
		Balance: balance,
		Profit:  s.ledger.Snapshot().Profit(),
		Alert:   alert,
	})
}

// ListBets handles GET /api/v1/bets. An explicit ?filter= both filters the
// listing and persists the choice as the active history filter.
func (s *Service) ListBets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.ledger.Snapshot()
	filter := state.HistoryFilter

	if raw := r.URL.Query().Get("filter"); raw != "" {
		filter = model.HistoryFilter(raw)
		if err := s.ledger.SetHistoryFilter(r.Context(), filter); err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	bets := analytics.FilterBets(state.Bets, filter)
	writeJSON(w, http.StatusOK, map[string]any{
		"bets":   bets,
		"filter": filter,
	})
}

// DeleteBet handles DELETE /api/v1/bets/{betID}. Deleting replays the
// whole remaining history; an unknown id is a silent no-op.
func (s *Service) DeleteBet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "betID"), 10, 64)
	if err != nil {
		writeError(w, "invalid bet id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ledger.DeleteBet(r.Context(), id) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.reevaluate()
	balance := s.ledger.Balance()
	metrics.BetsDeleted.Inc()
	metrics.Balance.Set(balance.InexactFloat64())
	s.broadcastBalance(balance)
	slog.Info("bet deleted", "id", id, "balance", balance.String())

	writeJSON(w, http.StatusOK, map[string]any{
		"deleted": true,
		"balance": balance,
		"alert":   s.alert,
	})
}

// SuggestAmount handles GET /api/v1/bets/suggest?percentage=0.05 — the
// quick-bet sizing helper (fraction of the current bankroll).
func (s *Service) SuggestAmount(w http.ResponseWriter, r *http.Request) {
	pct, err := decimal.NewFromString(r.URL.Query().Get("percentage"))
	if err != nil || pct.LessThanOrEqual(decimal.Zero) || pct.GreaterThan(decimal.NewFromInt(1)) {
		writeError(w, "percentage must be a fraction in (0, 1]", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	amount := s.engine.SuggestAmount(pct)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"amount": amount})
}

// Reset handles POST /api/v1/reset — clears the history and restores the
// balance to the baseline.
func (s *Service) Reset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.ResetToInitial(r.Context())
	s.reevaluate()
	state := s.ledger.Snapshot()
	metrics.Balance.Set(state.Balance.InexactFloat64())
	s.broadcastBalance(state.Balance)
	slog.Info("bankroll reset", "balance", state.Balance.String())

	writeJSON(w, http.StatusOK, state)
}

// SetStopLoss handles PUT /api/v1/stoploss.
func (s *Service) SetStopLoss(w http.ResponseWriter, r *http.Request) {
	var req StopLossRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := model.StopLossConfig{
		Enabled:   req.Enabled,
		MaxLoss:   req.MaxLoss,
		MaxProfit: req.MaxProfit,
	}
	if err := s.ledger.SetStopLoss(r.Context(), cfg); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Config changes re-evaluate immediately: tightening a threshold can
	// put the session in breach without a new bet.
	s.reevaluate()
	if s.alert != nil {
		metrics.StopAlerts.WithLabelValues(string(s.alert.Kind)).Inc()
	}
	slog.Info("stop loss configured",
		"enabled", cfg.Enabled,
		"max_loss", cfg.MaxLoss.String(),
		"max_profit", cfg.MaxProfit.String(),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"stop_loss": cfg,
		"alert":     s.alert,
	})
}

// GetAlert handles GET /api/v1/alert — the current alert, if any.
func (s *Service) GetAlert(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	alert := s.alert
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]*model.Alert{"alert": alert})
}

// GetStats handles GET /api/v1/stats.
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := s.ledger.Snapshot()
	s.mu.Unlock()

	lossPct, profitPct := analytics.ThresholdPercentages(state)
	writeJSON(w, http.StatusOK, StatsResponse{
		Stats:        analytics.Compute(state, s.now()),
		MaxLossPct:   lossPct,
		MaxProfitPct: profitPct,
	})
}

// GetEquity handles GET /api/v1/equity — the balance trajectory for
// charting, oldest first.
func (s *Service) GetEquity(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := s.ledger.Snapshot()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"curve": analytics.EquityCurve(state),
	})
}

// GeneratePlan handles POST /api/v1/plan.
func (s *Service) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	req, p, ok := s.buildPlan(w, r)
	if !ok {
		return
	}

	metrics.PlansGenerated.Inc()
	slog.Info("plan generated",
		"base", req.BaseAmount.String(),
		"progression", req.ProgressionType,
		"value", req.ProgressionValue.String(),
		"rounded", req.Round,
	)

	resp := PlanResponse{Plan: p}
	s.mu.Lock()
	sparse := len(s.ledger.Snapshot().Bets) < sparseHistoryThreshold
	s.mu.Unlock()
	if sparse {
		resp.Warning = "registre mais apostas para planos personalizados"
	}

	writeJSON(w, http.StatusOK, resp)
}

// ExportHistory handles GET /api/v1/export/history.
func (s *Service) ExportHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := s.ledger.Snapshot()
	s.mu.Unlock()

	if len(state.Bets) == 0 {
		writeError(w, "no history to export", http.StatusConflict)
		return
	}

	report := export.HistoryReport(state, analytics.Compute(state, s.now()))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Write([]byte(report))
}

// ExportPlan handles POST /api/v1/export/plan. Plans are deterministic, so
// the export regenerates from the same parameters rather than storing the
// last preview.
func (s *Service) ExportPlan(w http.ResponseWriter, r *http.Request) {
	_, p, ok := s.buildPlan(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(export.PlanReport(p)))
}

// --- Helpers ---

// buildPlan decodes a plan request and generates the plan, writing the
// error response itself on failure.
func (s *Service) buildPlan(w http.ResponseWriter, r *http.Request) (PlanRequest, *model.Plan, bool) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return req, nil, false
	}
	if req.ProgressionType == "" {
		req.ProgressionType = model.ProgressionFixed
	}

	p, err := plan.Generate(req.BaseAmount, req.ProgressionValue, req.ProgressionType, req.Round, s.now())
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return req, nil, false
	}
	return req, p, true
}

// reevaluate refreshes the cached alert from the current ledger state.
// Called after deletions, resets, and config changes — any path that moves
// profit without going through the bet engine.
func (s *Service) reevaluate() {
	s.alert = risk.Evaluate(s.ledger.Balance(), s.ledger.InitialBalance(), s.ledger.StopLoss())
}

func (s *Service) broadcastBalance(balance decimal.Decimal) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.Broadcast(WSMessage{Type: "balance_update", Balance: balance.String()})
	if s.alert != nil {
		s.wsHub.Broadcast(WSMessage{
			Type:      "alert",
			AlertKind: string(s.alert.Kind),
			Profit:    s.alert.Profit.String(),
		})
	}
}

// rejectionStatus maps bet engine errors to HTTP statuses: malformed input
// is 400, business rejections (insufficient funds, stop gates) are 409.
func rejectionStatus(err error) int {
	switch {
	case errors.Is(err, bet.ErrInvalidAmount),
		errors.Is(err, bet.ErrMissingBetType),
		errors.Is(err, bet.ErrInvalidResult):
		return http.StatusBadRequest
	case errors.Is(err, bet.ErrInsufficientBalance),
		errors.Is(err, risk.ErrStopLossTriggered),
		errors.Is(err, risk.ErrStopGainTriggered):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// rejectionReason labels bet rejections for metrics.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, bet.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, bet.ErrMissingBetType):
		return "missing_bet_type"
	case errors.Is(err, bet.ErrInvalidResult):
		return "invalid_result"
	case errors.Is(err, bet.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, risk.ErrStopLossTriggered):
		return "stop_loss"
	case errors.Is(err, risk.ErrStopGainTriggered):
		return "stop_gain"
	default:
		return "other"
	}
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
