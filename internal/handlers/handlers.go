// Package handlers exposes the dashboard HTTP API.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/XavierBriggs/splashtrack/internal/reconcile"
	"github.com/XavierBriggs/splashtrack/internal/staking"
	"github.com/XavierBriggs/splashtrack/internal/store"
	"github.com/XavierBriggs/splashtrack/pkg/models"
)

// ScoreProvider is the slice of the score feed the handlers need
type ScoreProvider interface {
	Snapshot(ctx context.Context) (models.ScoreboardSnapshot, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	store           store.SignalStore
	scores          ScoreProvider
	defaultBankroll float64
	kellyFraction   float64
	now             func() time.Time
}

// NewHandler creates a new handler. A nil clock uses wall time.
func NewHandler(st store.SignalStore, scores ScoreProvider, defaultBankroll, kellyFraction float64, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		store:           st,
		scores:          scores,
		defaultBankroll: defaultBankroll,
		kellyFraction:   kellyFraction,
		now:             now,
	}
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "splashtrack",
	})
}

// GetLiveScores proxies the current scoreboard snapshot. When the upstream
// is down and nothing is cached it returns an empty payload with a 502 so
// the dashboard can show a connection-lost banner instead of breaking.
func (h *Handler) GetLiveScores(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.scores.Snapshot(r.Context())
	if err != nil {
		respondJSON(w, http.StatusBadGateway, models.ScoreboardSnapshot{
			Games:     []models.LiveGame{},
			Timestamp: h.now().UTC().Format(time.RFC3339),
		})
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// TodayResponse is the reconciled view of today's signals against the live
// scoreboard
type TodayResponse struct {
	Games            []models.GameWithSignals `json:"games"`
	UnmatchedSignals []models.EnrichedSignal  `json:"unmatched_signals"`
	Timestamp        string                   `json:"timestamp"`
}

// GetTodaySignals reconciles today's persisted signals with the live
// scoreboard. An optional ?date=YYYY-MM-DD overrides "today".
func (h *Handler) GetTodaySignals(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid date: %s", date))
		return
	}

	signals, err := h.store.SignalsForDate(r.Context(), date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("loading signals: %v", err))
		return
	}

	// A dead feed is not fatal here: reconcile against an empty scoreboard
	// and every signal comes back scheduled.
	snapshot, err := h.scores.Snapshot(r.Context())
	if err != nil {
		snapshot = models.ScoreboardSnapshot{Timestamp: h.now().UTC().Format(time.RFC3339)}
	}

	result := reconcile.Reconcile(signals, snapshot.Games)

	// Off-day and pre-tip players have no live feed entry, so their team
	// comes from roster history instead. Lookup failures just leave the
	// team unset.
	for i := range result.UnmatchedSignals {
		u := &result.UnmatchedSignals[i]
		if u.Team != nil && *u.Team != "" {
			continue
		}
		team, err := h.store.TeamForPlayer(r.Context(), u.PlayerName, date)
		if err != nil || team == "" {
			continue
		}
		u.Team = &team
	}

	respondJSON(w, http.StatusOK, TodayResponse{
		Games:            result.GamesWithSignals,
		UnmatchedSignals: result.UnmatchedSignals,
		Timestamp:        snapshot.Timestamp,
	})
}

// GetPerformance returns aggregate win/loss/PnL stats
func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.PerformanceStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("loading performance: %v", err))
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetDailyPnL returns per-day settled aggregates with cumulative profit
func (h *Handler) GetDailyPnL(w http.ResponseWriter, r *http.Request) {
	daily, err := h.store.DailyStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("loading daily pnl: %v", err))
		return
	}
	if daily == nil {
		daily = []models.DailyStats{}
	}
	respondJSON(w, http.StatusOK, daily)
}

// GetRecentResults returns the latest settled trades, newest first.
// ?limit defaults to 20, capped at 200.
func (h *Handler) GetRecentResults(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit: %s", raw))
			return
		}
		limit = parsed
	}
	if limit > 200 {
		limit = 200
	}

	results, err := h.store.RecentResults(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("loading results: %v", err))
		return
	}
	if results == nil {
		results = []models.Signal{}
	}
	respondJSON(w, http.StatusOK, results)
}

// SizingRequest sizes one day's signals against a bankroll
type SizingRequest struct {
	Date          string   `json:"date,omitempty"`
	Bankroll      *float64 `json:"bankroll,omitempty"`
	KellyFraction float64  `json:"kelly_fraction,omitempty"`
}

// CalculateSizing loads the signals for a day and allocates dollar stakes.
// Omitted bankroll and kelly_fraction fall back to the configured defaults.
func (h *Handler) CalculateSizing(w http.ResponseWriter, r *http.Request) {
	var req SizingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	if req.Date == "" {
		req.Date = h.now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid date: %s", req.Date))
		return
	}
	if req.Bankroll == nil {
		bankroll := h.defaultBankroll
		req.Bankroll = &bankroll
	}
	if req.KellyFraction == 0 {
		req.KellyFraction = h.kellyFraction
	}
	if !staking.ValidKellyFraction(req.KellyFraction) {
		respondError(w, http.StatusBadRequest, "kelly_fraction must be 1, 0.5, or 0.25")
		return
	}

	signals, err := h.store.SignalsForDate(r.Context(), req.Date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("loading signals: %v", err))
		return
	}

	result := staking.SizeBets(signals, req.Bankroll, req.KellyFraction)
	respondJSON(w, http.StatusOK, result)
}

// SimulateRequest replays all settled trades against a starting bankroll
type SimulateRequest struct {
	StartingBankroll float64 `json:"starting_bankroll,omitempty"`
	KellyFraction    float64 `json:"kelly_fraction,omitempty"`
}

// SimulateResponse carries the bankroll series and its end state
type SimulateResponse struct {
	Points        []staking.BankrollPoint `json:"points"`
	FinalBankroll float64                 `json:"final_bankroll"`
}

// SimulateBankroll runs the bankroll simulation over every settled trade
func (h *Handler) SimulateBankroll(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	if req.StartingBankroll == 0 {
		req.StartingBankroll = h.defaultBankroll
	}
	if req.StartingBankroll <= 0 {
		respondError(w, http.StatusBadRequest, "starting_bankroll must be positive")
		return
	}
	if req.KellyFraction == 0 {
		req.KellyFraction = h.kellyFraction
	}
	if !staking.ValidKellyFraction(req.KellyFraction) {
		respondError(w, http.StatusBadRequest, "kelly_fraction must be 1, 0.5, or 0.25")
		return
	}

	trades, err := h.store.SettledSignals(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("loading settled trades: %v", err))
		return
	}

	points, final := staking.Simulate(trades, req.StartingBankroll, req.KellyFraction)
	respondJSON(w, http.StatusOK, SimulateResponse{Points: points, FinalBankroll: final})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
