// Package handlers provides HTTP handlers for ladder optimization endpoints.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/domain"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/modules/history"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/modules/ladder"
)

// HistoryReader lists persisted optimization results.
type HistoryReader interface {
	ListRecent(limit int) ([]history.Record, error)
}

// Handler handles ladder HTTP requests
type Handler struct {
	store       *ladder.Store
	engine      *ladder.Service
	historyRepo HistoryReader
	log         zerolog.Logger
}

// NewHandler creates a new ladder handler. historyRepo may be nil.
func NewHandler(store *ladder.Store, engine *ladder.Service, historyRepo HistoryReader, log zerolog.Logger) *Handler {
	return &Handler{
		store:       store,
		engine:      engine,
		historyRepo: historyRepo,
		log:         log.With().Str("handler", "ladder").Logger(),
	}
}

// HandleGetBest handles GET /api/ladder/best.
// "No ladder" is a successful response with available=false, never an error.
func (h *Handler) HandleGetBest(w http.ResponseWriter, r *http.Request) {
	latest := h.store.Latest()
	if latest == nil {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"available": false,
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"available": latest.Ladder != nil,
		"result":    latest.Ladder,
		"metadata": map[string]interface{}{
			"currency":    latest.Currency,
			"vol_index":   latest.VolIndex,
			"computed_at": latest.ComputedAt.Format(time.RFC3339),
		},
	})
}

// HandleGetHighlights handles GET /api/ladder/highlights.
// Returns the strike|expiry keys of the current best ladder for display layers.
func (h *Handler) HandleGetHighlights(w http.ResponseWriter, r *http.Request) {
	keys := []string{}
	if latest := h.store.Latest(); latest != nil && latest.Ladder != nil {
		keys = latest.Ladder.HighlightKeys()
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"highlights": keys,
	})
}

// optimizeRequest is the payload for POST /api/ladder/optimize.
type optimizeRequest struct {
	Legs            []domain.CandidateLeg `json:"legs"`
	NumLegs         int                   `json:"num_legs"` // 0 sweeps 1..5
	AllowRepetition bool                  `json:"allow_repetition"`
	VolIndex        *float64              `json:"vol_index"`
}

// HandleOptimize handles POST /api/ladder/optimize.
// Runs the pure optimizer synchronously on caller-supplied legs.
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.NumLegs < 0 || req.NumLegs > ladder.MaxLegs {
		http.Error(w, "num_legs must be 0 (auto) or 1..5", http.StatusBadRequest)
		return
	}

	var result *domain.ScoredLadder
	if req.NumLegs == 0 {
		result = h.engine.BuildAutoLadder(req.Legs, req.VolIndex, req.AllowRepetition)
	} else {
		result = h.engine.BuildOptimalLadder(req.Legs, req.VolIndex, req.NumLegs, req.AllowRepetition)
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"available": result != nil,
		"result":    result,
	})
}

// HandleGetHistory handles GET /api/ladder/history?limit=N
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	if h.historyRepo == nil {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{"records": []history.Record{}})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 1000 {
			http.Error(w, "limit must be an integer in 1..1000", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.historyRepo.ListRecent(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list ladder history")
		http.Error(w, "Failed to list ladder history", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []history.Record{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
