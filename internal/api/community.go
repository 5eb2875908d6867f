package api

import (
	"net/http"

	"civic-commons/townhall/internal/auth"
)

// Leaderboard handles GET /api/v1/leaderboard
func (h *Handlers) Leaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := h.deps.Services.Leaderboard.GetLeaderboard(r.Context(), auth.GetUserClaims(r.Context()))
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, board)
	}
}

// CommunityStats handles GET /api/v1/community/stats
func (h *Handlers) CommunityStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.deps.Services.Stats.GetStats(r.Context(), auth.GetUserClaims(r.Context()))
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, stats)
	}
}
