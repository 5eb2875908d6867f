package api

import (
	"net/http"

	"civic-commons/townhall/internal/auth"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/logging"
	"civic-commons/townhall/internal/models/dtos/responses"
)

// TriggerWeeklyReset handles POST /api/v1/admin/jobs/weekly-reset.
// The reset is global and idempotent within the week, so any admin may trigger it.
func (h *Handlers) TriggerWeeklyReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims != nil {
			logging.Info("Weekly reset manually triggered", "user_id", claims.UserID(), "community", claims.CommunityName())
		}
		h.runWeeklyReset(w, r)
	}
}

// CronWeeklyReset handles POST /internal/cron/weekly-reset for an external scheduler.
func (h *Handlers) CronWeeklyReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.runWeeklyReset(w, r)
	}
}

func (h *Handlers) runWeeklyReset(w http.ResponseWriter, r *http.Request) {
	result, err := h.deps.Services.ResetJob.Run(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithSuccess(w, http.StatusOK, result)
}

// JobStatus handles GET /api/v1/admin/jobs/status
func (h *Handlers) JobStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		last, err := h.deps.Services.WeeklyReset.LastResetAt(r.Context())
		if err != nil {
			respondWithError(w, err)
			return
		}
		view := responses.NewJobStatusView(last)

		if q := h.deps.Services.PushQueue; q != nil {
			if n, err := q.Length(r.Context()); err == nil {
				view.PushQueueLength = &n
			} else {
				logging.Warn("Failed to read push queue length", "error", err)
			}
			if n, err := q.PendingCount(r.Context(), constants.PushConsumerGroup); err == nil {
				view.PushQueuePending = &n
			}
		}
		respondWithSuccess(w, http.StatusOK, view)
	}
}
