package api

import (
	"context"
	"net/http"

	"civic-commons/townhall/internal/auth"
	"civic-commons/townhall/internal/geo"
	"civic-commons/townhall/internal/models/dtos/requests"
	"civic-commons/townhall/internal/models/dtos/responses"
	gormModels "civic-commons/townhall/internal/models/gorm"

	"github.com/go-chi/chi/v5"
)

type adminTransition func(ctx context.Context, actor auth.UserClaims, issueID string) (*gormModels.Issue, error)

type verifyTransition func(ctx context.Context, actor auth.UserClaims, issueID string, at geo.Coordinate) (*gormModels.Issue, error)

// ReportIssue handles POST /api/v1/issues. A merged report answers 200, a new issue 201.
func (h *Handlers) ReportIssue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.ReportIssueRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, err)
			return
		}
		in, err := req.ToInput()
		if err != nil {
			respondWithError(w, err)
			return
		}

		result, err := h.deps.Services.Issues.ReportIssue(r.Context(), auth.GetUserClaims(r.Context()), in)
		if err != nil {
			respondWithError(w, err)
			return
		}
		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		respondWithSuccess(w, status, responses.NewReportView(result))
	}
}

// ListIssues handles GET /api/v1/issues?status=
func (h *Handlers) ListIssues() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		issues, err := h.deps.Services.Issues.ListIssues(r.Context(), auth.GetUserClaims(r.Context()), r.URL.Query().Get("status"))
		if err != nil {
			respondWithError(w, err)
			return
		}
		view := responses.NewIssueList(issues)
		respondWithSuccess(w, http.StatusOK, &view)
	}
}

// GetIssue handles GET /api/v1/issues/{id}
func (h *Handlers) GetIssue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := h.deps.Services.Issues.GetIssue(r.Context(), auth.GetUserClaims(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, responses.NewIssueDetailView(detail))
	}
}

// IssueAuditLog handles GET /api/v1/issues/{id}/audit
func (h *Handlers) IssueAuditLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.deps.Services.Issues.ListAuditLog(r.Context(), auth.GetUserClaims(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respondWithError(w, err)
			return
		}
		view := responses.NewAuditLogView(entries)
		respondWithSuccess(w, http.StatusOK, &view)
	}
}

func (h *Handlers) ApproveIssue() http.HandlerFunc {
	return h.adminAction(h.deps.Services.Issues.ApproveIssue)
}

func (h *Handlers) RejectIssue() http.HandlerFunc {
	return h.adminAction(h.deps.Services.Issues.RejectIssue)
}

func (h *Handlers) MarkInProgress() http.HandlerFunc {
	return h.adminAction(h.deps.Services.Issues.MarkInProgress)
}

func (h *Handlers) MarkResolved() http.HandlerFunc {
	return h.adminAction(h.deps.Services.Issues.MarkResolved)
}

func (h *Handlers) CloseIssue() http.HandlerFunc {
	return h.adminAction(h.deps.Services.Issues.CloseIssue)
}

func (h *Handlers) MarkFalseAlarm() http.HandlerFunc {
	return h.adminAction(h.deps.Services.Issues.MarkFalseAlarm)
}

// VerifyExistence handles POST /api/v1/issues/{id}/verify
func (h *Handlers) VerifyExistence() http.HandlerFunc {
	return h.verifyAction(h.deps.Services.Issues.VerifyExistence)
}

// VerifyResolution handles POST /api/v1/issues/{id}/verify-resolution
func (h *Handlers) VerifyResolution() http.HandlerFunc {
	return h.verifyAction(h.deps.Services.Issues.VerifyResolution)
}

func (h *Handlers) adminAction(transition adminTransition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		issue, err := transition(r.Context(), auth.GetUserClaims(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, responses.NewIssueView(issue))
	}
}

func (h *Handlers) verifyAction(transition verifyTransition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.LocationRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, err)
			return
		}
		at, err := req.Coordinate()
		if err != nil {
			respondWithError(w, err)
			return
		}

		issue, err := transition(r.Context(), auth.GetUserClaims(r.Context()), chi.URLParam(r, "id"), at)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, responses.NewIssueView(issue))
	}
}
