package api

import (
	"net/http"

	"civic-commons/townhall/internal/auth"
	"civic-commons/townhall/internal/models/dtos/requests"
	"civic-commons/townhall/internal/models/dtos/responses"

	"github.com/go-chi/chi/v5"
)

// Register handles POST /api/v1/auth/register
func (h *Handlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.RegisterUserRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, err)
			return
		}

		result, err := h.deps.Services.Users.Register(r.Context(), req.ToInput())
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, responses.NewAuthView(result))
	}
}

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, err)
			return
		}

		result, err := h.deps.Services.Users.Login(r.Context(), req.Email, req.Password, req.CommunityName)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, responses.NewAuthView(result))
	}
}

// Me handles GET /api/v1/users/me
func (h *Handlers) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.deps.Services.Users.Me(r.Context(), auth.GetUserClaims(r.Context()))
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, responses.NewUserView(user))
	}
}

// UpdateLocation handles POST /api/v1/users/location
func (h *Handlers) UpdateLocation() http.HandlerFunc {
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

		user, err := h.deps.Services.Users.UpdateLocation(r.Context(), auth.GetUserClaims(r.Context()), at)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, responses.NewUserView(user))
	}
}

// ListNotifications handles GET /api/v1/notifications
func (h *Handlers) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.deps.Services.Users.ListNotifications(r.Context(), auth.GetUserClaims(r.Context()))
		if err != nil {
			respondWithError(w, err)
			return
		}
		view := responses.NewNotificationList(list)
		respondWithSuccess(w, http.StatusOK, &view)
	}
}

// MarkNotificationRead handles POST /api/v1/notifications/{id}/read
func (h *Handlers) MarkNotificationRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.deps.Services.Users.MarkNotificationRead(r.Context(), auth.GetUserClaims(r.Context()), id); err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &map[string]bool{"read": true})
	}
}
