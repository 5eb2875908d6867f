package middleware

import (
	"net/http"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/auth"
	"civic-commons/townhall/internal/constants"
)

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return requireRole(constants.RoleAdmin, constants.MsgAdminRequired)
}

func requireRole(role constants.Role, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				writeError(w, apperrors.Unauthenticated(constants.MsgUnauthenticated))
				return
			}
			if claims.Role() != string(role) {
				writeError(w, apperrors.Forbidden(apperrors.CodeWrongRole, message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
