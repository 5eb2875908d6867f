package middleware

import (
	"net/http"
	"strings"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/auth"
	"civic-commons/townhall/internal/constants"
)

// AuthMiddleware requires a valid bearer token and puts its claims on the request context.
func AuthMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				writeError(w, apperrors.Unauthenticated(constants.MsgUnauthenticated))
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				writeError(w, apperrors.Unauthenticated(constants.MsgInvalidToken))
				return
			}

			if info := requestInfoFrom(r.Context()); info != nil {
				info.userID = claims.UserID()
				info.community = claims.CommunityName()
			}
			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
