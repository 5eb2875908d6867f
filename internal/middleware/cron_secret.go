package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/constants"
)

// CronSecretMiddleware guards scheduler-only endpoints with a shared secret, sent either
// as a bearer token or in X-Cron-Secret. An empty secret disables the endpoints.
func CronSecretMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get("X-Cron-Secret")
			if given == "" {
				given, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			}
			if secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
				writeError(w, apperrors.Unauthenticated(constants.MsgUnauthenticated))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
