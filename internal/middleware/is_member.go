package middleware

import (
	"net/http"

	"civic-commons/townhall/internal/constants"
)

// IsMemberMiddleware admits community members (USER role) only.
func IsMemberMiddleware() func(http.Handler) http.Handler {
	return requireRole(constants.RoleUser, constants.MsgMemberRequired)
}
