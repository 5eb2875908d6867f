package auth

import (
	"context"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/constants"
)

// RequireClaims returns the request's actor or an UNAUTHENTICATED error.
func RequireClaims(ctx context.Context) (UserClaims, error) {
	claims := GetUserClaims(ctx)
	if claims == nil || claims.UserID() == "" {
		return nil, apperrors.Unauthenticated(constants.MsgUnauthenticated)
	}
	return claims, nil
}
