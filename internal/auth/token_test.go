package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/constants"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	tok, exp, err := svc.Issue("user-1", constants.RoleAdmin, "elm")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry should be in the future, got %v", exp)
	}

	claims, err := svc.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID() != "user-1" || claims.Role() != "ADMIN" || claims.CommunityName() != "elm" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.RoleValue != constants.RoleAdmin {
		t.Fatalf("expected typed admin role, got %q", claims.RoleValue)
	}
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	tok, _, _ := svc.Issue("user-1", constants.RoleUser, "elm")

	if _, err := NewTokenService("other", time.Hour).Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: expected ErrInvalidToken, got %v", err)
	}

	expired := NewTokenService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := expired.Issue("user-1", constants.RoleUser, "elm")
	if _, err := svc.Parse(old); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired: expected ErrInvalidToken, got %v", err)
	}

	if _, err := svc.Parse("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage: expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_EmptySecret(t *testing.T) {
	empty := NewTokenService("", time.Hour)

	if _, _, err := empty.Issue("user-1", constants.RoleAdmin, "elm"); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("Issue: expected ErrMissingSecret, got %v", err)
	}

	tok, _, err := NewTokenService("secret", time.Hour).Issue("user-1", constants.RoleAdmin, "elm")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := empty.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Parse: expected ErrInvalidToken, got %v", err)
	}
}

func TestRequireClaims(t *testing.T) {
	if _, err := RequireClaims(context.Background()); apperrors.KindOf(err) != apperrors.KindUnauthenticated {
		t.Fatalf("expected UNAUTHENTICATED, got %v", err)
	}

	ctx := SetUserClaims(context.Background(), &JWTClaims{UserUUID: "u", RoleValue: constants.RoleUser})
	claims, err := RequireClaims(ctx)
	if err != nil || claims.UserID() != "u" {
		t.Fatalf("RequireClaims = %v, %v", claims, err)
	}
}
