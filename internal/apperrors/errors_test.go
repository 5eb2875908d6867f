package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := Forbidden(CodeSelfVerification, "You cannot verify an issue you raised")

	if !errors.Is(err, ErrForbidden) {
		t.Error("Expected forbidden error to match ErrForbidden")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("Expected forbidden error not to match ErrNotFound")
	}
}

func TestKindOf_ThroughWrapping(t *testing.T) {
	base := RateLimited("slow down")
	wrapped := fmt.Errorf("report issue: %w", base)

	if KindOf(wrapped) != KindRateLimited {
		t.Errorf("Expected RATE_LIMITED, got %s", KindOf(wrapped))
	}
	if CodeOf(wrapped) != string(KindRateLimited) {
		t.Errorf("Expected default code to equal kind, got %s", CodeOf(wrapped))
	}
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	err := errors.New("connection refused")

	if KindOf(err) != KindInternal {
		t.Errorf("Expected INTERNAL, got %s", KindOf(err))
	}
	if MessageOf(err) != "Internal server error" {
		t.Errorf("Expected generic message, got %q", MessageOf(err))
	}
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := Internal("failed to load issue", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected Internal to unwrap to its cause")
	}
	if MessageOf(err) != "Internal server error" {
		t.Errorf("Expected cause to stay hidden, got %q", MessageOf(err))
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Kind]int{
		KindUnauthenticated:   http.StatusUnauthorized,
		KindForbidden:         http.StatusForbidden,
		KindNotFound:          http.StatusNotFound,
		KindInvalidTransition: http.StatusBadRequest,
		KindOutOfRadius:       http.StatusForbidden,
		KindAlreadyVerified:   http.StatusConflict,
		KindRateLimited:       http.StatusTooManyRequests,
		KindValidation:        http.StatusBadRequest,
		KindConflict:          http.StatusConflict,
		KindInternal:          http.StatusInternalServerError,
	}

	for kind, want := range tests {
		if got := HTTPStatus(kind); got != want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", kind, got, want)
		}
	}
}
