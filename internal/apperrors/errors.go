package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the coarse failure category a caller reports to the end user.
type Kind string

const (
	KindUnauthenticated   Kind = "UNAUTHENTICATED"
	KindForbidden         Kind = "FORBIDDEN"
	KindNotFound          Kind = "NOT_FOUND"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindOutOfRadius       Kind = "OUT_OF_RADIUS"
	KindAlreadyVerified   Kind = "ALREADY_VERIFIED"
	KindRateLimited       Kind = "RATE_LIMITED"
	KindValidation        Kind = "VALIDATION"
	KindConflict          Kind = "CONFLICT"
	KindInternal          Kind = "INTERNAL"
)

// Finer grained codes. Several of them share KindForbidden.
const (
	CodeWrongRole           = "WRONG_ROLE"
	CodeWrongCommunity      = "WRONG_COMMUNITY"
	CodeSelfVerification    = "SELF_VERIFICATION"
	CodeNotAssignedVerifier = "NOT_ASSIGNED_VERIFIER"
	CodeNotNearestVerifier  = "NOT_NEAREST_VERIFIER"
	CodeNotOwner            = "NOT_OWNER"
)

type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is matches any DomainError of the same kind, so errors.Is(err, ErrForbidden) works
// regardless of code or message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is.
var (
	ErrUnauthenticated   = &DomainError{Kind: KindUnauthenticated}
	ErrForbidden         = &DomainError{Kind: KindForbidden}
	ErrNotFound          = &DomainError{Kind: KindNotFound}
	ErrInvalidTransition = &DomainError{Kind: KindInvalidTransition}
	ErrOutOfRadius       = &DomainError{Kind: KindOutOfRadius}
	ErrAlreadyVerified   = &DomainError{Kind: KindAlreadyVerified}
	ErrRateLimited       = &DomainError{Kind: KindRateLimited}
	ErrValidation        = &DomainError{Kind: KindValidation}
	ErrConflict          = &DomainError{Kind: KindConflict}
	ErrInternal          = &DomainError{Kind: KindInternal}
)

func newError(kind Kind, code, message string) *DomainError {
	if code == "" {
		code = string(kind)
	}
	return &DomainError{Kind: kind, Code: code, Message: message}
}

func Unauthenticated(message string) *DomainError {
	return newError(KindUnauthenticated, "", message)
}

func Forbidden(code, message string) *DomainError {
	return newError(KindForbidden, code, message)
}

func NotFound(message string) *DomainError {
	return newError(KindNotFound, "", message)
}

func InvalidTransition(message string) *DomainError {
	return newError(KindInvalidTransition, "", message)
}

func OutOfRadius(message string) *DomainError {
	return newError(KindOutOfRadius, "", message)
}

func AlreadyVerified(message string) *DomainError {
	return newError(KindAlreadyVerified, "", message)
}

func RateLimited(message string) *DomainError {
	return newError(KindRateLimited, "", message)
}

func Validation(message string) *DomainError {
	return newError(KindValidation, "", message)
}

func Conflict(message string) *DomainError {
	return newError(KindConflict, "", message)
}

// Internal wraps a storage or infrastructure failure.
func Internal(message string, err error) *DomainError {
	e := newError(KindInternal, "", message)
	e.Err = err
	return e
}

// KindOf returns the kind of the first DomainError in the chain, or KindInternal.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// CodeOf returns the code of the first DomainError in the chain.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return string(KindInternal)
}

// MessageOf returns the user facing message. Internal failures never leak their cause.
func MessageOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) && de.Kind != KindInternal {
		return de.Message
	}
	return "Internal server error"
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden, KindOutOfRadius:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidTransition, KindValidation:
		return http.StatusBadRequest
	case KindAlreadyVerified, KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
