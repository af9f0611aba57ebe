package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 409
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindUnsupported    ErrKind = "unsupported"    // 501
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: operator-facing text, rendered verbatim by the console pages
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Message returns the operator-facing text for err.
// Non-domain errors never leak their details.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return "Something went wrong. Try again."
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrInvalidForm(cause error) *Error {
	return Wrap(KindValidation, "invalid_form", "The form could not be read. Try again.", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "missing required field"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

func ErrInvalidEmail() *Error {
	return WithMeta(New(KindValidation, "invalid_email", "Enter a valid email address."), map[string]string{
		"field": "email",
	})
}

func ErrPasswordMismatch() *Error {
	return New(KindValidation, "password_mismatch", "Access codes do not match.")
}

func ErrWeakPassword(min int) *Error {
	return WithMeta(
		New(KindValidation, "weak_password", fmt.Sprintf("Access code must be at least %d characters.", min)),
		map[string]string{"min": fmt.Sprint(min)},
	)
}

// ----------------------
// Auth errors (401)
// ----------------------

// IMPORTANT: use this for sign-in failures to avoid operator enumeration.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "Invalid credentials. Access denied.")
}

func ErrUnauthenticated() *Error {
	return New(KindAuth, "unauthenticated", "Sign in to continue.")
}

func ErrSessionInvalid() *Error {
	return New(KindAuth, "session_invalid", "Your session is no longer valid. Sign in again.")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "invalid token")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "token is expired")
}

// ----------------------
// Forbidden (403)
// ----------------------

func ErrAccountLocked() *Error {
	return New(KindForbidden, "account_locked", "This operator account is locked.")
}

func ErrEmailNotVerified() *Error {
	return New(KindForbidden, "email_not_verified", "Email not confirmed. Check your inbox for the verification link.")
}

func ErrOriginRejected() *Error {
	return New(KindForbidden, "csrf_rejected", "Cross-origin request not allowed.")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrOperatorNotFound() *Error {
	return New(KindNotFound, "operator_not_found", "operator not found")
}

func ErrVerifyTokenNotFound() *Error {
	return New(KindNotFound, "verify_token_not_found", "This verification link is invalid or has expired.")
}

func ErrClientSessionNotFound() *Error {
	return New(KindNotFound, "client_session_not_found", "client session not found")
}

// ----------------------
// Conflict (409)
// ----------------------

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "An operator with this email is already registered.")
}

// ----------------------
// Rate limit (429)
// ----------------------

func ErrRateLimited(scope string) *Error {
	return WithMeta(New(KindRateLimited, "rate_limited", "Too many attempts. Wait a moment and try again."), map[string]string{
		"scope": scope,
	})
}

// ----------------------
// Unsupported (501)
// ----------------------

func ErrNotSupported(op string) *Error {
	return WithMeta(New(KindUnsupported, "not_supported", "This action is managed by the identity provider."), map[string]string{
		"operation": op,
	})
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrProviderUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "provider_unavailable", "Identity provider unavailable. Try again later.", cause)
}

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrRedisUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "redis_unavailable", "cache unavailable", cause)
}

func ErrRabbitUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "rabbit_unavailable", "message broker unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrRandomFailed(cause error) *Error {
	return Wrap(KindInternal, "random_failed", "random generation failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
