package auth

import (
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrNoEmptyString rejects empty plaintext passwords before hashing
var ErrNoEmptyString = stderrors.New("password must not be empty")

// ErrMismatchedHashAndPassword is returned when a plaintext password does
// not verify against the stored hash
var ErrMismatchedHashAndPassword = stderrors.New("mismatched hash and password")

// ErrInvalidCredentials is the single failure both unknown-email and
// wrong-password login attempts collapse into. Keeping one message for both
// factors prevents account enumeration.
var ErrInvalidCredentials = errors.New("Invalid email or password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_CREDENTIALS")

// ErrEmailAlreadyRegistered is returned by registration when the duplicate
// probe finds an existing account for the email.
var ErrEmailAlreadyRegistered = errors.New("Email already registered", errors.CategoryConflict).
	WithTextCode("DUPLICATE_EMAIL")

// ErrTokenExpired marks tokens whose expiry timestamp is in the past.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed marks tokens that are structurally broken or carry a bad
// signature.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_MALFORMED")

// ErrAuthenticationRequired is produced by the access policy when a gated
// route is hit without an installed identity.
var ErrAuthenticationRequired = errors.New("Authentication required", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("AUTHENTICATION_REQUIRED")

// ErrInsufficientRole is produced by the access policy when the identity's
// role is not in the rule's allowed set.
var ErrInsufficientRole = errors.New("Insufficient role for resource", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode("INSUFFICIENT_ROLE")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
