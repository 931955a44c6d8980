package auth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Token validation failures, in order of detection.
	ErrTokenMissing = errors.New("auth: token missing")
	ErrTokenInvalid = errors.New("auth: token invalid")
	ErrTokenExpired = errors.New("auth: token expired")

	// Identity resolution failures. A token can verify perfectly well and
	// still name an account that was deleted or deactivated after issuance.
	ErrUnknownAccount     = errors.New("auth: unknown account")
	ErrAccountDeactivated = errors.New("auth: account deactivated")

	// Lifecycle operation failures.
	ErrSelfAction   = errors.New("auth: self-action denied")
	ErrNotFound     = errors.New("auth: account not found")
	ErrConflict     = errors.New("auth: conflict")
	ErrInvalidInput = errors.New("auth: invalid input")

	// ErrEmailRegistered is returned by IdentityProvider implementations
	// when the invited address already has an identity.
	ErrEmailRegistered = errors.New("auth: email already registered")
)

// RoleDeniedError reports an authorization denial with enough context for a
// caller-facing message: the route's required roles and the caller's actual
// role.
type RoleDeniedError struct {
	Required []Role
	Actual   Role
}

func (e *RoleDeniedError) Error() string {
	names := make([]string, len(e.Required))
	for i, r := range e.Required {
		names[i] = string(r)
	}
	return fmt.Sprintf("access denied: required role %s, actual role %s",
		strings.Join(names, " or "), e.Actual)
}
