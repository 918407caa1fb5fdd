// Package apperr defines the failure kinds surfaced by the authorization core and the admin API,
// and the HTTP status each kind maps to.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	// Authentication failures (401)
	MissingToken          Kind = "MissingToken"
	InvalidOrExpiredToken Kind = "InvalidOrExpiredToken"
	NoSuchUser            Kind = "NoSuchUser"
	InvalidCredentials    Kind = "InvalidCredentials"

	// Authorization failures (403)
	NoRoleAssigned   Kind = "NoRoleAssigned"
	PermissionDenied Kind = "PermissionDenied"
	RoleMismatch     Kind = "RoleMismatch"

	// Conflicts (409)
	ReferentialConflict Kind = "ReferentialConflict"
	DuplicateKey        Kind = "DuplicateKey"

	Validation       Kind = "Validation"
	InvalidReference Kind = "InvalidReference"
	NotFound         Kind = "NotFound"
	RateLimited      Kind = "RateLimited"

	// StoreUnavailable is the only retryable class.
	StoreUnavailable Kind = "StoreUnavailable"
)

var statusByKind = map[Kind]int{
	MissingToken:          http.StatusUnauthorized,
	InvalidOrExpiredToken: http.StatusUnauthorized,
	NoSuchUser:            http.StatusUnauthorized,
	InvalidCredentials:    http.StatusUnauthorized,
	NoRoleAssigned:        http.StatusForbidden,
	PermissionDenied:      http.StatusForbidden,
	RoleMismatch:          http.StatusForbidden,
	ReferentialConflict:   http.StatusConflict,
	DuplicateKey:          http.StatusConflict,
	Validation:            http.StatusBadRequest,
	InvalidReference:      http.StatusBadRequest,
	NotFound:              http.StatusNotFound,
	RateLimited:           http.StatusTooManyRequests,
	StoreUnavailable:      http.StatusInternalServerError,
}

// Status returns the HTTP status code for a kind.
func (k Kind) Status() int {
	if code, ok := statusByKind[k]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Error is the typed failure passed from repositories and services up to the HTTP error handler.
type Error struct {
	Kind   Kind
	Detail string

	Permission string // PermissionDenied
	Expected   string // RoleMismatch
	Field      string // DuplicateKey
	Count      int64  // ReferentialConflict

	Err error // underlying cause, never rendered to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can write errors.Is(err, apperr.New(apperr.NotFound, "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func ErrMissingToken() *Error {
	return New(MissingToken, "Authorization token missing")
}

func ErrInvalidToken(cause error) *Error {
	return &Error{Kind: InvalidOrExpiredToken, Detail: "Invalid or expired token", Err: cause}
}

func ErrNoSuchUser() *Error {
	return New(NoSuchUser, "User not found")
}

func ErrInvalidCredentials() *Error {
	return New(InvalidCredentials, "Invalid credentials")
}

func ErrNoRoleAssigned() *Error {
	return New(NoRoleAssigned, "User has no role assigned")
}

func ErrPermissionDenied(permission string) *Error {
	return &Error{Kind: PermissionDenied, Detail: "Insufficient permissions", Permission: permission}
}

func ErrRoleMismatch(expected string) *Error {
	return &Error{
		Kind:     RoleMismatch,
		Detail:   fmt.Sprintf("Access denied. Only users with %s role can access this resource.", expected),
		Expected: expected,
	}
}

func ErrReferentialConflict(entity, dependent string, count int64) *Error {
	return &Error{
		Kind:   ReferentialConflict,
		Detail: fmt.Sprintf("Cannot delete %s. %d %s(s) are using this %s.", entity, count, dependent, entity),
		Count:  count,
	}
}

func ErrDuplicateKey(field string, cause error) *Error {
	return &Error{Kind: DuplicateKey, Detail: fmt.Sprintf("A record with this %s already exists", field), Field: field, Err: cause}
}

func ErrValidation(detail string) *Error {
	return New(Validation, detail)
}

func ErrInvalidReference(detail string) *Error {
	return New(InvalidReference, detail)
}

func ErrNotFound(entity string) *Error {
	return New(NotFound, entity+" not found")
}

func ErrStoreUnavailable(cause error) *Error {
	return &Error{Kind: StoreUnavailable, Detail: "Internal server error", Err: cause}
}

// KindOf extracts the kind of err, treating anything untyped as StoreUnavailable.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return StoreUnavailable
}

// As is a shorthand for errors.As into *Error.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
