// Package oautherr defines the closed set of protocol-level error kinds the
// authorization server surfaces, per RFC 6749 §5.2 and RFC 7009 §2.2.1, and
// the HTTP status each maps to. Internal causes (DB errors, cache errors)
// are carried for logging but are never exposed through Error() or the
// Description field.
package oautherr

import "fmt"

// Kind is a closed enumeration of the protocol error taxonomy. It is never
// extended at runtime; grant handlers and the token service return one of
// these constants, never an ad-hoc string.
type Kind string

// The error kinds defined by spec section 7.
const (
	InvalidRequest       Kind = "invalid_request"
	InvalidClient        Kind = "invalid_client"
	InvalidGrant         Kind = "invalid_grant"
	UnauthorizedClient   Kind = "unauthorized_client"
	UnsupportedGrantType Kind = "unsupported_grant_type"
	InvalidScope         Kind = "invalid_scope"
	AccessDenied         Kind = "access_denied"
	UnsupportedTokenType Kind = "unsupported_token_type"
	ServerError          Kind = "server_error"
)

// HTTPStatus returns the HTTP status code this kind maps to at the protocol
// boundary.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidClient:
		return 401
	case AccessDenied:
		return 302
	case ServerError:
		return 500
	case InvalidRequest, InvalidGrant, UnauthorizedClient, UnsupportedGrantType, InvalidScope, UnsupportedTokenType:
		return 400
	default:
		return 400
	}
}

// Error is the error type returned across the authorization server's
// public boundary. Description is safe to return to the client; cause is
// the underlying failure (DB error, cache error, parse error) and is only
// ever surfaced through logging, never serialization.
type Error struct {
	Kind        Kind
	Description string
	cause       error
}

// New creates an Error of the given kind with a client-safe description.
func New(kind Kind, description string) *Error {
	return &Error{Kind: kind, Description: description}
}

// Wrap creates an Error of the given kind with a client-safe description,
// attaching cause for logging and Unwrap only.
func Wrap(kind Kind, description string, cause error) *Error {
	return &Error{Kind: kind, Description: description, cause: cause}
}

// Error implements the error interface. It never includes the wrapped
// cause, so internal details cannot leak into an error_description.
func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

// Unwrap exposes the internal cause for errors.Is/errors.As chains used by
// logging and tests; it is never serialized to a client.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, oautherr.New(oautherr.InvalidGrant, "")).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}
