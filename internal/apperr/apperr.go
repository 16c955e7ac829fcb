// Package apperr defines the closed set of failure kinds the API distinguishes.
// Every error that reaches the HTTP boundary is either an *Error or is treated
// as KindInternal.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The response funnel switches on it exhaustively.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthenticated
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Reason refines KindUnauthenticated so the boundary can tell a bad token from
// an expired one without reading messages.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonMissingToken
	ReasonInvalidToken
	ReasonExpiredToken
	ReasonUnknownUser
	ReasonBadCredentials
)

// Error is a classified failure.
type Error struct {
	Kind       Kind
	Reason     Reason
	Message    string
	Entity     string
	Field      string
	Violations []string
	// Status, when non-zero, is used verbatim as the HTTP status.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports one or more rule violations. All violations are kept.
func Validation(message string, violations ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Violations: violations}
}

// InvalidArgument is a validation failure for a single bad argument.
func InvalidArgument(message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Violations: []string{message}}
}

// NotFound reports an absent entity. entity is the user-facing entity name.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Message: entity + " no encontrado"}
}

// Conflict reports a unique-field violation.
func Conflict(entity, field string, err error) *Error {
	return &Error{
		Kind:    KindConflict,
		Entity:  entity,
		Field:   field,
		Message: fmt.Sprintf("%s con ese %s ya existe", entity, field),
		Err:     err,
	}
}

// Unauthenticated reports a missing or rejected credential.
func Unauthenticated(reason Reason, message string, err error) *Error {
	return &Error{Kind: KindUnauthenticated, Reason: reason, Message: message, Err: err}
}

// Internal wraps an unexpected failure with the operation that produced it.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: "Error " + op, Err: err}
}

// WithStatus builds a failure whose HTTP status is fixed by the caller.
func WithStatus(status int, message string, err error) *Error {
	return &Error{Kind: KindInternal, Status: status, Message: message, Err: err}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
