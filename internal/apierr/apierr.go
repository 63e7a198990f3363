// Package apierr defines the typed error taxonomy shared across the
// service: every failure that can reach the HTTP layer is classified into
// one of a small set of Kinds, each mapped to an HTTP status code.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for the purposes of HTTP status mapping and
// envelope error reporting.
type Kind int

const (
	// Internal is the zero value on purpose: an unclassified error from
	// code that forgot to wrap it is treated as a bug, not masked as
	// something more specific.
	Internal Kind = iota
	NotFound
	OutOfGrid
	UpstreamUnavailable
	Timeout
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case OutOfGrid:
		return "OutOfGrid"
	case UpstreamUnavailable:
		return "UpstreamUnavailable"
	case Timeout:
		return "Timeout"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// StatusCode returns the HTTP status this Kind maps to.
func (k Kind) StatusCode() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case Timeout:
		return http.StatusGatewayTimeout
	case UpstreamUnavailable:
		return http.StatusBadGateway
	case OutOfGrid:
		// OutOfGrid never reaches the HTTP layer as an error response; it
		// is folded into a successful envelope's forecast.error field.
		// Map it to Internal's status as a defensive fallback only.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed, wrappable error carrying a Kind and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given kind with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error of the given kind around an existing cause. If err
// is nil, Wrap returns nil so it composes with the common
// `if err != nil { return apierr.Wrap(...) }` idiom.
func Wrap(kind Kind, message string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: err}
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error,
// otherwise reports Internal — any error that wasn't deliberately
// classified is treated as a bug.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is supports errors.Is(err, apierr.NotFound) style comparisons against a
// bare Kind by checking the Kind of the nearest *Error in err's chain.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
