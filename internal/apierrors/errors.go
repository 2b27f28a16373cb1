// Package apierrors defines the error kinds shared by the external-facing
// components. Upstream failures are classified at the client boundary so
// services can route them into the right fallback path.
package apierrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure from an external dependency or inbound request.
type Kind int

const (
	// KindNotFound means the requested handle or resource does not exist.
	KindNotFound Kind = iota
	// KindRateLimited means the upstream reported throttling.
	KindRateLimited
	// KindUpstream covers any other non-success upstream response.
	KindUpstream
	// KindTimeout means the call exceeded its deadline.
	KindTimeout
	// KindValidation means the inbound request was malformed.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstream:
		return "upstream_error"
	case KindTimeout:
		return "timeout"
	case KindValidation:
		return "validation_error"
	}
	return "unknown"
}

// Error carries a kind alongside the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap creates an error of the given kind wrapping a cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindUpstream if err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}

// IsRateLimited reports whether err is an upstream throttling failure.
func IsRateLimited(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindRateLimited
}

// IsValidation reports whether err is a malformed-request failure.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindValidation
}
