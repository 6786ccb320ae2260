// Package service implements the booking core: slot generation,
// availability resolution, the allocation engine and the booking
// lifecycle.  Each operation runs against the repository layer inside
// an explicit unit of work and returns errors classified by Kind so the
// web layer can map them onto transport responses without inspecting
// repository internals.
package service

import (
	"errors"
	"fmt"
)

// Kind is the stable error category of a failed operation.
type Kind int

const (
	// KindInternal is an unexpected persistence failure.  The unit of
	// work has been rolled back; no partial state persists.
	KindInternal Kind = iota
	// KindNotFound covers absent resources and resources not owned by
	// the caller.  The two are deliberately indistinguishable.
	KindNotFound
	// KindConflict covers exclusivity violations: table already
	// allocated, slot already exists, slot outside operating hours.
	KindConflict
	// KindValidation covers malformed input: bad clock strings, bad
	// dates, guest counts out of range.
	KindValidation
)

// String returns the category label used when surfacing errors.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Error is a classified operation failure.  Reason is a human-readable
// message safe to show to callers; the wrapped cause, when present, is
// for logs only.
type Error struct {
	Kind   Kind
	Reason string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Unwrap exposes the cause for errors.Is checks against repository
// sentinels.
func (e *Error) Unwrap() error { return e.cause }

// KindOf classifies any error returned by this package.  Errors that
// did not originate here are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func notFound(reason string, cause error) *Error {
	return &Error{Kind: KindNotFound, Reason: reason, cause: cause}
}

func conflict(reason string, cause error) *Error {
	return &Error{Kind: KindConflict, Reason: reason, cause: cause}
}

func invalid(reason string) *Error {
	return &Error{Kind: KindValidation, Reason: reason}
}

func internal(reason string, cause error) *Error {
	return &Error{Kind: KindInternal, Reason: reason, cause: cause}
}
