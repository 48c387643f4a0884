package gamegraphics

import (
	"errors"
	"fmt"
)

// Kind categorises an error by the taxonomy every layer of the library
// reports through, independent of which codec or container produced it.
type Kind int

const (
	KindProbeMismatch Kind = iota
	KindOpen
	KindIO
	KindIncompleteRead
	KindFilter
	KindFormatViolation
	KindCapabilityViolation
	KindOutOfRange
)

func (k Kind) String() string {
	switch k {
	case KindProbeMismatch:
		return "probe_mismatch"
	case KindOpen:
		return "open_error"
	case KindIO:
		return "io_error"
	case KindIncompleteRead:
		return "incomplete_read"
	case KindFilter:
		return "filter_error"
	case KindFormatViolation:
		return "format_violation"
	case KindCapabilityViolation:
		return "capability_violation"
	case KindOutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}

// Sentinels, one per Kind, for errors.Is comparisons against a bare cause.
var (
	ErrProbeMismatch       = errors.New("gamegraphics: probe mismatch")
	ErrOpen                = errors.New("gamegraphics: open error")
	ErrIO                  = errors.New("gamegraphics: io error")
	ErrIncompleteRead      = errors.New("gamegraphics: incomplete read")
	ErrFilter              = errors.New("gamegraphics: filter error")
	ErrFormatViolation     = errors.New("gamegraphics: format violation")
	ErrCapabilityViolation = errors.New("gamegraphics: capability violation")
	ErrOutOfRange          = errors.New("gamegraphics: out of range")
)

func sentinelFor(k Kind) error {
	switch k {
	case KindProbeMismatch:
		return ErrProbeMismatch
	case KindOpen:
		return ErrOpen
	case KindIO:
		return ErrIO
	case KindIncompleteRead:
		return ErrIncompleteRead
	case KindFilter:
		return ErrFilter
	case KindFormatViolation:
		return ErrFormatViolation
	case KindCapabilityViolation:
		return ErrCapabilityViolation
	case KindOutOfRange:
		return ErrOutOfRange
	default:
		return ErrIO
	}
}

// Error wraps a Kind, an optional component name (e.g. "pcx", "ccaves"),
// and an underlying cause. It supports errors.Is against both the
// wrapped Kind's sentinel and the cause, and errors.As for *Error itself.
type Error struct {
	Kind      Kind
	Component string
	Cause     error
}

// NewError constructs an *Error for component, wrapping cause (may be nil).
func NewError(kind Kind, component string, cause error) *Error {
	return &Error{Kind: kind, Component: component, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gamegraphics: %s: %s: %v", e.Component, e.Kind, e.Cause)
	}
	return fmt.Sprintf("gamegraphics: %s: %s", e.Component, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrFormatViolation) succeed against an *Error of
// the matching Kind even when Cause is a different, more specific error.
func (e *Error) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}
