// Package ctxerr defines the error taxonomy shared by the context bootstrap
// packages. Every failure is classified by a Kind so callers can branch with
// errors.Is against the exported sentinels, no matter how deeply the error
// was wrapped on its way up.
package ctxerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidArgument marks a nil or malformed input, e.g. a nil location list.
	KindInvalidArgument
	// KindResourceNotFound marks a resolved handle that cannot be opened.
	KindResourceNotFound
	// KindDefinitionParse marks resource content that is not a valid definition document.
	KindDefinitionParse
	// KindIllegalState marks an operation invoked in the wrong lifecycle state.
	KindIllegalState
	// KindConflict marks a registry conflict that is not a plain override.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindResourceNotFound:
		return "resource not found"
	case KindDefinitionParse:
		return "definition parse error"
	case KindIllegalState:
		return "illegal state"
	case KindConflict:
		return "definition conflict"
	default:
		return "unknown error"
	}
}

// Error is a classified error.
type Error struct {
	Kind     Kind
	Op       string
	Location string
	Err      error
}

// Sentinels for errors.Is. Matching compares the Kind only.
var (
	ErrInvalidArgument  = &Error{Kind: KindInvalidArgument}
	ErrResourceNotFound = &Error{Kind: KindResourceNotFound}
	ErrDefinitionParse  = &Error{Kind: KindDefinitionParse}
	ErrIllegalState     = &Error{Kind: KindIllegalState}
	ErrConflict         = &Error{Kind: KindConflict}
)

// New creates a classified error.
func New(kind Kind, op, location string, err error) *Error {
	return &Error{Kind: kind, Op: op, Location: location, Err: err}
}

// Errorf creates a classified error with a formatted cause.
func Errorf(kind Kind, op, location, format string, args ...any) *Error {
	return New(kind, op, location, fmt.Errorf(format, args...))
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Location != "" {
		fmt.Fprintf(&b, " %q", e.Location)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// InitError is the single failure category surfaced by a refresh. It wraps
// the first underlying cause.
type InitError struct {
	ContextID string
	Err       error
}

func (e *InitError) Error() string {
	if e.ContextID == "" {
		return fmt.Sprintf("context initialization failed: %v", e.Err)
	}
	return fmt.Sprintf("context %s initialization failed: %v", e.ContextID, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
