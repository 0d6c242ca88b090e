package offheap

import (
	"fmt"
	"strings"
)

// Kind categorizes an Error.
type Kind string

const (
	KindOutOfBounds  Kind = "out_of_bounds" // index or range outside [0, size)
	KindUnsupported  Kind = "unsupported"   // operation not allowed on this handle, e.g. freeing a view
	KindFreed        Kind = "freed"         // use of a handle whose owner was freed
	KindIllegalState Kind = "illegal_state" // misuse of an iterator or tracker
	KindAllocation   Kind = "allocation"    // the memory provider failed
)

// Sentinels for errors.Is. Matching is by Kind only.
var (
	ErrOutOfBounds  = &Error{Kind: KindOutOfBounds}
	ErrUnsupported  = &Error{Kind: KindUnsupported}
	ErrFreed        = &Error{Kind: KindFreed}
	ErrIllegalState = &Error{Kind: KindIllegalState}
	ErrAllocation   = &Error{Kind: KindAllocation}
)

// Error is the structured error returned, or panicked with, by array
// operations.
type Error struct {
	Cause  error
	Op     string // operation, e.g. "get", "slice"
	Kind   Kind
	Elem   string // element type name
	Detail string

	// Index is set for single-element operations; From and Len for range
	// operations. Size is the length of the array the operation targeted.
	Index int
	From  int
	Len   int
	Size  int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("offheap: ")
	if e.Op != "" {
		b.WriteByte('[')
		b.WriteString(e.Op)
		if e.Elem != "" {
			b.WriteByte(' ')
			b.WriteString(e.Elem)
		}
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func indexError(op, elem string, index, size int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindOutOfBounds,
		Elem:   elem,
		Index:  index,
		Size:   size,
		Detail: fmt.Sprintf("index %d, size %d", index, size),
	}
}

func rangeError(op, elem string, from, n, size int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindOutOfBounds,
		Elem:   elem,
		From:   from,
		Len:    n,
		Size:   size,
		Detail: fmt.Sprintf("%s(%d, %d), size %d", op, from, n, size),
	}
}

func freedError(op, elem string) *Error {
	return &Error{Op: op, Kind: KindFreed, Elem: elem, Detail: "owner already freed"}
}
