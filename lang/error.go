package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every error returned by this package is derived from one of these through
// [Error.With], [Error.Wrap] or [Error.WithPosition], and matches it with
// [errors.Is].
var (
	ErrParse            = NewError("parse error")
	ErrMaxDepthExceeded = NewError("maximum nesting depth exceeded")
	ErrUnknownFeature   = NewError("unknown feature")
	ErrInvalidArity     = NewError("invalid arity")
	ErrExpansionLimit   = NewError("expansion limit exceeded")
	ErrReadInput        = NewError("failed to read input")
	ErrInvalidNode      = NewError("invalid node")
	ErrInvalidFormat    = NewError("invalid format")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	root  *Error      // Sentinel this error was derived from (for errors.Is)
	msg   string      // Base message
	err   error       // Wrapped error (for errors.Unwrap)
	pos   Position    // Source position, if known
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.root = e

	return e
}

// WrapError wraps a standard error into an Error.
// If err already is (or wraps) an *Error, that value is returned unchanged.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message is formed from whichever fields are set, in order:
//
//	<msg> at <line>:<col> (<key>=<value>, ...): <err>
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.pos.IsValid() {
		sb.WriteString(" at ")
		sb.WriteString(e.pos.String())
	}

	if len(e.attrs) > 0 {
		sb.WriteString(" (")

		for i, a := range e.attrs {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(a.Key)
			sb.WriteByte('=')
			sb.WriteString(a.Value.String())
		}

		sb.WriteString(")")
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.root != nil && e.root == t.root
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos.IsValid() {
		attrs = append(attrs, slog.Any("position", e.pos))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	c := *e
	c.attrs = newAttrs

	return &c
}

// WithPosition returns a copy of the error located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	c := *e
	c.pos = pos

	return &c
}

// Position returns the source position of the error, if one was recorded.
func (e *Error) Position() (Position, bool) {
	return e.pos, e.pos.IsValid()
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// Snippet renders the line of source containing the error position with a
// caret marking the offending column:
//
//	  1 | n(0) m(0
//	              ^
//
// It returns an empty string if the error has no position or the position
// lies outside source.
func (e *Error) Snippet(source string) string {
	if !e.pos.IsValid() {
		return ""
	}

	lines := strings.Split(source, "\n")
	if e.pos.Line > len(lines) {
		return ""
	}

	var buf strings.Builder

	num := strconv.Itoa(e.pos.Line)

	fmt.Fprintf(&buf, "  %s | %s\n", num, lines[e.pos.Line-1])

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(num)+5)
	if e.pos.Column > 0 {
		padding += strings.Repeat(" ", e.pos.Column-1)
	}

	buf.WriteString(padding + "^\n")

	return buf.String()
}
