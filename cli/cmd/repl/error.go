package repl

import "github.com/ardnew/ftmpl/lang"

// Sentinel errors.
var (
	ErrOutOfBounds    = lang.NewError("index out of range")
	ErrUnknownCommand = lang.NewError("unknown command")
	ErrMissingArg     = lang.NewError("missing argument")
)
