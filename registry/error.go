package registry

import "github.com/ardnew/ftmpl/lang"

// Predefined errors (sentinel values).
var (
	ErrDuplicate         = lang.NewError("duplicate feature")
	ErrInvalidDefinition = lang.NewError("invalid feature definition")
	ErrInvalidRegistry   = lang.NewError("invalid registry")
)
