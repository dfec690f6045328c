package registry

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/ftmpl/lang"
)

// Definition describes one registered feature.
type Definition struct {
	Name string `json:"name" yaml:"name"`

	// Indexed features take a single index argument; see
	// [lang.CapabilityIndexed].
	Indexed bool `json:"indexed,omitempty" yaml:"indexed,omitempty"`

	// MaxArgs bounds the arguments of a single call to a plain feature.
	// Zero means unbounded.
	MaxArgs int `json:"max-args,omitempty" yaml:"max-args,omitempty"`

	// Expr is an expr-lang expression computing the feature's value.
	Expr string `json:"expr,omitempty" yaml:"expr,omitempty"`

	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// Feature returns the [lang.Feature] the compiler resolves d to.
func (d Definition) Feature() lang.Feature {
	f := lang.Feature{Name: d.Name, MaxArgs: d.MaxArgs}
	if d.Indexed {
		f.Capability = lang.CapabilityIndexed
	}

	return f
}

// Validate reports whether d can be registered.
func (d Definition) Validate() error {
	switch {
	case !lang.IsIdentifier(d.Name):
		return ErrInvalidDefinition.With(
			slog.String("name", d.Name),
			slog.String("reason", "name is not an identifier"),
		)

	case d.MaxArgs < 0:
		return ErrInvalidDefinition.With(
			slog.String("name", d.Name),
			slog.Int("max_args", d.MaxArgs),
			slog.String("reason", "max-args is negative"),
		)

	case d.Indexed && d.MaxArgs != 0:
		return ErrInvalidDefinition.With(
			slog.String("name", d.Name),
			slog.String("reason", "max-args does not apply to indexed features"),
		)
	}

	return nil
}

// Params names the arguments of a call to d. A leading "..." marks a
// parameter that may repeat.
func (d Definition) Params() []string {
	switch {
	case d.Indexed:
		return []string{"...index"}

	case d.MaxArgs == 0:
		return []string{"...args"}

	case d.MaxArgs == 1:
		return []string{"arg"}

	default:
		params := make([]string, d.MaxArgs)
		for i := range params {
			params[i] = "arg" + strconv.Itoa(i+1)
		}

		return params
	}
}

// Signature renders how d is called, such as n(arg) or p(...index).
func (d Definition) Signature() string {
	return d.Name + "(" + strings.Join(d.Params(), ", ") + ")"
}
