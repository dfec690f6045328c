package lang

// Capability describes how a feature accepts arguments.
type Capability int

const (
	// CapabilityPlain features take their argument list as given.
	CapabilityPlain Capability = iota

	// CapabilityIndexed features take a single index argument. A call with
	// several arguments is shorthand for a tuple of single-argument calls:
	// p(0, 1) is p(0), p(1).
	CapabilityIndexed
)

// String returns a string representation of the capability.
func (c Capability) String() string {
	switch c {
	case CapabilityPlain:
		return "plain"

	case CapabilityIndexed:
		return "indexed"

	default:
		return "unknown"
	}
}

// Feature describes a registered elementary feature.
type Feature struct {
	Name       string
	Capability Capability

	// MaxArgs bounds the number of arguments of a single call.
	// Zero means unbounded.
	MaxArgs int
}

// Resolver looks up features by name.
type Resolver interface {
	Resolve(name string) (Feature, bool)
}

// ResolverFunc adapts an ordinary function to a [Resolver].
type ResolverFunc func(name string) (Feature, bool)

// Resolve calls f(name).
func (f ResolverFunc) Resolve(name string) (Feature, bool) { return f(name) }

// Suggester is optionally implemented by a [Resolver] to propose known names
// close to an unknown one. Suggestions are attached to [ErrUnknownFeature].
type Suggester interface {
	Suggest(name string) []string
}

// Features returns a [Resolver] over a fixed set of features.
func Features(fs ...Feature) Resolver {
	m := make(map[string]Feature, len(fs))
	for _, f := range fs {
		m[f.Name] = f
	}

	return ResolverFunc(func(name string) (Feature, bool) {
		f, ok := m[name]

		return f, ok
	})
}
