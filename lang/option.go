package lang

import (
	"github.com/ardnew/ftmpl/log"
)

// DefaultMaxDepth is the default maximum nesting depth of template
// expressions.
const DefaultMaxDepth = 100

// DefaultMaxInstances is the default bound on the number of composite
// instances a single template may expand to.
const DefaultMaxInstances = 1 << 20

// config holds parsing and compilation options.
type config struct {
	maxDepth     int
	maxInstances uint64
	cache        bool
	logger       log.Logger // zero value: logging disabled
}

// Option configures parsing or compilation behavior.
type Option func(*config)

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
// Zero or a negative depth disables the check.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// WithMaxInstances bounds the number of composite instances a template may
// expand to. Expansion fails with [ErrExpansionLimit] before enumerating
// anything when the bound would be exceeded. Zero disables the check.
func WithMaxInstances(n uint64) Option {
	return func(c *config) {
		c.maxInstances = n
	}
}

// WithCache controls whether parsed ASTs are shared through the
// process-wide parse cache.
func WithCache(enable bool) Option {
	return func(c *config) {
		c.cache = enable
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func makeConfig(opts ...Option) config {
	c := config{
		maxDepth:     DefaultMaxDepth,
		maxInstances: DefaultMaxInstances,
		cache:        true,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}
