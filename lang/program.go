package lang

import (
	"context"
	"iter"
	"log/slog"
	"slices"
	"strings"

	"github.com/zeebo/xxh3"
)

// Call is one invocation of a registered feature with literal arguments.
type Call struct {
	Name string
	Args []Literal
}

// String renders the call as name(arg, ...).
func (c Call) String() string {
	var sb strings.Builder

	c.format(&sb)

	return sb.String()
}

func (c Call) format(sb *strings.Builder) {
	sb.WriteString(c.Name)
	sb.WriteByte('(')

	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(a.Text)
	}

	sb.WriteByte(')')
}

// Equal reports whether two calls have the same name and arguments.
func (c Call) Equal(other Call) bool {
	return c.Name == other.Name && slices.Equal(c.Args, other.Args)
}

// Composite is an ordered AND-combination of calls evaluated jointly as one
// feature. A composite of a single call renders as that call unless it is
// framed (see [NewTuple]).
type Composite struct {
	calls  []Call
	framed bool
}

// NewComposite returns a composite of the given calls.
func NewComposite(calls ...Call) Composite {
	return Composite{calls: slices.Clone(calls)}
}

// NewTuple returns a framed composite of the given calls: it renders as
// tuple(...) even when it holds a single call. Composites produced by
// non-cumulative poly are framed.
func NewTuple(calls ...Call) Composite {
	return Composite{calls: slices.Clone(calls), framed: true}
}

// Calls returns a copy of the composite's calls.
func (c Composite) Calls() []Call { return slices.Clone(c.calls) }

// Len returns the number of calls.
func (c Composite) Len() int { return len(c.calls) }

// At returns the i'th call.
func (c Composite) At(i int) Call { return c.calls[i] }

// All returns an iterator over the calls in order.
func (c Composite) All() iter.Seq[Call] { return slices.Values(c.calls) }

// Framed reports whether the composite renders as a tuple regardless of size.
func (c Composite) Framed() bool { return c.framed }

// String renders the composite as a bare call or tuple(call, ...).
func (c Composite) String() string {
	var sb strings.Builder

	c.format(&sb)

	return sb.String()
}

func (c Composite) format(sb *strings.Builder) {
	if len(c.calls) == 1 && !c.framed {
		c.calls[0].format(sb)

		return
	}

	sb.WriteString(keywordTuple + "(")

	for i, call := range c.calls {
		if i > 0 {
			sb.WriteString(", ")
		}

		call.format(sb)
	}

	sb.WriteByte(')')
}

// Equal reports whether two composites render identically.
func (c Composite) Equal(other Composite) bool {
	if len(c.calls) != len(other.calls) ||
		c.framed != other.framed && len(c.calls) == 1 {
		return false
	}

	return slices.EqualFunc(c.calls, other.calls, Call.Equal)
}

// Program is the compiled form of a template: an ordered sequence of
// composites. A Program is never modified after [Assemble] returns it.
type Program struct {
	Instances []Composite
}

// Len returns the number of composites.
func (p Program) Len() int { return len(p.Instances) }

// All returns an iterator over the composites in order.
func (p Program) All() iter.Seq2[int, Composite] { return slices.All(p.Instances) }

// String renders the composites space-separated.
func (p Program) String() string {
	var sb strings.Builder

	for i, c := range p.Instances {
		if i > 0 {
			sb.WriteByte(' ')
		}

		c.format(&sb)
	}

	return sb.String()
}

// Strings renders each composite separately.
func (p Program) Strings() []string {
	s := make([]string, len(p.Instances))
	for i, c := range p.Instances {
		s[i] = c.String()
	}

	return s
}

// Equal reports whether two programs hold equal composites in the same order.
func (p Program) Equal(other Program) bool {
	return slices.EqualFunc(p.Instances, other.Instances, Composite.Equal)
}

// Hash returns a fingerprint of the program's rendering. Equal programs have
// equal hashes.
func (p Program) Hash() uint64 {
	h := xxh3.New()

	for _, c := range p.Instances {
		_, _ = h.WriteString(c.String())
		_, _ = h.Write([]byte{'\n'})
	}

	return h.Sum64()
}

// Assemble converts a fully rewritten AST into a [Program]. Every item must
// be a call or a tuple of calls, as produced by [AST.Rewrite].
func Assemble(ast *AST) (Program, error) {
	p := Program{Instances: make([]Composite, 0, len(ast.Items))}

	for _, n := range ast.Items {
		switch n.Kind {
		case KindCall:
			p.Instances = append(p.Instances, Composite{
				calls: []Call{n.call()},
			})

		case KindTuple:
			c := Composite{calls: make([]Call, len(n.Children)), framed: true}

			for i, m := range n.Children {
				if m.Kind != KindCall {
					return Program{}, unexpanded(m)
				}

				c.calls[i] = m.call()
			}

			if len(c.calls) == 0 {
				return Program{}, unexpanded(n)
			}

			p.Instances = append(p.Instances, c)

		default:
			return Program{}, unexpanded(n)
		}
	}

	return p, nil
}

func (n *Node) call() Call {
	return Call{Name: n.Name, Args: slices.Clone(n.Args)}
}

func unexpanded(n *Node) error {
	return ErrInvalidNode.WithPosition(n.Pos).With(
		slog.String("kind", n.Kind.String()),
		slog.String("issue", "node not expanded"),
	)
}

// Compile parses text, rewrites it against r, and assembles the result.
// No partial Program is returned on error.
func Compile(
	ctx context.Context,
	text string,
	r Resolver,
	opts ...Option,
) (Program, error) {
	cfg := makeConfig(opts...)

	ast, err := ParseString(ctx, text, opts...)
	if err != nil {
		return Program{}, err
	}

	ast, err = ast.Rewrite(ctx, r, opts...)
	if err != nil {
		return Program{}, err
	}

	p, err := Assemble(ast)
	if err != nil {
		return Program{}, err
	}

	cfg.logger.TraceContext(ctx, "compile complete",
		slog.Int("instances", p.Len()),
		slog.Uint64("hash", p.Hash()))

	return p, nil
}
