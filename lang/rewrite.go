package lang

import (
	"context"
	"log/slog"
	"time"
)

// Pass is one named stage of the rewriting pipeline.
// Run must not mutate its input; unchanged subtrees may be shared.
type Pass struct {
	Name string
	Run  func(ctx context.Context, ast *AST) (*AST, error)
}

// Pass names, in pipeline order.
const (
	PassResolve  = "resolve"
	PassIndex    = "index"
	PassFlatten  = "flatten"
	PassSimplify = "simplify"
	PassExpand   = "expand"
)

// Passes returns the rewriting pipeline for features resolved through r:
//
//  1. resolve: every feature name must exist, poly arity must be in range.
//  2. index: p(1, 2) of an indexed feature p becomes tuple(p(1), p(2)).
//  3. flatten: nested tuples are spliced into their parent.
//  4. simplify: a tuple holding a single member becomes that member.
//  5. expand: scopes, sequences and polys are enumerated into a flat list of
//     calls and tuples of calls.
func Passes(r Resolver, opts ...Option) []Pass {
	cfg := makeConfig(opts...)

	return []Pass{
		{Name: PassResolve, Run: resolvePass(r)},
		{Name: PassIndex, Run: indexPass(r)},
		{Name: PassFlatten, Run: flattenPass},
		{Name: PassSimplify, Run: simplifyPass},
		{Name: PassExpand, Run: expandPass(cfg)},
	}
}

// Rewrite runs the full pipeline returned by [Passes] and returns the final
// AST, whose items are each a call or a flat tuple of calls.
func (ast *AST) Rewrite(
	ctx context.Context,
	r Resolver,
	opts ...Option,
) (*AST, error) {
	return ast.Apply(ctx, Passes(r, opts...), opts...)
}

// Apply runs passes in order, feeding each the output of the previous one.
// The first failing pass aborts the chain.
func (ast *AST) Apply(
	ctx context.Context,
	passes []Pass,
	opts ...Option,
) (*AST, error) {
	cfg := makeConfig(opts...)
	out := ast

	for _, p := range passes {
		start := time.Now()

		next, err := p.Run(ctx, out)
		if err != nil {
			cfg.logger.TraceContext(ctx, "pass failed",
				slog.String("pass", p.Name),
				slog.Any("error", err))

			return nil, err
		}

		cfg.logger.TraceContext(ctx, "pass complete",
			slog.String("pass", p.Name),
			slog.Int("items", len(next.Items)),
			slog.Duration("elapsed", time.Since(start)))

		out = next
	}

	return out, nil
}

// resolvePass validates every call and poly against r. The AST is returned
// unchanged.
func resolvePass(r Resolver) func(context.Context, *AST) (*AST, error) {
	return func(_ context.Context, ast *AST) (*AST, error) {
		for n := range ast.All() {
			switch n.Kind {
			case KindCall:
				f, err := resolve(r, n.Name, n.Pos)
				if err != nil {
					return nil, err
				}

				if f.Capability == CapabilityPlain &&
					f.MaxArgs > 0 && len(n.Args) > f.MaxArgs {
					return nil, ErrInvalidArity.WithPosition(n.Pos).With(
						slog.String("name", n.Name),
						slog.Int("args", len(n.Args)),
						slog.Int("max_args", f.MaxArgs),
					)
				}

			case KindPoly:
				for _, name := range n.Names {
					if _, err := resolve(r, name, n.Pos); err != nil {
						return nil, err
					}
				}

				if n.K < 1 || n.K > len(n.Names) {
					return nil, ErrInvalidArity.WithPosition(n.Pos).With(
						slog.String("operator", polyKeyword(n)),
						slog.Int("k", n.K),
						slog.Int("names", len(n.Names)),
					)
				}
			}
		}

		return ast, nil
	}
}

func resolve(r Resolver, name string, pos Position) (Feature, error) {
	f, ok := r.Resolve(name)
	if ok {
		return f, nil
	}

	err := ErrUnknownFeature.WithPosition(pos).With(slog.String("name", name))

	if s, ok := r.(Suggester); ok {
		if alt := s.Suggest(name); len(alt) > 0 {
			err = err.With(slog.Any("did_you_mean", alt))
		}
	}

	return Feature{}, err
}

func polyKeyword(n *Node) string {
	if n.Cumulative {
		return keywordPoly + "#"
	}

	return keywordPoly
}

// indexPass replaces each multi-argument call of an indexed feature with a
// tuple of single-argument calls, in argument order.
func indexPass(r Resolver) func(context.Context, *AST) (*AST, error) {
	return func(_ context.Context, ast *AST) (*AST, error) {
		return ast.transform(func(n *Node) (*Node, error) {
			if n.Kind != KindCall || len(n.Args) < 2 {
				return n, nil
			}

			f, ok := r.Resolve(n.Name)
			if !ok {
				return nil, ErrUnknownFeature.WithPosition(n.Pos).
					With(slog.String("name", n.Name))
			}

			if f.Capability != CapabilityIndexed {
				return n, nil
			}

			t := &Node{
				Kind:     KindTuple,
				Pos:      n.Pos,
				Children: make([]*Node, len(n.Args)),
			}

			for i, a := range n.Args {
				t.Children[i] = &Node{
					Kind: KindCall,
					Pos:  n.Pos,
					Name: n.Name,
					Args: []Literal{a},
				}
			}

			return t, nil
		})
	}
}

// flattenPass splices every tuple nested in a tuple into its parent.
// Children are rewritten first, so a single splice level suffices.
func flattenPass(_ context.Context, ast *AST) (*AST, error) {
	return ast.transform(func(n *Node) (*Node, error) {
		if n.Kind != KindTuple {
			return n, nil
		}

		nested := false

		for _, c := range n.Children {
			if c.Kind == KindTuple {
				nested = true

				break
			}
		}

		if !nested {
			return n, nil
		}

		flat := make([]*Node, 0, len(n.Children))

		for _, c := range n.Children {
			if c.Kind == KindTuple {
				flat = append(flat, c.Children...)
			} else {
				flat = append(flat, c)
			}
		}

		t := *n
		t.Children = flat

		return &t, nil
	})
}

// simplifyPass replaces every single-member tuple with its member.
func simplifyPass(_ context.Context, ast *AST) (*AST, error) {
	return ast.transform(func(n *Node) (*Node, error) {
		if n.Kind == KindTuple && len(n.Children) == 1 {
			return n.Children[0], nil
		}

		return n, nil
	})
}

// transform rebuilds the AST bottom-up, applying fn to each node after its
// base and children. Subtrees fn leaves untouched are shared with the input;
// fn itself must return a new node rather than modify its argument.
func (ast *AST) transform(fn func(*Node) (*Node, error)) (*AST, error) {
	items, _, err := mapNodes(ast.Items, func(n *Node) (*Node, error) {
		return n.transform(fn)
	})
	if err != nil {
		return nil, err
	}

	return &AST{Items: items}, nil
}

func (n *Node) transform(fn func(*Node) (*Node, error)) (*Node, error) {
	if n == nil {
		return nil, nil
	}

	base, err := n.Base.transform(fn)
	if err != nil {
		return nil, err
	}

	children, changed, err := mapNodes(n.Children, func(c *Node) (*Node, error) {
		return c.transform(fn)
	})
	if err != nil {
		return nil, err
	}

	out := n

	if changed || base != n.Base {
		c := *n
		c.Base = base
		c.Children = children
		out = &c
	}

	return fn(out)
}

// mapNodes applies fn to each element. It returns the original slice and
// false if fn returned every element unchanged.
func mapNodes(
	nodes []*Node,
	fn func(*Node) (*Node, error),
) ([]*Node, bool, error) {
	var out []*Node

	for i, n := range nodes {
		m, err := fn(n)
		if err != nil {
			return nil, false, err
		}

		if m != n && out == nil {
			out = make([]*Node, len(nodes))
			copy(out[:i], nodes[:i])
		}

		if out != nil {
			out[i] = m
		}
	}

	if out == nil {
		return nodes, false, nil
	}

	return out, true, nil
}
