package lang

import (
	"context"
	"iter"
	"log/slog"
	"math"
	"math/bits"
	"strconv"
)

// alternative is one composite produced by expansion: an ordered list of
// call nodes. A framed alternative is emitted as a tuple even when it holds a
// single call.
type alternative struct {
	calls  []*Node
	framed bool
}

func (a alternative) join(b alternative) alternative {
	calls := make([]*Node, 0, len(a.calls)+len(b.calls))
	calls = append(calls, a.calls...)
	calls = append(calls, b.calls...)

	return alternative{calls: calls, framed: true}
}

func (a alternative) node() *Node {
	if len(a.calls) == 1 && !a.framed {
		return a.calls[0]
	}

	return &Node{Kind: KindTuple, Pos: a.calls[0].Pos, Children: a.calls}
}

// expandPass enumerates every item into its alternatives, in order. The
// expected output size is computed first so that a template exceeding
// cfg.maxInstances fails before anything is enumerated.
func expandPass(cfg config) func(context.Context, *AST) (*AST, error) {
	return func(ctx context.Context, ast *AST) (*AST, error) {
		total := countAST(ast)

		cfg.logger.TraceContext(ctx, "expansion estimate",
			slog.Uint64("estimated", total),
			slog.Uint64("limit", cfg.maxInstances))

		if cfg.maxInstances > 0 && total > cfg.maxInstances {
			return nil, ErrExpansionLimit.With(
				slog.Uint64("estimated", total),
				slog.Uint64("limit", cfg.maxInstances),
			)
		}

		out := &AST{Items: make([]*Node, 0, min(total, 1<<12))}

		for _, n := range ast.Items {
			alts, err := expand(n)
			if err != nil {
				return nil, err
			}

			for _, a := range alts {
				out.Items = append(out.Items, a.node())
			}
		}

		return out, nil
	}
}

// expand returns the ordered alternatives of n.
//
//   - A call is its own single alternative.
//   - A tuple is the cartesian product of its members' alternatives, the
//     earliest member varying slowest.
//   - A sequence is the concatenation of its members' alternatives.
//   - A scope joins each alternative of its base, in order, with every
//     alternative of each child, in child order.
//   - A poly is one alternative per k-combination of its names.
//
// Tuples and scopes with no alternatives return before any member is
// enumerated, so a member's size never exceeds the node's own count.
func expand(n *Node) ([]alternative, error) {
	switch n.Kind {
	case KindCall:
		return []alternative{{calls: []*Node{n}}}, nil

	case KindTuple:
		if len(n.Children) == 0 {
			return nil, ErrInvalidNode.WithPosition(n.Pos).
				With(slog.String("kind", n.Kind.String()),
					slog.String("issue", "empty tuple"))
		}

		if count(n) == 0 {
			return nil, nil
		}

		acc := []alternative{{}}

		for _, c := range n.Children {
			alts, err := expand(c)
			if err != nil {
				return nil, err
			}

			next := make([]alternative, 0, len(acc)*len(alts))

			for _, a := range acc {
				for _, b := range alts {
					next = append(next, a.join(b))
				}
			}

			acc = next
		}

		return acc, nil

	case KindSeq:
		var out []alternative

		for _, c := range n.Children {
			alts, err := expand(c)
			if err != nil {
				return nil, err
			}

			out = append(out, alts...)
		}

		return out, nil

	case KindScope:
		if count(n) == 0 {
			return nil, nil
		}

		children := make([][]alternative, len(n.Children))

		for i, c := range n.Children {
			alts, err := expand(c)
			if err != nil {
				return nil, err
			}

			children[i] = alts
		}

		bases, err := expand(n.Base)
		if err != nil {
			return nil, err
		}

		var out []alternative

		for _, b := range bases {
			for _, alts := range children {
				for _, a := range alts {
					out = append(out, b.join(a))
				}
			}
		}

		return out, nil

	case KindPoly:
		return expandPoly(n), nil

	default:
		return nil, ErrInvalidNode.WithPosition(n.Pos).
			With(slog.String("kind", n.Kind.String()))
	}
}

// expandPoly enumerates the combinations of a poly node. Non-cumulative
// combinations are always framed; cumulative ones of size 1 are bare calls.
func expandPoly(n *Node) []alternative {
	calls := make([]*Node, len(n.Names))
	for i, name := range n.Names {
		calls[i] = &Node{Kind: KindCall, Pos: n.Pos, Name: name, Args: []Literal{}}
	}

	first := n.K
	if n.Cumulative {
		first = 1
	}

	var out []alternative

	for size := first; size <= n.K; size++ {
		for idx := range Combinations(len(calls), size) {
			a := alternative{
				calls:  make([]*Node, size),
				framed: !n.Cumulative || size > 1,
			}

			for i, j := range idx {
				a.calls[i] = calls[j]
			}

			out = append(out, a)
		}
	}

	return out
}

// Combinations returns an iterator over the k-combinations of the indices
// 0..n-1 in lexicographic order. The yielded slice is reused between
// iterations; callers that retain it must copy it.
//
// Nothing is yielded unless 1 <= k <= n.
func Combinations(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k < 1 || k > n {
			return
		}

		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}

		for {
			if !yield(idx) {
				return
			}

			// Rightmost position not yet at its maximum
			i := k - 1
			for i >= 0 && idx[i] == n-k+i {
				i--
			}

			if i < 0 {
				return
			}

			idx[i]++

			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
}

// PolySize returns the number of composites produced by poly(k, ...) over n
// names, C(n, k), or by poly#(k, ...), the sum of C(n, i) for i in 1..k.
// The result saturates at [math.MaxUint64]; it is zero unless 1 <= k <= n.
func PolySize(n, k int, cumulative bool) uint64 {
	if k < 1 || k > n {
		return 0
	}

	if !cumulative {
		return binomial(n, min(k, n-k))
	}

	var (
		sum uint64
		c   uint64 = 1
	)

	for i := 1; i <= k; i++ {
		c = binomialStep(c, n, i)
		if c == math.MaxUint64 {
			return math.MaxUint64
		}

		sum = addSat(sum, c)
	}

	return sum
}

func binomial(n, k int) uint64 {
	var c uint64 = 1

	for i := 1; i <= k; i++ {
		c = binomialStep(c, n, i)
		if c == math.MaxUint64 {
			break
		}
	}

	return c
}

// binomialStep returns C(n, i) given c = C(n, i-1). The division is exact.
func binomialStep(c uint64, n, i int) uint64 {
	hi, lo := bits.Mul64(c, uint64(n-i+1))
	if hi >= uint64(i) {
		return math.MaxUint64
	}

	q, _ := bits.Div64(hi, lo, uint64(i))

	return q
}

func addSat(a, b uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}

	return s
}

func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}

	return lo
}

// Estimate returns the number of composites ast compiles to against r,
// without enumerating them. Feature names and poly arities are validated
// as by [AST.Rewrite].
func Estimate(ctx context.Context, ast *AST, r Resolver) (uint64, error) {
	if _, err := resolvePass(r)(ctx, ast); err != nil {
		return 0, err
	}

	return countAST(ast), nil
}

// countAST counts alternatives on any stage of the pipeline: indexing,
// flattening and simplification never change the count.
func countAST(ast *AST) uint64 {
	var total uint64
	for _, n := range ast.Items {
		total = addSat(total, count(n))
	}

	return total
}

func count(n *Node) uint64 {
	switch n.Kind {
	case KindCall:
		return 1

	case KindTuple:
		var c uint64 = 1
		for _, m := range n.Children {
			c = mulSat(c, count(m))
		}

		return c

	case KindSeq:
		var c uint64
		for _, m := range n.Children {
			c = addSat(c, count(m))
		}

		return c

	case KindScope:
		var c uint64
		for _, m := range n.Children {
			c = addSat(c, count(m))
		}

		return mulSat(count(n.Base), c)

	case KindPoly:
		return PolySize(len(n.Names), n.K, n.Cumulative)

	default:
		return 0
	}
}

// FormatCount renders an estimate, spelling out saturation.
func FormatCount(c uint64) string {
	if c == math.MaxUint64 {
		return ">=" + strconv.FormatUint(c, 10)
	}

	return strconv.FormatUint(c, 10)
}
