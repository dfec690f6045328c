package extract

import (
	"context"
	"log/slog"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/ftmpl/lang"
	"github.com/ardnew/ftmpl/registry"
)

// ErrEvaluate is returned when a call cannot be evaluated.
var ErrEvaluate = lang.NewError("evaluation failed")

// Evaluator computes the value of one call at one input position.
// A nil value means the feature does not fire there.
type Evaluator interface {
	Evaluate(ctx context.Context, call lang.Call, in Input) (any, error)
}

// EvaluatorFunc adapts an ordinary function to an [Evaluator].
type EvaluatorFunc func(ctx context.Context, call lang.Call, in Input) (any, error)

// Evaluate calls f(ctx, call, in).
func (f EvaluatorFunc) Evaluate(
	ctx context.Context,
	call lang.Call,
	in Input,
) (any, error) {
	return f(ctx, call, in)
}

// ExprEvaluator evaluates calls with the expressions of a registry.
//
// Expressions see the following environment:
//
//	seq   the token sequence
//	i     the current position
//	args  the call's argument values
//	arg   the first argument value, or nil
//	at(k) the token at relative offset k, or nil
type ExprEvaluator struct {
	programs map[string]*vm.Program
}

// exemplar returns the environment used to type-check expressions.
func exemplar() map[string]any {
	return map[string]any{
		"seq":  []Token(nil),
		"i":    0,
		"args": []any(nil),
		"arg":  any(nil),
		"at":   func(any) any { return nil },
	}
}

// NewExprEvaluator compiles the expression of every definition in t.
// Definitions without an expression cannot be evaluated.
func NewExprEvaluator(t *registry.Table) (*ExprEvaluator, error) {
	e := &ExprEvaluator{programs: make(map[string]*vm.Program, t.Len())}

	for d := range t.All() {
		if d.Expr == "" {
			continue
		}

		program, err := expr.Compile(d.Expr, expr.Env(exemplar()))
		if err != nil {
			return nil, ErrEvaluate.Wrap(err).With(
				slog.String("feature", d.Name),
				slog.String("source", d.Expr),
			)
		}

		e.programs[d.Name] = program
	}

	return e, nil
}

// Evaluate implements [Evaluator].
func (e *ExprEvaluator) Evaluate(
	ctx context.Context,
	call lang.Call,
	in Input,
) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	program, ok := e.programs[call.Name]
	if !ok {
		return nil, ErrEvaluate.With(
			slog.String("feature", call.Name),
			slog.String("reason", "no expression"),
		)
	}

	args := make([]any, len(call.Args))
	for i, a := range call.Args {
		args[i] = a.Value()
	}

	env := exemplar()
	env["seq"] = in.Seq
	env["i"] = in.Pos
	env["args"] = args
	env["at"] = func(offset any) any {
		k, ok := toOffset(offset)
		if !ok {
			return nil
		}

		if tok := in.At(k); tok != nil {
			return tok
		}

		return nil
	}

	if len(args) > 0 {
		env["arg"] = args[0]
	}

	v, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).With(
			slog.String("call", call.String()),
			slog.Int("pos", in.Pos),
		)
	}

	return v, nil
}

// toOffset converts a numeric expression value to a sequence offset.
func toOffset(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true

	case int64:
		return int(n), true

	case uint64:
		if n > math.MaxInt {
			return 0, false
		}

		return int(n), true

	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}

		return int(n), true

	default:
		return 0, false
	}
}
