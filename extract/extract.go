package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/ftmpl/lang"
	"github.com/ardnew/ftmpl/log"
)

// Key identifies one composite that fired at a position, together with
// the values of its calls.
type Key string

// Extractor evaluates every composite of a program.
type Extractor struct {
	Program   lang.Program
	Evaluator Evaluator
	Logger    log.Logger
}

// Extract returns the keys of the composites that fire at in.Pos, in
// program order.
func (x Extractor) Extract(ctx context.Context, in Input) ([]Key, error) {
	keys := make([]Key, 0, x.Program.Len())
	values := make([]any, 0, 4)

	for i, c := range x.Program.All() {
		values = values[:0]

		for call := range c.All() {
			v, err := x.Evaluator.Evaluate(ctx, call, in)
			if err != nil {
				return nil, lang.WrapError(err).With(slog.Int("instance", i))
			}

			if v == nil {
				break
			}

			values = append(values, v)
		}

		if len(values) < c.Len() {
			continue
		}

		keys = append(keys, makeKey(c, values))
	}

	x.Logger.TraceContext(ctx, "extracted",
		slog.Int("pos", in.Pos),
		slog.Int("keys", len(keys)),
		slog.Int("instances", x.Program.Len()),
	)

	return keys, nil
}

// ExtractAll returns the keys of every position of seq.
func (x Extractor) ExtractAll(ctx context.Context, seq []Token) ([][]Key, error) {
	out := make([][]Key, len(seq))

	for pos := range seq {
		keys, err := x.Extract(ctx, Input{Seq: seq, Pos: pos})
		if err != nil {
			return nil, err
		}

		out[pos] = keys
	}

	return out, nil
}

func makeKey(c lang.Composite, values []any) Key {
	var sb strings.Builder

	wrap := c.Len() != 1 || c.Framed()
	if wrap {
		sb.WriteString("tuple(")
	}

	for i := range c.Len() {
		if i > 0 {
			sb.WriteString(", ")
		}

		fmt.Fprintf(&sb, "%s=%v", c.At(i), values[i])
	}

	if wrap {
		sb.WriteByte(')')
	}

	return Key(sb.String())
}
