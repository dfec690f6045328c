package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/ftmpl/extract"
	"github.com/ardnew/ftmpl/lang"
)

// Extract compiles a template and evaluates it over a token sequence with
// the registry's expressions.
type Extract struct {
	Template string `arg:"" help:"Template text." name:"template"`

	Input  string `help:"Token sequence file (YAML or JSON list of mappings), or '-' for stdin." required:"" short:"I"`
	Format string `default:"native" enum:"native,json,yaml" help:"Output format." short:"o"`
}

// Run executes the extract command.
func (x *Extract) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := envFrom(ctx)
	t := Template{Name: "arg0", Text: x.Template}

	p, err := lang.Compile(ctx, t.Text, env.Registry, env.Options...)
	if err != nil {
		return templateError(t, err)
	}

	ev, err := extract.NewExprEvaluator(env.Registry)
	if err != nil {
		return err
	}

	seq, err := x.readInput(ctx, env)
	if err != nil {
		return err
	}

	extractor := extract.Extractor{Program: p, Evaluator: ev, Logger: env.Logger}

	keys, err := extractor.ExtractAll(ctx, seq)
	if err != nil {
		return err
	}

	out, err := formatKeys(ctx, keys, x.Format)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if _, err := fmt.Fprint(env.Stdout, out); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (x *Extract) readInput(ctx context.Context, env Env) ([]extract.Token, error) {
	if x.Input == stdinSource {
		return extract.LoadInput(ctx, env.Stdin)
	}

	f, err := os.Open(x.Input)
	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err).With(slog.String("file", x.Input))
	}
	defer f.Close()

	seq, err := extract.LoadInput(ctx, f)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("file", x.Input))
	}

	return seq, nil
}

// formatKeys renders the keys of every position. Native output is one line
// per position: the position, a colon, and its keys separated by spaces.
func formatKeys(ctx context.Context, keys [][]extract.Key, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(keys, "", "  ")
		if err != nil {
			return "", err
		}

		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.MarshalContext(ctx, keys)
		if err != nil {
			return "", err
		}

		return string(data), nil

	default:
		var b strings.Builder

		for pos, ks := range keys {
			b.WriteString(strconv.Itoa(pos))
			b.WriteByte(':')

			for _, k := range ks {
				b.WriteByte(' ')
				b.WriteString(string(k))
			}

			b.WriteByte('\n')
		}

		return b.String(), nil
	}
}
