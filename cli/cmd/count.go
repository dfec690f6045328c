package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/ftmpl/lang"
)

// Count prints how many composites each template compiles to, without
// enumerating them.
type Count struct {
	Template []string `arg:"" help:"Template text(s)." name:"template" optional:""`

	File []string `help:"Template file(s), or '-' for stdin." short:"f"`
}

// Run executes the count command.
func (c *Count) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := envFrom(ctx)

	templates, err := readTemplates(env.Stdin, c.Template, c.File)
	if err != nil {
		return err
	}

	for _, t := range templates {
		ast, err := lang.ParseString(ctx, t.Text, env.Options...)
		if err != nil {
			return templateError(t, err)
		}

		n, err := lang.Estimate(ctx, ast, env.Registry)
		if err != nil {
			return templateError(t, err)
		}

		if _, err := fmt.Fprintln(env.Stdout, lang.FormatCount(n)); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
