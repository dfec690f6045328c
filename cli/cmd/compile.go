package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/ftmpl/lang"
)

// Compile compiles templates and prints the resulting programs.
type Compile struct {
	Template []string `arg:"" help:"Template text(s)." name:"template" optional:""`

	File   []string `help:"Template file(s), or '-' for stdin."                     short:"f"`
	Format string   `default:"native" enum:"native,json,yaml" help:"Output format." short:"o"`
	Indent int      `default:"0" help:"Indent width; native output puts one composite per line." short:"i"`
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := envFrom(ctx)

	format, err := lang.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	templates, err := readTemplates(env.Stdin, c.Template, c.File)
	if err != nil {
		return err
	}

	for _, t := range templates {
		p, err := lang.Compile(ctx, t.Text, env.Registry, env.Options...)
		if err != nil {
			return templateError(t, err)
		}

		env.Logger.DebugContext(ctx, "compiled",
			slog.String("template", t.Name),
			slog.Int("instances", p.Len()),
		)

		if err := lang.FormatProgram(ctx, env.Stdout, p, format, c.Indent); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
