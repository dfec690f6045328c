package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/ardnew/ftmpl/lang"
)

// AST prints the syntax tree of a template.
type AST struct {
	Template string `arg:"" help:"Template text." name:"template"`

	Rewritten bool   `help:"Print the tree after all rewriting passes."`
	Pass      string `enum:",resolve,index,flatten,simplify,expand" help:"Stop after the named rewriting pass." default:""`
	Tree      bool   `help:"Print an indented tree instead of template syntax."                           short:"t"`
}

// passesThrough returns the rewriting pipeline up to and including name.
// An empty name selects no passes.
func passesThrough(all []lang.Pass, name string) []lang.Pass {
	i := slices.IndexFunc(all, func(p lang.Pass) bool { return p.Name == name })
	if i < 0 {
		return nil
	}

	return all[:i+1]
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := envFrom(ctx)
	t := Template{Name: "arg0", Text: a.Template}

	ast, err := lang.ParseString(ctx, t.Text, env.Options...)
	if err != nil {
		return templateError(t, err)
	}

	passes := lang.Passes(env.Registry, env.Options...)
	if !a.Rewritten {
		passes = passesThrough(passes, a.Pass)
	}

	ast, err = ast.Apply(ctx, passes, env.Options...)
	if err != nil {
		return templateError(t, err)
	}

	if a.Tree {
		ast.Print(ctx, env.Stdout)

		return nil
	}

	if _, err := fmt.Fprintln(env.Stdout, ast.String()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
