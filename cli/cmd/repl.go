package cmd

import (
	"context"

	"github.com/ardnew/ftmpl/cli/cmd/repl"
)

// Repl starts an interactive template session.
type Repl struct {
	NoHistory bool `help:"Do not read or write the history file."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	env := envFrom(ctx)

	cfg := repl.Config{
		Registry: env.Registry,
		Options:  env.Options,
		Logger:   env.Logger,
	}

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cfg.CacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, cfg)
}
