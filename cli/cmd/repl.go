package cmd

import (
	"context"

	"github.com/ardnew/vex/cli/cmd/repl"
	"github.com/ardnew/vex/log"
)

// Repl evaluates expressions interactively against the bound environment.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	b := bindingsFrom(ctx)

	return repl.Run(ctx, repl.Session{
		Env:     b.Env,
		Options: b.Options,
		Tick:    b.Tick,
	}, cacheDir, log.Default())
}
