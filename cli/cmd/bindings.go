package cmd

import (
	"context"
	"errors"

	"github.com/ardnew/vex/lang"
)

// Ticker advances the state behind live bindings, such as a [bind.Lua]
// script.
type Ticker interface {
	Tick(ctx context.Context) error
}

// Bindings is the environment and compile options shared by all commands.
type Bindings struct {
	Env     *lang.Env
	Options []lang.Option

	tickers []Ticker
}

// NewBindings returns Bindings over env, allocating env if nil.
func NewBindings(env *lang.Env, opts []lang.Option, tickers ...Ticker) *Bindings {
	if env == nil {
		env = lang.NewEnv()
	}

	return &Bindings{Env: env, Options: opts, tickers: tickers}
}

// Tick advances every ticker once, in order, and returns all their errors.
func (b *Bindings) Tick(ctx context.Context) error {
	var errs []error

	for _, t := range b.tickers {
		if err := t.Tick(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Tickers reports the number of tickers driven by [Bindings.Tick].
func (b *Bindings) Tickers() int { return len(b.tickers) }

type bindingsKey struct{}

// WithBindings returns a new context.Context carrying b.
func WithBindings(ctx context.Context, b *Bindings) context.Context {
	return context.WithValue(ctx, bindingsKey{}, b)
}

// bindingsFrom returns the Bindings stored by [WithBindings], or empty
// bindings if none were stored.
func bindingsFrom(ctx context.Context) *Bindings {
	if b, ok := ctx.Value(bindingsKey{}).(*Bindings); ok && b != nil {
		return b
	}

	return NewBindings(nil, nil)
}

// compile compiles src with the options of b.
func (b *Bindings) compile(ctx context.Context, src string) (*lang.Program, error) {
	return lang.CompileCached(ctx, src, b.Options...)
}
