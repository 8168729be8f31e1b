package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ardnew/vex/lang"
	"github.com/ardnew/vex/log"
)

// Eval evaluates expressions against the bound environment and prints one
// result per line.
type Eval struct {
	As    string   `default:"auto" enum:"auto,bool,number,string" help:"Print results converted to the given kind." short:"a"`
	Ticks int      `default:"0"                                   help:"Tick live bindings N times, evaluating again after each tick." short:"t"`
	Expr  []string `arg:""         help:"Expression(s) to evaluate; read from --source or stdin if omitted." name:"expr" optional:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	exprs, err := expressions(ctx, e.Expr)
	if err != nil {
		return err
	}

	if len(exprs) == 0 {
		return ErrNoExpressions.With(slog.String("command", "eval"))
	}

	b := bindingsFrom(ctx)

	progs, err := compileAll(ctx, b, exprs)
	if err != nil {
		return err
	}

	out := outputFrom(ctx)

	for tick := 0; ; tick++ {
		for _, p := range progs {
			v, err := p.Eval(ctx, b.Env)
			if err != nil {
				return lang.WrapError(err).With(
					slog.String("command", "eval"),
					slog.String("source", p.Source()),
					slog.Int("tick", tick))
			}

			s, err := e.convert(v)
			if err != nil {
				return lang.WrapError(err).With(
					slog.String("command", "eval"),
					slog.String("source", p.Source()),
					slog.String("as", e.As))
			}

			if _, err := fmt.Fprintln(out, s); err != nil {
				return err
			}
		}

		if tick >= e.Ticks {
			break
		}

		if err := b.Tick(ctx); err != nil {
			return err
		}
	}

	log.DebugContext(ctx, "evaluated expressions",
		slog.Int("count", len(progs)),
		slog.Int("ticks", e.Ticks))

	return nil
}

// convert renders v in the kind selected by --as. The default renders v as
// an expression literal, so strings are quoted.
func (e *Eval) convert(v lang.Variant) (string, error) {
	switch e.As {
	case "bool":
		return strconv.FormatBool(v.AsBool()), nil

	case "number":
		f, err := v.AsNumber()
		if err != nil {
			return "", err
		}

		return lang.Number(f).AsString(), nil

	case "string":
		return v.AsString(), nil

	default:
		return lang.Render(v), nil
	}
}

// compileAll compiles every expression, failing on the first error.
func compileAll(
	ctx context.Context,
	b *Bindings,
	exprs []string,
) ([]*lang.Program, error) {
	progs := make([]*lang.Program, 0, len(exprs))

	for _, src := range exprs {
		p, err := b.compile(ctx, src)
		if err != nil {
			return nil, lang.WrapError(err).With(slog.String("source", src))
		}

		progs = append(progs, p)
	}

	return progs, nil
}
