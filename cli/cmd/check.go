package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/vex/lang"
)

// Check compiles expressions without evaluating them and reports syntax
// errors and identifiers the environment does not bind.
type Check struct {
	Strict bool     `help:"Fail when an expression references an unbound identifier." negatable:""`
	Expr   []string `arg:""                                                             help:"Expression(s) to check; read from --source or stdin if omitted." name:"expr" optional:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	exprs, err := expressions(ctx, c.Expr)
	if err != nil {
		return err
	}

	if len(exprs) == 0 {
		return ErrNoExpressions.With(slog.String("command", "check"))
	}

	var (
		b       = bindingsFrom(ctx)
		out     = outputFrom(ctx)
		failed  error
		unbound []string
	)

	for _, src := range exprs {
		p, err := b.compile(ctx, src)
		if err != nil {
			report(out, src, err)

			if failed == nil {
				failed = lang.WrapError(err).With(slog.String("source", src))
			}

			continue
		}

		names := p.Unbound(b.Env)
		if len(names) == 0 {
			fmt.Fprintf(out, "ok\t%s\n", p)

			continue
		}

		fmt.Fprintf(out, "unbound\t%s\t%s\n", p, strings.Join(names, ", "))

		unbound = append(unbound, names...)
	}

	if failed != nil {
		return failed
	}

	if c.Strict && len(unbound) > 0 {
		return ErrUnboundNames.With(slog.Any("names", unbound))
	}

	return nil
}

// report writes a compile error for src, with an excerpt marking the error
// position when known.
func report(w io.Writer, src string, err error) {
	fmt.Fprintf(w, "error\t%s\t%v\n", src, err)

	var le *lang.Error
	if errors.As(err, &le) {
		io.WriteString(w, le.Excerpt(src))
	}
}
