package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/vex/lang"
)

// Fmt compiles expressions and prints them in the chosen format.
type Fmt struct {
	Canonical Canonical `cmd:"" default:"withargs" help:"Format as canonical source text (default)."`
	Tree      Tree      `cmd:""                    help:"Format as an indented expression tree."`
	JSON      JSON      `cmd:""                    help:"Format as JSON."`
	YAML      YAML      `cmd:""                    help:"Format as YAML."`
}

// formatEach compiles every expression available to ctx and passes each
// program to write.
func formatEach(
	ctx context.Context,
	format string,
	args []string,
	write func(io.Writer, *lang.Program) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	exprs, err := expressions(ctx, args)
	if err != nil {
		return err
	}

	if len(exprs) == 0 {
		return ErrNoExpressions.With(slog.String("command", "fmt"))
	}

	progs, err := compileAll(ctx, bindingsFrom(ctx), exprs)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", format))
	}

	out := outputFrom(ctx)

	for _, p := range progs {
		if err := write(out, p); err != nil {
			return err
		}
	}

	return nil
}

// Canonical formats expressions as canonical source text.
type Canonical struct {
	Expr []string `arg:"" help:"Expression(s) to format; read from --source or stdin if omitted." name:"expr" optional:""`
}

// Run executes the canonical command.
func (c *Canonical) Run(ctx context.Context) error {
	return formatEach(ctx, "canonical", c.Expr,
		func(w io.Writer, p *lang.Program) error {
			_, err := fmt.Fprintln(w, p)

			return err
		})
}

// Tree formats expressions as an indented outline of their nodes.
type Tree struct {
	Expr []string `arg:"" help:"Expression(s) to format; read from --source or stdin if omitted." name:"expr" optional:""`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) error {
	return formatEach(ctx, "tree", t.Expr,
		func(w io.Writer, p *lang.Program) error { return p.Dump(w) })
}

// JSON formats expressions as JSON tree descriptions.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Expr []string `arg:"" help:"Expression(s) to format; read from --source or stdin if omitted." name:"expr" optional:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return formatEach(ctx, "json", j.Expr,
		func(w io.Writer, p *lang.Program) error {
			return p.FormatJSON(ctx, w, j.Indent)
		})
}

// YAML formats expressions as YAML tree descriptions, one document each.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Expr []string `arg:"" help:"Expression(s) to format; read from --source or stdin if omitted." name:"expr" optional:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	first := true

	return formatEach(ctx, "yaml", y.Expr,
		func(w io.Writer, p *lang.Program) error {
			if !first {
				if _, err := io.WriteString(w, "---\n"); err != nil {
					return err
				}
			}

			first = false

			if err := p.FormatYAML(ctx, w, y.Indent); err != nil {
				return ErrYAMLMarshal.Wrap(err)
			}

			return nil
		})
}
