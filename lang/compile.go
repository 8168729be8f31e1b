package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"

	"github.com/ardnew/vex/log"
)

// DefaultMaxDepth is the default limit on nested groups, unary operators and
// calls. Users may modify this before compiling to change the default.
var DefaultMaxDepth = 64

// optionsKey holds the options that affect the compiled tree.
// This type is gob-encodable for cache key hashing.
type optionsKey struct {
	MaxDepth int
	Fold     bool
}

// Program is a compiled expression. It is immutable and safe for concurrent
// evaluation.
type Program struct {
	source string
	root   Expr
	opts   optionsKey
	logger log.Logger // not part of optionsKey, doesn't affect cache
}

// Option configures compilation and evaluation of a [Program].
type Option func(*Program)

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
// A depth <= 0 disables the limit.
func WithMaxDepth(depth int) Option {
	return func(p *Program) {
		p.opts.MaxDepth = depth
	}
}

// WithFold enables constant folding of subtrees that reference no names.
func WithFold(fold bool) Option {
	return func(p *Program) {
		p.opts.Fold = fold
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(p *Program) {
		p.logger = logger
	}
}

func newProgram(source string, opts ...Option) *Program {
	p := &Program{
		source: source,
		opts:   optionsKey{MaxDepth: DefaultMaxDepth},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Compile parses src into a [Program]. Names are not resolved until the
// program is evaluated.
func Compile(ctx context.Context, src string, opts ...Option) (*Program, error) {
	p := newProgram(src, opts...)

	p.logger.TraceContext(ctx, "compile start",
		slog.Int("source_length", len(src)),
		slog.Int("max_depth", p.opts.MaxDepth),
	)

	root, nodes, err := parse(src, p.opts.MaxDepth)
	if err != nil {
		p.logger.TraceContext(ctx, "compile failed", slog.Any("error", err))

		return nil, err
	}

	if p.opts.Fold {
		root = fold(root)
	}

	p.root = root

	p.logger.TraceContext(ctx, "compile complete",
		slog.Int("nodes", nodes),
		slog.Bool("folded", p.opts.Fold),
	)

	return p, nil
}

// MustCompile is like [Compile] but panics on error.
func MustCompile(src string, opts ...Option) *Program {
	p, err := Compile(context.Background(), src, opts...)
	if err != nil {
		panic(err)
	}

	return p
}

// CompileReader reads the whole of r and compiles it.
func CompileReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return Compile(ctx, string(data), opts...)
}

// Source returns the text p was compiled from.
func (p *Program) Source() string { return p.source }

// Root returns the root of the expression tree.
func (p *Program) Root() Expr { return p.root }

// Idents returns the distinct names referenced by p in order of first
// appearance.
func (p *Program) Idents() []string {
	var names []string

	seen := make(map[string]bool)

	for e := range Walk(p.root) {
		if id, ok := e.(*Ident); ok && !seen[id.Name] {
			seen[id.Name] = true
			names = append(names, id.Name)
		}
	}

	return names
}

// Unbound returns the names referenced by p that env does not bind.
func (p *Program) Unbound(env *Env) []string {
	var names []string

	for _, name := range p.Idents() {
		if _, ok := env.Lookup(name); !ok {
			names = append(names, name)
		}
	}

	return names
}

// Eval evaluates p against env. Each binding that evaluation consults is
// invoked exactly once; bindings on a skipped branch are never invoked.
func (p *Program) Eval(ctx context.Context, env *Env) (Variant, error) {
	s := newScope(ctx, env, p.logger)

	v, err := p.root.eval(s)
	if err != nil {
		p.logger.TraceContext(ctx, "eval failed",
			slog.String("source", p.source),
			slog.Any("error", err),
		)

		return Variant{}, err
	}

	p.logger.TraceContext(ctx, "eval complete",
		slog.String("source", p.source),
		slog.Int("resolved", len(s.memo)),
		slog.String("kind", v.Kind().String()),
		slog.Any("result", v),
	)

	return v, nil
}

// EvalBool evaluates p and converts the result with [Variant.AsBool].
func (p *Program) EvalBool(ctx context.Context, env *Env) (bool, error) {
	v, err := p.Eval(ctx, env)
	if err != nil {
		return false, err
	}

	return v.AsBool(), nil
}

// EvalNumber evaluates p and converts the result with [Variant.AsNumber].
func (p *Program) EvalNumber(ctx context.Context, env *Env) (float64, error) {
	v, err := p.Eval(ctx, env)
	if err != nil {
		return 0, err
	}

	return v.AsNumber()
}

// EvalString evaluates p and converts the result with [Variant.AsString].
func (p *Program) EvalString(ctx context.Context, env *Env) (string, error) {
	v, err := p.Eval(ctx, env)
	if err != nil {
		return "", err
	}

	return v.AsString(), nil
}

// Evaluate is shorthand for p.Eval(ctx, env).
func Evaluate(ctx context.Context, p *Program, env *Env) (Variant, error) {
	return p.Eval(ctx, env)
}
