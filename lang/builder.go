package lang

import "log/slog"

// Builder provides a programmatic API for constructing expression trees
// without parsing source text. Nodes built this way carry no source
// positions.
//
// Example:
//
//	b := lang.NewBuilder()
//	prog, err := b.Program(
//	    b.And(
//	        b.Lt(b.Ident("player.health"), b.Number(5)),
//	        b.Not(b.Ident("player.inWater")),
//	    ),
//	)
type Builder struct{}

// NewBuilder creates a new expression builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Number creates a numeric literal.
func (b *Builder) Number(f float64) Expr { return Number(f) }

// String creates a string literal.
func (b *Builder) String(s string) Expr { return String(s) }

// Bool creates a boolean literal.
func (b *Builder) Bool(v bool) Expr { return Bool(v) }

// Ident creates a name reference.
func (b *Builder) Ident(name string) Expr { return &Ident{Name: name} }

// Not creates a logical negation.
func (b *Builder) Not(x Expr) Expr { return &Unary{Op: OpNot, X: x} }

// Neg creates a numeric negation.
func (b *Builder) Neg(x Expr) Expr { return &Unary{Op: OpNeg, X: x} }

// Binary creates an infix operation.
func (b *Builder) Binary(op Op, x, y Expr) Expr {
	return &Binary{Op: op, X: x, Y: y}
}

func (b *Builder) Or(x, y Expr) Expr  { return b.Binary(OpOr, x, y) }
func (b *Builder) And(x, y Expr) Expr { return b.Binary(OpAnd, x, y) }
func (b *Builder) Eq(x, y Expr) Expr  { return b.Binary(OpEq, x, y) }
func (b *Builder) Ne(x, y Expr) Expr  { return b.Binary(OpNe, x, y) }
func (b *Builder) Lt(x, y Expr) Expr  { return b.Binary(OpLt, x, y) }
func (b *Builder) Le(x, y Expr) Expr  { return b.Binary(OpLe, x, y) }
func (b *Builder) Gt(x, y Expr) Expr  { return b.Binary(OpGt, x, y) }
func (b *Builder) Ge(x, y Expr) Expr  { return b.Binary(OpGe, x, y) }
func (b *Builder) Add(x, y Expr) Expr { return b.Binary(OpAdd, x, y) }
func (b *Builder) Sub(x, y Expr) Expr { return b.Binary(OpSub, x, y) }
func (b *Builder) Mul(x, y Expr) Expr { return b.Binary(OpMul, x, y) }
func (b *Builder) Div(x, y Expr) Expr { return b.Binary(OpDiv, x, y) }
func (b *Builder) Mod(x, y Expr) Expr { return b.Binary(OpMod, x, y) }

// Call creates a builtin call. Unknown names and arity violations are
// reported when the tree is turned into a [Program].
func (b *Builder) Call(name string, args ...Expr) Expr {
	fn, _ := lookupBuiltin(name)

	return &Call{Name: name, Args: args, fn: fn}
}

// Program validates root and wraps it in a [Program] whose source is the
// canonical rendering of root.
func (b *Builder) Program(root Expr, opts ...Option) (*Program, error) {
	if root == nil {
		return nil, ErrParse.With(slog.String("reason", "empty expression"))
	}

	for e := range Walk(root) {
		switch n := e.(type) {
		case *Unary:
			if n.Op.precedence() != precUnary {
				return nil, ErrParse.With(slog.String("operator", n.Op.String()))
			}

		case *Binary:
			if p := n.Op.precedence(); p == precLowest || p == precUnary {
				return nil, ErrParse.With(slog.String("operator", n.Op.String()))
			}

		case *Call:
			if n.fn == nil {
				return nil, ErrParse.
					Wrap(ErrUnknownFunction.With(slog.String("name", n.Name)))
			}

			if err := n.fn.checkArity(len(n.Args)); err != nil {
				return nil, ErrParse.Wrap(err)
			}
		}
	}

	p := newProgram(Format(root), opts...)
	p.root = root

	if p.opts.Fold {
		p.root = fold(root)
	}

	return p, nil
}
