package lang

import (
	"context"
	"log/slog"
	"math"

	"github.com/ardnew/vex/log"
)

// scope is the state of a single evaluation. It lives for exactly one call
// of [Program.Eval] and memoizes every binding it resolves, so each binding
// is invoked at most once per evaluation and never reused by another.
type scope struct {
	ctx    context.Context
	env    *Env
	memo   map[string]Variant
	logger log.Logger
}

func newScope(ctx context.Context, env *Env, logger log.Logger) *scope {
	return &scope{
		ctx:    ctx,
		env:    env,
		memo:   make(map[string]Variant),
		logger: logger,
	}
}

// at attaches pos to err unless err already carries a position.
func at(err error, pos Position) error {
	if err == nil || !pos.IsValid() {
		return err
	}

	if e, ok := err.(*Error); ok && !e.Position().IsValid() {
		return e.WithPosition(pos)
	}

	return err
}

func (id *Ident) eval(s *scope) (Variant, error) {
	if v, ok := s.memo[id.Name]; ok {
		return v, nil
	}

	b, ok := s.env.Lookup(id.Name)
	if !ok {
		return Variant{}, ErrUnbound.WithPosition(id.Pos).
			With(slog.String("name", id.Name))
	}

	v, err := b.Resolve()
	if err != nil {
		return Variant{}, at(err, id.Pos)
	}

	s.memo[id.Name] = v

	s.logger.TraceContext(s.ctx, "binding resolved",
		slog.String("name", id.Name),
		slog.String("kind", v.Kind().String()),
		slog.Any("value", v),
	)

	return v, nil
}

func (u *Unary) eval(s *scope) (Variant, error) {
	x, err := u.X.eval(s)
	if err != nil {
		return Variant{}, err
	}

	switch u.Op {
	case OpNot:
		return Bool(!x.AsBool()), nil

	case OpNeg:
		f, err := x.AsNumber()
		if err != nil {
			return Variant{}, at(err, u.Pos)
		}

		return Number(-f), nil

	default:
		return Variant{}, ErrParse.WithPosition(u.Pos).
			With(slog.String("operator", u.Op.String()))
	}
}

func (b *Binary) eval(s *scope) (Variant, error) {
	x, err := b.X.eval(s)
	if err != nil {
		return Variant{}, err
	}

	// The right operand of a logical operator is evaluated only when the left
	// one does not decide the result.
	switch b.Op {
	case OpAnd:
		if !x.AsBool() {
			return Bool(false), nil
		}

		return b.truth(s)

	case OpOr:
		if x.AsBool() {
			return Bool(true), nil
		}

		return b.truth(s)
	}

	y, err := b.Y.eval(s)
	if err != nil {
		return Variant{}, err
	}

	v, err := apply(b.Op, x, y)
	if err != nil {
		return Variant{}, at(err, b.Pos)
	}

	return v, nil
}

// truth evaluates the right operand as a boolean.
func (b *Binary) truth(s *scope) (Variant, error) {
	y, err := b.Y.eval(s)
	if err != nil {
		return Variant{}, err
	}

	return Bool(y.AsBool()), nil
}

func (c *Call) eval(s *scope) (Variant, error) {
	fn := c.fn
	if fn == nil {
		var ok bool
		if fn, ok = lookupBuiltin(c.Name); !ok {
			return Variant{}, ErrUnknownFunction.WithPosition(c.Pos).
				With(slog.String("name", c.Name))
		}
	}

	if err := fn.checkArity(len(c.Args)); err != nil {
		return Variant{}, at(err, c.Pos)
	}

	v, err := fn.call(s, c.Args)
	if err != nil {
		return Variant{}, at(err, c.Pos)
	}

	return v, nil
}

// apply computes a strict (non short-circuit) binary operator.
func apply(op Op, x, y Variant) (Variant, error) {
	switch op {
	case OpAdd:
		return x.Add(y), nil

	case OpEq:
		return Bool(x.Compare(y) == 0), nil
	case OpNe:
		return Bool(x.Compare(y) != 0), nil
	case OpLt:
		return Bool(x.Compare(y) < 0), nil
	case OpLe:
		return Bool(x.Compare(y) <= 0), nil
	case OpGt:
		return Bool(x.Compare(y) > 0), nil
	case OpGe:
		return Bool(x.Compare(y) >= 0), nil

	case OpSub, OpMul, OpDiv, OpMod:
		return arithmetic(op, x, y)

	default:
		return Variant{}, ErrParse.With(slog.String("operator", op.String()))
	}
}

// arithmetic applies a numeric-only operator to the number forms of x and y.
func arithmetic(op Op, x, y Variant) (Variant, error) {
	a, err := x.AsNumber()
	if err != nil {
		return Variant{}, err
	}

	b, err := y.AsNumber()
	if err != nil {
		return Variant{}, err
	}

	switch op {
	case OpSub:
		return Number(a - b), nil

	case OpMul:
		return Number(a * b), nil

	case OpDiv, OpMod:
		if b == 0 {
			return Variant{}, ErrArithmetic.With(
				slog.String("reason", "division by zero"),
				slog.String("operator", op.String()),
				slog.String("dividend", x.Name()),
				slog.String("divisor", y.Name()),
			)
		}

		if op == OpDiv {
			return Number(a / b), nil
		}

		return Number(math.Mod(a, b)), nil
	}

	return Variant{}, ErrParse.With(slog.String("operator", op.String()))
}
