package lang

import "log/slog"

// Producer computes the current value of a name. It is called only when an
// evaluation actually consults the name, and at most once per evaluation.
// Producers may read live, externally mutated state; their results are never
// reused by a later evaluation.
type Producer func() (Variant, error)

// Const returns a Producer that always yields v.
func Const(v Variant) Producer {
	return func() (Variant, error) { return v, nil }
}

// Func adapts an infallible value function to a Producer.
func Func(fn func() Variant) Producer {
	return func() (Variant, error) { return fn(), nil }
}

// Lazy is a named, deferred source of a [Variant].
type Lazy struct {
	name    string
	produce Producer
}

// NewLazy returns a Lazy binding of name to p.
func NewLazy(name string, p Producer) Lazy {
	return Lazy{name: name, produce: p}
}

// Name returns the bound identifier.
func (l Lazy) Name() string { return l.name }

// Resolve invokes the producer. The resulting Variant carries the binding
// name for diagnostics. Producer failures are wrapped in [ErrBinding]; a nil
// producer resolves to an unbound error.
func (l Lazy) Resolve() (Variant, error) {
	if l.produce == nil {
		return Variant{}, ErrUnbound.With(slog.String("name", l.name))
	}

	v, err := l.produce()
	if err != nil {
		return Variant{}, ErrBinding.Wrap(err).With(slog.String("name", l.name))
	}

	return Named(l.name, v), nil
}
