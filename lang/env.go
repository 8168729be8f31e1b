package lang

// This file defines the name registry consulted by identifier nodes during
// evaluation. An Env is built by the embedding application for each
// evaluation context; it is never shared global state.

import (
	"iter"
	"maps"
	"slices"
)

// Env maps identifiers to lazy bindings.
//
// An Env is not safe for concurrent mutation. Concurrent evaluations may
// share an Env only if nothing binds into it meanwhile; the usual pattern is
// one Env per evaluation context.
type Env struct {
	bindings map[string]Lazy
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{bindings: make(map[string]Lazy)}
}

// Bind registers p under name, replacing any previous binding, and returns
// the Env to allow chaining.
func (e *Env) Bind(name string, p Producer) *Env {
	if e.bindings == nil {
		e.bindings = make(map[string]Lazy)
	}

	e.bindings[name] = NewLazy(name, p)

	return e
}

// BindValue binds name to a fixed value.
func (e *Env) BindValue(name string, v Variant) *Env {
	return e.Bind(name, Const(v))
}

// BindNumber binds name to a fixed number.
func (e *Env) BindNumber(name string, f float64) *Env {
	return e.BindValue(name, Number(f))
}

// BindString binds name to a fixed string.
func (e *Env) BindString(name, s string) *Env {
	return e.BindValue(name, String(s))
}

// BindBool binds name to a fixed boolean.
func (e *Env) BindBool(name string, b bool) *Env {
	return e.BindValue(name, Bool(b))
}

// Unbind removes name from the environment.
func (e *Env) Unbind(name string) {
	delete(e.bindings, name)
}

// Lookup returns the binding registered under name.
func (e *Env) Lookup(name string) (Lazy, bool) {
	if e == nil {
		return Lazy{}, false
	}

	l, ok := e.bindings[name]

	return l, ok
}

// Len returns the number of bindings.
func (e *Env) Len() int {
	if e == nil {
		return 0
	}

	return len(e.bindings)
}

// Names returns the bound identifiers in sorted order.
func (e *Env) Names() []string {
	if e == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(e.bindings))
}

// All returns an iterator over all bindings in name order.
func (e *Env) All() iter.Seq[Lazy] {
	return func(yield func(Lazy) bool) {
		for _, name := range e.Names() {
			if !yield(e.bindings[name]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of e. Producers are shared.
func (e *Env) Clone() *Env {
	if e == nil {
		return NewEnv()
	}

	return &Env{bindings: maps.Clone(e.bindings)}
}

// Merge copies every binding of other into e, replacing existing names.
func (e *Env) Merge(other *Env) *Env {
	if other == nil {
		return e
	}

	if e.bindings == nil {
		e.bindings = make(map[string]Lazy, other.Len())
	}

	maps.Copy(e.bindings, other.bindings)

	return e
}
