package lang

import (
	"context"

	"github.com/ardnew/vex/log"
)

// visitor rewrites nodes of an expression tree in place. visit is called for
// each node after its children have been visited.
type visitor interface {
	visit(node *Expr)
}

// patch walks the tree rooted at *node in post-order, letting v replace any
// node. Interior nodes are copied before their children are replaced, so the
// input tree is never mutated.
func patch(node *Expr, v visitor) {
	switch n := (*node).(type) {
	case *Unary:
		c := *n
		patch(&c.X, v)
		*node = &c

	case *Binary:
		c := *n
		patch(&c.X, v)
		patch(&c.Y, v)
		*node = &c

	case *Call:
		c := *n
		c.Args = append([]Expr(nil), n.Args...)

		for i := range c.Args {
			patch(&c.Args[i], v)
		}

		*node = &c
	}

	v.visit(node)
}

// constantFolder replaces subtrees whose operands are all literals with
// their value. Subtrees that fail to evaluate are left in place so that the
// error surfaces at evaluation time with its source position.
type constantFolder struct {
	scope *scope
}

func (f *constantFolder) visit(node *Expr) {
	switch n := (*node).(type) {
	case *Unary:
		if isLiteral(n.X) {
			f.replace(node)
		}

	case *Binary:
		x, ok := n.X.(Variant)
		if !ok {
			return
		}

		switch {
		case n.Op == OpAnd && !x.AsBool():
			*node = Bool(false)

		case n.Op == OpOr && x.AsBool():
			*node = Bool(true)

		case isLiteral(n.Y):
			f.replace(node)
		}

	case *Call:
		for _, arg := range n.Args {
			if !isLiteral(arg) {
				return
			}
		}

		f.replace(node)
	}
}

func (f *constantFolder) replace(node *Expr) {
	if v, err := (*node).eval(f.scope); err == nil {
		*node = v
	}
}

func isLiteral(e Expr) bool {
	_, ok := e.(Variant)

	return ok
}

// fold returns a copy of root with constant subtrees evaluated.
func fold(root Expr) Expr {
	f := &constantFolder{scope: newScope(context.Background(), nil, log.Logger{})}

	patch(&root, f)

	return root
}
