package lang

import "iter"

// Expr is a node of a compiled expression tree. Trees are immutable once
// built; the same tree may be evaluated concurrently as long as each
// evaluation supplies its own [Env].
//
// The set of node types is closed: [Variant] (literal), [*Ident], [*Unary],
// [*Binary] and [*Call].
type Expr interface {
	eval(s *scope) (Variant, error)
}

// Ident is a reference to a name in the evaluation environment.
type Ident struct {
	Name string
	Pos  Position
}

// Unary applies a prefix operator to one operand.
type Unary struct {
	X   Expr
	Pos Position
	Op  Op
}

// Binary applies an infix operator to two operands.
type Binary struct {
	X   Expr
	Y   Expr
	Pos Position
	Op  Op
}

// Call invokes a builtin function. Arguments are handed to the builtin
// unevaluated.
type Call struct {
	Name string
	Args []Expr
	Pos  Position
	fn   *builtin
}

// Op identifies a unary or binary operator.
type Op uint8

const (
	OpInvalid Op = iota

	OpNot // !
	OpNeg // -

	OpOr  // ||
	OpAnd // &&
	OpEq  // ==
	OpNe  // !=
	OpLt  // <
	OpLe  // <=
	OpGt  // >
	OpGe  // >=
	OpAdd // +
	OpSub // -
	OpMul // *
	OpDiv // /
	OpMod // %
)

var opSymbols = [...]string{
	OpInvalid: "?",
	OpNot:     "!",
	OpNeg:     "-",
	OpOr:      "||",
	OpAnd:     "&&",
	OpEq:      "==",
	OpNe:      "!=",
	OpLt:      "<",
	OpLe:      "<=",
	OpGt:      ">",
	OpGe:      ">=",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
}

// String returns the operator symbol.
func (op Op) String() string {
	if int(op) < len(opSymbols) {
		return opSymbols[op]
	}

	return opSymbols[OpInvalid]
}

// Operator binding strength, lowest first.
const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPrimary
)

// precedence returns the binding strength of op.
func (op Op) precedence() int {
	switch op {
	case OpOr:
		return precOr
	case OpAnd:
		return precAnd
	case OpEq, OpNe:
		return precEquality
	case OpLt, OpLe, OpGt, OpGe:
		return precRelational
	case OpAdd, OpSub:
		return precAdditive
	case OpMul, OpDiv, OpMod:
		return precMultiplicative
	case OpNot, OpNeg:
		return precUnary
	default:
		return precLowest
	}
}

// binaryOps maps infix tokens to operators.
var binaryOps = map[TokenType]Op{
	TokenOr:      OpOr,
	TokenAnd:     OpAnd,
	TokenEq:      OpEq,
	TokenNe:      OpNe,
	TokenLt:      OpLt,
	TokenLe:      OpLe,
	TokenGt:      OpGt,
	TokenGe:      OpGe,
	TokenPlus:    OpAdd,
	TokenMinus:   OpSub,
	TokenStar:    OpMul,
	TokenSlash:   OpDiv,
	TokenPercent: OpMod,
}

// Children returns the direct operands of e in source order.
func Children(e Expr) []Expr {
	switch n := e.(type) {
	case *Unary:
		return []Expr{n.X}
	case *Binary:
		return []Expr{n.X, n.Y}
	case *Call:
		return n.Args
	default:
		return nil
	}
}

// Walk returns an iterator over e and all of its descendants in depth-first
// pre-order.
func Walk(e Expr) iter.Seq[Expr] {
	return func(yield func(Expr) bool) {
		walk(e, yield)
	}
}

func walk(e Expr, yield func(Expr) bool) bool {
	if e == nil {
		return true
	}

	if !yield(e) {
		return false
	}

	for _, c := range Children(e) {
		if !walk(c, yield) {
			return false
		}
	}

	return true
}

// PosOf returns the source position of e. Literals carry no position.
func PosOf(e Expr) Position {
	switch n := e.(type) {
	case *Ident:
		return n.Pos
	case *Unary:
		return n.Pos
	case *Binary:
		return n.Pos
	case *Call:
		return n.Pos
	default:
		return Position{}
	}
}
