package lang

import (
	"log/slog"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// variadic marks a builtin without an upper argument bound.
const variadic = -1

// builtin is a function callable from expressions. Arguments arrive
// unevaluated so that a builtin evaluates only what it needs.
type builtin struct {
	name   string
	params string // for signatures
	min    int
	max    int
	call   func(s *scope, args []Expr) (Variant, error)
}

var builtins = map[string]*builtin{}

func init() {
	for _, b := range []*builtin{
		{name: "if", params: "cond, then, else", min: 3, max: 3, call: callIf},
		{name: "oneof", params: "x, candidate, ...", min: 2, max: variadic, call: callOneOf},
		{name: "min", params: "x, ...", min: 1, max: variadic, call: callExtreme(-1)},
		{name: "max", params: "x, ...", min: 1, max: variadic, call: callExtreme(+1)},
		{name: "clamp", params: "x, lo, hi", min: 3, max: 3, call: callClamp},
		{name: "abs", params: "x", min: 1, max: 1, call: numeric(math.Abs)},
		{name: "floor", params: "x", min: 1, max: 1, call: numeric(math.Floor)},
		{name: "ceil", params: "x", min: 1, max: 1, call: numeric(math.Ceil)},
		{name: "round", params: "x", min: 1, max: 1, call: numeric(math.Round)},
		{name: "sqrt", params: "x", min: 1, max: 1, call: callSqrt},
		{name: "len", params: "s", min: 1, max: 1, call: callLen},
		{name: "lower", params: "s", min: 1, max: 1, call: textual(strings.ToLower)},
		{name: "upper", params: "s", min: 1, max: 1, call: textual(strings.ToUpper)},
		{name: "contains", params: "s, sub", min: 2, max: 2, call: callContains},
		{name: "match", params: "pattern, s", min: 2, max: 2, call: callMatch},
		{name: "str", params: "x", min: 1, max: 1, call: callStr},
		{name: "num", params: "x", min: 1, max: 1, call: callNum},
		{name: "bool", params: "x", min: 1, max: 1, call: callBool},
	} {
		builtins[b.name] = b
	}
}

func lookupBuiltin(name string) (*builtin, bool) {
	b, ok := builtins[name]

	return b, ok
}

// Builtins returns the names of all builtin functions in sorted order.
func Builtins() []string {
	return slices.Sorted(maps.Keys(builtins))
}

// Signature returns the call signature of the named builtin, such as
// "clamp(x, lo, hi)".
func Signature(name string) (string, bool) {
	b, ok := builtins[name]
	if !ok {
		return "", false
	}

	return b.name + "(" + b.params + ")", true
}

func (b *builtin) checkArity(n int) error {
	if n >= b.min && (b.max == variadic || n <= b.max) {
		return nil
	}

	want := strconv.Itoa(b.min)

	switch {
	case b.max == variadic:
		want = "at least " + want
	case b.max != b.min:
		want += "-" + strconv.Itoa(b.max)
	}

	return ErrArity.With(
		slog.String("name", b.name),
		slog.String("want", want),
		slog.Int("got", n),
	)
}

// Argument helpers

func evalNumber(s *scope, e Expr) (float64, error) {
	v, err := e.eval(s)
	if err != nil {
		return 0, err
	}

	return v.AsNumber()
}

func evalString(s *scope, e Expr) (string, error) {
	v, err := e.eval(s)
	if err != nil {
		return "", err
	}

	return v.AsString(), nil
}

func numeric(fn func(float64) float64) func(*scope, []Expr) (Variant, error) {
	return func(s *scope, args []Expr) (Variant, error) {
		f, err := evalNumber(s, args[0])
		if err != nil {
			return Variant{}, err
		}

		return Number(fn(f)), nil
	}
}

func textual(fn func(string) string) func(*scope, []Expr) (Variant, error) {
	return func(s *scope, args []Expr) (Variant, error) {
		str, err := evalString(s, args[0])
		if err != nil {
			return Variant{}, err
		}

		return String(fn(str)), nil
	}
}

// Builtin implementations

func callIf(s *scope, args []Expr) (Variant, error) {
	cond, err := args[0].eval(s)
	if err != nil {
		return Variant{}, err
	}

	if cond.AsBool() {
		return args[1].eval(s)
	}

	return args[2].eval(s)
}

func callOneOf(s *scope, args []Expr) (Variant, error) {
	x, err := args[0].eval(s)
	if err != nil {
		return Variant{}, err
	}

	for _, arg := range args[1:] {
		c, err := arg.eval(s)
		if err != nil {
			return Variant{}, err
		}

		if x.Equal(c) {
			return Bool(true), nil
		}
	}

	return Bool(false), nil
}

// callExtreme returns a builtin selecting the least (sign < 0) or greatest
// (sign > 0) numeric argument. NaN arguments propagate.
func callExtreme(sign int) func(*scope, []Expr) (Variant, error) {
	pick := math.Min
	if sign > 0 {
		pick = math.Max
	}

	return func(s *scope, args []Expr) (Variant, error) {
		acc, err := evalNumber(s, args[0])
		if err != nil {
			return Variant{}, err
		}

		for _, arg := range args[1:] {
			f, err := evalNumber(s, arg)
			if err != nil {
				return Variant{}, err
			}

			acc = pick(acc, f)
		}

		return Number(acc), nil
	}
}

func callClamp(s *scope, args []Expr) (Variant, error) {
	var f [3]float64

	for i, arg := range args {
		n, err := evalNumber(s, arg)
		if err != nil {
			return Variant{}, err
		}

		f[i] = n
	}

	x, lo, hi := f[0], f[1], f[2]
	if lo > hi {
		return Variant{}, ErrArithmetic.With(
			slog.String("reason", "clamp bounds reversed"),
			slog.Float64("lo", lo),
			slog.Float64("hi", hi),
		)
	}

	return Number(math.Max(lo, math.Min(x, hi))), nil
}

func callSqrt(s *scope, args []Expr) (Variant, error) {
	f, err := evalNumber(s, args[0])
	if err != nil {
		return Variant{}, err
	}

	if f < 0 {
		return Variant{}, ErrArithmetic.With(
			slog.String("reason", "square root of negative number"),
			slog.Float64("value", f),
		)
	}

	return Number(math.Sqrt(f)), nil
}

func callLen(s *scope, args []Expr) (Variant, error) {
	str, err := evalString(s, args[0])
	if err != nil {
		return Variant{}, err
	}

	return Number(float64(utf8.RuneCountInString(str))), nil
}

func callContains(s *scope, args []Expr) (Variant, error) {
	str, err := evalString(s, args[0])
	if err != nil {
		return Variant{}, err
	}

	sub, err := evalString(s, args[1])
	if err != nil {
		return Variant{}, err
	}

	return Bool(strings.Contains(str, sub)), nil
}

// patterns caches compiled regular expressions by source text.
var patterns sync.Map // map[string]*regexp.Regexp

func compilePattern(expr string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(expr); ok {
		return re.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, ErrPattern.Wrap(err).With(slog.String("pattern", expr))
	}

	actual, _ := patterns.LoadOrStore(expr, re)

	return actual.(*regexp.Regexp), nil
}

func callMatch(s *scope, args []Expr) (Variant, error) {
	expr, err := evalString(s, args[0])
	if err != nil {
		return Variant{}, err
	}

	re, err := compilePattern(expr)
	if err != nil {
		return Variant{}, err
	}

	str, err := evalString(s, args[1])
	if err != nil {
		return Variant{}, err
	}

	return Bool(re.MatchString(str)), nil
}

func callStr(s *scope, args []Expr) (Variant, error) {
	str, err := evalString(s, args[0])
	if err != nil {
		return Variant{}, err
	}

	return String(str), nil
}

func callNum(s *scope, args []Expr) (Variant, error) {
	f, err := evalNumber(s, args[0])
	if err != nil {
		return Variant{}, err
	}

	return Number(f), nil
}

func callBool(s *scope, args []Expr) (Variant, error) {
	v, err := args[0].eval(s)
	if err != nil {
		return Variant{}, err
	}

	return Bool(v.AsBool()), nil
}
