package lang

import (
	"testing"

	"github.com/expr-lang/expr"
)

// TestAgainstExpr evaluates numeric and boolean expressions from the grammar
// subset shared with expr-lang and compares the results.
func TestAgainstExpr(t *testing.T) {
	vars := map[string]any{
		"x": 4.0,
		"y": 8.0,
		"t": true,
		"f": false,
	}

	env := NewEnv()
	for name, v := range vars {
		switch v := v.(type) {
		case float64:
			env.BindNumber(name, v)
		case bool:
			env.BindBool(name, v)
		}
	}

	for _, src := range []string{
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"10 - 4 - 3",
		"7 / 2",
		"2 * x - y / 4",
		"-x + 10",
		"-(x - y) * 2",
		"x * x == 16",
		"x != y",
		"x > y && !(y > 10)",
		"x < 3 || y >= 8",
		"t && !f",
		"f || t && f",
		"!t || x <= 4",
		"(x + y) / (y - x) > 2.5",
		"0.5 * 4 == 2",
	} {
		t.Run(src, func(t *testing.T) {
			want, err := expr.Eval(src, vars)
			if err != nil {
				t.Fatalf("expr.Eval error: %v", err)
			}

			got := eval(t, src, env)

			switch w := want.(type) {
			case bool:
				if got.Kind() != KindBoolean || got.AsBool() != w {
					t.Errorf("got %v (%v), expr-lang %v", got, got.Kind(), w)
				}

			case int:
				if f, _ := got.AsNumber(); got.Kind() != KindNumber || f != float64(w) {
					t.Errorf("got %v (%v), expr-lang %v", got, got.Kind(), w)
				}

			case float64:
				if f, _ := got.AsNumber(); got.Kind() != KindNumber || f != w {
					t.Errorf("got %v (%v), expr-lang %v", got, got.Kind(), w)
				}

			default:
				t.Fatalf("unexpected expr-lang result %T", want)
			}
		})
	}
}
