package lang

import (
	"errors"
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"2 + 3 * 4", "14"},
		{"x + 2 * 3", "x + 6"},
		{"-(1 + 1)", "-2"},
		{`"a" + 1 == "a1"`, "true"},
		{"false && x", "false"},
		{"true || x", "true"},
		{"x && false", "x && false"},
		{"max(1, 2) + x", "2 + x"},
		{"if(true, 1, x)", "if(true, 1, x)"},
		{"1 / 0 + x", "1 / 0 + x"},
		{"x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, err := Compile(t.Context(), tt.src, WithFold(true))
			if err != nil {
				t.Fatal(err)
			}

			if got := prog.String(); got != tt.want {
				t.Errorf("folded = %q, want %q", got, tt.want)
			}

			if prog.Source() != tt.src {
				t.Errorf("Source() = %q, want original text", prog.Source())
			}
		})
	}
}

func TestFoldPreservesResult(t *testing.T) {
	env := NewEnv().BindNumber("x", 7)

	for _, src := range []string{
		"x + 2 * 3",
		"abs(-3) * x",
		`"n" + (1 + 2) + x`,
		"!(1 < 2) || x > 5",
	} {
		plain := MustCompile(src)
		folded := MustCompile(src, WithFold(true))

		a, err := plain.Eval(t.Context(), env)
		if err != nil {
			t.Fatal(err)
		}

		b, err := folded.Eval(t.Context(), env)
		if err != nil {
			t.Fatal(err)
		}

		if a.Kind() != b.Kind() || !a.Equal(b) {
			t.Errorf("%s: folded %v, unfolded %v", src, b, a)
		}
	}
}

func TestFoldKeepsErrorsPositioned(t *testing.T) {
	prog := MustCompile("x + 1 / 0", WithFold(true))

	_, err := prog.Eval(t.Context(), NewEnv().BindNumber("x", 1))
	if !errors.Is(err, ErrArithmetic) {
		t.Fatalf("error = %v, want ErrArithmetic", err)
	}

	var e *Error
	if !errors.As(err, &e) || e.Position().Column != 7 {
		t.Errorf("error %v should be positioned at column 7", err)
	}
}

func TestFoldDoesNotMutateInput(t *testing.T) {
	b := NewBuilder()

	inner := b.Add(b.Number(1), b.Number(2))
	root := b.Mul(inner, b.Ident("x"))

	folded := fold(root)

	if Format(folded) != "3 * x" {
		t.Errorf("folded = %q", Format(folded))
	}

	if Format(root) != "(1 + 2) * x" {
		t.Errorf("input mutated: %q", Format(root))
	}
}
