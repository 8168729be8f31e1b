package lang

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestCompileCanonical(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"2+3*4", "2 + 3 * 4"},
		{"(2 + 3) * 4", "(2 + 3) * 4"},
		{"2 * (3 + 4)", "2 * (3 + 4)"},
		{"10 - 3 - 2", "10 - 3 - 2"},
		{"10 - (3 - 2)", "10 - (3 - 2)"},
		{"(10 - 3) - 2", "10 - 3 - 2"},
		{"a||b&&c", "a || b && c"},
		{"(a || b) && c", "(a || b) && c"},
		{"a == b != c", "a == b != c"},
		{"a == (b != c)", "a == (b != c)"},
		{"1 < 2 == true", "1 < 2 == true"},
		{"!(a == b)", "!(a == b)"},
		{"!!a", "!!a"},
		{"- -x", "--x"},
		{"-(1)", "-1"},
		{"-(a + b)", "-(a + b)"},
		{"((a))", "a"},
		{"x % 2 * 3", "x % 2 * 3"},
		{"max( 1 ,2 )", "max(1, 2)"},
		{"if(a, b + 1, c)", "if(a, b + 1, c)"},
		{"1.50", "1.5"},
		{`"a\tb"`, `"a\tb"`},
		{"player.health <= 5", "player.health <= 5"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, err := Compile(t.Context(), tt.src)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.src, err)
			}

			got := prog.String()
			if got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}

			again, err := Compile(t.Context(), got)
			if err != nil {
				t.Fatalf("recompile(%q) error: %v", got, err)
			}

			if again.String() != got {
				t.Errorf("canonical form not stable: %q -> %q", got, again.String())
			}
		})
	}
}

func TestCompileTreeShape(t *testing.T) {
	prog := MustCompile("10 - 3 - 2")

	root, ok := prog.Root().(*Binary)
	if !ok || root.Op != OpSub {
		t.Fatalf("root = %#v, want subtraction", prog.Root())
	}

	left, ok := root.X.(*Binary)
	if !ok || left.Op != OpSub {
		t.Fatalf("left operand = %#v, want subtraction", root.X)
	}

	if v, ok := root.Y.(Variant); !ok || !v.Equal(Number(2)) {
		t.Errorf("right operand = %#v, want 2", root.Y)
	}

	if root.Pos.Column != 8 {
		t.Errorf("operator column = %d, want 8", root.Pos.Column)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target error
		col    int
	}{
		{"empty", "", ErrParse, 1},
		{"blank", "   ", ErrParse, 4},
		{"trailing_tokens", "1 2", ErrParse, 3},
		{"trailing_paren", "a)", ErrParse, 2},
		{"unmatched_open", "(1 + 2", ErrParse, 7},
		{"missing_operand", "1 +", ErrParse, 4},
		{"leading_operator", "* 2", ErrParse, 1},
		{"empty_group", "()", ErrParse, 2},
		{"dangling_comma", "max(1,)", ErrParse, 7},
		{"lex_error", "1 + #", ErrLex, 5},
		{"unknown_function", "nope(1)", ErrUnknownFunction, 1},
		{"unknown_function_is_parse", "nope(1)", ErrParse, 1},
		{"too_few_args", "clamp(1, 2)", ErrArity, 1},
		{"too_many_args", "abs(1, 2)", ErrArity, 1},
		{"no_args", "min()", ErrArity, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Compile(t.Context(), tt.src)
			if err == nil {
				t.Fatalf("Compile(%q) = %v, want error", tt.src, prog)
			}

			if prog != nil {
				t.Errorf("Compile returned a partial program")
			}

			if !errors.Is(err, tt.target) {
				t.Fatalf("error = %v, want %v", err, tt.target)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *Error", err)
			}

			if e.Position().Column != tt.col {
				t.Errorf("column = %d, want %d (%v)", e.Position().Column, tt.col, err)
			}
		})
	}
}

func TestCompileMaxDepth(t *testing.T) {
	deep := strings.Repeat("(", 10) + "1" + strings.Repeat(")", 10)

	if _, err := Compile(t.Context(), deep, WithMaxDepth(10)); err != nil {
		t.Fatalf("depth 10 within limit: %v", err)
	}

	_, err := Compile(t.Context(), deep, WithMaxDepth(9))
	if !errors.Is(err, ErrMaxDepth) {
		t.Fatalf("error = %v, want ErrMaxDepth", err)
	}

	if !errors.Is(err, ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}

	nots := strings.Repeat("!", 200) + "true"

	if _, err := Compile(t.Context(), nots); !errors.Is(err, ErrMaxDepth) {
		t.Errorf("default limit: error = %v, want ErrMaxDepth", err)
	}

	if _, err := Compile(t.Context(), nots, WithMaxDepth(0)); err != nil {
		t.Errorf("unlimited depth: %v", err)
	}
}

func TestProgramIdents(t *testing.T) {
	prog := MustCompile(`a + b * a > max(c, b) || d == "a"`)

	want := []string{"a", "b", "c", "d"}
	if got := prog.Idents(); !slices.Equal(got, want) {
		t.Errorf("Idents() = %v, want %v", got, want)
	}

	env := NewEnv().BindNumber("a", 1).BindNumber("c", 2)
	if got := prog.Unbound(env); !slices.Equal(got, []string{"b", "d"}) {
		t.Errorf("Unbound() = %v, want [b d]", got)
	}
}

func TestErrorExcerpt(t *testing.T) {
	_, err := Compile(t.Context(), "a +\n  b # c")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error %v is not *Error", err)
	}

	want := "  2 |   b # c\n" +
		"          ^\n"
	if got := e.Excerpt("a +\n  b # c"); got != want {
		t.Errorf("Excerpt() =\n%s\nwant\n%s", got, want)
	}
}

func TestWalk(t *testing.T) {
	prog := MustCompile("!(a < 1) && f")

	var kinds []string

	for e := range Walk(prog.Root()) {
		switch n := e.(type) {
		case *Binary:
			kinds = append(kinds, n.Op.String())
		case *Unary:
			kinds = append(kinds, n.Op.String())
		case *Ident:
			kinds = append(kinds, n.Name)
		case Variant:
			kinds = append(kinds, Render(n))
		}
	}

	want := []string{"&&", "!", "<", "a", "1", "f"}
	if !slices.Equal(kinds, want) {
		t.Errorf("Walk order = %v, want %v", kinds, want)
	}
}
