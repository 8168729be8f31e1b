package lang

import (
	"errors"
	"testing"
)

func tokenTypes(t *testing.T, src string) []TokenType {
	t.Helper()

	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}

	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}

	return types
}

func TestLexerTokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []TokenType
	}{
		{"empty", "", []TokenType{TokenEOF}},
		{"whitespace", " \t\n ", []TokenType{TokenEOF}},
		{"number", "42", []TokenType{TokenNumber, TokenEOF}},
		{"string", `"hi"`, []TokenType{TokenString, TokenEOF}},
		{"keywords", "true false", []TokenType{TokenTrue, TokenFalse, TokenEOF}},
		{"arithmetic", "1+2-3*4/5%6", []TokenType{
			TokenNumber, TokenPlus, TokenNumber, TokenMinus, TokenNumber,
			TokenStar, TokenNumber, TokenSlash, TokenNumber, TokenPercent,
			TokenNumber, TokenEOF,
		}},
		{"comparison", "== != < <= > >=", []TokenType{
			TokenEq, TokenNe, TokenLt, TokenLe, TokenGt, TokenGe, TokenEOF,
		}},
		{"logical", "a && !b || c", []TokenType{
			TokenIdent, TokenAnd, TokenNot, TokenIdent, TokenOr, TokenIdent,
			TokenEOF,
		}},
		{"call", "max(a, 1)", []TokenType{
			TokenIdent, TokenLParen, TokenIdent, TokenComma, TokenNumber,
			TokenRParen, TokenEOF,
		}},
		{"double_not", "!!a", []TokenType{
			TokenNot, TokenNot, TokenIdent, TokenEOF,
		}},
		{"double_minus", "--1", []TokenType{
			TokenMinus, TokenMinus, TokenNumber, TokenEOF,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenTypes(t, tt.src)

			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	for _, src := range []string{"0", "12", "3.25", ".5", "1e3", "1E-3", "2.5e+10"} {
		toks, err := Tokenize(src)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", src, err)
		}

		if toks[0].Type != TokenNumber || toks[0].Text != src {
			t.Errorf("Tokenize(%q) = %v %q", src, toks[0].Type, toks[0].Text)
		}
	}
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"player", "player"},
		{"_hidden", "_hidden"},
		{"player.health", "player.health"},
		{"biome:plains", "biome:plains"},
		{"a.b:c_d2", "a.b:c_d2"},
		{"größe", "größe"},
		{"trueish", "trueish"},
	}

	for _, tt := range tests {
		toks, err := Tokenize(tt.src)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", tt.src, err)
		}

		if toks[0].Type != TokenIdent || toks[0].Text != tt.want {
			t.Errorf("Tokenize(%q) = %v %q, want identifier %q",
				tt.src, toks[0].Type, toks[0].Text, tt.want)
		}
	}
}

func TestLexerTrailingSeparator(t *testing.T) {
	// A trailing '.' is not part of the identifier.
	_, err := Tokenize("player.")
	if !errors.Is(err, ErrLex) {
		t.Fatalf("error = %v, want ErrLex", err)
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`""`, ""},
		{`"plain"`, "plain"},
		{`"a\"b"`, `a"b`},
		{`"tab\there"`, "tab\there"},
		{`"é"`, "é"},
		{`"back\\slash"`, `back\slash`},
	}

	for _, tt := range tests {
		toks, err := Tokenize(tt.src)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", tt.src, err)
		}

		if toks[0].Type != TokenString {
			t.Fatalf("Tokenize(%q) type = %v", tt.src, toks[0].Type)
		}

		if toks[0].Value != tt.want {
			t.Errorf("Tokenize(%q) value = %q, want %q", tt.src, toks[0].Value, tt.want)
		}

		if toks[0].Text != tt.src {
			t.Errorf("Tokenize(%q) text = %q", tt.src, toks[0].Text)
		}
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		col  int
	}{
		{"unknown_char", "a # b", 1, 3},
		{"single_equals", "a = b", 1, 3},
		{"single_ampersand", "a & b", 1, 3},
		{"single_pipe", "a | b", 1, 3},
		{"unterminated_string", `"abc`, 1, 1},
		{"newline_in_string", "\"ab\ncd\"", 1, 1},
		{"bad_escape", `"\q"`, 1, 1},
		{"number_into_name", "12abc", 1, 1},
		{"second_line", "a +\n  @", 2, 3},
		{"single_quote", "'x'", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			if !errors.Is(err, ErrLex) {
				t.Fatalf("error = %v, want ErrLex", err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *Error", err)
			}

			pos := e.Position()
			if pos.Line != tt.line || pos.Column != tt.col {
				t.Errorf("position = %v, want %d:%d", pos, tt.line, tt.col)
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	toks, err := Tokenize("a\n  <= \"é\" b")
	if err != nil {
		t.Fatal(err)
	}

	want := []Position{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 4, Line: 2, Column: 3},
		{Offset: 7, Line: 2, Column: 6},
		{Offset: 12, Line: 2, Column: 10},
	}

	for i, pos := range want {
		if toks[i].Pos != pos {
			t.Errorf("token %d (%v) at %+v, want %+v", i, toks[i], toks[i].Pos, pos)
		}
	}
}

func TestLexerErrorLatches(t *testing.T) {
	l := NewLexer("1 # 2")

	if _, err := l.Next(); err != nil {
		t.Fatalf("first token error: %v", err)
	}

	_, err1 := l.Next()
	_, err2 := l.Next()

	if err1 == nil || err2 == nil {
		t.Fatalf("errors = %v, %v; want both non-nil", err1, err2)
	}
}

func TestLexerEOFRepeats(t *testing.T) {
	l := NewLexer("x")

	if _, err := l.Next(); err != nil {
		t.Fatal(err)
	}

	for range 3 {
		tok, err := l.Next()
		if err != nil || tok.Type != TokenEOF {
			t.Fatalf("Next() = %v, %v; want EOF", tok, err)
		}
	}
}

func TestTokensStopsEarly(t *testing.T) {
	n := 0

	for tok, err := range Tokens("a b c d") {
		if err != nil {
			t.Fatal(err)
		}

		if tok.Type != TokenIdent {
			t.Fatalf("unexpected %v", tok)
		}

		n++
		if n == 2 {
			break
		}
	}

	if n != 2 {
		t.Errorf("consumed %d tokens, want 2", n)
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"x", true},
		{"player.health", true},
		{"mc:player.inWater", true},
		{"_private", true},
		{"", false},
		{" x", false},
		{"x ", false},
		{"x.", false},
		{"1x", false},
		{"a b", false},
		{"a+b", false},
		{"true", false},
	}

	for _, tt := range tests {
		if got := IsIdentifier(tt.name); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
