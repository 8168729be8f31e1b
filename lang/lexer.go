package lang

import (
	"log/slog"
	"strconv"
	"unicode"
	"unicode/utf8"
)

const eof = -1

// Lexer splits expression source into tokens on demand. It is forward-only:
// to start over, create a new Lexer for the same text.
type Lexer struct {
	input string
	start int      // byte offset of the token being scanned
	pos   int      // byte offset of the next rune
	line  int      // line of pos
	col   int      // column of pos
	begin Position // position of start
	err   error    // first error, latched
}

// NewLexer returns a Lexer positioned at the beginning of src.
func NewLexer(src string) *Lexer {
	return &Lexer{
		input: src,
		line:  1,
		col:   1,
	}
}

// Next returns the next token. At the end of input it returns a TokenEOF
// token on every call. After an error, Next keeps returning that error.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{Type: TokenEOF, Pos: l.begin}, l.err
	}

	l.skipWhitespace()
	l.mark()

	r := l.peek()

	switch {
	case r == eof:
		return l.emit(TokenEOF), nil

	case r == '"':
		return l.scanString()

	case isDigit(r) || (r == '.' && isDigit(l.peekAt(1))):
		return l.scanNumber()

	case isIdentifierStart(r):
		return l.scanIdentifier(), nil
	}

	return l.scanOperator()
}

// scanOperator reads one of the fixed operator or punctuation tokens.
func (l *Lexer) scanOperator() (Token, error) {
	r := l.peek()
	l.advance()

	single := map[rune]TokenType{
		'+': TokenPlus,
		'-': TokenMinus,
		'*': TokenStar,
		'/': TokenSlash,
		'%': TokenPercent,
		'(': TokenLParen,
		')': TokenRParen,
		',': TokenComma,
	}

	if tt, ok := single[r]; ok {
		return l.emit(tt), nil
	}

	switch r {
	case '=':
		if l.accept('=') {
			return l.emit(TokenEq), nil
		}

		return l.fail("unexpected character", slog.String("expected", "=="))

	case '!':
		if l.accept('=') {
			return l.emit(TokenNe), nil
		}

		return l.emit(TokenNot), nil

	case '<':
		if l.accept('=') {
			return l.emit(TokenLe), nil
		}

		return l.emit(TokenLt), nil

	case '>':
		if l.accept('=') {
			return l.emit(TokenGe), nil
		}

		return l.emit(TokenGt), nil

	case '&':
		if l.accept('&') {
			return l.emit(TokenAnd), nil
		}

		return l.fail("unexpected character", slog.String("expected", "&&"))

	case '|':
		if l.accept('|') {
			return l.emit(TokenOr), nil
		}

		return l.fail("unexpected character", slog.String("expected", "||"))
	}

	return l.fail("unexpected character")
}

// scanNumber reads a decimal literal: digits, an optional fraction and an
// optional exponent. A number running directly into a name is malformed.
func (l *Lexer) scanNumber() (Token, error) {
	l.acceptRun(isDigit)

	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		l.acceptRun(isDigit)
	}

	if r := l.peek(); r == 'e' || r == 'E' {
		next := l.peekAt(1)
		sign := next == '+' || next == '-'

		if isDigit(next) || (sign && isDigit(l.peekAt(2))) {
			l.advance()

			if sign {
				l.advance()
			}

			l.acceptRun(isDigit)
		}
	}

	if r := l.peek(); isIdentifierContinue(r) || r == '.' {
		l.advance()

		return l.fail("malformed number")
	}

	tok := l.emit(TokenNumber)

	if _, err := strconv.ParseFloat(tok.Text, 64); err != nil {
		return l.fail("number out of range")
	}

	return tok, nil
}

// scanString reads a double-quoted literal with Go escape sequences.
func (l *Lexer) scanString() (Token, error) {
	l.advance() // opening quote

	for {
		switch l.peek() {
		case eof, '\n':
			return l.fail("unterminated string")

		case '\\':
			l.advance()

			if l.peek() == eof {
				return l.fail("unterminated string")
			}

			l.advance()

		case '"':
			l.advance()

			tok := l.emit(TokenString)

			value, err := strconv.Unquote(tok.Text)
			if err != nil {
				return l.fail("invalid escape sequence")
			}

			tok.Value = value

			return tok, nil

		default:
			l.advance()
		}
	}
}

// scanIdentifier reads an identifier or keyword. The separators '.' and ':'
// are part of the name only when followed by another identifier character.
func (l *Lexer) scanIdentifier() Token {
	l.advance()

	for {
		r := l.peek()

		switch {
		case isIdentifierContinue(r):
			l.advance()

		case (r == '.' || r == ':') && isIdentifierContinue(l.peekAt(1)):
			l.advance()

		default:
			tok := l.emit(TokenIdent)
			if tt, ok := keywords[tok.Text]; ok {
				tok.Type = tt
			}

			return tok
		}
	}
}

// IsIdentifier reports whether name lexes as exactly one identifier, such
// as "player.health". Keywords are not identifiers.
func IsIdentifier(name string) bool {
	l := NewLexer(name)

	tok, err := l.Next()
	if err != nil || tok.Type != TokenIdent || tok.Text != name {
		return false
	}

	next, err := l.Next()

	return err == nil && next.Type == TokenEOF
}

// Helper methods

func (l *Lexer) mark() {
	l.start = l.pos
	l.begin = l.position()
}

func (l *Lexer) emit(tt TokenType) Token {
	text := l.input[l.start:l.pos]

	return Token{
		Type:  tt,
		Text:  text,
		Value: text,
		Pos:   l.begin,
	}
}

// fail latches a lex error located at the start of the current token.
func (l *Lexer) fail(reason string, attrs ...slog.Attr) (Token, error) {
	attrs = append([]slog.Attr{
		slog.String("reason", reason),
		slog.String("text", l.input[l.start:l.pos]),
	}, attrs...)

	l.err = ErrLex.WithPosition(l.begin).With(attrs...)

	return Token{Type: TokenEOF, Pos: l.begin}, l.err
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune n runes ahead of the cursor without consuming.
func (l *Lexer) peekAt(n int) rune {
	pos := l.pos

	for {
		if pos >= len(l.input) {
			return eof
		}

		r, size := utf8.DecodeRuneInString(l.input[pos:])
		if n == 0 {
			return r
		}

		pos += size
		n--
	}
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) accept(r rune) bool {
	if l.peek() == r {
		l.advance()

		return true
	}

	return false
}

func (l *Lexer) acceptRun(valid func(rune) bool) {
	for valid(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

func (l *Lexer) skipWhitespace() {
	for r := l.peek(); r != eof && unicode.IsSpace(r); r = l.peek() {
		l.advance()
	}
}

// Character classification

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return r == '_' || (r >= 0 && unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	))
}

func isIdentifierContinue(r rune) bool {
	return r >= 0 && unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}
