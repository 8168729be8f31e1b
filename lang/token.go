package lang

// TokenType classifies a lexical token.
type TokenType uint8

const (
	TokenEOF TokenType = iota

	// Literals and names
	TokenNumber // 12, 3.5, 1e-3
	TokenString // "text"
	TokenTrue   // true
	TokenFalse  // false
	TokenIdent  // player.health

	// Arithmetic operators
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenPercent // %

	// Comparison operators
	TokenEq // ==
	TokenNe // !=
	TokenLt // <
	TokenLe // <=
	TokenGt // >
	TokenGe // >=

	// Logical operators
	TokenAnd // &&
	TokenOr  // ||
	TokenNot // !

	// Punctuation
	TokenLParen // (
	TokenRParen // )
	TokenComma  // ,
)

var tokenNames = [...]string{
	TokenEOF:     "(eof)",
	TokenNumber:  "(number)",
	TokenString:  "(string)",
	TokenTrue:    "true",
	TokenFalse:   "false",
	TokenIdent:   "(identifier)",
	TokenPlus:    "+",
	TokenMinus:   "-",
	TokenStar:    "*",
	TokenSlash:   "/",
	TokenPercent: "%",
	TokenEq:      "==",
	TokenNe:      "!=",
	TokenLt:      "<",
	TokenLe:      "<=",
	TokenGt:      ">",
	TokenGe:      ">=",
	TokenAnd:     "&&",
	TokenOr:      "||",
	TokenNot:     "!",
	TokenLParen:  "(",
	TokenRParen:  ")",
	TokenComma:   ",",
}

// String returns the symbol of an operator token or a parenthesized class
// name for literals.
func (tt TokenType) String() string {
	if int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}

	return "(unknown)"
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"true":  TokenTrue,
	"false": TokenFalse,
}

// Token is one lexical unit of expression source.
type Token struct {
	// Text is the raw source text of the token.
	Text string
	// Value is the decoded literal for TokenString, otherwise Text.
	Value string
	Pos   Position
	Type  TokenType
}

// String returns the raw text, or the type name for EOF.
func (t Token) String() string {
	if t.Type == TokenEOF {
		return t.Type.String()
	}

	return t.Text
}
