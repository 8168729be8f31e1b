package lang

import "iter"

// Tokens returns a lazy, forward-only sequence of the tokens in src. The
// sequence ends after the EOF token or after the first error, which is
// yielded with a zero-value token. Ranging again re-lexes src from the start.
func Tokens(src string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l := NewLexer(src)

		for {
			tok, err := l.Next()
			if err != nil {
				yield(Token{}, err)

				return
			}

			if !yield(tok, nil) || tok.Type == TokenEOF {
				return
			}
		}
	}
}

// Tokenize lexes all of src. The returned slice ends with the EOF token.
func Tokenize(src string) ([]Token, error) {
	var toks []Token

	for tok, err := range Tokens(src) {
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)
	}

	return toks, nil
}
