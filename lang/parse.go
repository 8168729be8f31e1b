package lang

import (
	"log/slog"
	"strconv"
)

// parser is a recursive-descent parser over a token stream with one token of
// lookahead. Each precedence level is one call of parseBinary; unary
// operators, groups and call arguments recurse and count toward maxDepth.
type parser struct {
	lex      *Lexer
	tok      Token
	depth    int
	maxDepth int
	nodes    int
}

// parse compiles src into an expression tree. Parsing either consumes all
// of src and returns a complete tree or fails at the first error.
func parse(src string, maxDepth int) (Expr, int, error) {
	p := &parser{
		lex:      NewLexer(src),
		maxDepth: maxDepth,
	}

	if err := p.next(); err != nil {
		return nil, 0, err
	}

	if p.tok.Type == TokenEOF {
		return nil, 0, ErrParse.WithPosition(p.tok.Pos).
			With(slog.String("reason", "empty expression"))
	}

	root, err := p.parseExpr()
	if err != nil {
		return nil, 0, err
	}

	if p.tok.Type != TokenEOF {
		return nil, 0, p.unexpected("end of expression")
	}

	return root, p.nodes, nil
}

// next advances to the following token.
func (p *parser) next() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}

	p.tok = tok

	return nil
}

// expect consumes a token of type tt or fails.
func (p *parser) expect(tt TokenType) error {
	if p.tok.Type != tt {
		return p.unexpected(tt.String())
	}

	return p.next()
}

func (p *parser) unexpected(expected string) *Error {
	reason := "unexpected token"
	if p.tok.Type == TokenEOF {
		reason = "unexpected end of input"
	}

	return ErrParse.WithPosition(p.tok.Pos).
		With(
			slog.String("reason", reason),
			slog.String("token", p.tok.String()),
			slog.String("expected", expected),
		)
}

// enter records one level of nesting opened at pos.
func (p *parser) enter(pos Position) error {
	p.depth++

	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return ErrParse.WithPosition(pos).
			Wrap(ErrMaxDepth.With(slog.Int("limit", p.maxDepth)))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) parseExpr() (Expr, error) {
	return p.parseBinary(precOr)
}

// parseBinary parses a left-associative chain of operators of precedence
// prec, whose operands bind tighter.
func (p *parser) parseBinary(prec int) (Expr, error) {
	if prec >= precUnary {
		return p.parseUnary()
	}

	x, err := p.parseBinary(prec + 1)
	if err != nil {
		return nil, err
	}

	for {
		op, ok := binaryOps[p.tok.Type]
		if !ok || op.precedence() != prec {
			return x, nil
		}

		pos := p.tok.Pos

		if err := p.next(); err != nil {
			return nil, err
		}

		y, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}

		p.nodes++
		x = &Binary{Op: op, X: x, Y: y, Pos: pos}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	var op Op

	switch p.tok.Type {
	case TokenNot:
		op = OpNot
	case TokenMinus:
		op = OpNeg
	default:
		return p.parsePrimary()
	}

	pos := p.tok.Pos

	if err := p.enter(pos); err != nil {
		return nil, err
	}
	defer p.leave()

	if err := p.next(); err != nil {
		return nil, err
	}

	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	p.nodes++

	return &Unary{Op: op, X: x, Pos: pos}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.tok

	switch tok.Type {
	case TokenNumber:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, ErrParse.WithPosition(tok.Pos).Wrap(err)
		}

		p.nodes++

		return Number(f), p.next()

	case TokenString:
		p.nodes++

		return String(tok.Value), p.next()

	case TokenTrue, TokenFalse:
		p.nodes++

		return Bool(tok.Type == TokenTrue), p.next()

	case TokenIdent:
		if err := p.next(); err != nil {
			return nil, err
		}

		if p.tok.Type == TokenLParen {
			return p.parseCall(tok)
		}

		p.nodes++

		return &Ident{Name: tok.Text, Pos: tok.Pos}, nil

	case TokenLParen:
		return p.parseGroup()

	default:
		return nil, p.unexpected("operand")
	}
}

// parseGroup parses "(" Expr ")".
func (p *parser) parseGroup() (Expr, error) {
	open := p.tok.Pos

	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()

	if err := p.next(); err != nil {
		return nil, err
	}

	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.tok.Type != TokenRParen {
		return nil, p.unexpected(")").
			With(slog.String("opened", open.String()))
	}

	return x, p.next()
}

// parseCall parses the argument list of a builtin call. The current token is
// the opening parenthesis following name.
func (p *parser) parseCall(name Token) (Expr, error) {
	fn, ok := lookupBuiltin(name.Text)
	if !ok {
		return nil, ErrParse.WithPosition(name.Pos).
			Wrap(ErrUnknownFunction.With(slog.String("name", name.Text)))
	}

	if err := p.enter(name.Pos); err != nil {
		return nil, err
	}
	defer p.leave()

	if err := p.next(); err != nil {
		return nil, err
	}

	var args []Expr

	if p.tok.Type != TokenRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if p.tok.Type != TokenComma {
				break
			}

			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	if err := fn.checkArity(len(args)); err != nil {
		return nil, ErrParse.WithPosition(name.Pos).Wrap(err)
	}

	p.nodes++

	return &Call{Name: name.Text, Args: args, Pos: name.Pos, fn: fn}, nil
}
