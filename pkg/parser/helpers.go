package parser

import (
	"fmt"

	"github.com/YagoCrispim/pascal-interpreter/pkg/token"
)

const contextRadius = 2

func (p *Parser) peek() token.Token {
	return p.tokens[p.pos]
}

// advance consumes the current token. EOF is never consumed.
func (p *Parser) advance() token.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
	}
	p.last = tok
	return tok
}

// expect consumes the current token when it has the given kind.
func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.errorf(tok, []token.Kind{kind}, "unexpected %s", tok.Kind)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(tok token.Token, expected []token.Kind, format string, args ...any) error {
	return &SyntaxError{
		Token:    tok,
		Expected: expected,
		Context:  p.context(),
		Message:  fmt.Sprintf(format, args...),
	}
}

func (p *Parser) context() []token.Token {
	lo := p.pos - contextRadius
	if lo < 0 {
		lo = 0
	}
	hi := p.pos + contextRadius + 1
	if hi > len(p.tokens) {
		hi = len(p.tokens)
	}
	return append([]token.Token(nil), p.tokens[lo:hi]...)
}
