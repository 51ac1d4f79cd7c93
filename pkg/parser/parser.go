package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
	"github.com/YagoCrispim/pascal-interpreter/pkg/lexer"
	"github.com/YagoCrispim/pascal-interpreter/pkg/token"
)

// ErrSyntax is wrapped by every error the parser returns.
var ErrSyntax = errors.New("syntax error")

// SyntaxError describes the token the parser could not accept.
type SyntaxError struct {
	Token    token.Token
	Expected []token.Kind
	// Context holds up to two tokens before and after the offending one.
	Context []token.Token
	Message string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s: %s", ErrSyntax, e.Token.Pos, e.Message)
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, k := range e.Expected {
			names[i] = k.String()
		}
		fmt.Fprintf(&b, " (expected %s, got %s)", strings.Join(names, " or "), e.Token)
	}
	return b.String()
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Parser consumes a finished token sequence with one token of lookahead.
type Parser struct {
	tokens []token.Token
	pos    int
	last   token.Token
}

// New wraps tokens produced by the lexer. The slice must end with EOF.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		var eofPos token.Position
		if len(tokens) > 0 {
			eofPos = tokens[len(tokens)-1].Pos
		}
		tokens = append(append([]token.Token(nil), tokens...), token.Token{Kind: token.EOF, Pos: eofPos})
	}
	return &Parser{tokens: tokens}
}

// ParseSource scans and parses src in one step.
func ParseSource(src string) (*ast.Program, error) {
	toks, err := lexer.Scan(src)
	if err != nil {
		return nil, err
	}
	return New(toks).ParseProgram()
}

// ParseProgram parses a whole program. Tokens left over after the final dot
// are a syntax error.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if cur := p.peek(); cur.Kind != token.EOF {
		return nil, p.errorf(cur, []token.Kind{token.EOF}, "unexpected token after end of program")
	}
	return prog, nil
}
