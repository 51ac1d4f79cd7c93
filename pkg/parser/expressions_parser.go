package parser

import (
	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
	"github.com/YagoCrispim/pascal-interpreter/pkg/token"
)

var additiveOperators = map[token.Kind]ast.Operator{
	token.Plus:  ast.OperatorAdd,
	token.Minus: ast.OperatorSub,
}

var multiplicativeOperators = map[token.Kind]ast.Operator{
	token.Mul:        ast.OperatorMul,
	token.IntegerDiv: ast.OperatorIntDiv,
	token.FloatDiv:   ast.OperatorRealDiv,
}

var factorStarts = []token.Kind{
	token.Plus, token.Minus, token.IntegerConst, token.RealConst, token.LParen, token.ID,
}

// expr : term ((PLUS | MINUS) term)*
func (p *Parser) parseExpr() (ast.Expression, error) {
	return p.parseBinaryChain(additiveOperators, p.parseTerm)
}

// term : factor ((MUL | INTEGER_DIV | FLOAT_DIV) factor)*
func (p *Parser) parseTerm() (ast.Expression, error) {
	return p.parseBinaryChain(multiplicativeOperators, p.parseFactor)
}

// parseBinaryChain folds operands to the left.
func (p *Parser) parseBinaryChain(ops map[token.Kind]ast.Operator, operand func() (ast.Expression, error)) (ast.Expression, error) {
	first := p.peek()
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.peek().Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = annotate(p, ast.Expression(ast.NewBinaryExpression(op, left, right)), first)
	}
}

// factor : PLUS factor | MINUS factor | INTEGER_CONST | REAL_CONST
//        | LPAREN expr RPAREN | variable
func (p *Parser) parseFactor() (ast.Expression, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.Plus, token.Minus:
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return annotate(p, ast.NewUnaryExpression(additiveOperators[tok.Kind], operand), tok), nil
	case token.IntegerConst:
		p.advance()
		return annotate(p, ast.NewIntegerLiteral(tok.Int), tok), nil
	case token.RealConst:
		p.advance()
		return annotate(p, ast.NewRealLiteral(tok.Real), tok), nil
	case token.LParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	case token.ID:
		variable, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		return variable, nil
	default:
		return nil, p.errorf(tok, factorStarts, "unexpected %s in expression", tok.Kind)
	}
}
