package parser

import (
	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
	"github.com/YagoCrispim/pascal-interpreter/pkg/token"
)

// compound_statement : BEGIN statement_list END
func (p *Parser) parseCompoundStatement() (*ast.CompoundStatement, error) {
	first, err := p.expect(token.Begin)
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.End); err != nil {
		return nil, err
	}
	return annotate(p, ast.NewCompoundStatement(stmts), first), nil
}

// statement_list : statement (SEMI statement)*
func (p *Parser) parseStatementList() ([]ast.Statement, error) {
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmts := []ast.Statement{stmt}
	for p.peek().Kind == token.Semi {
		p.advance()
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// statement : compound_statement | assignment_statement | empty
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.peek().Kind {
	case token.Begin:
		stmt, err := p.parseCompoundStatement()
		if err != nil {
			return nil, err
		}
		return stmt, nil
	case token.ID:
		stmt, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return stmt, nil
	default:
		return annotate(p, ast.NewNoOp(), p.peek()), nil
	}
}

// assignment_statement : variable ASSIGN expr
func (p *Parser) parseAssignment() (*ast.Assignment, error) {
	first := p.peek()
	target, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return annotate(p, ast.NewAssignment(target, value), first), nil
}

// variable : ID
func (p *Parser) parseVariable() (*ast.Variable, error) {
	tok, err := p.expect(token.ID)
	if err != nil {
		return nil, err
	}
	return annotate(p, ast.NewVariable(tok.Lexeme), tok), nil
}
