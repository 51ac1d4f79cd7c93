package parser

import (
	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
	"github.com/YagoCrispim/pascal-interpreter/pkg/token"
)

// program : PROGRAM variable SEMI block DOT
func (p *Parser) parseProgram() (*ast.Program, error) {
	first, err := p.expect(token.Program)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Dot); err != nil {
		return nil, err
	}
	return annotate(p, ast.NewProgram(name.Lexeme, block), first), nil
}

// block : declarations compound_statement
func (p *Parser) parseBlock() (*ast.Block, error) {
	first := p.peek()
	decls, err := p.parseDeclarations()
	if err != nil {
		return nil, err
	}
	body, err := p.parseCompoundStatement()
	if err != nil {
		return nil, err
	}
	return annotate(p, ast.NewBlock(decls, body), first), nil
}

// declarations : VAR (variable_declaration SEMI)+ | empty
//
// A VAR keyword followed directly by BEGIN is accepted.
func (p *Parser) parseDeclarations() ([]*ast.VarDecl, error) {
	var decls []*ast.VarDecl
	if p.peek().Kind != token.Var {
		return decls, nil
	}
	p.advance()
	for p.peek().Kind == token.ID {
		group, err := p.parseVariableDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, group...)
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
	}
	return decls, nil
}

// variable_declaration : ID (COMMA ID)* COLON type_spec
//
// Each name gets its own VarDecl and TypeSpec.
func (p *Parser) parseVariableDeclaration() ([]*ast.VarDecl, error) {
	var names []token.Token
	first, err := p.expect(token.ID)
	if err != nil {
		return nil, err
	}
	names = append(names, first)
	for p.peek().Kind == token.Comma {
		p.advance()
		name, err := p.expect(token.ID)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	typ, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}

	decls := make([]*ast.VarDecl, 0, len(names))
	for _, name := range names {
		variable := ast.NewVariable(name.Lexeme)
		ast.SetSpan(variable, ast.Span{Start: startOf(name), End: endOf(name)})
		spec := ast.NewTypeSpec(typ.Name)
		ast.SetSpan(spec, typ.Span())
		decl := ast.NewVarDecl(variable, spec)
		ast.SetSpan(decl, ast.Span{Start: startOf(name), End: typ.Span().End})
		decls = append(decls, decl)
	}
	return decls, nil
}

// type_spec : INTEGER | REAL
func (p *Parser) parseTypeSpec() (*ast.TypeSpec, error) {
	tok := p.peek()
	var name ast.TypeName
	switch tok.Kind {
	case token.Integer:
		name = ast.TypeInteger
	case token.Real:
		name = ast.TypeReal
	default:
		return nil, p.errorf(tok, []token.Kind{token.Integer, token.Real}, "invalid type %s", tok.Value())
	}
	p.advance()
	return annotate(p, ast.NewTypeSpec(name), tok), nil
}
