package parser

import (
	"unicode/utf8"

	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
	"github.com/YagoCrispim/pascal-interpreter/pkg/token"
)

func startOf(tok token.Token) ast.Position {
	return ast.Position{Line: tok.Pos.Line, Column: tok.Pos.Column}
}

func endOf(tok token.Token) ast.Position {
	return ast.Position{Line: tok.Pos.Line, Column: tok.Pos.Column + utf8.RuneCountInString(tok.Lexeme)}
}

// annotate sets the node's span from first up to the last consumed token.
func annotate[T ast.Node](p *Parser, node T, first token.Token) T {
	end := p.last
	if end.Pos.Offset < first.Pos.Offset {
		end = first
	}
	ast.SetSpan(node, ast.Span{Start: startOf(first), End: endOf(end)})
	return node
}
