package token

import (
	"fmt"
	"math/big"
	"strconv"
)

// Kind identifies the lexical category of a token.
type Kind int

const (
	EOF Kind = iota
	ID
	IntegerConst
	RealConst

	// keywords
	Program
	Var
	Begin
	End
	Integer
	Real
	IntegerDiv

	Plus
	Minus
	Mul
	FloatDiv
	Assign
	Colon
	Semi
	Comma
	Dot
	LParen
	RParen
)

var kindNames = [...]string{
	EOF:          "EOF",
	ID:           "ID",
	IntegerConst: "INTEGER_CONST",
	RealConst:    "REAL_CONST",
	Program:      "PROGRAM",
	Var:          "VAR",
	Begin:        "BEGIN",
	End:          "END",
	Integer:      "INTEGER",
	Real:         "REAL",
	IntegerDiv:   "INTEGER_DIV",
	Plus:         "PLUS",
	Minus:        "MINUS",
	Mul:          "MUL",
	FloatDiv:     "FLOAT_DIV",
	Assign:       "ASSIGN",
	Colon:        "COLON",
	Semi:         "SEMI",
	Comma:        "COMMA",
	Dot:          "DOT",
	LParen:       "LPAREN",
	RParen:       "RPAREN",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsKeyword reports whether k is produced from a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= Program && k <= IntegerDiv
}

var keywords = map[string]Kind{
	"PROGRAM": Program,
	"VAR":     Var,
	"BEGIN":   Begin,
	"END":     End,
	"INTEGER": Integer,
	"REAL":    Real,
	"DIV":     IntegerDiv,
}

// LookupIdent maps a word to its keyword kind, or ID when the word is not
// reserved. Matching is case-sensitive.
func LookupIdent(word string) Kind {
	if kind, ok := keywords[word]; ok {
		return kind
	}
	return ID
}

// Position locates a token in the source text. Line and Column are 1-based,
// Offset counts runes from the start of input.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is an immutable lexical unit. Int is set for INTEGER_CONST, Real for
// REAL_CONST; every other kind carries its text in Lexeme only.
type Token struct {
	Kind   Kind     `json:"kind"`
	Lexeme string   `json:"lexeme"`
	Int    *big.Int `json:"int,omitempty"`
	Real   float64  `json:"real,omitempty"`
	Pos    Position `json:"pos"`
}

// Value returns the printable payload of the token.
func (t Token) Value() string {
	switch t.Kind {
	case EOF:
		return "None"
	case IntegerConst:
		if t.Int != nil {
			return t.Int.String()
		}
	case RealConst:
		return strconv.FormatFloat(t.Real, 'g', -1, 64)
	}
	return t.Lexeme
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %s)", t.Kind, t.Value())
}

// Equal compares kind and payload, ignoring position.
func (t Token) Equal(other Token) bool {
	if t.Kind != other.Kind || t.Lexeme != other.Lexeme {
		return false
	}
	switch t.Kind {
	case IntegerConst:
		if t.Int == nil || other.Int == nil {
			return t.Int == other.Int
		}
		return t.Int.Cmp(other.Int) == 0
	case RealConst:
		return t.Real == other.Real
	}
	return true
}
