package lexer

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"unicode"

	"github.com/YagoCrispim/pascal-interpreter/pkg/token"
)

// ErrScan is wrapped by every error the scanner returns.
var ErrScan = errors.New("scan error")

const contextRadius = 10

// ScanError reports a character that cannot start any token.
type ScanError struct {
	Char    rune
	Pos     token.Position
	Context string
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s at %s: %s %q", ErrScan, e.Pos, e.Message, e.Char)
}

func (e *ScanError) Unwrap() error {
	return ErrScan
}

// Scanner converts source text into tokens. A Scanner is single use.
type Scanner struct {
	src  []rune
	pos  int
	line int
	col  int
}

// New prepares a scanner over src.
func New(src string) *Scanner {
	return &Scanner{src: []rune(src), line: 1, col: 1}
}

// Scan tokenizes src completely. The returned slice always ends with exactly
// one EOF token.
func Scan(src string) ([]token.Token, error) {
	return New(src).Tokens()
}

// Tokens drains the scanner.
func (s *Scanner) Tokens() ([]token.Token, error) {
	var out []token.Token
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out, nil
		}
	}
}

func (s *Scanner) peek() (rune, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos], true
}

func (s *Scanner) peekAt(offset int) (rune, bool) {
	i := s.pos + offset
	if i >= len(s.src) {
		return 0, false
	}
	return s.src[i], true
}

func (s *Scanner) advance() rune {
	ch := s.src[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

func (s *Scanner) position() token.Position {
	return token.Position{Offset: s.pos, Line: s.line, Column: s.col}
}

// skipTrivia consumes whitespace and brace comments. A comment ends at the
// first closing brace; an unclosed comment swallows the rest of the input.
func (s *Scanner) skipTrivia() {
	for {
		ch, ok := s.peek()
		if !ok {
			return
		}
		switch {
		case unicode.IsSpace(ch):
			s.advance()
		case ch == '{':
			s.advance()
			for {
				c, ok := s.peek()
				if !ok {
					return
				}
				s.advance()
				if c == '}' {
					break
				}
			}
		default:
			return
		}
	}
}

func (s *Scanner) next() (token.Token, error) {
	s.skipTrivia()
	start := s.position()
	ch, ok := s.peek()
	if !ok {
		return token.Token{Kind: token.EOF, Pos: start}, nil
	}

	switch {
	case unicode.IsLetter(ch):
		return s.word(start), nil
	case isDigit(ch):
		return s.number(start)
	}

	single := func(kind token.Kind) (token.Token, error) {
		s.advance()
		return token.Token{Kind: kind, Lexeme: string(ch), Pos: start}, nil
	}

	switch ch {
	case ':':
		if nextCh, ok := s.peekAt(1); ok && nextCh == '=' {
			s.advance()
			s.advance()
			return token.Token{Kind: token.Assign, Lexeme: ":=", Pos: start}, nil
		}
		return single(token.Colon)
	case ';':
		return single(token.Semi)
	case '+':
		return single(token.Plus)
	case '-':
		return single(token.Minus)
	case '*':
		return single(token.Mul)
	case '/':
		return single(token.FloatDiv)
	case '(':
		return single(token.LParen)
	case ')':
		return single(token.RParen)
	case '.':
		return single(token.Dot)
	case ',':
		return single(token.Comma)
	}

	return token.Token{}, &ScanError{
		Char:    ch,
		Pos:     start,
		Context: s.context(),
		Message: "invalid character",
	}
}

func (s *Scanner) word(start token.Position) token.Token {
	begin := s.pos
	for {
		ch, ok := s.peek()
		if !ok || !(unicode.IsLetter(ch) || unicode.IsDigit(ch)) {
			break
		}
		s.advance()
	}
	text := string(s.src[begin:s.pos])
	return token.Token{Kind: token.LookupIdent(text), Lexeme: text, Pos: start}
}

// number reads digits, optionally followed by a dot and more digits. A
// trailing dot with no fraction digits still yields a real.
func (s *Scanner) number(start token.Position) (token.Token, error) {
	begin := s.pos
	s.digits()
	ch, ok := s.peek()
	if !ok || ch != '.' {
		text := string(s.src[begin:s.pos])
		n, valid := new(big.Int).SetString(text, 10)
		if !valid {
			return token.Token{}, fmt.Errorf("%w at %s: malformed integer %q", ErrScan, start, text)
		}
		return token.Token{Kind: token.IntegerConst, Lexeme: text, Int: n, Pos: start}, nil
	}
	s.advance()
	s.digits()
	text := string(s.src[begin:s.pos])
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return token.Token{}, fmt.Errorf("%w at %s: malformed real %q: %v", ErrScan, start, text, err)
	}
	return token.Token{Kind: token.RealConst, Lexeme: text, Real: f, Pos: start}, nil
}

func (s *Scanner) digits() {
	for {
		ch, ok := s.peek()
		if !ok || !isDigit(ch) {
			return
		}
		s.advance()
	}
}

func (s *Scanner) context() string {
	lo := s.pos - contextRadius
	if lo < 0 {
		lo = 0
	}
	hi := s.pos + contextRadius
	if hi > len(s.src) {
		hi = len(s.src)
	}
	return string(s.src[lo:hi])
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
