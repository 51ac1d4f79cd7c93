package interpreter

import (
	"errors"
	"fmt"

	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
)

var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrUnsupportedNode   = errors.New("unsupported node")
	ErrInvalidOperand    = errors.New("invalid operand")
)

// RuntimeError is implemented by every evaluation failure that can point at
// the node that caused it.
type RuntimeError interface {
	error
	NodeSpan() ast.Span
}

// UndefinedVariableError is returned when a name is read before any
// assignment to it.
type UndefinedVariableError struct {
	Name string
	Span ast.Span
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("%s %q", ErrUndefinedVariable, e.Name)
}

func (e *UndefinedVariableError) Unwrap() error      { return ErrUndefinedVariable }
func (e *UndefinedVariableError) NodeSpan() ast.Span { return e.Span }

type DivisionByZeroError struct {
	Operator ast.Operator
	Span     ast.Span
}

func newDivisionByZeroError(op ast.Operator) *DivisionByZeroError {
	return &DivisionByZeroError{Operator: op}
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("%s in %s", ErrDivisionByZero, e.Operator)
}

func (e *DivisionByZeroError) Unwrap() error      { return ErrDivisionByZero }
func (e *DivisionByZeroError) NodeSpan() ast.Span { return e.Span }

// OperatorError reports an operator applied to operands it does not accept.
type OperatorError struct {
	Operator ast.Operator
	Span     ast.Span
}

func (e *OperatorError) Error() string {
	return fmt.Sprintf("%s for operator %s", ErrInvalidOperand, e.Operator)
}

func (e *OperatorError) Unwrap() error      { return ErrInvalidOperand }
func (e *OperatorError) NodeSpan() ast.Span { return e.Span }

// UnsupportedNodeError is unreachable for trees built by the parser.
type UnsupportedNodeError struct {
	Type ast.NodeType
	Span ast.Span
}

func (e *UnsupportedNodeError) Error() string {
	return fmt.Sprintf("%s type: %s", ErrUnsupportedNode, e.Type)
}

func (e *UnsupportedNodeError) Unwrap() error      { return ErrUnsupportedNode }
func (e *UnsupportedNodeError) NodeSpan() ast.Span { return e.Span }

// withSpan fills in the location of an operator failure.
func withSpan(err error, span ast.Span) error {
	switch e := err.(type) {
	case *DivisionByZeroError:
		if e.Span == (ast.Span{}) {
			e.Span = span
		}
	case *OperatorError:
		if e.Span == (ast.Span{}) {
			e.Span = span
		}
	}
	return err
}
