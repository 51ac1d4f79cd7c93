package interpreter

import (
	"math/big"

	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
	"github.com/YagoCrispim/pascal-interpreter/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: new(big.Int).Set(n.Value)}, nil
	case *ast.RealLiteral:
		return runtime.RealValue{Val: n.Value}, nil
	case *ast.Variable:
		return i.evaluateVariable(n)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n)
	default:
		return nil, &UnsupportedNodeError{Type: node.NodeType(), Span: node.Span()}
	}
}

func (i *Interpreter) evaluateVariable(v *ast.Variable) (runtime.Value, error) {
	val, ok := i.global.Get(v.Name)
	if !ok {
		return nil, &UndefinedVariableError{Name: v.Name, Span: v.Span()}
	}
	return val, nil
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.OperatorAdd:
		return operand, nil
	case ast.OperatorSub:
		switch v := operand.(type) {
		case runtime.IntegerValue:
			return runtime.IntegerValue{Val: new(big.Int).Neg(v.Val)}, nil
		case runtime.RealValue:
			return runtime.RealValue{Val: -v.Val}, nil
		}
	}
	return nil, &OperatorError{Operator: expr.Operator, Span: expr.Span()}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	val, err := applyBinaryOperator(expr.Operator, left, right)
	if err != nil {
		return nil, withSpan(err, expr.Span())
	}
	return val, nil
}
