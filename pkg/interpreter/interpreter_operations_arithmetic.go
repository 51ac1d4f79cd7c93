package interpreter

import (
	"math"
	"math/big"

	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
	"github.com/YagoCrispim/pascal-interpreter/pkg/runtime"
)

func applyBinaryOperator(op ast.Operator, left, right runtime.Value) (runtime.Value, error) {
	lInt, lIsInt := left.(runtime.IntegerValue)
	rInt, rIsInt := right.(runtime.IntegerValue)

	if op == ast.OperatorRealDiv {
		return evaluateRealDivision(left, right)
	}

	if lIsInt && rIsInt {
		switch op {
		case ast.OperatorAdd:
			return runtime.IntegerValue{Val: new(big.Int).Add(lInt.Val, rInt.Val)}, nil
		case ast.OperatorSub:
			return runtime.IntegerValue{Val: new(big.Int).Sub(lInt.Val, rInt.Val)}, nil
		case ast.OperatorMul:
			return runtime.IntegerValue{Val: new(big.Int).Mul(lInt.Val, rInt.Val)}, nil
		case ast.OperatorIntDiv:
			q, err := floorDivBig(lInt.Val, rInt.Val)
			if err != nil {
				return nil, err
			}
			return runtime.IntegerValue{Val: q}, nil
		}
		return nil, &OperatorError{Operator: op}
	}

	lf, lok := runtime.ToFloat(left)
	rf, rok := runtime.ToFloat(right)
	if !lok || !rok {
		return nil, &OperatorError{Operator: op}
	}
	switch op {
	case ast.OperatorAdd:
		return runtime.RealValue{Val: lf + rf}, nil
	case ast.OperatorSub:
		return runtime.RealValue{Val: lf - rf}, nil
	case ast.OperatorMul:
		return runtime.RealValue{Val: lf * rf}, nil
	case ast.OperatorIntDiv:
		if rf == 0 {
			return nil, newDivisionByZeroError(op)
		}
		return runtime.RealValue{Val: floorDivFloat(lf, rf)}, nil
	}
	return nil, &OperatorError{Operator: op}
}

// evaluateRealDivision always produces a real, whatever the operand kinds.
func evaluateRealDivision(left, right runtime.Value) (runtime.Value, error) {
	lf, lok := runtime.ToFloat(left)
	rf, rok := runtime.ToFloat(right)
	if !lok || !rok {
		return nil, &OperatorError{Operator: ast.OperatorRealDiv}
	}
	if rf == 0 {
		return nil, newDivisionByZeroError(ast.OperatorRealDiv)
	}
	return runtime.RealValue{Val: lf / rf}, nil
}

// floorDivBig rounds the quotient toward negative infinity.
func floorDivBig(dividend, divisor *big.Int) (*big.Int, error) {
	if divisor == nil || divisor.Sign() == 0 {
		return nil, newDivisionByZeroError(ast.OperatorIntDiv)
	}
	quotient := new(big.Int).Quo(dividend, divisor)
	remainder := new(big.Int).Rem(dividend, divisor)
	if remainder.Sign() != 0 && (remainder.Sign() < 0) != (divisor.Sign() < 0) {
		quotient.Sub(quotient, big.NewInt(1))
	}
	return quotient, nil
}

// floorDivFloat derives the quotient from fmod so that a - q*b keeps the
// sign of b, then snaps to the nearest integral value.
func floorDivFloat(a, b float64) float64 {
	mod := math.Mod(a, b)
	div := (a - mod) / b
	if mod != 0 {
		if (b < 0) != (mod < 0) {
			div -= 1.0
		}
	}
	if div == 0 {
		return math.Copysign(0, a/b)
	}
	floor := math.Floor(div)
	if div-floor > 0.5 {
		floor += 1.0
	}
	return floor
}
