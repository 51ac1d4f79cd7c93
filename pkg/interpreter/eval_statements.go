package interpreter

import (
	"fmt"

	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
	"github.com/YagoCrispim/pascal-interpreter/pkg/runtime"
)

// evaluateBlock skips declarations; they have no runtime effect.
func (i *Interpreter) evaluateBlock(block *ast.Block) error {
	if block == nil {
		return fmt.Errorf("interpreter: program has no block")
	}
	if block.Body == nil {
		return nil
	}
	return i.evaluateCompound(block.Body)
}

func (i *Interpreter) evaluateStatement(node ast.Statement) error {
	switch n := node.(type) {
	case *ast.CompoundStatement:
		return i.evaluateCompound(n)
	case *ast.Assignment:
		_, err := i.evaluateAssignment(n)
		return err
	case *ast.NoOp:
		return nil
	default:
		return &UnsupportedNodeError{Type: node.NodeType(), Span: node.Span()}
	}
}

func (i *Interpreter) evaluateCompound(block *ast.CompoundStatement) error {
	for _, stmt := range block.Statements {
		if err := i.evaluateStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluateAssignment(assign *ast.Assignment) (runtime.Value, error) {
	val, err := i.evaluateExpression(assign.Value)
	if err != nil {
		return nil, err
	}
	i.global.Set(assign.Target.Name, val)
	return val, nil
}
