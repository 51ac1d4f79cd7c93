package interpreter

import (
	"fmt"

	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
	"github.com/YagoCrispim/pascal-interpreter/pkg/runtime"
)

// Interpreter walks a parsed program and records assignments in a single
// global table.
type Interpreter struct {
	global *runtime.Environment
}

// New returns an interpreter with an empty global environment.
func New() *Interpreter {
	return &Interpreter{global: runtime.NewEnvironment()}
}

// Globals returns the interpreter's global environment.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.global
}

// EvaluateProgram runs the program body and returns the final variable
// table. On error the table holds whatever was assigned before the failure
// and no snapshot is returned.
func (i *Interpreter) EvaluateProgram(program *ast.Program) (runtime.Snapshot, error) {
	if program == nil {
		return nil, fmt.Errorf("interpreter: nil program")
	}
	if err := i.evaluateBlock(program.Block); err != nil {
		return nil, err
	}
	return i.global.Snapshot(), nil
}

// Evaluate is a convenience wrapper around New().EvaluateProgram.
func Evaluate(program *ast.Program) (runtime.Snapshot, error) {
	return New().EvaluateProgram(program)
}
