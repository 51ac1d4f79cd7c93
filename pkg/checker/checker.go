package checker

import (
	"fmt"

	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
)

// Severity grades a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic represents a declaration problem found before evaluation.
type Diagnostic struct {
	Severity Severity
	Message  string
	Node     ast.Node
}

// Checker verifies that variables are declared once and before use. It does
// not compare INTEGER and REAL; evaluation accepts either in any slot.
type Checker struct {
	symbols  *SymbolTable
	assigned map[string]bool
	diags    []Diagnostic
}

// New returns a checker instance.
func New() *Checker {
	return &Checker{}
}

// Check is shorthand for New().CheckProgram.
func Check(program *ast.Program) ([]Diagnostic, error) {
	return New().CheckProgram(program)
}

// CheckProgram walks the program and returns its diagnostics in source
// order, followed by warnings for declared variables never assigned.
func (c *Checker) CheckProgram(program *ast.Program) ([]Diagnostic, error) {
	if program == nil {
		return nil, fmt.Errorf("checker: program is nil")
	}
	if program.Block == nil {
		return nil, fmt.Errorf("checker: program %q has no block", program.Name)
	}
	c.symbols = NewSymbolTable()
	c.assigned = make(map[string]bool)
	c.diags = nil

	for _, decl := range program.Block.Declarations {
		c.declare(decl)
	}
	if program.Block.Body != nil {
		c.checkStatement(program.Block.Body)
	}
	for _, sym := range c.symbols.Variables() {
		if !c.assigned[sym.Name] {
			c.report(SeverityWarning, sym.Decl, "variable %q is declared but never assigned", sym.Name)
		}
	}
	return c.diags, nil
}

// Symbols exposes the table built by the last CheckProgram call.
func (c *Checker) Symbols() *SymbolTable {
	return c.symbols
}

func (c *Checker) report(sev Severity, node ast.Node, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{Severity: sev, Message: fmt.Sprintf(format, args...), Node: node})
}

func (c *Checker) declare(decl *ast.VarDecl) {
	name := decl.Variable.Name
	typeSym, ok := c.symbols.Lookup(string(decl.Type.Name))
	if !ok || typeSym.Kind != SymbolBuiltinType {
		c.report(SeverityError, decl.Type, "unknown type %q", decl.Type.Name)
		return
	}
	if existing, dup := c.symbols.Lookup(name); dup {
		if existing.Kind == SymbolBuiltinType {
			// Only reachable from hand-built trees; the type names scan as keywords.
			c.report(SeverityError, decl, "%q is a type name and cannot be declared as a variable", name)
		} else {
			c.report(SeverityError, decl, "duplicate declaration of %q", name)
		}
		return
	}
	c.symbols.Define(&Symbol{Name: name, Kind: SymbolVariable, Type: typeSym, Decl: decl})
}

func (c *Checker) checkStatement(stmt ast.Statement) {
	switch n := stmt.(type) {
	case *ast.CompoundStatement:
		for _, child := range n.Statements {
			c.checkStatement(child)
		}
	case *ast.Assignment:
		c.checkExpression(n.Value)
		if c.requireDeclared(n.Target, "assignment to undeclared variable %q") {
			c.assigned[n.Target.Name] = true
		}
	case *ast.NoOp:
	}
}

func (c *Checker) checkExpression(expr ast.Expression) {
	ast.Walk(expr, func(node ast.Node) bool {
		if v, ok := node.(*ast.Variable); ok {
			c.requireDeclared(v, "use of undeclared variable %q")
		}
		return true
	})
}

func (c *Checker) requireDeclared(v *ast.Variable, format string) bool {
	sym, ok := c.symbols.Lookup(v.Name)
	if !ok || sym.Kind != SymbolVariable {
		c.report(SeverityError, v, format, v.Name)
		return false
	}
	return true
}
