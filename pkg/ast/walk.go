package ast

// Walk visits node and its descendants in source order. Children of a node
// are skipped when visit returns false for it.
func Walk(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		if n.Block != nil {
			Walk(n.Block, visit)
		}
	case *Block:
		for _, decl := range n.Declarations {
			Walk(decl, visit)
		}
		if n.Body != nil {
			Walk(n.Body, visit)
		}
	case *VarDecl:
		if n.Variable != nil {
			Walk(n.Variable, visit)
		}
		if n.Type != nil {
			Walk(n.Type, visit)
		}
	case *CompoundStatement:
		for _, stmt := range n.Statements {
			Walk(stmt, visit)
		}
	case *Assignment:
		if n.Target != nil {
			Walk(n.Target, visit)
		}
		Walk(n.Value, visit)
	case *BinaryExpression:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *UnaryExpression:
		Walk(n.Operand, visit)
	}
}
