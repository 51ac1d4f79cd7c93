package ast

import "math/big"

type NodeType string

const (
	NodeProgram           NodeType = "Program"
	NodeBlock             NodeType = "Block"
	NodeVarDecl           NodeType = "VarDecl"
	NodeTypeSpec          NodeType = "TypeSpec"
	NodeCompoundStatement NodeType = "CompoundStatement"
	NodeAssignment        NodeType = "Assignment"
	NodeNoOp              NodeType = "NoOp"
	NodeBinaryExpression  NodeType = "BinaryExpression"
	NodeUnaryExpression   NodeType = "UnaryExpression"
	NodeIntegerLiteral    NodeType = "IntegerLiteral"
	NodeRealLiteral       NodeType = "RealLiteral"
	NodeVariable          NodeType = "Variable"
)

// Position is a 1-based line/column pair.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span covers the source text a node was parsed from.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Loc  Span     `json:"span"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.Loc }
func (nodeImpl) isNode()              {}

func (n *nodeImpl) setSpan(span Span) { n.Loc = span }

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Operator is the textual form of an arithmetic operator.
type Operator string

const (
	OperatorAdd     Operator = "+"
	OperatorSub     Operator = "-"
	OperatorMul     Operator = "*"
	OperatorRealDiv Operator = "/"
	OperatorIntDiv  Operator = "DIV"
)

// TypeName is one of the two declarable scalar types.
type TypeName string

const (
	TypeInteger TypeName = "INTEGER"
	TypeReal    TypeName = "REAL"
)

// Program is the root of every tree.

type Program struct {
	nodeImpl

	Name  string `json:"name"`
	Block *Block `json:"block"`
}

func NewProgram(name string, block *Block) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Name: name, Block: block}
}

type Block struct {
	nodeImpl

	Declarations []*VarDecl         `json:"declarations"`
	Body         *CompoundStatement `json:"body"`
}

func NewBlock(declarations []*VarDecl, body *CompoundStatement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Declarations: declarations, Body: body}
}

// VarDecl declares a single name. `a, b : INTEGER` yields two VarDecls
// sharing one TypeSpec.
type VarDecl struct {
	nodeImpl

	Variable *Variable `json:"variable"`
	Type     *TypeSpec `json:"varType"`
}

func NewVarDecl(variable *Variable, typ *TypeSpec) *VarDecl {
	return &VarDecl{nodeImpl: newNodeImpl(NodeVarDecl), Variable: variable, Type: typ}
}

type TypeSpec struct {
	nodeImpl

	Name TypeName `json:"name"`
}

func NewTypeSpec(name TypeName) *TypeSpec {
	return &TypeSpec{nodeImpl: newNodeImpl(NodeTypeSpec), Name: name}
}

// Statements

type CompoundStatement struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"statements"`
}

func NewCompoundStatement(statements []Statement) *CompoundStatement {
	return &CompoundStatement{nodeImpl: newNodeImpl(NodeCompoundStatement), Statements: statements}
}

type Assignment struct {
	nodeImpl
	statementMarker

	Target *Variable  `json:"target"`
	Value  Expression `json:"value"`
}

func NewAssignment(target *Variable, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Target: target, Value: value}
}

type NoOp struct {
	nodeImpl
	statementMarker
}

func NewNoOp() *NoOp {
	return &NoOp{nodeImpl: newNodeImpl(NodeNoOp)}
}

// Expressions

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator Operator   `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator Operator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator Operator   `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator Operator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value *big.Int `json:"value"`
}

func NewIntegerLiteral(value *big.Int) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type RealLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value float64 `json:"value"`
}

func NewRealLiteral(value float64) *RealLiteral {
	return &RealLiteral{nodeImpl: newNodeImpl(NodeRealLiteral), Value: value}
}

// Variable references a global by name, both as an assignment target and
// as an operand.
type Variable struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewVariable(name string) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name}
}
