// Package ast defines the abstract syntax tree for monkey-lang.
//
// The node set is closed: Statement and Expression carry unexported marker methods, so
// only this package can add variants. Every node keeps the token it started from and the
// span of source it covers.
package ast

import (
	"monkey-lang/internal/span"
	"monkey-lang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	// TokenLiteral returns the literal text of the token the node was built from.
	TokenLiteral() string
	// String returns the canonical rendering of the node.
	String() string
	GetSpan() span.Span
}

// Statement is the interface for statement nodes.
type Statement interface {
	Node
	stmtNode()
}

// Expression is the interface for expression nodes.
type Expression interface {
	Node
	exprNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the originating token and span for all AST nodes.
type NodeBase struct {
	Token token.Token
	Span  span.Span
}

func (n NodeBase) TokenLiteral() string { return n.Token.Literal }
func (n NodeBase) GetSpan() span.Span   { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// Program (AST root)
// ============================================================

// Program is the root of every parse.
type Program struct {
	NodeBase
	Statements []Statement
}

// TokenLiteral returns the literal of the first statement, or "" for an empty program.
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// ============================================================
// Statements
// ============================================================

// LetStatement binds Name to Value: let x = expr;
type LetStatement struct {
	StmtBase
	Name  *Identifier
	Value Expression
}

// ReturnStatement represents: return expr;
type ReturnStatement struct {
	StmtBase
	ReturnValue Expression // may be nil for a bare "return;"
}

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	StmtBase
	Expression Expression
}

// BlockStatement represents a block of statements: { ... }.
type BlockStatement struct {
	StmtBase
	Statements []Statement
}

// ============================================================
// Expressions
// ============================================================

// Identifier represents an identifier reference.
type Identifier struct {
	ExprBase
	Value string
}

// IntegerLiteral represents an integer literal.
type IntegerLiteral struct {
	ExprBase
	Value int64
}

// Bool represents true or false.
type Bool struct {
	ExprBase
	Value bool
}

// StringLiteral represents a string literal.
type StringLiteral struct {
	ExprBase
	Value string
}

// PrefixExpression represents a unary operation: !x, -x.
type PrefixExpression struct {
	ExprBase
	Operator string
	Right    Expression
}

// InfixExpression represents a binary operation: a + b, x == y.
type InfixExpression struct {
	ExprBase
	Left     Expression
	Operator string
	Right    Expression
}

// IfExpression represents: if (cond) { ... } else { ... }.
type IfExpression struct {
	ExprBase
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement // may be nil
}

// FunctionLiteral represents: fn(params) { body }.
type FunctionLiteral struct {
	ExprBase
	Parameters []*Identifier
	Body       *BlockStatement
}

// CallExpression represents a function call: f(a, b).
type CallExpression struct {
	ExprBase
	Function  Expression // Identifier or FunctionLiteral, or any expression yielding a function
	Arguments []Expression
}

// ArrayLiteral represents an array literal: [a, b, c].
type ArrayLiteral struct {
	ExprBase
	Elements []Expression
}

// IndexExpression represents indexing: a[i].
type IndexExpression struct {
	ExprBase
	Left  Expression
	Index Expression
}

// HashPair is a single key/value entry of a hash literal.
type HashPair struct {
	Key   Expression
	Value Expression
}

// HashLiteral represents: {key: value, ...}. Pairs keep source order so rendering is
// stable; evaluation does not depend on it.
type HashLiteral struct {
	ExprBase
	Pairs []HashPair
}
