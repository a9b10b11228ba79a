// Package ast defines the Toy language AST node types.
package ast

import (
	"github.com/toylang/toy/pkg/token"
	"github.com/toylang/toy/pkg/value"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	Line() int
}

// --- Expr is the interface for all expression nodes ---

type Expr interface {
	Node
	exprNode() // sealed marker
}

// --- Stmt is the interface for all statement nodes ---

type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// --- Expressions ---

// Assign stores Value into the variable Name.
type Assign struct {
	Name  token.Token
	Value Expr
}

func (n *Assign) Kind() string { return "Assign" }
func (n *Assign) Line() int    { return n.Name.Line }
func (n *Assign) exprNode()    {}

type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (n *Binary) Kind() string { return "Binary" }
func (n *Binary) Line() int    { return n.Operator.Line }
func (n *Binary) exprNode()    {}

// Grouping is a parenthesized expression.
type Grouping struct {
	Inner Expr
	Paren token.Token // opening parenthesis
}

func (n *Grouping) Kind() string { return "Grouping" }
func (n *Grouping) Line() int    { return n.Paren.Line }
func (n *Grouping) exprNode()    {}

type Literal struct {
	Value value.Value
	Token token.Token // zero for synthesized literals such as a for loop's default condition
}

func (n *Literal) Kind() string { return "Literal" }
func (n *Literal) Line() int    { return n.Token.Line }
func (n *Literal) exprNode()    {}

// Logical is a short-circuiting && or || expression.
type Logical struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (n *Logical) Kind() string { return "Logical" }
func (n *Logical) Line() int    { return n.Operator.Line }
func (n *Logical) exprNode()    {}

type Postfix struct {
	Operand  Expr
	Operator token.Token
}

func (n *Postfix) Kind() string { return "Postfix" }
func (n *Postfix) Line() int    { return n.Operator.Line }
func (n *Postfix) exprNode()    {}

type Prefix struct {
	Operator token.Token
	Operand  Expr
}

func (n *Prefix) Kind() string { return "Prefix" }
func (n *Prefix) Line() int    { return n.Operator.Line }
func (n *Prefix) exprNode()    {}

type Variable struct {
	Name token.Token
}

func (n *Variable) Kind() string { return "Variable" }
func (n *Variable) Line() int    { return n.Name.Line }
func (n *Variable) exprNode()    {}

// --- Statements ---

type Block struct {
	Brace      token.Token // opening brace, zero for blocks built by desugaring
	Statements []Stmt
}

func (n *Block) Kind() string { return "Block" }
func (n *Block) Line() int    { return n.Brace.Line }
func (n *Block) stmtNode()    {}

type Break struct {
	Keyword token.Token
}

func (n *Break) Kind() string { return "Break" }
func (n *Break) Line() int    { return n.Keyword.Line }
func (n *Break) stmtNode()    {}

// Expression evaluates Expr for its side effects.
type Expression struct {
	Expr Expr
}

func (n *Expression) Kind() string { return "Expression" }
func (n *Expression) Line() int    { return n.Expr.Line() }
func (n *Expression) stmtNode()    {}

type If struct {
	Keyword   token.Token
	Condition Expr
	Then      Stmt
	Else      Stmt // optional
}

func (n *If) Kind() string { return "If" }
func (n *If) Line() int    { return n.Keyword.Line }
func (n *If) stmtNode()    {}

type Log struct {
	Keyword token.Token
	Expr    Expr
}

func (n *Log) Kind() string { return "Log" }
func (n *Log) Line() int    { return n.Keyword.Line }
func (n *Log) stmtNode()    {}

type Var struct {
	Name        token.Token
	Initializer Expr // optional
}

func (n *Var) Kind() string { return "Var" }
func (n *Var) Line() int    { return n.Name.Line }
func (n *Var) stmtNode()    {}

type While struct {
	Keyword   token.Token
	Condition Expr
	Body      Stmt
}

func (n *While) Kind() string { return "While" }
func (n *While) Line() int    { return n.Keyword.Line }
func (n *While) stmtNode()    {}

// Bad stands in for a declaration that failed to parse. A statement list
// containing Bad nodes always comes with diagnostics and is never executed.
type Bad struct {
	From token.Token // first token of the failed declaration
}

func (n *Bad) Kind() string { return "Bad" }
func (n *Bad) Line() int    { return n.From.Line }
func (n *Bad) stmtNode()    {}
