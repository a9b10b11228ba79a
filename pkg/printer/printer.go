// Package printer renders Toy ASTs in a fully parenthesized prefix form for
// debugging. Every operator application gets its own parentheses, so the
// output shows exactly how precedence and associativity were resolved.
package printer

import (
	"strconv"
	"strings"

	"github.com/toylang/toy/pkg/ast"
	"github.com/toylang/toy/pkg/value"
)

const indent = "  "

// Stmts renders a statement list, one top-level statement per line.
func Stmts(stmts []ast.Stmt) string {
	lines := make([]string, len(stmts))
	for i, s := range stmts {
		lines[i] = Stmt(s)
	}
	return strings.Join(lines, "\n")
}

// Stmt renders a single statement.
func Stmt(s ast.Stmt) string {
	return formatStmt(s, 0)
}

// Expr renders a single expression.
func Expr(e ast.Expr) string {
	switch expr := e.(type) {
	case *ast.Assign:
		return parenthesize("=", expr.Name.Lexeme, Expr(expr.Value))
	case *ast.Binary:
		return parenthesize(expr.Operator.Lexeme, Expr(expr.Left), Expr(expr.Right))
	case *ast.Grouping:
		return parenthesize("group", Expr(expr.Inner))
	case *ast.Literal:
		return formatLiteral(expr.Value)
	case *ast.Logical:
		return parenthesize(expr.Operator.Lexeme, Expr(expr.Left), Expr(expr.Right))
	case *ast.Postfix:
		return parenthesize("post"+expr.Operator.Lexeme, Expr(expr.Operand))
	case *ast.Prefix:
		return parenthesize(expr.Operator.Lexeme, Expr(expr.Operand))
	case *ast.Variable:
		return expr.Name.Lexeme
	}
	return "(?)"
}

func formatStmt(s ast.Stmt, depth int) string {
	switch stmt := s.(type) {
	case *ast.Block:
		if len(stmt.Statements) == 0 {
			return "(block)"
		}
		inner := strings.Repeat(indent, depth+1)
		lines := make([]string, len(stmt.Statements))
		for i, child := range stmt.Statements {
			lines[i] = inner + formatStmt(child, depth+1)
		}
		return "(block\n" + strings.Join(lines, "\n") + ")"
	case *ast.Break:
		return "(break)"
	case *ast.Expression:
		return parenthesize("expr", Expr(stmt.Expr))
	case *ast.If:
		parts := []string{Expr(stmt.Condition), formatStmt(stmt.Then, depth)}
		if stmt.Else != nil {
			parts = append(parts, formatStmt(stmt.Else, depth))
		}
		return parenthesize("if", parts...)
	case *ast.Log:
		return parenthesize("log", Expr(stmt.Expr))
	case *ast.Var:
		if stmt.Initializer == nil {
			return parenthesize("var", stmt.Name.Lexeme)
		}
		return parenthesize("var", stmt.Name.Lexeme, Expr(stmt.Initializer))
	case *ast.While:
		return parenthesize("while", Expr(stmt.Condition), formatStmt(stmt.Body, depth))
	case *ast.Bad:
		return "(bad)"
	}
	return "(?)"
}

func formatLiteral(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return strconv.Quote(s.Value)
	}
	return value.Display(v)
}

func parenthesize(name string, parts ...string) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(name)
	for _, p := range parts {
		b.WriteString(" ")
		b.WriteString(p)
	}
	b.WriteString(")")
	return b.String()
}
