// Package checker implements static validation of Toy statement lists.
package checker

import (
	"github.com/toylang/toy/pkg/ast"
	"github.com/toylang/toy/pkg/diagnostics"
)

type checker struct {
	diags     diagnostics.Sink
	loopDepth int
}

// Check walks stmts and returns diagnostics for constructs the parser
// accepts but that cannot run, such as a break outside of a loop.
func Check(stmts []ast.Stmt) []diagnostics.Diagnostic {
	c := &checker{}
	c.checkStatements(stmts)
	return c.diags.Diagnostics()
}

func (c *checker) checkStatements(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		c.checkStmt(stmt)
	}
}

func (c *checker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		c.checkStatements(s.Statements)

	case *ast.Break:
		if c.loopDepth == 0 {
			c.diags.Add(diagnostics.AtToken(diagnostics.ECheck, s.Keyword, "Can't break outside of a loop."))
		}

	case *ast.If:
		c.checkStmt(s.Then)
		if s.Else != nil {
			c.checkStmt(s.Else)
		}

	case *ast.While:
		c.loopDepth++
		c.checkStmt(s.Body)
		c.loopDepth--

	case *ast.Expression, *ast.Log, *ast.Var, *ast.Bad:
		// expressions cannot contain statements
	}
}
