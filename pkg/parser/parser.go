// Package parser implements the Toy language parser.
package parser

import (
	"github.com/toylang/toy/pkg/ast"
	"github.com/toylang/toy/pkg/diagnostics"
	"github.com/toylang/toy/pkg/lexer"
	"github.com/toylang/toy/pkg/token"
	"github.com/toylang/toy/pkg/value"
)

// parseError signals that the current declaration must be abandoned.
// The diagnostic has already been recorded when it is returned.
type parseError struct {
	diag diagnostics.Diagnostic
}

func (e *parseError) Error() string {
	return e.diag.String()
}

type parser struct {
	tokens []token.Token
	pos    int
	diags  diagnostics.Sink
}

// Parse tokenizes source and parses it into a statement list. Lexical
// diagnostics come first, followed by syntax diagnostics. When any
// diagnostic is returned the statements must not be executed.
func Parse(source string) ([]ast.Stmt, []diagnostics.Diagnostic) {
	tokens, lexDiags := lexer.Tokenize(source)
	stmts, parseDiags := ParseTokens(tokens)

	var all diagnostics.Sink
	all.Merge(lexDiags)
	all.Merge(parseDiags)
	return stmts, all.Diagnostics()
}

// ParseTokens parses a token slice terminated by an EOF token. Failed
// declarations are kept as *ast.Bad placeholders.
func ParseTokens(tokens []token.Token) ([]ast.Stmt, []diagnostics.Diagnostic) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.New(token.EOF, "", line))
	}

	p := &parser{tokens: tokens}
	var stmts []ast.Stmt
	for !p.atEnd() {
		stmts = append(stmts, p.declaration())
	}
	return stmts, p.diags.Diagnostics()
}

func (p *parser) current() token.Token {
	return p.tokens[p.pos]
}

func (p *parser) previous() token.Token {
	return p.tokens[p.pos-1]
}

func (p *parser) atEnd() bool {
	return p.current().Type == token.EOF
}

func (p *parser) check(typ token.Type) bool {
	return !p.atEnd() && p.current().Type == typ
}

func (p *parser) advance() token.Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.previous()
}

// match consumes the current token if it has one of the given types.
func (p *parser) match(types ...token.Type) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) expect(typ token.Type, msg string) (token.Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}
	return p.current(), p.errorAt(p.current(), msg)
}

func (p *parser) errorAt(tok token.Token, msg string) *parseError {
	diag := diagnostics.AtToken(diagnostics.EParse, tok, msg)
	p.diags.Add(diag)
	return &parseError{diag: diag}
}

// synchronize discards tokens up to and including the next ';' so parsing
// can resume at a statement boundary.
func (p *parser) synchronize() {
	for !p.atEnd() {
		if p.advance().Type == token.Semicolon {
			return
		}
	}
}

// --- Declarations ---

func (p *parser) declaration() ast.Stmt {
	start := p.current()

	var stmt ast.Stmt
	var err error
	if p.match(token.Var) {
		stmt, err = p.varDeclaration()
	} else {
		stmt, err = p.statement()
	}

	if err != nil {
		p.synchronize()
		return &ast.Bad{From: start}
	}
	return stmt
}

func (p *parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.expect(token.Identifier, "Expected variable name.")
	if err != nil {
		return nil, err
	}

	var init ast.Expr
	if p.match(token.Equal) {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.Semicolon, "Expected ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &ast.Var{Name: name, Initializer: init}, nil
}

// --- Statements ---

func (p *parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(token.Break):
		return p.breakStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.Log):
		return p.logStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.LeftBrace):
		brace := p.previous()
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.Block{Brace: brace, Statements: stmts}, nil
	}
	return p.expressionStatement()
}

func (p *parser) breakStatement() (ast.Stmt, error) {
	keyword := p.previous()
	if _, err := p.expect(token.Semicolon, "Expected ';' after break statement."); err != nil {
		return nil, err
	}
	return &ast.Break{Keyword: keyword}, nil
}

// forStatement desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
//
// with a missing condition becoming true.
func (p *parser) forStatement() (ast.Stmt, error) {
	keyword := p.previous()
	if _, err := p.expect(token.LeftParen, "Expected '(' after 'for'."); err != nil {
		return nil, err
	}

	var init ast.Stmt
	var err error
	switch {
	case p.match(token.Semicolon):
	case p.match(token.Var):
		init, err = p.varDeclaration()
	default:
		init, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		if cond, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semicolon, "Expected ';' after for loop condition."); err != nil {
		return nil, err
	}

	var incr ast.Expr
	if !p.check(token.RightParen) {
		if incr, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RightParen, "Expected ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if incr != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.Expression{Expr: incr}}}
	}
	if cond == nil {
		cond = &ast.Literal{Value: value.NewBool(true), Token: keyword}
	}
	body = &ast.While{Keyword: keyword, Condition: cond, Body: body}

	if init != nil {
		body = &ast.Block{Statements: []ast.Stmt{init, body}}
	}
	return body, nil
}

func (p *parser) ifStatement() (ast.Stmt, error) {
	keyword := p.previous()
	if _, err := p.expect(token.LeftParen, "Expected '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RightParen, "Expected ')' after if condition."); err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	var els ast.Stmt
	if p.match(token.Else) {
		if els, err = p.statement(); err != nil {
			return nil, err
		}
	}

	return &ast.If{Keyword: keyword, Condition: cond, Then: then, Else: els}, nil
}

func (p *parser) logStatement() (ast.Stmt, error) {
	keyword := p.previous()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "Expected ';' after value."); err != nil {
		return nil, err
	}
	return &ast.Log{Keyword: keyword, Expr: expr}, nil
}

func (p *parser) whileStatement() (ast.Stmt, error) {
	keyword := p.previous()
	if _, err := p.expect(token.LeftParen, "Expected '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RightParen, "Expected ')' after while condition."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Keyword: keyword, Condition: cond, Body: body}, nil
}

// block parses declarations up to the closing brace. A declaration that
// fails inside the block is recovered locally, like at top level.
func (p *parser) block() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		stmts = append(stmts, p.declaration())
	}

	if _, err := p.expect(token.RightBrace, "Expected '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "Expected ';' after expression."); err != nil {
		return nil, err
	}
	return &ast.Expression{Expr: expr}, nil
}

// --- Expressions ---

func (p *parser) expression() (ast.Expr, error) {
	return p.assignment()
}

// assignment is right-associative. An invalid target is reported but does
// not abandon the declaration.
func (p *parser) assignment() (ast.Expr, error) {
	expr, err := p.logicalOr()
	if err != nil {
		return nil, err
	}

	if p.match(token.Equal) {
		equals := p.previous()
		val, err := p.assignment()
		if err != nil {
			return nil, err
		}

		if v, ok := expr.(*ast.Variable); ok {
			return &ast.Assign{Name: v.Name, Value: val}, nil
		}
		p.errorAt(equals, "Invalid assignment target.")
	}

	return expr, nil
}

func (p *parser) logicalOr() (ast.Expr, error) {
	return p.logical(p.logicalAnd, token.OrOr)
}

func (p *parser) logicalAnd() (ast.Expr, error) {
	return p.logical(p.equality, token.AndAnd)
}

func (p *parser) logical(next func() (ast.Expr, error), op token.Type) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for p.match(op) {
		operator := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{Left: left, Operator: operator, Right: right}
	}
	return left, nil
}

func (p *parser) equality() (ast.Expr, error) {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *parser) comparison() (ast.Expr, error) {
	return p.binary(p.additive, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *parser) additive() (ast.Expr, error) {
	return p.binary(p.multiplicative, token.Plus, token.Minus)
}

func (p *parser) multiplicative() (ast.Expr, error) {
	return p.binary(p.prefix, token.Slash, token.Star, token.Percent)
}

// binary parses a left-associative tier whose operands come from next.
func (p *parser) binary(next func() (ast.Expr, error), ops ...token.Type) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for p.match(ops...) {
		operator := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Operator: operator, Right: right}
	}
	return left, nil
}

func (p *parser) prefix() (ast.Expr, error) {
	if p.match(token.Bang, token.Minus, token.PlusPlus, token.MinusMinus) {
		operator := p.previous()
		operand, err := p.prefix()
		if err != nil {
			return nil, err
		}
		return &ast.Prefix{Operator: operator, Operand: operand}, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (ast.Expr, error) {
	expr, err := p.call()
	if err != nil {
		return nil, err
	}

	if p.match(token.PlusPlus, token.MinusMinus) {
		return &ast.Postfix{Operand: expr, Operator: p.previous()}, nil
	}
	return expr, nil
}

// call has no call syntax yet and forwards to primary.
func (p *parser) call() (ast.Expr, error) {
	return p.primary()
}

func (p *parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.False):
		return &ast.Literal{Value: value.NewBool(false), Token: p.previous()}, nil
	case p.match(token.True):
		return &ast.Literal{Value: value.NewBool(true), Token: p.previous()}, nil
	case p.match(token.Undefined):
		return &ast.Literal{Value: value.NewUndefined(), Token: p.previous()}, nil
	case p.match(token.Number, token.String):
		tok := p.previous()
		return &ast.Literal{Value: tok.Literal, Token: tok}, nil
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}, nil
	case p.match(token.LeftParen):
		paren := p.previous()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RightParen, "Expected ')' after expression."); err != nil {
			return nil, err
		}
		return &ast.Grouping{Inner: inner, Paren: paren}, nil
	}

	return nil, p.errorAt(p.current(), "Expression expected.")
}
