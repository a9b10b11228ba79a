// Package evaluator implements the Toy tree-walking interpreter.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/toylang/toy/pkg/ast"
	"github.com/toylang/toy/pkg/diagnostics"
	"github.com/toylang/toy/pkg/token"
	"github.com/toylang/toy/pkg/value"
)

// RuntimeError represents a runtime error during Toy execution. Token
// locates the construct that failed.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Diagnostic converts e for reporting.
func (e *RuntimeError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(diagnostics.ERuntime, e.Token.Line, "", e.Message)
}

func runtimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// breakSignal unwinds execution to the innermost enclosing while loop.
type breakSignal struct {
	keyword token.Token
}

func (b *breakSignal) Error() string {
	return "break"
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer that log statements print to.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = l
	}
}

// WithBudget sets the per-run resource limits.
func WithBudget(b Budget) Option {
	return func(in *Interpreter) {
		in.budget = b
	}
}

// Interpreter executes statement lists against a persistent global scope.
// Variables defined by one Interpret call remain visible to the next.
type Interpreter struct {
	env     *Env
	scope   Scope
	out     io.Writer
	logger  *slog.Logger
	budget  Budget
	tracker budgetTracker
}

// New creates an Interpreter writing to stdout.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		env:    NewEnv(),
		scope:  Global,
		out:    os.Stdout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Env returns the interpreter's scope arena.
func (in *Interpreter) Env() *Env {
	return in.env
}

// Interpret executes stmts in order. The first runtime error aborts the
// remaining statements and is returned as a *RuntimeError; bindings made
// before it are kept.
func (in *Interpreter) Interpret(ctx context.Context, stmts []ast.Stmt) error {
	start := time.Now()
	in.tracker = budgetTracker{}
	in.logger.Debug("run start", slog.Int("statements", len(stmts)))

	for _, stmt := range stmts {
		if err := in.execute(ctx, stmt); err != nil {
			var brk *breakSignal
			if errors.As(err, &brk) {
				err = runtimeError(brk.keyword, "Can't break outside of a loop.")
			}
			in.logger.Debug("run aborted",
				slog.String("error", err.Error()),
				slog.Duration("elapsed", time.Since(start)))
			return err
		}
	}

	in.logger.Debug("run end",
		slog.Int64("iterations", in.tracker.Iterations),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// --- Statements ---

func (in *Interpreter) execute(ctx context.Context, stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Block:
		return in.executeBlock(ctx, s.Statements, in.env.Push(in.scope))

	case *ast.Break:
		return &breakSignal{keyword: s.Keyword}

	case *ast.Expression:
		_, err := in.evaluate(s.Expr)
		return err

	case *ast.If:
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if value.Truthiness(cond) {
			return in.execute(ctx, s.Then)
		}
		if s.Else != nil {
			return in.execute(ctx, s.Else)
		}
		return nil

	case *ast.Log:
		val, err := in.evaluate(s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.out, value.Display(val))
		return nil

	case *ast.Var:
		var val value.Value = value.NewUndefined()
		if s.Initializer != nil {
			var err error
			if val, err = in.evaluate(s.Initializer); err != nil {
				return err
			}
		}
		in.env.Define(in.scope, s.Name.Lexeme, val)
		return nil

	case *ast.While:
		return in.executeWhile(ctx, s)

	case *ast.Bad:
		return runtimeError(s.From, "Cannot execute a statement that failed to parse.")
	}

	return fmt.Errorf("unsupported statement type: %T", stmt)
}

// executeBlock runs stmts in sc and discards sc on every exit path.
func (in *Interpreter) executeBlock(ctx context.Context, stmts []ast.Stmt, sc Scope) error {
	prev := in.scope
	in.scope = sc
	in.logger.Debug("push scope", slog.Int("depth", in.env.Depth()))
	defer func() {
		in.env.Pop(sc)
		in.scope = prev
		in.logger.Debug("pop scope", slog.Int("depth", in.env.Depth()))
	}()

	for _, stmt := range stmts {
		if err := in.execute(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) executeWhile(ctx context.Context, s *ast.While) error {
	for {
		if err := in.checkContext(ctx, s.Keyword); err != nil {
			return err
		}

		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if !value.Truthiness(cond) {
			return nil
		}

		if err := in.checkIterationBudget(s.Keyword); err != nil {
			return err
		}
		in.tracker.Iterations++

		if err := in.execute(ctx, s.Body); err != nil {
			var brk *breakSignal
			if errors.As(err, &brk) {
				in.logger.Debug("loop exit", slog.String("reason", "break"), slog.Int("line", brk.keyword.Line))
				return nil
			}
			return err
		}
	}
}

func (in *Interpreter) checkContext(ctx context.Context, at token.Token) error {
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return runtimeError(at, "Execution time budget exceeded.")
		}
		return runtimeError(at, "Execution cancelled.")
	default:
		return nil
	}
}

func (in *Interpreter) checkIterationBudget(at token.Token) error {
	if in.budget.MaxIterations > 0 && in.tracker.Iterations >= in.budget.MaxIterations {
		return runtimeError(at, "Iteration budget exceeded (max %d).", in.budget.MaxIterations)
	}
	return nil
}

// --- Expressions ---

func (in *Interpreter) evaluate(expr ast.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.Assign:
		val, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if err := in.env.Assign(in.scope, e.Name, val); err != nil {
			return nil, err
		}
		return val, nil

	case *ast.Binary:
		return in.evalBinary(e)

	case *ast.Grouping:
		return in.evaluate(e.Inner)

	case *ast.Literal:
		if e.Value == nil {
			return value.NewUndefined(), nil
		}
		return e.Value, nil

	case *ast.Logical:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Operator.Type == token.OrOr {
			if value.Truthiness(left) {
				return left, nil
			}
		} else if !value.Truthiness(left) {
			return left, nil
		}
		return in.evaluate(e.Right)

	case *ast.Postfix:
		operand, err := in.evaluate(e.Operand)
		if err != nil {
			return nil, err
		}
		return in.step(e.Operator, operand)

	case *ast.Prefix:
		return in.evalPrefix(e)

	case *ast.Variable:
		return in.env.Get(in.scope, e.Name)
	}

	return nil, fmt.Errorf("unsupported expression type: %T", expr)
}

func (in *Interpreter) evalPrefix(e *ast.Prefix) (value.Value, error) {
	operand, err := in.evaluate(e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case token.Bang:
		return value.NewBool(!value.Truthiness(operand)), nil
	case token.Minus:
		num, ok := operand.(value.Number)
		if !ok {
			return nil, in.typeError(e.Operator, "Operand must be a number.", operand)
		}
		return value.NewNumber(-num.Value), nil
	}
	return in.step(e.Operator, operand)
}

// step implements ++ and --. The result is the operand plus or minus one;
// the operand's storage is left untouched.
func (in *Interpreter) step(op token.Token, operand value.Value) (value.Value, error) {
	num, ok := operand.(value.Number)
	if !ok {
		return nil, in.typeError(op, "Operand must be a number.", operand)
	}
	if op.Type == token.MinusMinus {
		return value.NewNumber(num.Value - 1), nil
	}
	return value.NewNumber(num.Value + 1), nil
}

// typeError reports an operator applied to operands of the wrong kind.
func (in *Interpreter) typeError(op token.Token, msg string, operands ...value.Value) *RuntimeError {
	kinds := make([]string, len(operands))
	for i, v := range operands {
		kinds[i] = v.TypeName()
	}
	in.logger.Debug("type error",
		slog.String("operator", op.Lexeme),
		slog.String("operands", strings.Join(kinds, ",")),
		slog.Int("line", op.Line))
	return runtimeError(op, "%s", msg)
}

func (in *Interpreter) evalBinary(e *ast.Binary) (value.Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case token.Plus:
		if lNum, ok := left.(value.Number); ok {
			if rNum, ok := right.(value.Number); ok {
				return value.NewNumber(lNum.Value + rNum.Value), nil
			}
		}
		if lStr, ok := left.(value.String); ok {
			if rStr, ok := right.(value.String); ok {
				return value.NewString(lStr.Value + rStr.Value), nil
			}
		}
		return nil, in.typeError(e.Operator, "Operands must be two numbers or two strings.", left, right)

	case token.EqualEqual:
		return value.NewBool(value.Equal(left, right)), nil

	case token.BangEqual:
		return value.NewBool(!value.Equal(left, right)), nil
	}

	lNum, lOk := left.(value.Number)
	rNum, rOk := right.(value.Number)
	if !lOk || !rOk {
		return nil, in.typeError(e.Operator, "Operands must be numbers.", left, right)
	}
	l, r := lNum.Value, rNum.Value

	switch e.Operator.Type {
	case token.Minus:
		return value.NewNumber(l - r), nil
	case token.Star:
		return value.NewNumber(l * r), nil
	case token.Slash:
		if r == 0 {
			return nil, runtimeError(e.Operator, "Cannot divide by zero.")
		}
		return value.NewNumber(l / r), nil
	case token.Percent:
		return value.NewNumber(math.Mod(l, r)), nil
	case token.Greater:
		return value.NewBool(l > r), nil
	case token.GreaterEqual:
		return value.NewBool(l >= r), nil
	case token.Less:
		return value.NewBool(l < r), nil
	case token.LessEqual:
		return value.NewBool(l <= r), nil
	}

	return nil, runtimeError(e.Operator, "Unknown operator '%s'.", e.Operator.Lexeme)
}
