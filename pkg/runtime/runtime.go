// Package runtime provides the top-level Toy runtime orchestrator.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/toylang/toy/pkg/ast"
	"github.com/toylang/toy/pkg/checker"
	"github.com/toylang/toy/pkg/diagnostics"
	"github.com/toylang/toy/pkg/evaluator"
	"github.com/toylang/toy/pkg/parser"
	"github.com/toylang/toy/pkg/printer"
)

// Process exit codes for the outcome of a run.
const (
	ExitOK      = 0
	ExitIOError = 1
	ExitStatic  = 2
	ExitRuntime = 4
)

// Runtime wires together all Toy components for program execution. A
// Runtime keeps one interpreter for its whole life, so successive Run
// calls share global variables.
type Runtime struct {
	out    io.Writer
	logger *slog.Logger
	budget evaluator.Budget
	debug  io.Writer
	interp *evaluator.Interpreter
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithOutput sets where log statements print.
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.out = w
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = l
	}
}

// WithBudget sets per-run resource limits.
func WithBudget(b evaluator.Budget) Option {
	return func(rt *Runtime) {
		rt.budget = b
	}
}

// WithDebugParse makes Run print the parenthesized tree to w before
// evaluating.
func WithDebugParse(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.debug = w
	}
}

// New creates a new Runtime with the given options.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		out:    os.Stdout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.interp = evaluator.New(
		evaluator.WithOutput(rt.out),
		evaluator.WithLogger(rt.logger),
		evaluator.WithBudget(rt.budget),
	)
	return rt
}

// Run parses, checks, and executes a Toy program. Static diagnostics are
// returned as a *DiagnosticError and nothing is executed; a failure during
// execution is returned as an *evaluator.RuntimeError.
func (rt *Runtime) Run(ctx context.Context, source string) error {
	stmts, sink := rt.analyze(source)
	if rt.debug != nil {
		fmt.Fprintln(rt.debug, printer.Stmts(stmts))
	}
	if sink.HasErrors() {
		rt.logger.Debug("static diagnostics", slog.Int("count", sink.Len()))
		return &DiagnosticError{Diagnostics: sink.Diagnostics()}
	}

	if rt.budget.TimeMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(rt.budget.TimeMs)*time.Millisecond)
		defer cancel()
	}

	return rt.interp.Interpret(ctx, stmts)
}

// Check parses and checks a Toy program without executing it.
func (rt *Runtime) Check(source string) []diagnostics.Diagnostic {
	_, sink := rt.analyze(source)
	return sink.Diagnostics()
}

// Dump parses a Toy program and returns its parenthesized form.
func (rt *Runtime) Dump(source string) (string, error) {
	stmts, diags := parser.Parse(source)
	if len(diags) > 0 {
		return printer.Stmts(stmts), &DiagnosticError{Diagnostics: diags}
	}
	return printer.Stmts(stmts), nil
}

func (rt *Runtime) analyze(source string) ([]ast.Stmt, *diagnostics.Sink) {
	stmts, diags := parser.Parse(source)

	sink := &diagnostics.Sink{}
	sink.Merge(diags)
	sink.Merge(checker.Check(stmts))
	return stmts, sink
}

// DiagnosticError wraps static diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}

// Diagnostics extracts the diagnostics carried by err, if any.
func Diagnostics(err error) []diagnostics.Diagnostic {
	var diagErr *DiagnosticError
	if errors.As(err, &diagErr) {
		return diagErr.Diagnostics
	}
	var rtErr *evaluator.RuntimeError
	if errors.As(err, &rtErr) {
		return []diagnostics.Diagnostic{rtErr.Diagnostic()}
	}
	return nil
}

// FormatError renders err the way the CLI reports it.
func FormatError(err error, asJSON bool) string {
	if diags := Diagnostics(err); diags != nil {
		return diagnostics.FormatDiagnostics(diags, asJSON)
	}
	return err.Error()
}

// ExitCode maps the result of Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var diagErr *DiagnosticError
	if errors.As(err, &diagErr) {
		return ExitStatic
	}
	var rtErr *evaluator.RuntimeError
	if errors.As(err, &rtErr) {
		return ExitRuntime
	}
	return ExitIOError
}
