package runtime_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/toylang/toy/pkg/diagnostics"
	"github.com/toylang/toy/pkg/evaluator"
	"github.com/toylang/toy/pkg/runtime"
)

func newRuntime(out io.Writer, opts ...runtime.Option) *runtime.Runtime {
	opts = append([]runtime.Option{
		runtime.WithOutput(out),
		runtime.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return runtime.New(opts...)
}

func TestRunSuccess(t *testing.T) {
	var out bytes.Buffer
	rt := newRuntime(&out)
	err := rt.Run(context.Background(), `var a = 1; { var a = 2; log a; } log a;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "2\n1\n" {
		t.Errorf("got %q", out.String())
	}
	if code := runtime.ExitCode(err); code != runtime.ExitOK {
		t.Errorf("exit code = %d, want %d", code, runtime.ExitOK)
	}
}

func TestRunSyntaxErrorsSuppressEvaluation(t *testing.T) {
	var out bytes.Buffer
	rt := newRuntime(&out)
	err := rt.Run(context.Background(), "log 1;\nlog 2\nlog 3;\nlog 4\nlog 5;")

	var diagErr *runtime.DiagnosticError
	if !errors.As(err, &diagErr) {
		t.Fatalf("expected *runtime.DiagnosticError, got %v", err)
	}
	if len(diagErr.Diagnostics) != 2 {
		t.Errorf("expected 2 diagnostics, got %v", diagErr.Diagnostics)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should run, got output %q", out.String())
	}
	if code := runtime.ExitCode(err); code != runtime.ExitStatic {
		t.Errorf("exit code = %d, want %d", code, runtime.ExitStatic)
	}
}

func TestRunCheckerDiagnostics(t *testing.T) {
	var out bytes.Buffer
	rt := newRuntime(&out)
	err := rt.Run(context.Background(), "log 1;\nbreak;")

	want := "[line 2] Error at 'break': Can't break outside of a loop."
	if got := runtime.FormatError(err, false); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should run, got output %q", out.String())
	}
	if code := runtime.ExitCode(err); code != runtime.ExitStatic {
		t.Errorf("exit code = %d, want %d", code, runtime.ExitStatic)
	}
}

func TestRunRuntimeError(t *testing.T) {
	var out bytes.Buffer
	rt := newRuntime(&out)
	err := rt.Run(context.Background(), "log 1;\nlog 1/0;")

	var rtErr *evaluator.RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *evaluator.RuntimeError, got %v", err)
	}
	if got, want := runtime.FormatError(err, false), "Cannot divide by zero.\n[line 2]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if out.String() != "1\n" {
		t.Errorf("got output %q", out.String())
	}
	if code := runtime.ExitCode(err); code != runtime.ExitRuntime {
		t.Errorf("exit code = %d, want %d", code, runtime.ExitRuntime)
	}
}

func TestFormatErrorJSON(t *testing.T) {
	rt := newRuntime(io.Discard)
	err := rt.Run(context.Background(), "log 1/0;")
	got := runtime.FormatError(err, true)
	want := `[{"code":"E_RUNTIME","line":1,"message":"Cannot divide by zero."}]`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestExitCodeOtherErrors(t *testing.T) {
	if code := runtime.ExitCode(errors.New("boom")); code != runtime.ExitIOError {
		t.Errorf("exit code = %d, want %d", code, runtime.ExitIOError)
	}
	if diags := runtime.Diagnostics(errors.New("boom")); diags != nil {
		t.Errorf("plain errors carry no diagnostics, got %v", diags)
	}
	if got := runtime.FormatError(errors.New("boom"), false); got != "boom" {
		t.Errorf("got %q", got)
	}
}

func TestSessionPersistsAcrossRuns(t *testing.T) {
	var out bytes.Buffer
	rt := newRuntime(&out)
	ctx := context.Background()

	for _, line := range []string{"var x = 1;", "x = x + 1;", "log y;", "log x;"} {
		_ = rt.Run(ctx, line)
	}
	if out.String() != "2\n" {
		t.Errorf("got %q, want %q", out.String(), "2\n")
	}
}

func TestCheck(t *testing.T) {
	rt := newRuntime(io.Discard)
	if diags := rt.Check("log 1;"); len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	diags := rt.Check("log @;\nbreak;")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", diags)
	}
	if diags[0].Code != diagnostics.ELex || diags[1].Code != diagnostics.ECheck {
		t.Errorf("unexpected codes %s, %s", diags[0].Code, diags[1].Code)
	}
}

func TestDump(t *testing.T) {
	rt := newRuntime(io.Discard)
	got, err := rt.Dump("log 1 + 2 * 3;")
	if err != nil {
		t.Fatal(err)
	}
	if got != "(log (+ 1 (* 2 3)))" {
		t.Errorf("got %q", got)
	}

	got, err = rt.Dump("log ;")
	if runtime.ExitCode(err) != runtime.ExitStatic {
		t.Errorf("expected static error, got %v", err)
	}
	if got != "(bad)" {
		t.Errorf("got %q", got)
	}
}

func TestDebugParse(t *testing.T) {
	var out, debug bytes.Buffer
	rt := newRuntime(&out, runtime.WithDebugParse(&debug))
	if err := rt.Run(context.Background(), "log -1;"); err != nil {
		t.Fatal(err)
	}
	if debug.String() != "(log (- 1))\n" {
		t.Errorf("debug output = %q", debug.String())
	}
	if out.String() != "-1\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestTimeBudget(t *testing.T) {
	rt := newRuntime(io.Discard, runtime.WithBudget(evaluator.Budget{TimeMs: 20}))
	err := rt.Run(context.Background(), "while (true) {}")
	if !strings.Contains(runtime.FormatError(err, false), "Execution time budget exceeded.") {
		t.Errorf("got %v", err)
	}
	if code := runtime.ExitCode(err); code != runtime.ExitRuntime {
		t.Errorf("exit code = %d, want %d", code, runtime.ExitRuntime)
	}
}

func TestIterationBudget(t *testing.T) {
	rt := newRuntime(io.Discard, runtime.WithBudget(evaluator.Budget{MaxIterations: 5}))
	err := rt.Run(context.Background(), "while (true) {}")
	if got := runtime.FormatError(err, false); got != "Iteration budget exceeded (max 5).\n[line 1]" {
		t.Errorf("got %q", got)
	}
}
