// Package diagnostics defines Toy diagnostic types for lex/parse/check/runtime errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/toylang/toy/pkg/token"
)

// Diagnostic code constants.
const (
	ELex     = "E_LEX"
	EParse   = "E_PARSE"
	ECheck   = "E_CHECK"
	ERuntime = "E_RUNTIME"
)

// Diagnostic represents a lexical, syntax, check or runtime error.
// Where is empty, " at end", or " at '<lexeme>'".
type Diagnostic struct {
	Code    string `json:"code"`
	Line    int    `json:"line"`
	Where   string `json:"where,omitempty"`
	Message string `json:"message"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code string, line int, where, message string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Line:    line,
		Where:   where,
		Message: message,
	}
}

// AtToken creates a diagnostic located at tok.
func AtToken(code string, tok token.Token, message string) Diagnostic {
	return MakeDiag(code, tok.Line, Location(tok), message)
}

// Location describes where tok sits for a diagnostic.
func Location(tok token.Token) string {
	if tok.Type == token.EOF {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", tok.Lexeme)
}

// IsStatic reports whether d belongs to the static (lex/parse/check) tier.
func (d Diagnostic) IsStatic() bool {
	return d.Code != ERuntime
}

func (d Diagnostic) String() string {
	return FormatDiagnostic(d, false)
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, asJSON bool) string {
	if asJSON {
		b, _ := json.Marshal(d)
		return string(b)
	}
	if !d.IsStatic() {
		return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
	}
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// FormatDiagnostics formats a slice of diagnostics for display, one per line.
func FormatDiagnostics(diags []Diagnostic, asJSON bool) string {
	if asJSON {
		if diags == nil {
			diags = []Diagnostic{}
		}
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, false)
	}
	return strings.Join(parts, "\n")
}

// Sink accumulates diagnostics for one stage of a run. The zero value is
// ready to use.
type Sink struct {
	diags []Diagnostic
}

// Add records d.
func (s *Sink) Add(d Diagnostic) {
	s.diags = append(s.diags, d)
}

// Merge appends diags, keeping their order.
func (s *Sink) Merge(diags []Diagnostic) {
	s.diags = append(s.diags, diags...)
}

// Len returns the number of recorded diagnostics.
func (s *Sink) Len() int {
	return len(s.diags)
}

// HasErrors reports whether anything was recorded.
func (s *Sink) HasErrors() bool {
	return len(s.diags) > 0
}

// Diagnostics returns the recorded diagnostics.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diags
}
