package lexer

import (
	"testing"

	"github.com/toylang/toy/pkg/diagnostics"
	"github.com/toylang/toy/pkg/token"
	"github.com/toylang/toy/pkg/value"
)

// helper to tokenize and fail on diagnostics
func mustTokenize(t *testing.T, source string) []token.Token {
	t.Helper()
	tokens, diags := Tokenize(source)
	if len(diags) > 0 {
		t.Fatalf("unexpected lex diagnostics: %s", diagnostics.FormatDiagnostics(diags, false))
	}
	return tokens
}

// helper that strips the trailing EOF for easier assertions
func mustTokenizeNoEOF(t *testing.T, source string) []token.Token {
	t.Helper()
	tokens := mustTokenize(t, source)
	if len(tokens) == 0 {
		t.Fatal("expected at least one token (EOF)")
	}
	if tokens[len(tokens)-1].Type != token.EOF {
		t.Fatal("last token is not EOF")
	}
	return tokens[:len(tokens)-1]
}

func types(tokens []token.Token) []token.Type {
	out := make([]token.Type, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func expectTypes(t *testing.T, source string, want ...token.Type) {
	t.Helper()
	got := types(mustTokenizeNoEOF(t, source))
	if len(got) != len(want) {
		t.Fatalf("%q: got %d tokens %v, want %d %v", source, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%q: token %d: got %s, want %s", source, i, got[i], want[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Test: empty input produces only EOF
// ---------------------------------------------------------------------------
func TestEmptyInput(t *testing.T) {
	tokens := mustTokenize(t, "")
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token (EOF), got %d", len(tokens))
	}
	if tokens[0].Type != token.EOF {
		t.Errorf("expected EOF, got %s", tokens[0].Type)
	}
	if tokens[0].Line != 1 {
		t.Errorf("expected EOF on line 1, got %d", tokens[0].Line)
	}
}

// ---------------------------------------------------------------------------
// Test: all keywords
// ---------------------------------------------------------------------------
func TestKeywords(t *testing.T) {
	tests := []struct {
		keyword  string
		expected token.Type
	}{
		{"break", token.Break},
		{"class", token.Class},
		{"continue", token.Continue},
		{"else", token.Else},
		{"false", token.False},
		{"for", token.For},
		{"function", token.Function},
		{"if", token.If},
		{"log", token.Log},
		{"module", token.Module},
		{"recurse", token.Recurse},
		{"return", token.Return},
		{"this", token.This},
		{"true", token.True},
		{"undefined", token.Undefined},
		{"use", token.Use},
		{"var", token.Var},
		{"while", token.While},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.keyword)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != tt.expected {
				t.Errorf("expected token type %s, got %s", tt.expected, tokens[0].Type)
			}
			if tokens[0].Lexeme != tt.keyword {
				t.Errorf("expected lexeme %q, got %q", tt.keyword, tokens[0].Lexeme)
			}
			if !tokens[0].Type.IsKeyword() {
				t.Errorf("%s not reported as keyword", tokens[0].Type)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: keyword vs identifier disambiguation
// ---------------------------------------------------------------------------
func TestKeywordVsIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected token.Type
	}{
		{"var keyword", "var", token.Var},
		{"variable is ident", "variable", token.Identifier},
		{"log keyword", "log", token.Log},
		{"logger is ident", "logger", token.Identifier},
		{"if keyword", "if", token.If},
		{"iffy is ident", "iffy", token.Identifier},
		{"while keyword", "while", token.While},
		{"whilst is ident", "whilst", token.Identifier},
		{"undefined keyword", "undefined", token.Undefined},
		{"undefined_x is ident", "undefined_x", token.Identifier},
		{"case matters", "Var", token.Identifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != tt.expected {
				t.Errorf("expected type %s for %q, got %s", tt.expected, tt.input, tokens[0].Type)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: identifiers
// ---------------------------------------------------------------------------
func TestIdentifiers(t *testing.T) {
	tests := []string{"x", "foo", "myVar", "_private", "name123", "_", "__init__", "a1b2c3"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != token.Identifier {
				t.Errorf("expected Identifier, got %s", tokens[0].Type)
			}
			if tokens[0].Lexeme != input {
				t.Errorf("expected lexeme %q, got %q", input, tokens[0].Lexeme)
			}
			if tokens[0].Literal != nil {
				t.Errorf("identifier carries literal %v", tokens[0].Literal)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: number literals
// ---------------------------------------------------------------------------
func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		value float64
	}{
		{"0", 0},
		{"42", 42},
		{"007", 7},
		{"3.14", 3.14},
		{"100.0", 100},
		{"0.5", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != token.Number {
				t.Fatalf("expected Number, got %s", tokens[0].Type)
			}
			num, ok := tokens[0].Literal.(value.Number)
			if !ok {
				t.Fatalf("expected Number literal, got %T", tokens[0].Literal)
			}
			if num.Value != tt.value {
				t.Errorf("expected %v, got %v", tt.value, num.Value)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: trailing dot is not part of the number
// ---------------------------------------------------------------------------
func TestNumberTrailingDot(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "1.")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Type != token.Number || tokens[0].Lexeme != "1" {
		t.Errorf("expected number '1', got %s %q", tokens[0].Type, tokens[0].Lexeme)
	}
	if tokens[1].Type != token.Dot {
		t.Errorf("expected Dot, got %s", tokens[1].Type)
	}

	expectTypes(t, "1..2", token.Number, token.DotDot, token.Number)
}

// ---------------------------------------------------------------------------
// Test: string literals
// ---------------------------------------------------------------------------
func TestStringLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`""`, ""},
		{`"hello"`, "hello"},
		{`"with spaces"`, "with spaces"},
		{`"no \n escapes"`, `no \n escapes`},
		{`"// not a comment"`, "// not a comment"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != token.String {
				t.Fatalf("expected String, got %s", tokens[0].Type)
			}
			if tokens[0].Lexeme != tt.input {
				t.Errorf("expected lexeme %q, got %q", tt.input, tokens[0].Lexeme)
			}
			str, ok := tokens[0].Literal.(value.String)
			if !ok {
				t.Fatalf("expected String literal, got %T", tokens[0].Literal)
			}
			if str.Value != tt.want {
				t.Errorf("expected %q, got %q", tt.want, str.Value)
			}
		})
	}
}

func TestMultilineString(t *testing.T) {
	tokens := mustTokenize(t, "\"a\nb\" x")
	if tokens[0].Literal.(value.String).Value != "a\nb" {
		t.Errorf("unexpected literal %q", tokens[0].Literal)
	}
	if tokens[1].Line != 2 {
		t.Errorf("token after multiline string: expected line 2, got %d", tokens[1].Line)
	}
}

// ---------------------------------------------------------------------------
// Test: operators, maximal munch
// ---------------------------------------------------------------------------
func TestOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Type
	}{
		{"(", token.LeftParen},
		{")", token.RightParen},
		{"[", token.LeftBracket},
		{"]", token.RightBracket},
		{"{", token.LeftBrace},
		{"}", token.RightBrace},
		{"*", token.Star},
		{"%", token.Percent},
		{";", token.Semicolon},
		{",", token.Comma},
		{"/", token.Slash},
		{"=", token.Equal},
		{"==", token.EqualEqual},
		{"=>", token.EqualGreater},
		{"<", token.Less},
		{"<=", token.LessEqual},
		{">", token.Greater},
		{">=", token.GreaterEqual},
		{"!", token.Bang},
		{"!=", token.BangEqual},
		{"&", token.And},
		{"&&", token.AndAnd},
		{"|", token.Or},
		{"||", token.OrOr},
		{"+", token.Plus},
		{"++", token.PlusPlus},
		{"-", token.Minus},
		{"--", token.MinusMinus},
		{".", token.Dot},
		{"..", token.DotDot},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tokens[0].Type)
			}
			if tokens[0].Lexeme != tt.input {
				t.Errorf("expected lexeme %q, got %q", tt.input, tokens[0].Lexeme)
			}
		})
	}
}

func TestMaximalMunchSequences(t *testing.T) {
	expectTypes(t, "+++", token.PlusPlus, token.Plus)
	expectTypes(t, "===", token.EqualEqual, token.Equal)
	expectTypes(t, "a--b", token.Identifier, token.MinusMinus, token.Identifier)
	expectTypes(t, "a - -b", token.Identifier, token.Minus, token.Minus, token.Identifier)
	expectTypes(t, "!!x", token.Bang, token.Bang, token.Identifier)
	expectTypes(t, "...", token.DotDot, token.Dot)
}

// ---------------------------------------------------------------------------
// Test: comments
// ---------------------------------------------------------------------------
func TestComments(t *testing.T) {
	expectTypes(t, "// whole line", []token.Type{}...)
	expectTypes(t, "x // trailing\ny", token.Identifier, token.Identifier)
	expectTypes(t, "a /* inline */ b", token.Identifier, token.Identifier)
	expectTypes(t, "a /* unclosed", token.Identifier)
	expectTypes(t, "a /** stars **/ b", token.Identifier, token.Identifier)
	expectTypes(t, "4 / 2", token.Number, token.Slash, token.Number)
}

func TestBlockCommentsDoNotNest(t *testing.T) {
	// The first "*/" closes the comment, leaving "d */" as tokens.
	expectTypes(t, "a /* b /* c */ d */", token.Identifier, token.Identifier, token.Star, token.Slash)
}

func TestBlockCommentTracksLines(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "a /* one\ntwo\nthree */ b")
	if tokens[1].Line != 3 {
		t.Errorf("expected line 3 after block comment, got %d", tokens[1].Line)
	}
}

// ---------------------------------------------------------------------------
// Test: line numbers
// ---------------------------------------------------------------------------
func TestLineNumbers(t *testing.T) {
	tokens := mustTokenize(t, "var a;\n\nlog a;\n")
	want := []int{1, 1, 1, 3, 3, 3, 4}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, line := range want {
		if tokens[i].Line != line {
			t.Errorf("token %d (%s): expected line %d, got %d", i, tokens[i].Type, line, tokens[i].Line)
		}
	}
}

// ---------------------------------------------------------------------------
// Test: errors are reported and lexing continues
// ---------------------------------------------------------------------------
func TestUnexpectedCharacter(t *testing.T) {
	tokens, diags := Tokenize("a @ b\n#")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	if diags[0].Message != "Unexpected character." || diags[0].Line != 1 {
		t.Errorf("unexpected first diagnostic: %v", diags[0])
	}
	if diags[1].Line != 2 {
		t.Errorf("expected second diagnostic on line 2, got %d", diags[1].Line)
	}
	if diags[0].Code != diagnostics.ELex {
		t.Errorf("expected %s, got %s", diagnostics.ELex, diags[0].Code)
	}
	got := types(tokens)
	want := []token.Type{token.Identifier, token.Identifier, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("expected tokens %v, got %v", want, got)
	}
}

func TestUnexpectedMultiByteCharacter(t *testing.T) {
	tests := []struct {
		source string
		diags  int
		want   []token.Type
	}{
		{"é", 1, []token.Type{token.EOF}},
		{"var é = 1;", 1, []token.Type{token.Var, token.Equal, token.Number, token.Semicolon, token.EOF}},
		{"a ☃ 😀 b", 2, []token.Type{token.Identifier, token.Identifier, token.EOF}},
	}

	for _, tt := range tests {
		tokens, diags := Tokenize(tt.source)
		if len(diags) != tt.diags {
			t.Errorf("%q: expected %d diagnostics, got %d: %v", tt.source, tt.diags, len(diags), diags)
		}
		got := types(tokens)
		if len(got) != len(tt.want) {
			t.Errorf("%q: expected tokens %v, got %v", tt.source, tt.want, got)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("%q: token %d: expected %s, got %s", tt.source, i, tt.want[i], got[i])
			}
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	tokens, diags := Tokenize("log 1;\nlog \"abc\ndef")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Message != "Unterminated string." {
		t.Errorf("unexpected message %q", diags[0].Message)
	}
	if diags[0].Line != 3 {
		t.Errorf("expected line 3, got %d", diags[0].Line)
	}
	// The partial string is dropped; earlier tokens survive.
	want := []token.Type{token.Log, token.Number, token.Semicolon, token.Log, token.EOF}
	got := types(tokens)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Test: a full statement
// ---------------------------------------------------------------------------
func TestStatement(t *testing.T) {
	expectTypes(t, `for (var i = 0; i <= 10; i++) log "x" + i;`,
		token.For, token.LeftParen, token.Var, token.Identifier, token.Equal, token.Number,
		token.Semicolon, token.Identifier, token.LessEqual, token.Number, token.Semicolon,
		token.Identifier, token.PlusPlus, token.RightParen, token.Log, token.String,
		token.Plus, token.Identifier, token.Semicolon)
}
