// Package token defines the Toy token model shared by the lexer, parser and evaluator.
package token

import (
	"fmt"

	"github.com/toylang/toy/pkg/value"
)

// Type identifies the kind of a token.
type Type int

const (
	// Single-character tokens
	LeftParen    Type = iota // (
	RightParen               // )
	LeftBracket              // [
	RightBracket             // ]
	LeftBrace                // {
	RightBrace               // }
	Star                     // *
	Percent                  // %
	Semicolon                // ;
	Comma                    // ,
	Slash                    // /

	// One or two character tokens
	Equal        // =
	EqualEqual   // ==
	EqualGreater // =>
	Less         // <
	LessEqual    // <=
	Greater      // >
	GreaterEqual // >=
	Bang         // !
	BangEqual    // !=
	And          // &
	AndAnd       // &&
	Or           // |
	OrOr         // ||
	Plus         // +
	PlusPlus     // ++
	Minus        // -
	MinusMinus   // --
	Dot          // .
	DotDot       // ..

	// Literals
	Identifier
	String
	Number

	// Keywords
	Break
	Class
	Continue
	Else
	False
	For
	Function
	If
	Log
	Module
	Recurse
	Return
	This
	True
	Undefined
	Use
	Var
	While

	EOF
)

var names = [...]string{
	LeftParen:    "(",
	RightParen:   ")",
	LeftBracket:  "[",
	RightBracket: "]",
	LeftBrace:    "{",
	RightBrace:   "}",
	Star:         "*",
	Percent:      "%",
	Semicolon:    ";",
	Comma:        ",",
	Slash:        "/",
	Equal:        "=",
	EqualEqual:   "==",
	EqualGreater: "=>",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	Bang:         "!",
	BangEqual:    "!=",
	And:          "&",
	AndAnd:       "&&",
	Or:           "|",
	OrOr:         "||",
	Plus:         "+",
	PlusPlus:     "++",
	Minus:        "-",
	MinusMinus:   "--",
	Dot:          ".",
	DotDot:       "..",
	Identifier:   "identifier",
	String:       "string",
	Number:       "number",
	Break:        "break",
	Class:        "class",
	Continue:     "continue",
	Else:         "else",
	False:        "false",
	For:          "for",
	Function:     "function",
	If:           "if",
	Log:          "log",
	Module:       "module",
	Recurse:      "recurse",
	Return:       "return",
	This:         "this",
	True:         "true",
	Undefined:    "undefined",
	Use:          "use",
	Var:          "var",
	While:        "while",
	EOF:          "end of input",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// IsKeyword reports whether t is a reserved word.
func (t Type) IsKeyword() bool {
	return t >= Break && t <= While
}

var keywords = map[string]Type{
	"break":     Break,
	"class":     Class,
	"continue":  Continue,
	"else":      Else,
	"false":     False,
	"for":       For,
	"function":  Function,
	"if":        If,
	"log":       Log,
	"module":    Module,
	"recurse":   Recurse,
	"return":    Return,
	"this":      This,
	"true":      True,
	"undefined": Undefined,
	"use":       Use,
	"var":       Var,
	"while":     While,
}

// Lookup classifies an identifier, returning its keyword type or Identifier.
func Lookup(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return Identifier
}

// Token is a classified lexeme. Tokens are created once by the lexer and
// never modified afterwards.
type Token struct {
	Type    Type
	Lexeme  string
	Literal value.Value // nil unless Type is String or Number
	Line    int
}

// New creates a token without a literal payload.
func New(typ Type, lexeme string, line int) Token {
	return Token{Type: typ, Lexeme: lexeme, Line: line}
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %q %s (line %d)", t.Type, t.Lexeme, t.Literal, t.Line)
	}
	return fmt.Sprintf("%s %q (line %d)", t.Type, t.Lexeme, t.Line)
}
