// Package lexer implements the Toy language tokenizer.
package lexer

import (
	"strconv"
	"unicode/utf8"

	"github.com/toylang/toy/pkg/diagnostics"
	"github.com/toylang/toy/pkg/token"
	"github.com/toylang/toy/pkg/value"
)

type scanner struct {
	source string
	start  int
	pos    int
	line   int
	tokens []token.Token
	diags  diagnostics.Sink
}

func newScanner(source string) *scanner {
	return &scanner{
		source: source,
		line:   1,
	}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *scanner) peekNext() byte {
	if s.pos+1 >= len(s.source) {
		return 0
	}
	return s.source[s.pos+1]
}

func (s *scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	return ch
}

// match consumes the next character if it is expected.
func (s *scanner) match(expected byte) bool {
	if s.atEnd() || s.source[s.pos] != expected {
		return false
	}
	s.pos++
	return true
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

func (s *scanner) addToken(typ token.Type) {
	s.addLiteral(typ, nil)
}

func (s *scanner) addLiteral(typ token.Type, lit value.Value) {
	s.tokens = append(s.tokens, token.Token{
		Type:    typ,
		Lexeme:  s.source[s.start:s.pos],
		Literal: lit,
		Line:    s.line,
	})
}

func (s *scanner) lexError(msg string) {
	s.diags.Add(diagnostics.MakeDiag(diagnostics.ELex, s.line, "", msg))
}

// pick adds the two-character type if the next character is second,
// otherwise the single-character type.
func (s *scanner) pick(second byte, double, single token.Type) {
	if s.match(second) {
		s.addToken(double)
		return
	}
	s.addToken(single)
}

func (s *scanner) scanToken() {
	ch := s.advance()

	// Single-char tokens
	switch ch {
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '[':
		s.addToken(token.LeftBracket)
	case ']':
		s.addToken(token.RightBracket)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case '*':
		s.addToken(token.Star)
	case '%':
		s.addToken(token.Percent)
	case ';':
		s.addToken(token.Semicolon)
	case ',':
		s.addToken(token.Comma)

	// Multi-char tokens
	case '=':
		switch {
		case s.match('='):
			s.addToken(token.EqualEqual)
		case s.match('>'):
			s.addToken(token.EqualGreater)
		default:
			s.addToken(token.Equal)
		}
	case '<':
		s.pick('=', token.LessEqual, token.Less)
	case '>':
		s.pick('=', token.GreaterEqual, token.Greater)
	case '!':
		s.pick('=', token.BangEqual, token.Bang)
	case '&':
		s.pick('&', token.AndAnd, token.And)
	case '|':
		s.pick('|', token.OrOr, token.Or)
	case '+':
		s.pick('+', token.PlusPlus, token.Plus)
	case '-':
		s.pick('-', token.MinusMinus, token.Minus)
	case '.':
		s.pick('.', token.DotDot, token.Dot)

	case '/':
		switch {
		case s.match('/'):
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		case s.match('*'):
			s.skipBlockComment()
		default:
			s.addToken(token.Slash)
		}

	case ' ', '\t', '\r':
		// whitespace
	case '\n':
		s.line++

	case '"':
		s.scanString()

	default:
		switch {
		case isDigit(ch):
			s.scanNumber()
		case isAlpha(ch):
			s.scanIdentOrKeyword()
		default:
			// One diagnostic per character, not per UTF-8 byte.
			_, size := utf8.DecodeRuneInString(s.source[s.start:])
			s.pos = s.start + size
			s.lexError("Unexpected character.")
		}
	}
}

// skipBlockComment consumes up to and including the closing "*/".
// Block comments do not nest; an unclosed comment runs to end of input.
func (s *scanner) skipBlockComment() {
	for !s.atEnd() {
		if s.peek() == '*' && s.peekNext() == '/' {
			s.pos += 2
			return
		}
		if s.advance() == '\n' {
			s.line++
		}
	}
}

func (s *scanner) scanString() {
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}

	if s.atEnd() {
		s.lexError("Unterminated string.")
		return
	}

	s.advance() // consume closing "
	s.addLiteral(token.String, value.NewString(s.source[s.start+1:s.pos-1]))
}

func (s *scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}

	// A fractional part needs a digit after the dot; "1." leaves the dot alone.
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	// Digit runs always parse; out-of-range literals saturate to +Inf.
	n, _ := strconv.ParseFloat(s.source[s.start:s.pos], 64)
	s.addLiteral(token.Number, value.NewNumber(n))
}

func (s *scanner) scanIdentOrKeyword() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	s.addToken(token.Lookup(s.source[s.start:s.pos]))
}

// Tokenize breaks source code into a slice of tokens terminated by an EOF
// token. Lexical errors are returned as diagnostics; scanning always
// continues to the end of the input.
func Tokenize(source string) ([]token.Token, []diagnostics.Diagnostic) {
	s := newScanner(source)

	for !s.atEnd() {
		s.start = s.pos
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.New(token.EOF, "", s.line))

	return s.tokens, s.diags.Diagnostics()
}
