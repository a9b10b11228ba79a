package evaluator

import (
	"fmt"

	"github.com/toylang/toy/pkg/token"
	"github.com/toylang/toy/pkg/value"
)

// Scope is a handle to a scope record in an Env.
type Scope int

// Global is the outermost scope of every Env.
const Global Scope = 0

const noParent Scope = -1

type scope struct {
	bindings map[string]value.Value
	parent   Scope
}

// Env is an arena of scope records for lexical scoping. Scopes nest
// strictly, so the arena behaves as a stack: Pop discards the newest scope.
type Env struct {
	scopes []scope
}

// NewEnv creates an environment holding only the global scope.
func NewEnv() *Env {
	return &Env{
		scopes: []scope{{bindings: make(map[string]value.Value), parent: noParent}},
	}
}

// Push creates a new child scope of parent and returns its handle.
func (e *Env) Push(parent Scope) Scope {
	e.scopes = append(e.scopes, scope{bindings: make(map[string]value.Value), parent: parent})
	return Scope(len(e.scopes) - 1)
}

// Pop discards s and every scope created after it. The global scope is
// never discarded.
func (e *Env) Pop(s Scope) {
	if s <= Global || int(s) >= len(e.scopes) {
		return
	}
	e.scopes = e.scopes[:s]
}

// Depth returns the number of live scopes, the global scope included.
func (e *Env) Depth() int {
	return len(e.scopes)
}

// Define binds name in s only, overwriting any existing binding there.
func (e *Env) Define(s Scope, name string, val value.Value) {
	e.scopes[s].bindings[name] = val
}

// Get looks up name starting at s and walking outward.
func (e *Env) Get(s Scope, name token.Token) (value.Value, error) {
	for cur := s; cur != noParent; cur = e.scopes[cur].parent {
		if val, ok := e.scopes[cur].bindings[name.Lexeme]; ok {
			return val, nil
		}
	}
	return nil, undefinedVariable(name)
}

// Assign rebinds the innermost existing binding of name visible from s.
func (e *Env) Assign(s Scope, name token.Token, val value.Value) error {
	for cur := s; cur != noParent; cur = e.scopes[cur].parent {
		if _, ok := e.scopes[cur].bindings[name.Lexeme]; ok {
			e.scopes[cur].bindings[name.Lexeme] = val
			return nil
		}
	}
	return undefinedVariable(name)
}

func undefinedVariable(name token.Token) *RuntimeError {
	return &RuntimeError{
		Token:   name,
		Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme),
	}
}
