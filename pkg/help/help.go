// Package help holds the Toy quick reference shown by the CLI and the
// interactive prompt.
package help

import (
	"fmt"
	"strings"

	"github.com/toylang/toy/pkg/token"
)

// QUICKREF is the overview printed by `toy --help` and `:help`.
const QUICKREF = `Toy quick reference

  toy              start the interactive prompt
  toy script.toy   run a script (use - to read stdin)

Flags:
  --debug-parse    print the parenthesized tree before running
  --json           print diagnostics as JSON
  --config <path>  load settings from a YAML file

Exit codes: 0 ok, 1 unreadable file or bad config, 2 syntax error, 4 runtime error.

Topics (:help <topic> at the prompt):
  syntax  values  operators  flow  diagnostics  config  repl
`

// TopicList is the ordered list of help topics.
var TopicList = []string{"syntax", "values", "operators", "flow", "diagnostics", "config", "repl"}

// Topics maps a topic name to its text.
var Topics = map[string]string{
	"syntax": `Statements end with ';'.

  var name = expr;        declare in the current scope (defaults to undefined)
  log expr;               print the value of expr
  { ... }                 block with its own scope
  expr;                   evaluate for side effects

Comments: // to end of line, /* ... */ (not nested).
`,
	"values": `Values: undefined, true/false, numbers (64-bit float), strings.

Strings use double quotes, may span lines and have no escapes.
Integral numbers print without a fraction: log 4/2; prints 2.
Very large or small numbers print as 1.0E7 or 1.0E-4.
Falsy values: undefined, false, 0. Everything else, "" included, is truthy.
`,
	"operators": `Lowest to highest precedence:

  =              assignment (right-associative, variables only)
  ||             logical or, yields the deciding operand
  &&             logical and, yields the deciding operand
  == !=          equality; undefined is never equal to anything
  < <= > >=      numbers only
  + -            + also joins two strings
  * / %          dividing by zero is an error, % by zero is NaN
  ! - ++ --      prefix
  ++ --          postfix

++ and -- yield the value plus or minus one without changing the variable.
`,
	"flow": `  if (cond) stmt else stmt
  while (cond) stmt
  for (init; cond; step) stmt
  break;                  leave the innermost loop

break outside of a loop is rejected before the program runs.
`,
	"diagnostics": `Syntax errors:   [line N] Error at 'token': message
Runtime errors:  message
                 [line N]

All syntax errors in a run are reported together and nothing executes.
A runtime error stops the run; variables set before it keep their values.
With --json, diagnostics are printed as a JSON array.
`,
	"config": `Settings are read from the first file found:
  --config <path>, ./.toy.yaml, ~/.toy/config.yaml

  prompt: "> "
  history: ~/.toy_history
  logLevel: warn
  debugParse: false
  diagnostics: text        # or json
  budget:
    timeMs: 0              # 0 means unlimited
    maxIterations: 0
`,
	"repl": `Each line runs on its own against one shared global scope.

  :help [topic]   show this reference (:help keywords lists keywords)
  :quit           leave (Ctrl+D works too)

Ctrl+C clears the line, or cancels a running line.
`,
}

// MatchTopic resolves name to a topic, exactly or by unique prefix.
func MatchTopic(name string) (string, string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if content, ok := Topics[name]; ok {
		return name, content, nil
	}

	var matches []string
	for _, topic := range TopicList {
		if name != "" && strings.HasPrefix(topic, name) {
			matches = append(matches, topic)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], Topics[matches[0]], nil
	case 0:
		return "", "", fmt.Errorf("unknown topic %q", name)
	default:
		return "", "", fmt.Errorf("ambiguous topic %q: %s", name, strings.Join(matches, ", "))
	}
}

// reserved keywords are recognized by the lexer but have no statement yet.
var reserved = map[token.Type]bool{
	token.Class:    true,
	token.Continue: true,
	token.Function: true,
	token.Module:   true,
	token.Recurse:  true,
	token.Return:   true,
	token.This:     true,
	token.Use:      true,
}

// KeywordIndex lists every keyword and whether it is usable.
func KeywordIndex() string {
	var b strings.Builder
	total := 0
	for t := token.Break; t <= token.While; t++ {
		status := "active"
		if reserved[t] {
			status = "reserved"
		}
		fmt.Fprintf(&b, "  %-10s %s\n", t, status)
		total++
	}
	fmt.Fprintf(&b, "Total: %d keywords\n", total)
	return b.String()
}
