// Package value implements the Toy runtime value model.
package value

import (
	"math"
	"strconv"
	"strings"
)

// Value is the interface for all Toy runtime values.
// The sealed marker method restricts implementations to this package.
type Value interface {
	String() string
	TypeName() string
	toyValue() // sealed marker
}

// Undefined is the value of uninitialized variables and the undefined literal.
type Undefined struct{}

func (Undefined) toyValue()        {}
func (Undefined) String() string   { return "undefined" }
func (Undefined) TypeName() string { return "undefined" }

// Bool represents a boolean value.
type Bool struct {
	Value bool
}

func (Bool) toyValue()        {}
func (Bool) TypeName() string { return "boolean" }

func (b Bool) String() string {
	return strconv.FormatBool(b.Value)
}

// Number represents a numeric value. All numbers are float64.
type Number struct {
	Value float64
}

func (Number) toyValue()        {}
func (Number) TypeName() string { return "number" }

func (n Number) String() string {
	return FormatNumber(n.Value)
}

// String represents a string value.
type String struct {
	Value string
}

func (String) toyValue()        {}
func (String) TypeName() string { return "string" }

func (s String) String() string {
	return s.Value
}

// NewUndefined creates an undefined value.
func NewUndefined() Value {
	return Undefined{}
}

// NewBool creates a boolean value.
func NewBool(b bool) Value {
	return Bool{Value: b}
}

// NewNumber creates a numeric value.
func NewNumber(n float64) Value {
	return Number{Value: n}
}

// NewString creates a string value.
func NewString(s string) Value {
	return String{Value: s}
}

// Truthiness returns the boolean interpretation of a value.
// undefined, false and 0 are falsy; every string, including "", is truthy.
func Truthiness(v Value) bool {
	switch val := v.(type) {
	case nil, Undefined:
		return false
	case Bool:
		return val.Value
	case Number:
		return val.Value != 0
	default:
		return true
	}
}

// Equal reports whether two values are equal. If either side is undefined
// the result is false, so undefined is not even equal to itself.
func Equal(a, b Value) bool {
	if IsUndefined(a) || IsUndefined(b) {
		return false
	}
	switch av := a.(type) {
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.Value == bv.Value
	case Number:
		bv, ok := b.(Number)
		return ok && av.Value == bv.Value
	case String:
		bv, ok := b.(String)
		return ok && av.Value == bv.Value
	}
	return false
}

// IsUndefined reports whether v is undefined (or a nil Value).
func IsUndefined(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Undefined)
	return ok
}

// FormatNumber renders a float in the language's canonical text form:
// integral values keep a ".0" suffix, and magnitudes outside [1e-3, 1e7)
// use a mantissa/exponent form such as "1.0E7".
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if f == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'E', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mantissa + "E" + strconv.Itoa(e)
}

// Display returns the text the log statement prints for v. An exact
// trailing ".0" is stripped from numbers; no other trimming happens.
func Display(v Value) string {
	if v == nil {
		return "undefined"
	}
	text := v.String()
	if _, ok := v.(Number); ok {
		text = strings.TrimSuffix(text, ".0")
	}
	return text
}
