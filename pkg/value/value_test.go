package value_test

import (
	"math"
	"testing"

	"github.com/toylang/toy/pkg/value"
)

func TestTruthiness(t *testing.T) {
	tests := []struct {
		value    value.Value
		expected bool
	}{
		{value.NewUndefined(), false},
		{nil, false},
		{value.NewBool(false), false},
		{value.NewBool(true), true},
		{value.NewNumber(0), false},
		{value.NewNumber(math.Copysign(0, -1)), false},
		{value.NewNumber(1), true},
		{value.NewNumber(-1), true},
		{value.NewNumber(0.001), true},
		{value.NewString(""), true},
		{value.NewString("hello"), true},
	}

	for i, tt := range tests {
		got := value.Truthiness(tt.value)
		if got != tt.expected {
			t.Errorf("test %d: Truthiness(%v) = %v, want %v", i, tt.value, got, tt.expected)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b value.Value
		want bool
	}{
		{"numbers equal", value.NewNumber(1), value.NewNumber(1), true},
		{"numbers differ", value.NewNumber(1), value.NewNumber(2), false},
		{"strings equal", value.NewString("a"), value.NewString("a"), true},
		{"strings differ", value.NewString("a"), value.NewString("b"), false},
		{"bools equal", value.NewBool(true), value.NewBool(true), true},
		{"mixed kinds", value.NewNumber(1), value.NewString("1"), false},
		{"bool vs number", value.NewBool(false), value.NewNumber(0), false},
		{"undefined vs undefined", value.NewUndefined(), value.NewUndefined(), false},
		{"undefined vs number", value.NewUndefined(), value.NewNumber(0), false},
		{"number vs undefined", value.NewNumber(0), value.NewUndefined(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := value.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{2, "2.0"},
		{-3, "-3.0"},
		{2.5, "2.5"},
		{0.1, "0.1"},
		{0.001, "0.001"},
		{1234567, "1234567.0"},
		{10000000, "1.0E7"},
		{12345678, "1.2345678E7"},
		{0.00015, "1.5E-4"},
		{1e21, "1.0E21"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := value.FormatNumber(tt.in); got != tt.want {
				t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		value value.Value
		want  string
	}{
		{value.NewUndefined(), "undefined"},
		{nil, "undefined"},
		{value.NewNumber(2), "2"},
		{value.NewNumber(2.5), "2.5"},
		{value.NewNumber(10), "10"},
		{value.NewNumber(10000000), "1.0E7"},
		{value.NewBool(true), "true"},
		{value.NewString("x.0"), "x.0"},
		{value.NewString(""), ""},
	}

	for i, tt := range tests {
		if got := value.Display(tt.value); got != tt.want {
			t.Errorf("test %d: Display(%v) = %q, want %q", i, tt.value, got, tt.want)
		}
	}
}
