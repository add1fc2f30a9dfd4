package gemini

import (
	"math"
	"reflect"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "bare object", raw: `{"a": 1}`, expected: `{"a": 1}`},
		{name: "bare array", raw: `[1, 2]`, expected: `[1, 2]`},
		{name: "json fence", raw: "```json\n{\"a\": 1}\n```", expected: `{"a": 1}`},
		{name: "plain fence", raw: "```\n{\"a\": 1}\n```", expected: `{"a": 1}`},
		{name: "surrounding prose", raw: "Here is the result:\n{\"a\": 1}\nHope that helps!", expected: `{"a": 1}`},
		{name: "whitespace", raw: "  \n {\"a\": 1} \n", expected: `{"a": 1}`},
		{name: "no json at all", raw: "sorry, cannot help", expected: "sorry, cannot help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := extractJSON(tt.raw); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    any
		expected float64
		nan      bool
	}{
		{name: "float", value: 7.5, expected: 7.5},
		{name: "int", value: 3, expected: 3},
		{name: "numeric string", value: " 12 ", expected: 12},
		{name: "empty string", value: "", nan: true},
		{name: "non-numeric string", value: "five", nan: true},
		{name: "nil", value: nil, nan: true},
		{name: "bool", value: true, nan: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := coerceFloat(tt.value)

			if tt.nan {
				if !math.IsNaN(got) {
					t.Fatalf("expected NaN, got %v", got)
				}
				return
			}
			if got != tt.expected {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCoerceBool(t *testing.T) {
	truthy := []any{true, "yes", "true", " TRUE ", 1.0}
	for _, v := range truthy {
		if !coerceBool(v) {
			t.Fatalf("expected %v to coerce to true", v)
		}
	}

	falsy := []any{false, "no", "", 0.0, nil, []any{}}
	for _, v := range falsy {
		if coerceBool(v) {
			t.Fatalf("expected %v to coerce to false", v)
		}
	}
}

func TestCoerceString(t *testing.T) {
	if got := coerceString("  padded  "); got != "padded" {
		t.Fatalf("expected trimmed string, got %q", got)
	}
	if got := coerceString(nil); got != "" {
		t.Fatalf("expected empty string for nil, got %q", got)
	}
	if got := coerceString(4.0); got != "4" {
		t.Fatalf("expected marshaled number, got %q", got)
	}
}

func TestCoerceStringSlice(t *testing.T) {
	got := coerceStringSlice([]any{"a", "", "  b ", nil})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected slice: %v", got)
	}

	if got := coerceStringSlice("not a slice"); got != nil {
		t.Fatalf("expected nil for non-slice input, got %v", got)
	}
}
