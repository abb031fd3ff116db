package expr

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEvaluateLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.14", 3.14},
		{".25", 0.25},
		{"1000000", 1000000},
		{"1 2", 12}, // whitespace is stripped before scanning
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Evaluate(tt.input, nil)
			if err != nil {
				t.Fatalf("eval error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1 + 2", 3},
		{"10 - 3 - 2", 5},      // left-associative
		{"2 + 3 * 4", 14},      // precedence
		{"(2 + 3) * 4", 20},    // parens override
		{"2 ^ 3 ^ 2", 512},     // right-associative
		{"2 ^ 3 * 4", 32},      // ^ binds tighter than *
		{"-2 ^ 2", 4},          // unary minus inside the power base
		{"-(2 ^ 2)", -4},       // parens restore the other reading
		{"0 ^ 0", 1},           // exponentiation convention
		{"10 / 4", 2.5},
		{"100 / 10 / 2", 5},    // left-associative
		{"+5", 5},
		{"--5", 5},
		{"2 * -3", -6},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Evaluate(tt.input, nil)
			if err != nil {
				t.Fatalf("eval error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateVariables(t *testing.T) {
	vars := map[string]float64{"x": 5, "y": 3, "_half": 0.5}

	tests := []struct {
		input string
		want  float64
	}{
		{"x", 5},
		{"x * 2 + y", 13},
		{"x ^ y", 125},
		{"_half * x", 2.5},
		{"y - x", -2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Evaluate(tt.input, vars)
			if err != nil {
				t.Fatalf("eval error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateFunctions(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"sqrt(9)", 3},
		{"abs(-4)", 4},
		{"sin(0)", 0},
		{"cos(0)", 1},
		{"tan(0)", 0},
		{"ln(1)", 0},
		{"log(1000)", 3},
		{"sqrt(sqrt(16))", 2},
		{"abs(3 - 5) * 2", 4},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Evaluate(tt.input, nil)
			if err != nil {
				t.Fatalf("eval error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateDomainFailuresYieldNaN(t *testing.T) {
	tests := []string{
		"1 / 0",
		"0 / 0",
		"sqrt(-1)",
		"ln(0)",
		"ln(-2)",
		"log(0)",
		"log(-10)",
		"1 + 1 / 0",      // NaN propagates through enclosing operations
		"sqrt(-1) * 5",
		"1.2.3",          // malformed literal degrades to NaN, not an error
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			got, err := Evaluate(input, nil)
			if err != nil {
				t.Fatalf("expected NaN result, got error: %v", err)
			}
			if !math.IsNaN(got) {
				t.Errorf("expected NaN, got %v", got)
			}
		})
	}
}

func TestEvaluateParseErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  ParseErrorKind
	}{
		{"x + 1", KindUndefinedVariable},
		{"sin + 3", KindExpectedOpenParen},
		{"sin", KindExpectedOpenParen},
		{"(1 + 2", KindMismatchedParens},
		{"sqrt(4", KindMismatchedParens},
		{"1 + 2)", KindTrailingTokens},
		{"(1)(2)", KindTrailingTokens},
		{"", KindUnexpectedEndOfInput},
		{"1 +", KindUnexpectedEndOfInput},
		{"2 ^", KindUnexpectedEndOfInput},
		{"()", KindUnexpectedToken},
		{"* 2", KindUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Evaluate(tt.input, nil)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if parseErr.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s (%v)", tt.kind, parseErr.Kind, parseErr)
			}
		})
	}
}

func TestUndefinedVariableCarriesName(t *testing.T) {
	_, err := Evaluate("rate + 1", nil)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Name != "rate" {
		t.Errorf("expected name %q, got %q", "rate", parseErr.Name)
	}
}

func TestExpressionTooLong(t *testing.T) {
	input := "1" + strings.Repeat("+1", maxExpressionLength)
	_, err := Evaluate(input, nil)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Kind != KindExpressionTooLong {
		t.Errorf("expected kind %s, got %s", KindExpressionTooLong, parseErr.Kind)
	}
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2 + 3 * 4", "(2 + (3 * 4))"},
		{"10 - 3 - 2", "((10 - 3) - 2)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"-2 ^ 2", "((-2) ^ 2)"},
		{"sin(x + 1)", "sin((x + 1))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}
			if got := Format(node); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"sin(x) + cos(y)", []string{"x", "y"}},
		{"x + x * x", []string{"x"}},
		{"b + a + c + a", []string{"a", "b", "c"}},
		{"1 + 2", []string{}},
		{"sqrt(4)", []string{}},
		{"@@@", []string{}},  // lex errors swallow to empty, never raise
		{"x + @", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ExtractVariables(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("variable mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractVariablesStable(t *testing.T) {
	const input = "z * y + x * z - y"
	first := ExtractVariables(input)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, ExtractVariables(input)); diff != "" {
			t.Fatalf("extraction order not stable (-first +now):\n%s", diff)
		}
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				got, err := Evaluate("sqrt(x ^ 2 + y ^ 2)", map[string]float64{"x": 3, "y": 4})
				if err != nil || got != 5 {
					t.Errorf("got %v, %v", got, err)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
