package expr

import (
	"math"
	"sort"
)

// builtins is the fixed table of unary math functions. It is populated once
// at package init and never mutated afterward, so concurrent evaluation
// needs no locking. Identifiers matching a key always lex as functions.
var builtins = map[string]func(float64) float64{
	"sin": math.Sin,
	"cos": math.Cos,
	"tan": math.Tan,
	"abs": math.Abs,

	// math.Sqrt already yields NaN for negative arguments. math.Log and
	// math.Log10 return -Inf at zero, so the non-positive domain is guarded
	// explicitly to keep the NaN contract.
	"sqrt": math.Sqrt,
	"ln":   guardPositive(math.Log),
	"log":  guardPositive(math.Log10),
}

// guardPositive restricts f to the positive reals, yielding NaN elsewhere.
func guardPositive(f func(float64) float64) func(float64) float64 {
	return func(x float64) float64 {
		if x <= 0 {
			return math.NaN()
		}
		return f(x)
	}
}

// Functions returns the sorted names of the builtin function table.
func Functions() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsFunction reports whether name is a builtin function name.
func IsFunction(name string) bool {
	_, ok := builtins[name]
	return ok
}
