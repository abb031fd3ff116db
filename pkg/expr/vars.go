package expr

import (
	"sort"

	"github.com/samber/lo"
)

// ExtractVariables returns the free variable names referenced by an
// expression, deduplicated and sorted lexicographically. It runs only the
// lexer, never the parser, and swallows lex errors by returning an empty
// slice: callers use it for live-typing feedback where transiently invalid
// input is expected.
func ExtractVariables(input string) []string {
	tokens, err := Tokenize(input)
	if err != nil {
		return []string{}
	}

	names := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == TokenVariable {
			names = append(names, tok.Value)
		}
	}

	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}
