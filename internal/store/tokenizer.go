package store

import (
	"regexp"
	"strings"
)

// termRegex matches alphanumeric runs. Underscores count as word characters
// so identifiers like aws_instance survive as a single searchable term.
var termRegex = regexp.MustCompile(`[a-zA-Z0-9_]+`)

// Tokenize normalizes text into searchable terms: lowercase, punctuation
// stripped, whitespace split, tokens shorter than two characters dropped.
// Fenced code content gets the same rules as prose.
func Tokenize(text string) []string {
	words := termRegex.FindAllString(text, -1)

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		lower := strings.ToLower(w)
		if len(lower) >= 2 {
			tokens = append(tokens, lower)
		}
	}
	return tokens
}

// FilterStopTerms removes stop terms from a token list.
func FilterStopTerms(tokens []string, stop map[string]struct{}) []string {
	if len(stop) == 0 {
		return tokens
	}
	result := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, isStop := stop[tok]; !isStop {
			result = append(result, tok)
		}
	}
	return result
}

// BuildStopTermSet converts a stop word list to a lookup set.
func BuildStopTermSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[strings.ToLower(w)] = struct{}{}
	}
	return m
}

// uniqueTerms deduplicates query terms while preserving first-seen order,
// giving OR queries set semantics.
func uniqueTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	result := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}
