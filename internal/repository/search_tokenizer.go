package repository

import (
	"strings"
	"unicode"
)

// searchStopWords are dropped from free-text queries before they become
// per-token constraints. The list is deliberately short and literal; it is
// not a semantic stop list.
var searchStopWords = map[string]bool{
	"the":     true,
	"and":     true,
	"for":     true,
	"with":    true,
	"want":    true,
	"looking": true,
}

// TokenizeSearchQuery lower-cases the query, strips punctuation, splits on
// whitespace and drops tokens of length <= 2 plus the stop-word list. An
// empty result means the query adds no text constraint.
func TokenizeSearchQuery(query string) []string {
	if query == "" {
		return nil
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, query)

	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) <= 2 || searchStopWords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}

	return tokens
}
