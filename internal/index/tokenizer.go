package index

import (
	"strings"
	"unicode"
)

// minTokenLen is exclusive: tokens must be longer than this to be indexed.
const minTokenLen = 2

// Tokenize lower-cases the text, strips everything that is not a letter, digit,
// or space, splits on whitespace, and drops tokens of length <= 2. Duplicates
// are preserved; callers that need per-document uniqueness deduplicate
// themselves.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	words := strings.Fields(b.String())
	tokens := words[:0]
	for _, w := range words {
		if len(w) > minTokenLen {
			tokens = append(tokens, w)
		}
	}
	return tokens
}
