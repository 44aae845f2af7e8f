package normalize

import (
	"strings"
	"unicode"

	"github.com/kailas-cloud/symdx/internal/domain/knowledge"
)

// Punctuation that ends a fragment.
var fragmentBreaks = map[rune]struct{}{
	',':  {},
	'.':  {},
	';':  {},
	'\n': {},
	'\r': {},
}

// Connector words that end a fragment. Compared after folding.
var connectorWords = map[string]struct{}{
	"y":      {},
	"o":      {},
	"ademas": {},
}

// SplitFragments splits one raw input into folded fragments at punctuation breaks and
// connector words. Empty fragments are dropped; order is preserved.
func SplitFragments(input string) []string {
	var out []string
	for _, piece := range strings.FieldsFunc(input, isFragmentBreak) {
		var cur []string
		for _, word := range strings.Fields(knowledge.Fold(piece)) {
			if _, ok := connectorWords[trimToken(word)]; ok {
				out = appendFragment(out, cur)
				cur = cur[:0]
				continue
			}
			cur = append(cur, word)
		}
		out = appendFragment(out, cur)
	}
	return out
}

func appendFragment(out, words []string) []string {
	if len(words) == 0 {
		return out
	}
	return append(out, strings.Join(words, " "))
}

func isFragmentBreak(r rune) bool {
	_, ok := fragmentBreaks[r]
	return ok
}

// tokenize splits a folded fragment into tokens with edge punctuation removed.
func tokenize(fragment string) []string {
	fields := strings.Fields(fragment)
	tokens := fields[:0]
	for _, f := range fields {
		if t := trimToken(f); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func trimToken(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
