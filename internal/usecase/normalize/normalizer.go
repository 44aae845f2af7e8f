// Package normalize turns colloquial Spanish symptom descriptions into short canonical
// phrases: fragment splitting, negation handling, synonym substitution and stopword removal.
package normalize

import (
	"strings"
)

// Normalizer is immutable after New and safe for concurrent use.
type Normalizer struct {
	kb        Knowledge
	synonyms  map[string]string
	maxKeyLen int
	negations map[string]struct{}
	idioms    [][]string
}

type unit struct {
	text      string
	canonical bool
}

// New creates a Normalizer over kb. Canonical symptom names become identity synonym keys,
// so "dolor de cabeza" stays one unit instead of being rewritten through "cabeza".
func New(kb Knowledge) *Normalizer {
	n := &Normalizer{
		kb:        kb,
		synonyms:  kb.Synonyms(),
		negations: make(map[string]struct{}),
	}
	for _, v := range kb.Vocabulary() {
		if _, ok := n.synonyms[v]; !ok {
			n.synonyms[v] = v
		}
	}
	for k := range n.synonyms {
		if l := len(strings.Fields(k)); l > n.maxKeyLen {
			n.maxKeyLen = l
		}
	}
	for _, m := range kb.NegationMarkers() {
		n.negations[m] = struct{}{}
	}
	for _, idiom := range kb.AffirmativeIdioms() {
		if words := tokenize(idiom); len(words) > 0 {
			n.idioms = append(n.idioms, words)
		}
	}
	return n
}

// Normalize returns the distinct canonical phrases found in inputs, in first-seen order.
// Empty and whitespace-only inputs contribute nothing.
func (n *Normalizer) Normalize(inputs []string) []string {
	out := make([]string, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		for _, frag := range SplitFragments(in) {
			phrase := n.normalizeFragment(frag)
			if phrase == "" {
				continue
			}
			if _, dup := seen[phrase]; dup {
				continue
			}
			seen[phrase] = struct{}{}
			out = append(out, phrase)
		}
	}
	return out
}

func (n *Normalizer) normalizeFragment(fragment string) string {
	tokens := tokenize(fragment)
	if len(tokens) == 0 || n.isNegated(tokens) {
		return ""
	}

	units := n.substitute(tokens)
	kept := make([]string, 0, len(units))
	for _, u := range units {
		if !u.canonical && n.kb.IsStopword(u.text) {
			continue
		}
		kept = append(kept, u.text)
	}
	return strings.Join(kept, " ")
}

// isNegated reports whether the fragment opens with a negation marker that is not part
// of an affirmative idiom such as "no huelo".
func (n *Normalizer) isNegated(tokens []string) bool {
	if _, ok := n.negations[tokens[0]]; !ok {
		return false
	}
	for _, idiom := range n.idioms {
		if hasPrefix(tokens, idiom) {
			return false
		}
	}
	return true
}

// substitute replaces synonym keys with canonical names, longest key first, scanning
// left to right.
func (n *Normalizer) substitute(tokens []string) []unit {
	units := make([]unit, 0, len(tokens))
	for i := 0; i < len(tokens); {
		matched := false
		for l := min(n.maxKeyLen, len(tokens)-i); l > 0; l-- {
			key := strings.Join(tokens[i:i+l], " ")
			if canonical, ok := n.synonyms[key]; ok {
				units = append(units, unit{text: canonical, canonical: true})
				i += l
				matched = true
				break
			}
		}
		if !matched {
			units = append(units, unit{text: tokens[i]})
			i++
		}
	}
	return units
}

func hasPrefix(tokens, prefix []string) bool {
	if len(prefix) > len(tokens) {
		return false
	}
	for i := range prefix {
		if tokens[i] != prefix[i] {
			return false
		}
	}
	return true
}
