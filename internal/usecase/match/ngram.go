package match

import "strings"

// charNGrams counts word-bounded character n-grams of text for n in [minN, maxN].
// Each word is padded with one space on both sides and n-grams never span two words.
// A padded word shorter than n is emitted once as a whole, and larger n are skipped.
func charNGrams(text string, minN, maxN int) map[string]int {
	grams := make(map[string]int)
	for _, word := range strings.Fields(text) {
		w := []rune(" " + word + " ")
		for n := minN; n <= maxN; n++ {
			offset := 0
			grams[string(w[offset:min(offset+n, len(w))])]++
			for offset+n < len(w) {
				offset++
				grams[string(w[offset:offset+n])]++
			}
			if offset == 0 {
				break
			}
		}
	}
	return grams
}
