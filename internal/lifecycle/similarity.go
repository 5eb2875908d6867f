package lifecycle

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minMeaningfulWordLen = 3
	minSharedWords       = 2
)

// MeaningfulWords lower-cases text, deletes punctuation and symbols, splits on
// whitespace and keeps words of at least three characters. "bus-stop" becomes
// "busstop", not "bus" and "stop".
func MeaningfulWords(text string) map[string]struct{} {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, strings.ToLower(text))
	fields := strings.Fields(stripped)

	words := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minMeaningfulWordLen {
			words[f] = struct{}{}
		}
	}
	return words
}

// SharedWordCount is the size of the intersection of two word sets.
func SharedWordCount(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}

// IsSimilarReport reports whether two title+description texts share at least two
// meaningful words.
func IsSimilarReport(a, b string) bool {
	return SharedWordCount(MeaningfulWords(a), MeaningfulWords(b)) >= minSharedWords
}
