// Package simstring implements the on-disk character n-gram index used for
// approximate surface-form lookup.
//
// The index maps every distinct n-gram of every inserted term to the terms
// containing it. Build-time access is write-only through Writer; Reader
// serves the query side (exact membership and overlap-based approximate
// lookup). The layout is a directory holding the term list and the posting
// lists as two files.
package simstring

// DefaultNgramSize is the character n-gram width.
const DefaultNgramSize = 3

// File names inside an index directory.
const (
	termsFile    = "strings.ss"
	postingsFile = "ngrams.ss"
)

// ngrams returns the distinct character n-grams of term, in first-seen
// order. Terms shorter than n contribute themselves as their only feature,
// so no term is unreachable.
func ngrams(term string, n int) []string {
	runes := []rune(term)
	if len(runes) < n {
		if term == "" {
			return nil
		}
		return []string{term}
	}

	out := make([]string, 0, len(runes)-n+1)
	seen := make(map[string]struct{}, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		g := string(runes[i : i+n])
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
