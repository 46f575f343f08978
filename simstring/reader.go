package simstring

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofhir/termindex/pkg/fault"
)

// Reader serves lookups against a built similarity index. The whole index
// is loaded into memory on open.
type Reader struct {
	terms  []string
	byTerm map[string]struct{}
	post   postings
}

// OpenReader loads the index in dir.
func OpenReader(dir string) (*Reader, error) {
	f, err := os.Open(filepath.Join(dir, termsFile))
	if err != nil {
		return nil, fault.Storage("simstring.read", err)
	}
	defer f.Close()

	r := &Reader{byTerm: make(map[string]struct{})}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var term string
		if err := json.Unmarshal(scanner.Bytes(), &term); err != nil {
			return nil, fault.Storage("simstring.read", err)
		}
		r.terms = append(r.terms, term)
		r.byTerm[term] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fault.Storage("simstring.read", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, postingsFile))
	if err != nil {
		return nil, fault.Storage("simstring.read", err)
	}
	if err := json.Unmarshal(data, &r.post); err != nil {
		return nil, fault.Storage("simstring.read", err)
	}
	if len(r.post.Sizes) != len(r.terms) {
		return nil, fault.Protocol("simstring.read", "index inconsistent: %d terms but %d feature counts", len(r.terms), len(r.post.Sizes))
	}

	return r, nil
}

// Len returns the number of indexed terms.
func (r *Reader) Len() int {
	return len(r.terms)
}

// Terms returns all indexed terms in insertion order.
func (r *Reader) Terms() []string {
	out := make([]string, len(r.terms))
	copy(out, r.terms)
	return out
}

// Contains reports exact membership of term.
func (r *Reader) Contains(term string) bool {
	_, ok := r.byTerm[term]
	return ok
}

// Lookup returns every indexed term whose n-gram Jaccard similarity with
// query is at least threshold, best match first. A threshold of 1 reduces
// to exact n-gram-set equality.
func (r *Reader) Lookup(query string, threshold float64) []string {
	if threshold <= 0 {
		threshold = 1
	}

	grams := ngrams(query, r.post.NgramSize)
	if len(grams) == 0 {
		return nil
	}

	overlap := make(map[int]int)
	for _, g := range grams {
		for _, id := range r.post.Grams[g] {
			overlap[id]++
		}
	}

	type match struct {
		term  string
		score float64
	}
	var matches []match
	for id, shared := range overlap {
		union := len(grams) + r.post.Sizes[id] - shared
		score := float64(shared) / float64(union)
		if score >= threshold {
			matches = append(matches, match{term: r.terms[id], score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].term < matches[j].term
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.term
	}
	return out
}
