package simstring

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gofhir/termindex/pkg/fault"
)

// postings is the serialized posting-list file: n-gram width, per-term
// feature counts (aligned with the term list), and n-gram to term-index
// posting lists.
type postings struct {
	NgramSize int              `json:"ngramSize"`
	Sizes     []int            `json:"sizes"`
	Grams     map[string][]int `json:"grams"`
}

// Writer builds a similarity index. Terms stream to disk as they are
// inserted; the posting lists accumulate in memory and are written by Close.
// Callers are expected to insert each distinct term once.
type Writer struct {
	dir   string
	n     int
	file  *os.File
	terms *bufio.Writer
	enc   *json.Encoder
	post  postings
	count int
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithNgramSize sets the n-gram width (default DefaultNgramSize).
func WithNgramSize(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.n = n
		}
	}
}

// NewWriter creates the index directory (if missing) and opens it for
// writing. An existing index in dir is truncated.
func NewWriter(dir string, opts ...WriterOption) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fault.Storage("simstring.open", err)
	}

	f, err := os.Create(filepath.Join(dir, termsFile))
	if err != nil {
		return nil, fault.Storage("simstring.open", err)
	}

	w := &Writer{
		dir:  dir,
		n:    DefaultNgramSize,
		file: f,
		post: postings{Grams: make(map[string][]int)},
	}
	w.terms = bufio.NewWriter(f)
	w.enc = json.NewEncoder(w.terms)

	for _, opt := range opts {
		opt(w)
	}
	w.post.NgramSize = w.n

	return w, nil
}

// Insert adds term to the index.
func (w *Writer) Insert(term string) error {
	// One JSON document per line; terms may contain any characters.
	if err := w.enc.Encode(term); err != nil {
		return fault.Storage("simstring.insert", err)
	}

	id := w.count
	grams := ngrams(term, w.n)
	for _, g := range grams {
		w.post.Grams[g] = append(w.post.Grams[g], id)
	}
	w.post.Sizes = append(w.post.Sizes, len(grams))
	w.count++
	return nil
}

// Count returns the number of terms inserted so far.
func (w *Writer) Count() int {
	return w.count
}

// Close flushes the term list, writes the posting lists, and syncs the
// index to disk. The Writer is unusable afterwards.
func (w *Writer) Close() error {
	if err := w.terms.Flush(); err != nil {
		w.file.Close()
		return fault.Storage("simstring.close", err)
	}
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return fault.Storage("simstring.close", err)
	}
	if err := w.file.Close(); err != nil {
		return fault.Storage("simstring.close", err)
	}

	data, err := json.Marshal(w.post)
	if err != nil {
		return fault.Storage("simstring.close", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, postingsFile), data, 0o644); err != nil {
		return fault.Storage("simstring.close", err)
	}
	return nil
}
