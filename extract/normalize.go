package extract

import (
	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gofhir/termindex/pkg/fault"
)

// Transliterator converts text to its closest ASCII-only approximation.
// It is an optional collaborator: required only when unicode normalization
// is requested for the run.
type Transliterator interface {
	Transliterate(s string) string
}

// Unidecode is the default Transliterator, backed by a portable
// transliteration table. Characters with no reasonable ASCII mapping are
// dropped or replaced per the table's own policy.
type Unidecode struct{}

// Transliterate implements Transliterator.
func (Unidecode) Transliterate(s string) string {
	return unidecode.Unidecode(s)
}

// Normalizer applies the configured text transformations to each surface
// form before it reaches the index builder. With both flags set, lowercasing
// runs first and transliteration second; that order changes output for some
// language-specific casings, and it is the order the stores are built with.
// Both transformations are idempotent, so Normalize is too.
type Normalizer struct {
	lower    *cases.Caser
	translit Transliterator
}

// NewNormalizer builds a Normalizer. Requesting transliteration without a
// Transliterator is a configuration fault, reported eagerly so the pipeline
// never starts with a silently disabled transformation.
func NewNormalizer(lowercase, transliterate bool, tr Transliterator) (*Normalizer, error) {
	if transliterate && tr == nil {
		return nil, fault.Configuration("extract.normalizer", "unicode normalization requested but no transliterator is available")
	}

	n := &Normalizer{}
	if lowercase {
		// Und gives locale-independent case folding.
		c := cases.Lower(language.Und)
		n.lower = &c
	}
	if transliterate {
		n.translit = tr
	}
	return n, nil
}

// Normalize applies the configured transformations to term.
func (n *Normalizer) Normalize(term string) string {
	if n == nil {
		return term
	}
	if n.lower != nil {
		term = n.lower.String(term)
	}
	if n.translit != nil {
		term = n.translit.Transliterate(term)
	}
	return term
}

// Active reports whether any transformation is configured.
func (n *Normalizer) Active() bool {
	return n != nil && (n.lower != nil || n.translit != nil)
}
