// Package extract expands value-set concepts into the normalized term
// records the index builder consumes.
//
// Each concept yields one record per distinct synonym text: the trimmed
// display plus every designation the extraction rules admit. For SNOMED
// concepts the fully specified name's trailing "(type)" determines the
// semantic type of every record of that concept, replacing the configured
// default.
package extract

import (
	"strings"

	"github.com/gofhir/termindex/fhir"
	"github.com/gofhir/termindex/semtypes"
)

// DefaultSemanticType is used when a concept's type cannot be determined.
const DefaultSemanticType = "UNKNOWN"

// Record is the pipeline's unit of output: one surface form of one concept.
type Record struct {
	// Term is the surface-form text, post-normalization.
	Term string

	// Code is the owning concept's code.
	Code string

	// SemanticTypes holds exactly one semantic-type label: the one
	// recovered from the fully specified name, or the run's default.
	SemanticTypes []string

	// IsPreferred is true iff the raw term equals the concept's trimmed
	// display. The comparison happens before normalization; Term is still
	// the normalized text.
	IsPreferred bool
}

// Extractor turns concepts into records.
type Extractor struct {
	defaultType string
	norm        *Normalizer
}

// NewExtractor creates an Extractor. defaultType is the semantic type
// assigned when none can be recovered; empty means DefaultSemanticType.
// norm may be nil, in which case terms are emitted untransformed.
func NewExtractor(defaultType string, norm *Normalizer) *Extractor {
	if defaultType == "" {
		defaultType = DefaultSemanticType
	}
	return &Extractor{defaultType: defaultType, norm: norm}
}

// Extract expands one concept into its records. Duplicate synonym texts
// within the concept collapse to one record; records come out in first-seen
// order, display first. The semantic type is resolved across all
// designations before any record is built, so a fully specified name late
// in designation order still types every record of the concept.
func (e *Extractor) Extract(c *fhir.Concept) []Record {
	preferred := strings.TrimSpace(c.Display)

	synonyms := []string{preferred}
	seen := map[string]struct{}{preferred: {}}
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		synonyms = append(synonyms, s)
	}

	semanticType := e.defaultType

	for _, d := range c.Designations {
		if d.UseSystem != fhir.SystemSNOMED {
			// Role codes from other vocabularies are not interpreted;
			// the text is taken as a plain synonym.
			add(strings.TrimSpace(d.Value))
			continue
		}

		switch d.UseCode {
		case fhir.UseCodeSynonym:
			add(strings.TrimSpace(d.Value))

		case fhir.UseCodeFullySpecifiedName:
			if c.System != fhir.SystemSNOMED {
				add(strings.TrimSpace(d.Value))
				continue
			}
			if label, stripped, ok := semtypes.Match(d.Value); ok {
				semanticType = label
				add(stripped)
			} else {
				// Unrecognized type suffix: keep the name whole.
				add(strings.TrimSpace(d.Value))
			}
		}
	}

	records := make([]Record, 0, len(synonyms))
	for _, s := range synonyms {
		records = append(records, Record{
			Term:          e.norm.Normalize(s),
			Code:          c.Code,
			SemanticTypes: []string{semanticType},
			IsPreferred:   s == preferred,
		})
	}
	return records
}
