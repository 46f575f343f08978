// Package semtypes holds the fixed vocabulary of SNOMED CT semantic-type
// labels and the suffix matching used to recover a concept's semantic type
// from its fully specified name.
package semtypes

import "strings"

// vocabulary is the recognized set of SNOMED CT semantic-type labels, in the
// fixed order the matcher scans them. The order is load-bearing: Match stops
// at the first label whose parenthesized form is a suffix of the input, and
// some labels are substrings of others ("staging scale" / "staging scales"),
// so reordering changes results for those fully specified names.
var vocabulary = []string{
	"OWL metadata concept",
	"administration method",
	"assessment scale",
	"attribute",
	"basic dose form",
	"body structure",
	"cell structure",
	"cell",
	"clinical drug",
	"core metadata concept",
	"disorder",
	"disposition",
	"dose form",
	"environment / location",
	"environment",
	"ethnic group",
	"event",
	"finding",
	"foundation metadata concept",
	"geographic location",
	"inactive concept",
	"intended site",
	"life style",
	"link assertion",
	"linkage concept",
	"medicinal product form",
	"medicinal product",
	"metadata",
	"morphologic abnormality",
	"namespace concept",
	"navigational concept",
	"number",
	"observable entity",
	"occupation",
	"organism",
	"person",
	"physical force",
	"physical object",
	"procedure",
	"product name",
	"product",
	"qualifier value",
	"racial group",
	"record artifact",
	"regime/therapy",
	"release characteristic",
	"religion/philosophy",
	"role",
	"situation",
	"social concept",
	"special concept",
	"specimen",
	"staging scale",
	"staging scales",
	"state of matter",
	"substance",
	"supplier",
	"transformation",
	"tumor staging",
	"unit of presentation",
}

// Labels returns a copy of the vocabulary in scan order.
func Labels() []string {
	out := make([]string, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// Contains reports whether label is a recognized semantic-type label.
func Contains(label string) bool {
	for _, l := range vocabulary {
		if l == label {
			return true
		}
	}
	return false
}

// Match scans the vocabulary in order for a label whose parenthesized form
// "(label)" is a suffix of the fully specified name. On a match it returns
// the label and the name with the suffix stripped and surrounding whitespace
// trimmed. ok is false when no label matches, in which case the name is
// returned unchanged.
func Match(fsn string) (label, stripped string, ok bool) {
	for _, l := range vocabulary {
		if strings.HasSuffix(fsn, "("+l+")") {
			return l, strings.TrimSpace(fsn[:len(fsn)-len(l)-2]), true
		}
	}
	return "", fsn, false
}
