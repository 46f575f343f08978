package extract

import (
	"reflect"
	"testing"

	"github.com/gofhir/termindex/fhir"
)

func TestExtractDisplayOnly(t *testing.T) {
	e := NewExtractor("UNKNOWN", nil)

	records := e.Extract(&fhir.Concept{
		Code:    "B2",
		System:  "http://example.org/other",
		Display: " Flu ",
	})

	want := []Record{{
		Term:          "Flu",
		Code:          "B2",
		SemanticTypes: []string{"UNKNOWN"},
		IsPreferred:   true,
	}}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("Extract() = %+v; want %+v", records, want)
	}
}

func TestExtractSnomedConcept(t *testing.T) {
	e := NewExtractor("UNKNOWN", nil)

	records := e.Extract(&fhir.Concept{
		Code:    "A1",
		System:  fhir.SystemSNOMED,
		Display: "Heart attack",
		Designations: []fhir.Designation{
			{UseSystem: fhir.SystemSNOMED, UseCode: fhir.UseCodeSynonym, Value: "Cardiac arrest "},
			{UseSystem: fhir.SystemSNOMED, UseCode: fhir.UseCodeFullySpecifiedName, Value: "Myocardial infarction (disorder)"},
		},
	})

	want := []Record{
		{Term: "Heart attack", Code: "A1", SemanticTypes: []string{"disorder"}, IsPreferred: true},
		{Term: "Cardiac arrest", Code: "A1", SemanticTypes: []string{"disorder"}, IsPreferred: false},
		{Term: "Myocardial infarction", Code: "A1", SemanticTypes: []string{"disorder"}, IsPreferred: false},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("Extract() = %+v; want %+v", records, want)
	}
}

// The fully specified name may come after synonyms in designation order; the
// recovered type must still apply to every record of the concept.
func TestExtractTypeAppliesRetroactively(t *testing.T) {
	e := NewExtractor("UNKNOWN", nil)

	records := e.Extract(&fhir.Concept{
		Code:    "C3",
		System:  fhir.SystemSNOMED,
		Display: "Aspirin",
		Designations: []fhir.Designation{
			{UseSystem: fhir.SystemSNOMED, UseCode: fhir.UseCodeSynonym, Value: "Acetylsalicylic acid"},
			{UseSystem: fhir.SystemSNOMED, UseCode: fhir.UseCodeFullySpecifiedName, Value: "Aspirin (substance)"},
		},
	})

	for _, r := range records {
		if len(r.SemanticTypes) != 1 || r.SemanticTypes[0] != "substance" {
			t.Errorf("record %q semantic types = %v; want [substance]", r.Term, r.SemanticTypes)
		}
	}
}

func TestExtractDeduplicatesSynonyms(t *testing.T) {
	e := NewExtractor("UNKNOWN", nil)

	records := e.Extract(&fhir.Concept{
		Code:    "D4",
		System:  fhir.SystemSNOMED,
		Display: "Fever",
		Designations: []fhir.Designation{
			{UseSystem: fhir.SystemSNOMED, UseCode: fhir.UseCodeSynonym, Value: "Fever"},
			{UseSystem: fhir.SystemSNOMED, UseCode: fhir.UseCodeSynonym, Value: " Fever "},
			{UseSystem: fhir.SystemSNOMED, UseCode: fhir.UseCodeSynonym, Value: "Pyrexia"},
		},
	})

	if len(records) != 2 {
		t.Fatalf("got %d records; want 2: %+v", len(records), records)
	}
	if records[0].Term != "Fever" || !records[0].IsPreferred {
		t.Errorf("records[0] = %+v; want preferred Fever", records[0])
	}
	if records[1].Term != "Pyrexia" || records[1].IsPreferred {
		t.Errorf("records[1] = %+v; want non-preferred Pyrexia", records[1])
	}
}

func TestExtractDesignationRoles(t *testing.T) {
	t.Run("non-snomed use system is a plain synonym", func(t *testing.T) {
		e := NewExtractor("UNKNOWN", nil)
		records := e.Extract(&fhir.Concept{
			Code:    "E5",
			System:  fhir.SystemSNOMED,
			Display: "Cough",
			Designations: []fhir.Designation{
				{UseSystem: "http://example.org/uses", UseCode: "whatever", Value: " Tussis "},
			},
		})
		if len(records) != 2 || records[1].Term != "Tussis" {
			t.Errorf("Extract() = %+v; want Cough and Tussis", records)
		}
	})

	t.Run("unrecognized snomed role is ignored", func(t *testing.T) {
		e := NewExtractor("UNKNOWN", nil)
		records := e.Extract(&fhir.Concept{
			Code:    "E6",
			System:  fhir.SystemSNOMED,
			Display: "Cough",
			Designations: []fhir.Designation{
				{UseSystem: fhir.SystemSNOMED, UseCode: "900000000000550004", Value: "Definition text"},
			},
		})
		if len(records) != 1 {
			t.Errorf("Extract() = %+v; want only the display record", records)
		}
	})

	t.Run("fsn on non-snomed concept is kept whole", func(t *testing.T) {
		e := NewExtractor("UNKNOWN", nil)
		records := e.Extract(&fhir.Concept{
			Code:    "E7",
			System:  "http://example.org/cs",
			Display: "Thing",
			Designations: []fhir.Designation{
				{UseSystem: fhir.SystemSNOMED, UseCode: fhir.UseCodeFullySpecifiedName, Value: "Thing (disorder)"},
			},
		})
		if len(records) != 2 || records[1].Term != "Thing (disorder)" {
			t.Errorf("Extract() = %+v; want the unstripped name", records)
		}
		if records[0].SemanticTypes[0] != "UNKNOWN" {
			t.Errorf("semantic type = %v; want UNKNOWN (non-SNOMED system recovers nothing)", records[0].SemanticTypes)
		}
	})

	t.Run("fsn with unrecognized suffix keeps default type", func(t *testing.T) {
		e := NewExtractor("UNKNOWN", nil)
		records := e.Extract(&fhir.Concept{
			Code:    "E8",
			System:  fhir.SystemSNOMED,
			Display: "Thing",
			Designations: []fhir.Designation{
				{UseSystem: fhir.SystemSNOMED, UseCode: fhir.UseCodeFullySpecifiedName, Value: "Thing (galaxy)"},
			},
		})
		if records[0].SemanticTypes[0] != "UNKNOWN" {
			t.Errorf("semantic type = %v; want UNKNOWN", records[0].SemanticTypes)
		}
		if len(records) != 2 || records[1].Term != "Thing (galaxy)" {
			t.Errorf("Extract() = %+v; want the raw name as synonym", records)
		}
	})
}

// is_preferred compares the raw trimmed text, but the emitted term is the
// normalized one.
func TestExtractPreferredUnderNormalization(t *testing.T) {
	norm, err := NewNormalizer(true, false, nil)
	if err != nil {
		t.Fatalf("NewNormalizer() error = %v", err)
	}
	e := NewExtractor("UNKNOWN", norm)

	records := e.Extract(&fhir.Concept{
		Code:    "F9",
		System:  fhir.SystemSNOMED,
		Display: "Heart Attack",
	})

	if len(records) != 1 {
		t.Fatalf("got %d records; want 1", len(records))
	}
	if records[0].Term != "heart attack" {
		t.Errorf("Term = %q; want %q", records[0].Term, "heart attack")
	}
	if !records[0].IsPreferred {
		t.Error("expected the display record to stay preferred after lowercasing")
	}
}

func TestExtractDefaultTypeFallback(t *testing.T) {
	e := NewExtractor("", nil)
	records := e.Extract(&fhir.Concept{Code: "G1", System: "s", Display: "X"})
	if records[0].SemanticTypes[0] != DefaultSemanticType {
		t.Errorf("semantic type = %v; want %q", records[0].SemanticTypes, DefaultSemanticType)
	}
}
