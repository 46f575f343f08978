package fhir

import (
	"encoding/json"

	"github.com/gofhir/termindex/pkg/fault"
)

// Canonical URIs and role codes used during extraction.
const (
	// SystemSNOMED is the SNOMED CT code system URI. It doubles as the
	// designation-use system under which SNOMED role codes are meaningful.
	SystemSNOMED = "http://snomed.info/sct"

	// UseCodeSynonym marks a designation as a synonym.
	UseCodeSynonym = "900000000000013009"

	// UseCodeFullySpecifiedName marks a designation as the SNOMED fully
	// specified name, whose trailing "(type)" carries the semantic type.
	UseCodeFullySpecifiedName = "900000000000003001"
)

// Concept is one entry of a ValueSet expansion.
type Concept struct {
	// Code is the concept identifier, unique within System.
	Code string

	// System is the code system URI the concept belongs to.
	System string

	// Display is the concept's preferred name as returned by the server.
	Display string

	// Designations are alternate textual representations, in server order.
	// Empty when the concept carries none.
	Designations []Designation
}

// Designation is an alternate text for a concept, tagged with a use role.
type Designation struct {
	// UseSystem is the URI of the vocabulary defining the role. Role codes
	// are only interpreted when this is the SNOMED system.
	UseSystem string

	// UseCode is the role code (synonym vs fully specified name).
	UseCode string

	// Value is the designation text.
	Value string
}

// Wire-level structures for the $expand response. Required fields are
// pointers so their absence is detected at the parse boundary instead of
// surfacing as zero values deep in extraction.

type expandResponse struct {
	Expansion *wireExpansion `json:"expansion"`
}

type wireExpansion struct {
	Total    *int           `json:"total"`
	Contains []wireContains `json:"contains"`
}

type wireContains struct {
	System      *string           `json:"system"`
	Code        *string           `json:"code"`
	Display     *string           `json:"display"`
	Designation []wireDesignation `json:"designation"`
}

type wireDesignation struct {
	Use   *wireCoding `json:"use"`
	Value *string     `json:"value"`
}

type wireCoding struct {
	System *string `json:"system"`
	Code   *string `json:"code"`
}

// decodeExpansion parses and validates one $expand response body.
// Any missing required field is a protocol fault.
func decodeExpansion(op string, body []byte) (total int, concepts []Concept, err error) {
	var resp expandResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, nil, fault.ProtocolWrap(op, err)
	}

	if resp.Expansion == nil {
		return 0, nil, fault.Protocol(op, "response has no expansion")
	}
	if resp.Expansion.Total == nil {
		return 0, nil, fault.Protocol(op, "expansion.total missing")
	}
	if *resp.Expansion.Total < 0 {
		return 0, nil, fault.Protocol(op, "expansion.total is negative: %d", *resp.Expansion.Total)
	}

	concepts = make([]Concept, 0, len(resp.Expansion.Contains))
	for i := range resp.Expansion.Contains {
		c, err := toConcept(op, i, &resp.Expansion.Contains[i])
		if err != nil {
			return 0, nil, err
		}
		concepts = append(concepts, c)
	}

	return *resp.Expansion.Total, concepts, nil
}

func toConcept(op string, index int, w *wireContains) (Concept, error) {
	switch {
	case w.Code == nil:
		return Concept{}, fault.Protocol(op, "expansion.contains[%d] has no code", index)
	case w.System == nil:
		return Concept{}, fault.Protocol(op, "expansion.contains[%d] has no system", index)
	case w.Display == nil:
		return Concept{}, fault.Protocol(op, "expansion.contains[%d] has no display", index)
	}

	c := Concept{
		Code:    *w.Code,
		System:  *w.System,
		Display: *w.Display,
	}

	for j := range w.Designation {
		d := &w.Designation[j]
		switch {
		case d.Use == nil || d.Use.System == nil || d.Use.Code == nil:
			return Concept{}, fault.Protocol(op, "expansion.contains[%d].designation[%d] has no use coding", index, j)
		case d.Value == nil:
			return Concept{}, fault.Protocol(op, "expansion.contains[%d].designation[%d] has no value", index, j)
		}
		c.Designations = append(c.Designations, Designation{
			UseSystem: *d.Use.System,
			UseCode:   *d.Use.Code,
			Value:     *d.Value,
		})
	}

	return c, nil
}
