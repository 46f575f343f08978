package fhir

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofhir/termindex/pkg/fault"
)

// expandHandler serves a fixed-total expansion, generating concepts on the
// fly so pagination windows can be asserted.
func expandHandler(t *testing.T, total int, offsets *[]int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ValueSet/$expand" {
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("includeDesignations") != "true" || q.Get("activeOnly") != "true" {
			t.Errorf("missing expansion parameters in query: %v", q)
		}

		offset, _ := strconv.Atoi(q.Get("offset"))
		count, _ := strconv.Atoi(q.Get("count"))
		*offsets = append(*offsets, offset)

		n := total - offset
		if n > count {
			n = count
		}
		if n < 0 {
			n = 0
		}

		contains := make([]map[string]any, 0, n)
		for i := 0; i < n; i++ {
			contains = append(contains, map[string]any{
				"system":  "http://snomed.info/sct",
				"code":    fmt.Sprintf("C%d", offset+i),
				"display": fmt.Sprintf("Concept %d", offset+i),
			})
		}

		w.Header().Set("Content-Type", "application/fhir+json")
		json.NewEncoder(w).Encode(map[string]any{
			"resourceType": "ValueSet",
			"expansion": map[string]any{
				"total":    total,
				"contains": contains,
			},
		})
	}
}

func collect(t *testing.T, ch <-chan ConceptResult) ([]Concept, error) {
	t.Helper()
	var concepts []Concept
	for res := range ch {
		if res.Err != nil {
			return concepts, res.Err
		}
		concepts = append(concepts, *res.Concept)
	}
	return concepts, nil
}

func TestExpandPagination(t *testing.T) {
	var offsets []int
	srv := httptest.NewServer(expandHandler(t, 250, &offsets))
	defer srv.Close()

	c := NewClient(srv.URL, WithPageSize(100))
	concepts, err := collect(t, c.Expand(context.Background(), "http://example.org/vs", "en"))
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}

	if len(concepts) != 250 {
		t.Errorf("got %d concepts; want 250", len(concepts))
	}
	wantOffsets := []int{0, 100, 200}
	if len(offsets) != len(wantOffsets) {
		t.Fatalf("got %d page requests (%v); want %v", len(offsets), offsets, wantOffsets)
	}
	for i, want := range wantOffsets {
		if offsets[i] != want {
			t.Errorf("request %d offset = %d; want %d", i, offsets[i], want)
		}
	}
	if concepts[0].Code != "C0" || concepts[249].Code != "C249" {
		t.Errorf("unexpected concept order: first=%q last=%q", concepts[0].Code, concepts[249].Code)
	}
}

func TestExpandEmptyValueSet(t *testing.T) {
	var offsets []int
	srv := httptest.NewServer(expandHandler(t, 0, &offsets))
	defer srv.Close()

	c := NewClient(srv.URL, WithPageSize(100))
	concepts, err := collect(t, c.Expand(context.Background(), "http://example.org/vs", "en"))
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if len(concepts) != 0 {
		t.Errorf("got %d concepts; want 0", len(concepts))
	}
	if len(offsets) != 1 {
		t.Errorf("got %d page requests; want 1", len(offsets))
	}
}

func TestExpandDesignations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/fhir+json")
		fmt.Fprint(w, `{
			"expansion": {
				"total": 1,
				"contains": [{
					"system": "http://snomed.info/sct",
					"code": "22298006",
					"display": "Myocardial infarction",
					"designation": [
						{"use": {"system": "http://snomed.info/sct", "code": "900000000000003001"},
						 "value": "Myocardial infarction (disorder)"},
						{"use": {"system": "http://snomed.info/sct", "code": "900000000000013009"},
						 "value": "Heart attack"}
					]
				}]
			}
		}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	concepts, err := collect(t, c.Expand(context.Background(), "http://example.org/vs", "en"))
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if len(concepts) != 1 {
		t.Fatalf("got %d concepts; want 1", len(concepts))
	}

	got := concepts[0]
	if got.Code != "22298006" || got.System != SystemSNOMED {
		t.Errorf("concept = %+v", got)
	}
	if len(got.Designations) != 2 {
		t.Fatalf("got %d designations; want 2", len(got.Designations))
	}
	if got.Designations[0].UseCode != UseCodeFullySpecifiedName {
		t.Errorf("designation[0].UseCode = %q; want FSN role", got.Designations[0].UseCode)
	}
	if got.Designations[1].Value != "Heart attack" {
		t.Errorf("designation[1].Value = %q; want %q", got.Designations[1].Value, "Heart attack")
	}
}

func TestExpandProtocolFaults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>maintenance</html>`},
		{"no expansion", `{"resourceType": "ValueSet"}`},
		{"no total", `{"expansion": {"contains": []}}`},
		{"negative total", `{"expansion": {"total": -1}}`},
		{"concept without code", `{"expansion": {"total": 1, "contains": [{"system": "s", "display": "d"}]}}`},
		{"concept without system", `{"expansion": {"total": 1, "contains": [{"code": "c", "display": "d"}]}}`},
		{"concept without display", `{"expansion": {"total": 1, "contains": [{"code": "c", "system": "s"}]}}`},
		{"designation without value", `{"expansion": {"total": 1, "contains": [
			{"code": "c", "system": "s", "display": "d",
			 "designation": [{"use": {"system": "s", "code": "r"}}]}]}}`},
		{"designation without use", `{"expansion": {"total": 1, "contains": [
			{"code": "c", "system": "s", "display": "d",
			 "designation": [{"value": "v"}]}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/fhir+json")
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			_, err := collect(t, c.Expand(context.Background(), "http://example.org/vs", "en"))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !fault.IsKind(err, fault.KindProtocol) {
				t.Errorf("error kind = %q; want protocol (err: %v)", fault.KindOf(err), err)
			}
		})
	}
}

func TestExpandServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := collect(t, c.Expand(context.Background(), "http://example.org/vs", "en"))
	if !fault.IsKind(err, fault.KindProtocol) {
		t.Errorf("error kind = %q; want protocol (err: %v)", fault.KindOf(err), err)
	}
}

func TestExpandTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL)
	_, err := collect(t, c.Expand(context.Background(), "http://example.org/vs", "en"))
	if !fault.IsKind(err, fault.KindTransport) {
		t.Errorf("error kind = %q; want transport (err: %v)", fault.KindOf(err), err)
	}
}
