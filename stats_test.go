package termindex

import "testing"

func TestStats(t *testing.T) {
	s := NewStats()

	for i := 0; i < 3; i++ {
		s.RecordConcept()
	}
	s.RecordTerm(false)
	s.RecordTerm(false)
	s.RecordTerm(true)

	got := s.Snapshot()
	if got.Concepts != 3 {
		t.Errorf("Concepts = %d; want 3", got.Concepts)
	}
	if got.Records != 3 {
		t.Errorf("Records = %d; want 3", got.Records)
	}
	if got.DistinctTerms != 2 {
		t.Errorf("DistinctTerms = %d; want 2", got.DistinctTerms)
	}
	if got.DuplicateTerms != 1 {
		t.Errorf("DuplicateTerms = %d; want 1", got.DuplicateTerms)
	}
	if got.Elapsed < 0 {
		t.Errorf("Elapsed = %v; want non-negative", got.Elapsed)
	}
}

func TestStatsZero(t *testing.T) {
	got := NewStats().Snapshot()
	if got.Concepts != 0 || got.Records != 0 || got.DistinctTerms != 0 || got.DuplicateTerms != 0 {
		t.Errorf("fresh snapshot = %+v; want all zero", got)
	}
}
