package termindex

import (
	"sync/atomic"
	"time"
)

// Stats tracks installation progress using atomic counters. All methods are
// safe for concurrent use, so a caller may snapshot mid-run from another
// goroutine even though the pipeline itself is single-threaded.
type Stats struct {
	concepts       atomic.Uint64
	records        atomic.Uint64
	distinctTerms  atomic.Uint64
	duplicateTerms atomic.Uint64

	started time.Time
}

// NewStats creates a Stats with the clock started.
func NewStats() *Stats {
	return &Stats{started: time.Now()}
}

// RecordConcept counts one processed concept.
func (s *Stats) RecordConcept() {
	s.concepts.Add(1)
}

// RecordTerm counts one emitted record; duplicate marks terms already
// present in the similarity index.
func (s *Stats) RecordTerm(duplicate bool) {
	s.records.Add(1)
	if duplicate {
		s.duplicateTerms.Add(1)
	} else {
		s.distinctTerms.Add(1)
	}
}

// Summary is a point-in-time view of Stats.
type Summary struct {
	// Concepts is the number of concepts processed.
	Concepts uint64

	// Records is the number of (term, code) records written.
	Records uint64

	// DistinctTerms is the number of terms inserted into the similarity
	// index.
	DistinctTerms uint64

	// DuplicateTerms is the number of records whose term was already in
	// the similarity index.
	DuplicateTerms uint64

	// Elapsed is the time since the run started.
	Elapsed time.Duration
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() Summary {
	return Summary{
		Concepts:       s.concepts.Load(),
		Records:        s.records.Load(),
		DistinctTerms:  s.distinctTerms.Load(),
		DuplicateTerms: s.duplicateTerms.Load(),
		Elapsed:        time.Since(s.started),
	}
}
