// Package termindex builds the on-disk indexes consumed by approximate
// string matching over a medical terminology.
//
// An Installer streams a FHIR ValueSet expansion from a terminology server,
// expands each concept into normalized term records, and writes two
// synchronized stores under a destination directory: a character n-gram
// similarity index over every distinct surface form, and a multi-valued
// key-value store mapping each surface form to its concept codes and
// semantic types. The run configuration is persisted next to the stores so
// query-time consumers know how they were built.
package termindex

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/gofhir/termindex/extract"
	"github.com/gofhir/termindex/fhir"
	"github.com/gofhir/termindex/lang"
	"github.com/gofhir/termindex/pkg/fault"
	"github.com/gofhir/termindex/simstring"
	"github.com/gofhir/termindex/store"
)

// Store directories created under the destination path.
const (
	// SimstringDir holds the n-gram similarity index.
	SimstringDir = "umls-simstring.db"

	// TermStoreDir holds the term-to-concept key-value store.
	TermStoreDir = "cui-semtypes.db"
)

// Installer runs the ingestion-to-index pipeline.
type Installer struct {
	opts *Options
	log  *zap.Logger
}

// New creates an Installer. Configuration problems (unknown backend, a
// requested transformation without its collaborator) are reported here,
// before any network or disk work starts.
func New(opts ...Option) (*Installer, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if _, err := store.ParseBackend(string(o.Backend)); err != nil {
		return nil, err
	}
	// Builds the normalizer only to surface missing-collaborator faults
	// eagerly; Install builds its own.
	if _, err := extract.NewNormalizer(o.Lowercase, o.NormalizeUnicode, o.Transliterator); err != nil {
		return nil, err
	}

	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Installer{opts: o, log: log}, nil
}

// Install builds the indexes for the value set's expansion under destDir.
// The destination is expected to be empty or freshly created; each run
// rebuilds it from scratch. On error the run aborts and the partially
// populated destination must be discarded by the operator.
func (ins *Installer) Install(ctx context.Context, valueSetURL, destDir string) (Summary, error) {
	o := ins.opts

	norm, err := extract.NewNormalizer(o.Lowercase, o.NormalizeUnicode, o.Transliterator)
	if err != nil {
		return Summary{}, err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Summary{}, fault.Storage("install", err)
	}

	cfg := RunConfiguration{
		Language:         o.Language,
		Lowercase:        o.Lowercase,
		NormalizeUnicode: o.NormalizeUnicode,
		Backend:          o.Backend,
	}
	if err := cfg.Write(destDir); err != nil {
		return Summary{}, err
	}

	sim, err := simstring.NewWriter(filepath.Join(destDir, SimstringDir))
	if err != nil {
		return Summary{}, err
	}
	terms, err := store.Open(o.Backend, filepath.Join(destDir, TermStoreDir))
	if err != nil {
		sim.Close()
		return Summary{}, err
	}

	stats := NewStats()
	builder := newIndexBuilder(sim, terms, stats)

	clientOpts := []fhir.ClientOption{
		fhir.WithPageSize(o.PageSize),
		fhir.WithTimeout(o.Timeout),
		fhir.WithLogger(ins.log),
	}
	if o.RetryCount > 0 {
		clientOpts = append(clientOpts, fhir.WithRetry(o.RetryCount, o.Timeout/10))
	}
	client := fhir.NewClient(o.ServerURL, clientOpts...)
	extractor := extract.NewExtractor(o.DefaultSemanticType, norm)

	// Cancelling on exit unblocks the fetch goroutine when the pipeline
	// aborts mid-stream.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var runErr error
	stream := client.Expand(ctx, valueSetURL, lang.Display(o.Language))

loop:
	for res := range stream {
		if res.Err != nil {
			runErr = res.Err
			break
		}
		stats.RecordConcept()
		for _, rec := range extractor.Extract(res.Concept) {
			if err := builder.Add(rec); err != nil {
				runErr = err
				break loop
			}
		}
	}

	// Stores are flushed and closed on every exit path; a close failure
	// on an otherwise clean run is still a failed run.
	if err := builder.Close(); err != nil && runErr == nil {
		runErr = err
	}

	summary := stats.Snapshot()
	if runErr != nil {
		ins.log.Error("installation failed",
			zap.Error(runErr),
			zap.Uint64("concepts", summary.Concepts),
			zap.String("destination", destDir),
		)
		return summary, runErr
	}

	ins.log.Info("installation complete",
		zap.Uint64("concepts", summary.Concepts),
		zap.Uint64("records", summary.Records),
		zap.Uint64("distinct_terms", summary.DistinctTerms),
		zap.Duration("elapsed", summary.Elapsed),
		zap.String("destination", destDir),
	)
	return summary, nil
}

// indexBuilder is the terminal consumer of the record stream. Every record
// lands in the term store; the similarity index receives each distinct term
// once. The set of keys in both stores is therefore identical.
type indexBuilder struct {
	sim   *simstring.Writer
	terms store.Store
	seen  map[string]struct{}
	stats *Stats
}

func newIndexBuilder(sim *simstring.Writer, terms store.Store, stats *Stats) *indexBuilder {
	return &indexBuilder{
		sim:   sim,
		terms: terms,
		seen:  make(map[string]struct{}),
		stats: stats,
	}
}

// Add writes one record into both stores.
func (b *indexBuilder) Add(rec extract.Record) error {
	_, duplicate := b.seen[rec.Term]
	if !duplicate {
		if err := b.sim.Insert(rec.Term); err != nil {
			return err
		}
		b.seen[rec.Term] = struct{}{}
	}
	b.stats.RecordTerm(duplicate)

	return b.terms.Insert(rec.Term, store.Entry{
		Code:          rec.Code,
		SemanticTypes: rec.SemanticTypes,
		Preferred:     rec.IsPreferred,
	})
}

// Close flushes and closes both stores.
func (b *indexBuilder) Close() error {
	return errors.Join(b.sim.Close(), b.terms.Close())
}
