// Package store persists the mapping from surface forms to concept codes and
// semantic types.
//
// A Store holds, per term, every (code, semantic types, preferred) entry
// inserted for it: multiple concepts may share a surface form, so the store
// is multi-valued. Two interchangeable on-disk backends are provided,
// selected by Backend.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/gofhir/termindex/pkg/fault"
)

// Backend selects the key-value engine backing a Store.
type Backend string

// Supported backends.
const (
	// BackendLevelDB stores entries in a LevelDB directory.
	BackendLevelDB Backend = "leveldb"
	// BackendBolt stores entries in a single bbolt file.
	BackendBolt Backend = "bolt"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = BackendBolt

// ParseBackend validates a backend selector string.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendLevelDB:
		return BackendLevelDB, nil
	case BackendBolt:
		return BackendBolt, nil
	default:
		return "", fault.Configuration("store.backend", "unknown database backend %q (supported: %s, %s)", s, BackendLevelDB, BackendBolt)
	}
}

// Entry is one concept mapping recorded for a term.
type Entry struct {
	// Code is the concept code the term belongs to.
	Code string `json:"code"`

	// SemanticTypes are the semantic-type labels of the concept.
	SemanticTypes []string `json:"semanticTypes"`

	// Preferred is true when the term is the concept's preferred name.
	Preferred bool `json:"preferred"`
}

// Store is a multi-valued term-to-concept mapping.
//
// Writes are sequential and single-writer; Close flushes and releases the
// underlying files and must be called on every exit path.
type Store interface {
	// Insert appends e to the entries recorded for term. Inserting the
	// same term again is allowed and keeps all entries.
	Insert(term string, e Entry) error

	// Get returns every entry recorded for term, in insertion order.
	// A term never inserted yields an empty slice and no error.
	Get(term string) ([]Entry, error)

	// Keys returns every distinct term in the store.
	Keys() ([]string, error)

	// Close flushes and closes the store.
	Close() error
}

// Open opens (creating if missing) a store of the given backend rooted at
// dir. The directory is owned by the store; each run rebuilds it from
// scratch.
func Open(backend Backend, dir string) (Store, error) {
	switch backend {
	case BackendLevelDB:
		return openLevelDB(dir)
	case BackendBolt:
		return openBolt(dir)
	default:
		return nil, fault.Configuration("store.open", "unknown database backend %q", backend)
	}
}

func encodeEntries(entries []Entry) ([]byte, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode entries: %w", err)
	}
	return data, nil
}

func decodeEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	return entries, nil
}
