package store

import "github.com/gofhir/termindex/cache"

// CachedStore wraps a Store with an LRU cache on the read path. Query-time
// consumers look up the same high-frequency terms repeatedly; the cache
// keeps those lookups off disk. Inserts write through and invalidate.
type CachedStore struct {
	inner Store
	cache *cache.Cache[string, []Entry]
}

// NewCachedStore wraps inner with a read cache of the given capacity.
func NewCachedStore(inner Store, capacity int) *CachedStore {
	return &CachedStore{
		inner: inner,
		cache: cache.New[string, []Entry](capacity),
	}
}

// Insert implements Store.
func (s *CachedStore) Insert(term string, e Entry) error {
	if err := s.inner.Insert(term, e); err != nil {
		return err
	}
	// Drop rather than patch the cached slice; the next Get re-reads.
	s.cache.Delete(term)
	return nil
}

// Get implements Store.
func (s *CachedStore) Get(term string) ([]Entry, error) {
	if entries, ok := s.cache.Get(term); ok {
		return entries, nil
	}
	entries, err := s.inner.Get(term)
	if err != nil {
		return nil, err
	}
	s.cache.Set(term, entries)
	return entries, nil
}

// Keys implements Store.
func (s *CachedStore) Keys() ([]string, error) {
	return s.inner.Keys()
}

// Close implements Store.
func (s *CachedStore) Close() error {
	return s.inner.Close()
}

var _ Store = (*CachedStore)(nil)
