package store

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/gofhir/termindex/pkg/fault"
)

// levelDBStore implements Store on a LevelDB directory.
type levelDBStore struct {
	db *leveldb.DB
}

func openLevelDB(dir string) (Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fault.Storage("store.leveldb.open", err)
	}
	return &levelDBStore{db: db}, nil
}

func (s *levelDBStore) Insert(term string, e Entry) error {
	key := []byte(term)

	existing, err := s.db.Get(key, nil)
	if err != nil && err != leveldb.ErrNotFound {
		return fault.Storage("store.leveldb.insert", err)
	}

	entries, err := decodeEntries(existing)
	if err != nil {
		return fault.Storage("store.leveldb.insert", err)
	}
	entries = append(entries, e)

	data, err := encodeEntries(entries)
	if err != nil {
		return fault.Storage("store.leveldb.insert", err)
	}
	if err := s.db.Put(key, data, nil); err != nil {
		return fault.Storage("store.leveldb.insert", err)
	}
	return nil
}

func (s *levelDBStore) Get(term string) ([]Entry, error) {
	data, err := s.db.Get([]byte(term), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fault.Storage("store.leveldb.get", err)
	}
	entries, err := decodeEntries(data)
	if err != nil {
		return nil, fault.Storage("store.leveldb.get", err)
	}
	return entries, nil
}

func (s *levelDBStore) Keys() ([]string, error) {
	var keys []string
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	if err := iter.Error(); err != nil {
		return nil, fault.Storage("store.leveldb.keys", err)
	}
	return keys, nil
}

func (s *levelDBStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fault.Storage("store.leveldb.close", err)
	}
	return nil
}
