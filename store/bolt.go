package store

import (
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/gofhir/termindex/pkg/fault"
)

// boltFile is the database file created inside the store directory.
const boltFile = "terms.db"

var termsBucket = []byte("terms")

// boltStore implements Store on a single bbolt file.
type boltStore struct {
	db *bolt.DB
}

func openBolt(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fault.Storage("store.bolt.open", err)
	}

	db, err := bolt.Open(filepath.Join(dir, boltFile), 0o600, nil)
	if err != nil {
		return nil, fault.Storage("store.bolt.open", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(termsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fault.Storage("store.bolt.open", err)
	}

	return &boltStore{db: db}, nil
}

func (s *boltStore) Insert(term string, e Entry) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(termsBucket)

		entries, err := decodeEntries(b.Get([]byte(term)))
		if err != nil {
			return err
		}
		entries = append(entries, e)

		data, err := encodeEntries(entries)
		if err != nil {
			return err
		}
		return b.Put([]byte(term), data)
	})
	if err != nil {
		return fault.Storage("store.bolt.insert", err)
	}
	return nil
}

func (s *boltStore) Get(term string) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		entries, err = decodeEntries(tx.Bucket(termsBucket).Get([]byte(term)))
		return err
	})
	if err != nil {
		return nil, fault.Storage("store.bolt.get", err)
	}
	return entries, nil
}

func (s *boltStore) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(termsBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fault.Storage("store.bolt.keys", err)
	}
	return keys, nil
}

func (s *boltStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fault.Storage("store.bolt.close", err)
	}
	return nil
}
