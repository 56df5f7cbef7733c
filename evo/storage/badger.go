package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/baldhumanity/neuroevo/evo"
)

// Key layout. Generation numbers are zero padded so that a prefix scan
// returns them in order.
const (
	prefixGeneration = "gen/"
	prefixChampion   = "champion/"
)

func generationKey(runID string, generation int) []byte {
	return []byte(fmt.Sprintf("%s%s/%012d", prefixGeneration, runID, generation))
}

func championKey(runID string) []byte {
	return []byte(prefixChampion + runID)
}

// BadgerStore keeps run history in an embedded BadgerDB directory.
type BadgerStore struct {
	path     string
	inMemory bool

	mu sync.RWMutex
	db *badger.DB
}

// NewBadgerStore returns a store that opens the database at path on Init.
// An empty path keeps the database in memory.
func NewBadgerStore(path string) *BadgerStore {
	return &BadgerStore{path: path, inMemory: path == ""}
}

func (s *BadgerStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	opts := badger.DefaultOptions(s.path).WithInMemory(s.inMemory)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *BadgerStore) SaveSummary(_ context.Context, summary evo.Summary) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeSummary(summary)
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set(generationKey(summary.RunID, summary.Generation), payload)
	})
}

func (s *BadgerStore) ListSummaries(_ context.Context, runID string) ([]evo.Summary, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var out []evo.Summary
	prefix := []byte(prefixGeneration + runID + "/")
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				summary, err := DecodeSummary(val)
				if err != nil {
					return fmt.Errorf("decode summary of run %s: %w", runID, err)
				}
				out = append(out, summary)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

func (s *BadgerStore) ListRuns(_ context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var runs []string
	prefix := []byte(prefixGeneration)
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rest := strings.TrimPrefix(string(it.Item().Key()), prefixGeneration)
			id := rest[:strings.LastIndexByte(rest, '/')]
			if len(runs) == 0 || runs[len(runs)-1] != id {
				runs = append(runs, id)
			}
		}
		return nil
	})
	return runs, err
}

func (s *BadgerStore) SaveChampion(_ context.Context, champion Champion) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeChampion(champion)
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set(championKey(champion.RunID), payload)
	})
}

func (s *BadgerStore) GetChampion(_ context.Context, runID string) (Champion, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Champion{}, false, err
	}

	var champion Champion
	found := false
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(championKey(runID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			champion, err = DecodeChampion(val)
			if err != nil {
				return fmt.Errorf("decode champion of run %s: %w", runID, err)
			}
			found = true
			return nil
		})
	})
	return champion, found, err
}

func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *BadgerStore) getDB() (*badger.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}
