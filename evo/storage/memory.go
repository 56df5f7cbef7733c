package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/baldhumanity/neuroevo/evo"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	summaries   map[string][]evo.Summary
	champions   map[string]Champion
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.summaries = make(map[string][]evo.Summary)
	s.champions = make(map[string]Champion)
	return nil
}

// SaveSummary stores s, replacing an earlier summary of the same generation.
func (s *MemoryStore) SaveSummary(_ context.Context, summary evo.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	list := s.summaries[summary.RunID]
	i := sort.Search(len(list), func(i int) bool { return list[i].Generation >= summary.Generation })
	if i < len(list) && list[i].Generation == summary.Generation {
		list[i] = summary
	} else {
		list = append(list, evo.Summary{})
		copy(list[i+1:], list[i:])
		list[i] = summary
	}
	s.summaries[summary.RunID] = list
	return nil
}

func (s *MemoryStore) ListSummaries(_ context.Context, runID string) ([]evo.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]evo.Summary(nil), s.summaries[runID]...), nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]string, 0, len(s.summaries))
	for id := range s.summaries {
		runs = append(runs, id)
	}
	sort.Strings(runs)
	return runs, nil
}

func (s *MemoryStore) SaveChampion(_ context.Context, champion Champion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	champion.VersionedRecord = CurrentVersion()
	s.champions[champion.RunID] = champion
	return nil
}

func (s *MemoryStore) GetChampion(_ context.Context, runID string) (Champion, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	champion, ok := s.champions[runID]
	return champion, ok, nil
}
