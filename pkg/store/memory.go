package store

import (
	"context"
	"sync"
)

// MemoryStore keeps profiles in process memory. It is the fallback when the
// configured database cannot be reached.
type MemoryStore struct {
	profiles map[int64][]Record
	mu       sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[int64][]Record),
	}
}

func (s *MemoryStore) UpsertWallet(ctx context.Context, chatID int64, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[chatID] = append(s.profiles[chatID], record)
	return nil
}

func (s *MemoryStore) ListWallets(ctx context.Context, chatID int64) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.profiles[chatID]))
	copy(out, s.profiles[chatID])
	return out, nil
}

func (s *MemoryStore) FindWallet(ctx context.Context, chatID int64, name string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.profiles[chatID] {
		if r.Name == name {
			return r, true, nil
		}
	}
	return Record{}, false, nil
}

func (s *MemoryStore) DeleteWallet(ctx context.Context, chatID int64, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.profiles[chatID]
	for i, r := range records {
		if r.Name == name {
			s.profiles[chatID] = append(records[:i:i], records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}
