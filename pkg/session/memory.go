package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	prompt    Prompt
	expiresAt time.Time
}

// MemoryTable is a process-local Table. With a zero ttl prompts never expire.
type MemoryTable struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int64]memoryEntry
}

func NewMemoryTable(ttl time.Duration) *MemoryTable {
	return &MemoryTable{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[int64]memoryEntry),
	}
}

func (t *MemoryTable) Set(ctx context.Context, chatID int64, p Prompt) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := memoryEntry{prompt: p}
	if t.ttl > 0 {
		entry.expiresAt = t.now().Add(t.ttl)
	}
	t.entries[chatID] = entry
	return nil
}

func (t *MemoryTable) Take(ctx context.Context, chatID int64) (Prompt, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[chatID]
	if !ok {
		return Prompt{}, false, nil
	}
	delete(t.entries, chatID)
	if !entry.expiresAt.IsZero() && !t.now().Before(entry.expiresAt) {
		return Prompt{}, false, nil
	}
	return entry.prompt, true, nil
}

func (t *MemoryTable) Clear(ctx context.Context, chatID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, chatID)
	return nil
}

// Len returns the number of stored prompts, expired ones included.
func (t *MemoryTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *MemoryTable) Close() error {
	return nil
}
