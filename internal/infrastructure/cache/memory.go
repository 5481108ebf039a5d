package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	domainRepo "github.com/sangkips/invoice-console/internal/domain/repository"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is the single-instance SessionStore. Values are stored as JSON
// so callers never share memory with the store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

var _ domainRepo.SessionStore = (*MemoryStore)(nil)

func (s *MemoryStore) GetObject(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok && entry.expired(s.now()) {
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) SetObject(_ context.Context, key string, obj any, exp time.Duration) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	entry := memoryEntry{data: data}
	if exp > 0 {
		entry.expiresAt = s.now().Add(exp)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// MemoryLocker is the single-instance Locker.
type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]uint64
	seq   uint64
	until map[string]time.Time
	now   func() time.Time
}

// NewMemoryLocker creates a locker with no held locks.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		held:  make(map[string]uint64),
		until: make(map[string]time.Time),
		now:   time.Now,
	}
}

var _ domainRepo.Locker = (*MemoryLocker)(nil)

func (l *MemoryLocker) Obtain(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok && l.now().Before(l.until[key]) {
		return nil, domainRepo.ErrLockNotObtained
	}
	l.seq++
	token := l.seq
	l.held[key] = token
	l.until[key] = l.now().Add(ttl)

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		// a lock that expired and was re-obtained belongs to someone else
		if l.held[key] == token {
			delete(l.held, key)
			delete(l.until, key)
		}
		return nil
	}, nil
}
