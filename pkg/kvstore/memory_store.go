package kvstore

import (
	"context"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryItem struct {
	Value     string
	ExpiresAt time.Time
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// MemoryStore is a bounded in-process Store. Limits and cache entries are not
// shared between processes, so it is only meant for development and tests.
type MemoryStore struct {
	mu    sync.Mutex
	items *lru.Cache[string, memoryItem]
	now   func() time.Time
}

func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = 1000
	}
	items, err := lru.New[string, memoryItem](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{items: items, now: time.Now}, nil
}

func (s *MemoryStore) lookup(key string) (memoryItem, bool) {
	item, ok := s.items.Get(key)
	if !ok {
		return memoryItem{}, false
	}
	if item.expired(s.now()) {
		s.items.Remove(key)
		return memoryItem{}, false
	}
	return item, true
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.lookup(key)
	return item.Value, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := memoryItem{Value: value}
	if ttl > 0 {
		item.ExpiresAt = s.now().Add(ttl)
	}
	s.items.Add(key, item)
	return nil
}

func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.lookup(key)
	var n int64
	if ok {
		parsed, err := strconv.ParseInt(item.Value, 10, 64)
		if err != nil {
			return 0, err
		}
		n = parsed
	} else if ttl > 0 {
		item.ExpiresAt = s.now().Add(ttl)
	}
	n++
	item.Value = strconv.FormatInt(n, 10)
	s.items.Add(key, item)
	return n, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items.Purge()
	return nil
}
