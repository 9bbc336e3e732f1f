package cache

import (
	"context"
	"sync"
	"time"
)

// sweepInterval은 Set 시 만료 항목을 정리하는 최소 간격입니다
const sweepInterval = time.Minute

type memItem struct {
	value   []byte
	expires time.Time // 0이면 만료 없음
}

// MemoryStore는 프로세스 메모리 기반 Store입니다
type MemoryStore struct {
	mu        sync.RWMutex
	items     map[string]memItem
	now       func() time.Time
	nextSweep time.Time
}

// NewMemoryStore는 빈 메모리 저장소를 생성합니다
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memItem),
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !item.expires.IsZero() && !s.now().Before(item.expires) {
		s.mu.Lock()
		// 다른 고루틴이 갱신했을 수 있으므로 다시 확인
		if cur, ok := s.items[key]; ok && cur.expires.Equal(item.expires) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return clone(item.value), true, nil
}

// Set은 값을 저장합니다. ttl이 0 이하이면 만료되지 않습니다.
// sweepInterval마다 한 번씩 만료된 항목을 함께 정리합니다.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	item := memItem{value: clone(value)}
	if ttl > 0 {
		item.expires = now.Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !now.Before(s.nextSweep) {
		s.sweep(now)
		s.nextSweep = now.Add(sweepInterval)
	}
	s.items[key] = item
	return nil
}

// sweep은 만료된 항목을 제거합니다. 호출자가 쓰기 잠금을 잡고 있어야 합니다.
func (s *MemoryStore) sweep(now time.Time) {
	for key, item := range s.items {
		if !item.expires.IsZero() && !now.Before(item.expires) {
			delete(s.items, key)
		}
	}
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Len은 만료 여부와 관계없이 저장된 항목 수를 반환합니다
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
