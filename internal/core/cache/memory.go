package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Memory is the single-process stand-in for Cache, used when no redis
// address is configured.
type Memory struct {
	mu    sync.Mutex
	items map[string]time.Time
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]time.Time), now: time.Now}
}

func (m *Memory) Put(_ context.Context, state string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, exp := range m.items {
		if now.After(exp) {
			delete(m.items, k)
		}
	}
	if _, ok := m.items[state]; ok {
		return errors.New("state already issued")
	}
	m.items[state] = now.Add(ttl)
	return nil
}

func (m *Memory) Take(_ context.Context, state string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.items[state]
	if !ok {
		return false, nil
	}
	delete(m.items, state)
	return !m.now().After(exp), nil
}
