package cache

import (
	"context"
	"sync"
)

// Cache stores computed breakdown payloads keyed by calculation inputs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

// Memory is a process-local cache.
type Memory struct {
	entries sync.Map
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.entries.Load(key)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.entries.Store(key, value)
	return nil
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte) error { return nil }
