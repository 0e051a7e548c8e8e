package database

import (
	"context"
	"sync"
)

// MemoryDatabase keeps slots in process memory. Contents are lost on Close.
type MemoryDatabase struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{values: make(map[string]string)}
}

func (m *MemoryDatabase) CreateDatabase() error {
	return nil
}

func (m *MemoryDatabase) DoesDatabaseExist() bool {
	return true
}

func (m *MemoryDatabase) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	return nil
}

func (m *MemoryDatabase) GetValue(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryDatabase) SetValue(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
