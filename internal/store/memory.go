package store

import (
	"context"
	"sync"
	"time"
)

// Memory is a thread-safe in-memory [Store]. It satisfies [Incrementer] and
// is the default backend for tests and for hosts that do not care about
// durability across restarts.
//
// The zero value is not usable; call [NewMemory].
type Memory struct {
	mu    sync.RWMutex
	ints  map[string]int64
	bools map[string]bool
	times map[string]time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		ints:  make(map[string]int64),
		bools: make(map[string]bool),
		times: make(map[string]time.Time),
	}
}

func (m *Memory) GetInt(_ context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ints[key], nil
}

func (m *Memory) SetInt(_ context.Context, key string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ints[key] = value
	return nil
}

func (m *Memory) IncrInt(_ context.Context, key string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ints[key] += delta
	return m.ints[key], nil
}

func (m *Memory) GetBool(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bools[key], nil
}

func (m *Memory) SetBool(_ context.Context, key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bools[key] = value
	return nil
}

func (m *Memory) GetTime(_ context.Context, key string) (time.Time, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.times[key]
	return value, ok, nil
}

func (m *Memory) SetTime(_ context.Context, key string, value time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.times[key] = value
	return nil
}

// Reset clears all stored values. Intended for tests that simulate a fresh
// installation.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ints = make(map[string]int64)
	m.bools = make(map[string]bool)
	m.times = make(map[string]time.Time)
}
