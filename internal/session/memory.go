package session

import (
	"context"
	"sync"
	"time"
)

// Memory is the in-process Store used when no DATABASE_URL is
// configured. Records live for the process lifetime.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

// memoryEntry carries its own lock so turns for one session serialize
// without blocking unrelated sessions.
type memoryEntry struct {
	mu  sync.Mutex
	rec *Record
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]*memoryEntry)}
}

func (m *Memory) entry(sessionID string) *memoryEntry {
	m.mu.RLock()
	e, ok := m.entries[sessionID]
	m.mu.RUnlock()
	if ok {
		return e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[sessionID]; ok {
		return e
	}
	e = &memoryEntry{rec: NewRecord(sessionID, time.Now().UTC())}
	m.entries[sessionID] = e
	return e
}

func (m *Memory) Mutate(_ context.Context, sessionID string, fn func(*Record)) (*Record, error) {
	e := m.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.rec)
	e.rec.UpdatedAt = time.Now().UTC()
	return e.rec.Clone(), nil
}

func (m *Memory) Get(_ context.Context, sessionID string) (*Record, error) {
	m.mu.RLock()
	e, ok := m.entries[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.Clone(), nil
}

func (m *Memory) Close() {}
