package store

import (
	"context"
	"strings"
	"sync"
)

// Memory is an in-process Store used by tests and local development. Change
// handlers are dispatched synchronously after the write is visible.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte

	subMu  sync.Mutex
	nextID int
	subs   map[int]memorySub
}

type memorySub struct {
	prefix  string
	handler ChangeHandler
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string][]byte),
		subs:    make(map[int]memorySub),
	}
}

func (m *Memory) Get(_ context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[path]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Set(ctx context.Context, path string, value []byte) error {
	return m.Update(ctx, map[string][]byte{path: value})
}

func (m *Memory) Update(_ context.Context, entries map[string][]byte) error {
	m.mu.Lock()
	for path, value := range entries {
		v := make([]byte, len(value))
		copy(v, value)
		m.entries[path] = v
	}
	m.mu.Unlock()

	for path, value := range entries {
		m.notify(path, value)
	}
	return nil
}

func (m *Memory) List(_ context.Context, prefix string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]byte)
	for path, v := range m.entries {
		if strings.HasPrefix(path, prefix) {
			c := make([]byte, len(v))
			copy(c, v)
			out[path] = c
		}
	}
	return out, nil
}

func (m *Memory) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, path)
	return nil
}

func (m *Memory) Subscribe(prefix string, handler ChangeHandler) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = memorySub{prefix: prefix, handler: handler}
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Memory) Close() {}

func (m *Memory) notify(path string, value []byte) {
	m.subMu.Lock()
	var handlers []ChangeHandler
	for _, s := range m.subs {
		if strings.HasPrefix(path, s.prefix) {
			handlers = append(handlers, s.handler)
		}
	}
	m.subMu.Unlock()

	for _, h := range handlers {
		h(path, value)
	}
}
