package docstore

import (
	"context"
	"sync"
)

// Memory keeps the document in process memory. Non-durable: contents live for
// the lifetime of one process. Rank it last so it only serves when every
// durable backend is unreachable
type Memory struct {
	mu   sync.RWMutex
	data []byte
	set  bool
}

// NewMemory creates an empty memory backend
func NewMemory() *Memory { return &Memory{} }

// Name implements Backend
func (m *Memory) Name() string { return "memory" }

// Load implements Backend
func (m *Memory) Load(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return nil, ErrNotExist
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Save implements Backend
func (m *Memory) Save(_ context.Context, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.mu.Lock()
	m.data = cp
	m.set = true
	m.mu.Unlock()
	return nil
}
