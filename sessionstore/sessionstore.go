// Package sessionstore persists per-visitor session data keyed by session
// id. The memory store serves tests and development; the postgres store is
// the durable option.
package sessionstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type Store interface {
	// Load returns the session data for id. An unknown id yields an empty,
	// non-nil map.
	Load(ctx context.Context, id string) (map[string]string, error)
	Save(ctx context.Context, id string, data map[string]string) error
	Delete(ctx context.Context, id string) error
}

// NewID mints a new session id.
func NewID() string {
	return uuid.NewString()
}

type Memory struct {
	mu       sync.Mutex
	sessions map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]map[string]string),
	}
}

func (m *Memory) Load(_ context.Context, id string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make(map[string]string, len(m.sessions[id]))
	for k, v := range m.sessions[id] {
		res[k] = v
	}

	return res, nil
}

func (m *Memory) Save(_ context.Context, id string, data map[string]string) error {
	cp := make(map[string]string, len(data))
	for k, v := range data {
		cp[k] = v
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[id] = cp

	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)

	return nil
}
