package tokenstore

import (
	"context"
	"sync"
)

// Memory is an in-memory TokenStore for tests and ephemeral runs.
type Memory struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Get returns the stored token, or "" when none is stored.
func (m *Memory) Get(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return "", nil
	}
	return m.token, nil
}

// Put stores the token, replacing any previous value.
func (m *Memory) Put(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.set = true
	return nil
}

// Delete clears the token.
func (m *Memory) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.set = false
	return nil
}
