// Package session persists the dashboard's auth token and user profile.
package session

import (
	"context"
	"sync"

	"github.com/okian/sgva/internal/domain/model"
)

// Store owns the Session. Nothing else mutates it.
type Store interface {
	// Get returns the current session. A missing or unreadable backing
	// store yields an empty session, never an error.
	Get(ctx context.Context) model.Session

	// Set replaces the session with token and user.
	Set(ctx context.Context, token string, user model.User) error

	// Clear removes the session. Clearing an empty store succeeds.
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session in process memory only.
type MemoryStore struct {
	mu   sync.RWMutex
	sess model.Session
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context) model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return model.Session{Token: m.sess.Token, User: copyUser(m.sess.User)}
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, token string, user model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = model.Session{Token: token, User: copyUser(user)}
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = model.Session{}
	return nil
}

func copyUser(u model.User) model.User {
	out := make(model.User, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}
