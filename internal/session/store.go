// Package session maps opaque tokens to logged-in usernames.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type Store interface {
	Create(ctx context.Context, username string) (string, error)
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

func newToken() string {
	return uuid.NewString()
}

type memoryEntry struct {
	username  string
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Expired entries are dropped lazily
// on lookup.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Create(_ context.Context, username string) (string, error) {
	token := newToken()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = memoryEntry{username: username, expiresAt: m.now().Add(m.ttl)}
	return token, nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[token]
	if !ok {
		return "", ErrSessionNotFound
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.sessions, token)
		return "", ErrSessionNotFound
	}
	return entry.username, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
