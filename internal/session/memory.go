package session

import (
	"context"
	"sync"
	"time"

	"portfolioapi/internal/model"
)

// MemoryStore is an in-process registry guarded by a RWMutex.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.UploadSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*model.UploadSession)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*model.UploadSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s), nil
}

func (m *MemoryStore) Save(_ context.Context, s *model.UploadSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = clone(s)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Cleanup(_ context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.CreatedAt.Before(olderThan) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// callers get their own copy so they can append without holding the lock
func clone(s *model.UploadSession) *model.UploadSession {
	c := *s
	c.Images = append([]model.LogicalImage(nil), s.Images...)
	return &c
}
