// Package memory provides in-process implementations of the engine's ports,
// suitable for tests, examples and single-instance deployments.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/credence/pkg/domain"
)

// Store is a thread-safe in-memory StateStore.
type Store struct {
	mu   sync.RWMutex
	data map[string]*domain.State
}

// NewStore creates an empty in-memory session store.
func NewStore() *Store {
	return &Store{data: make(map[string]*domain.State)}
}

// Save persists a copy of the state under the session ID.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.State) error {
	copied := domain.NewState(state.Network, state.Priors)
	copied.Step = state.Step

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves the state for a session ID.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	s.mu.RLock()
	state, ok := s.data[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	copied := domain.NewState(state.Network, state.Priors)
	copied.Step = state.Step
	return copied, nil
}

// Delete removes a session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns every stored session ID.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
