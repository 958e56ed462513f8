package tracker

import (
	"context"
	"sync"

	"github.com/jonathan/resume-builder/internal/types"
)

// Store persists document state. Load returns *DocumentNotFoundError for unknown ids.
type Store interface {
	Create(ctx context.Context, state *types.DocumentState) error
	Load(ctx context.Context, id string) (*types.DocumentState, error)
	Save(ctx context.Context, state *types.DocumentState) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps document state in process memory
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*types.DocumentState
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*types.DocumentState)}
}

func (s *MemoryStore) Create(_ context.Context, state *types.DocumentState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[state.ID] = state.Clone()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*types.DocumentState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.docs[id]
	if !ok {
		return nil, &DocumentNotFoundError{ID: id}
	}
	return state.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, state *types.DocumentState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[state.ID]; !ok {
		return &DocumentNotFoundError{ID: state.ID}
	}
	s.docs[state.ID] = state.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return &DocumentNotFoundError{ID: id}
	}
	delete(s.docs, id)
	return nil
}

// Len returns the number of stored documents
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
