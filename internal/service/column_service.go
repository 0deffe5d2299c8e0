package service

import (
	"sync"

	"excelsaver/internal/columns"
	"excelsaver/internal/domain"
)

// ColumnService keeps each user's column configuration for the lifetime
// of the process. Column state is session state: nothing is persisted,
// a fresh session starts from the defaults.
type ColumnService interface {
	Get(ownerID string) []columns.Descriptor
	Replace(ownerID string, cols []columns.Descriptor) ([]columns.Descriptor, error)
	Move(ownerID, key string, dir columns.Direction) ([]columns.Descriptor, error)
	SetVisibility(ownerID, key string, visible bool) ([]columns.Descriptor, error)
}

type columnService struct {
	mu       sync.RWMutex
	sessions map[string][]columns.Descriptor
}

// NewColumnService creates an in-memory ColumnService.
func NewColumnService() ColumnService {
	return &columnService{sessions: make(map[string][]columns.Descriptor)}
}

func (s *columnService) Get(ownerID string) []columns.Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cols, ok := s.sessions[ownerID]
	if !ok {
		return columns.Default()
	}
	return append([]columns.Descriptor(nil), cols...)
}

func (s *columnService) Replace(ownerID string, cols []columns.Descriptor) ([]columns.Descriptor, error) {
	normalized, err := columns.Normalize(cols)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[ownerID] = normalized
	return append([]columns.Descriptor(nil), normalized...), nil
}

func (s *columnService) Move(ownerID, key string, dir columns.Direction) ([]columns.Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cols := s.current(ownerID)
	idx := columns.IndexOf(cols, key)
	if idx < 0 {
		return nil, domain.ErrUnknownColumn
	}
	moved := columns.Move(cols, idx, dir)
	s.sessions[ownerID] = moved
	return append([]columns.Descriptor(nil), moved...), nil
}

func (s *columnService) SetVisibility(ownerID, key string, visible bool) ([]columns.Descriptor, error) {
	if _, err := columns.KindFor(key); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := columns.SetVisible(s.current(ownerID), key, visible)
	s.sessions[ownerID] = updated
	return append([]columns.Descriptor(nil), updated...), nil
}

// current returns the session's list, seeding from defaults. Callers
// hold the write lock.
func (s *columnService) current(ownerID string) []columns.Descriptor {
	cols, ok := s.sessions[ownerID]
	if !ok {
		cols = columns.Default()
	}
	return cols
}
