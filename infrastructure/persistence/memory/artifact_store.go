// Package memory holds process-local stores used for local development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"museum-backend/application/ports"
	"museum-backend/domain/core/entities"
)

// ArtifactStore keeps source and modified artifacts in maps
type ArtifactStore struct {
	mu       sync.RWMutex
	sources  map[string]entities.SourceArtifact
	modified map[string]entities.ModifiedArtifact
	order    []string

	// FailCreate, when set, is returned by every CreateModified call
	FailCreate error
	// FailFind, when set, is returned by every FindSourceByID call
	FailFind error
}

// NewArtifactStore creates a store preloaded with the given source artifacts
func NewArtifactStore(sources ...entities.SourceArtifact) *ArtifactStore {
	s := &ArtifactStore{
		sources:  make(map[string]entities.SourceArtifact, len(sources)),
		modified: make(map[string]entities.ModifiedArtifact),
	}
	s.PutSource(sources...)
	return s
}

var _ ports.ArtifactRepository = (*ArtifactStore)(nil)

// PutSource adds or replaces source artifacts
func (s *ArtifactStore) PutSource(sources ...entities.SourceArtifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range sources {
		s.sources[src.ID] = src
	}
}

func (s *ArtifactStore) FindSourceByID(_ context.Context, id string) (*entities.SourceArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailFind != nil {
		return nil, s.FailFind
	}
	src, ok := s.sources[id]
	if !ok {
		return nil, nil
	}
	return &src, nil
}

func (s *ArtifactStore) CreateModified(_ context.Context, artifact *entities.ModifiedArtifact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCreate != nil {
		return "", s.FailCreate
	}
	stored := *artifact
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	s.modified[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	return stored.ID, nil
}

// Modified returns a copy of the modified artifact with the given id
func (s *ArtifactStore) Modified(id string) (entities.ModifiedArtifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.modified[id]
	return a, ok
}

// ModifiedCount returns how many modified artifacts have been created
func (s *ArtifactStore) ModifiedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
