// Package persistence holds store decorators shared by every backend.
package persistence

import (
	"context"

	"museum-backend/application/ports"
	"museum-backend/domain/core/entities"
)

// OperationRecorder counts store calls by operation and outcome
type OperationRecorder interface {
	RecordStoreOperation(operation string, err error)
}

// Store operation names
const (
	OpFindSource     = "find_source"
	OpCreateModified = "create_modified"
	OpAddModifiedID  = "add_modified_object_id"
)

// InstrumentedArtifactRepository records every call made to the wrapped repository
type InstrumentedArtifactRepository struct {
	next     ports.ArtifactRepository
	recorder OperationRecorder
}

// NewInstrumentedArtifactRepository wraps next. A nil recorder returns next unchanged.
func NewInstrumentedArtifactRepository(next ports.ArtifactRepository, recorder OperationRecorder) ports.ArtifactRepository {
	if recorder == nil {
		return next
	}
	return &InstrumentedArtifactRepository{next: next, recorder: recorder}
}

func (r *InstrumentedArtifactRepository) FindSourceByID(ctx context.Context, id string) (*entities.SourceArtifact, error) {
	source, err := r.next.FindSourceByID(ctx, id)
	r.recorder.RecordStoreOperation(OpFindSource, err)
	return source, err
}

func (r *InstrumentedArtifactRepository) CreateModified(ctx context.Context, artifact *entities.ModifiedArtifact) (string, error) {
	id, err := r.next.CreateModified(ctx, artifact)
	r.recorder.RecordStoreOperation(OpCreateModified, err)
	return id, err
}

// InstrumentedUserRepository records every call made to the wrapped repository
type InstrumentedUserRepository struct {
	next     ports.UserRepository
	recorder OperationRecorder
}

// NewInstrumentedUserRepository wraps next. A nil recorder returns next unchanged.
func NewInstrumentedUserRepository(next ports.UserRepository, recorder OperationRecorder) ports.UserRepository {
	if recorder == nil {
		return next
	}
	return &InstrumentedUserRepository{next: next, recorder: recorder}
}

func (r *InstrumentedUserRepository) AddModifiedObjectID(ctx context.Context, userID, artifactID string) error {
	err := r.next.AddModifiedObjectID(ctx, userID, artifactID)
	r.recorder.RecordStoreOperation(OpAddModifiedID, err)
	return err
}
