package services

import (
	"context"

	"go.uber.org/zap"

	"museum-backend/application/ports"
	"museum-backend/pkg/errors"
	"museum-backend/pkg/observability"
)

// UserLinker records a new artifact in the user's set of modified objects
type UserLinker struct {
	users  ports.UserRepository
	tracer *observability.Tracer
	logger *zap.Logger
}

// NewUserLinker creates a new user linker
func NewUserLinker(users ports.UserRepository, tracer *observability.Tracer, logger *zap.Logger) *UserLinker {
	return &UserLinker{users: users, tracer: tracer, logger: logger}
}

// Link adds artifactID to the user's set. Linking the same id twice leaves one occurrence.
func (l *UserLinker) Link(ctx context.Context, userID, artifactID string) error {
	return l.tracer.TraceFunction(ctx, "linker.add_modified_object", func(ctx context.Context) error {
		err := l.users.AddModifiedObjectID(ctx, userID, artifactID)
		if err == nil {
			return nil
		}
		if errors.IsUserNotFound(err) {
			return err
		}
		return errors.NewPersistenceError("link modified object to user", err)
	})
}
