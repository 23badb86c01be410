package ports

import (
	"context"
	"time"

	"museum-backend/domain/core/entities"
	"museum-backend/domain/events"
)

// ArtifactRepository defines the interface for artifact persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type ArtifactRepository interface {
	// FindSourceByID retrieves a curator-owned source artifact.
	// It returns (nil, nil) when no artifact has that id.
	FindSourceByID(ctx context.Context, id string) (*entities.SourceArtifact, error)

	// CreateModified persists a new modified artifact and returns the id assigned to it
	CreateModified(ctx context.Context, artifact *entities.ModifiedArtifact) (string, error)
}

// UserRepository defines the interface for the part of user persistence onboarding touches
type UserRepository interface {
	// AddModifiedObjectID adds the artifact id to the user's set atomically.
	// Adding an id that is already present is a no-op. Implementations must not read-modify-write the set.
	AddModifiedObjectID(ctx context.Context, userID, artifactID string) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// UserLock serializes work on a single key across processes
type UserLock interface {
	// AcquireLock takes the lock for the given duration. It returns false when someone else holds it.
	AcquireLock(ctx context.Context, resource, owner string, duration time.Duration) (bool, error)

	// ReleaseLock gives the lock back if the owner still holds it
	ReleaseLock(ctx context.Context, resource, owner string) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
