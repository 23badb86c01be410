// Package mocks provides testify doubles for the application ports.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"museum-backend/domain/core/entities"
	"museum-backend/domain/events"
)

// MockChatCompleter is a testify double for ports.ChatCompleter
type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockClassifier is a testify double for ports.Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, responses []entities.OnboardingResponse) (entities.ClassificationResult, error) {
	args := m.Called(ctx, responses)
	return args.Get(0).(entities.ClassificationResult), args.Error(1)
}

// MockArtifactRepository is a testify double for ports.ArtifactRepository
type MockArtifactRepository struct {
	mock.Mock
}

func (m *MockArtifactRepository) FindSourceByID(ctx context.Context, id string) (*entities.SourceArtifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SourceArtifact), args.Error(1)
}

func (m *MockArtifactRepository) CreateModified(ctx context.Context, artifact *entities.ModifiedArtifact) (string, error) {
	args := m.Called(ctx, artifact)
	return args.String(0), args.Error(1)
}

// MockUserRepository is a testify double for ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) AddModifiedObjectID(ctx context.Context, userID, artifactID string) error {
	args := m.Called(ctx, userID, artifactID)
	return args.Error(0)
}

// MockEventPublisher is a testify double for ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

// MockUserLock is a testify double for ports.UserLock
type MockUserLock struct {
	mock.Mock
}

func (m *MockUserLock) AcquireLock(ctx context.Context, resource, owner string, duration time.Duration) (bool, error) {
	args := m.Called(ctx, resource, owner, duration)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserLock) ReleaseLock(ctx context.Context, resource, owner string) error {
	args := m.Called(ctx, resource, owner)
	return args.Error(0)
}
