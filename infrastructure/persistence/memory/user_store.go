package memory

import (
	"context"
	"sort"
	"sync"

	"museum-backend/application/ports"
	"museum-backend/domain/core/entities"
	pkgerrors "museum-backend/pkg/errors"
)

// UserStore keeps each user's modified-object ids as a set
type UserStore struct {
	mu         sync.Mutex
	users      map[string]map[string]struct{}
	autoCreate bool

	// FailAdd, when set, is returned by every AddModifiedObjectID call
	FailAdd error
}

// UserStoreOption configures a UserStore
type UserStoreOption func(*UserStore)

// WithAutoCreate makes unknown users spring into existence on first add
func WithAutoCreate() UserStoreOption {
	return func(s *UserStore) { s.autoCreate = true }
}

// NewUserStore creates a store containing the given user ids
func NewUserStore(userIDs []string, opts ...UserStoreOption) *UserStore {
	s := &UserStore{users: make(map[string]map[string]struct{}, len(userIDs))}
	for _, id := range userIDs {
		s.users[id] = make(map[string]struct{})
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.UserRepository = (*UserStore)(nil)

func (s *UserStore) AddModifiedObjectID(_ context.Context, userID, artifactID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAdd != nil {
		return s.FailAdd
	}
	set, ok := s.users[userID]
	if !ok {
		if !s.autoCreate {
			return pkgerrors.NewUserNotFoundError(userID)
		}
		set = make(map[string]struct{})
		s.users[userID] = set
	}
	set[artifactID] = struct{}{}
	return nil
}

// User returns a snapshot of the user with ids sorted
func (s *UserStore) User(userID string) (*entities.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.users[userID]
	if !ok {
		return nil, false
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return &entities.User{ID: userID, ModifiedObjectIDs: ids}, true
}
