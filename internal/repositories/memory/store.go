// Package memory implements the entity stores in process memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/repositories"
)

// Store keeps records in insertion order behind a RWMutex. Records that
// implement Clone are copied on the way in and out, so callers never share
// slices or pointers with stored state.
type Store[T repositories.Record] struct {
	resource string
	mu       sync.RWMutex
	records  []T
	index    map[string]int
}

// NewStore creates an empty store; resource names the kind in errors.
func NewStore[T repositories.Record](resource string) *Store[T] {
	return &Store[T]{
		resource: resource,
		index:    make(map[string]int),
	}
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.records))
	for i, r := range s.records {
		out[i] = clone(r)
	}
	return out, nil
}

func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, models.NotFound(s.resource, id)
	}
	return clone(s.records[i]), nil
}

// Insert appends records. The whole batch is rejected if any id is empty,
// duplicated within the batch or already stored.
func (s *Store[T]) Insert(ctx context.Context, records ...T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(records))
	for _, r := range records {
		id := r.GetID()
		if id == "" {
			return models.Invalid("%s id is required", s.resource)
		}
		if _, exists := s.index[id]; exists || seen[id] {
			return fmt.Errorf("%s %q already exists: %w", s.resource, id, models.ErrValidation)
		}
		seen[id] = true
	}

	for _, r := range records {
		s.index[r.GetID()] = len(s.records)
		s.records = append(s.records, clone(r))
	}
	return nil
}

func (s *Store[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i, ok := s.index[id]
	if !ok {
		return zero, models.NotFound(s.resource, id)
	}

	working := clone(s.records[i])
	if err := fn(&working); err != nil {
		return zero, err
	}
	if working.GetID() != id {
		return zero, models.Invalid("%s id cannot change", s.resource)
	}
	s.records[i] = working
	return clone(working), nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return models.NotFound(s.resource, id)
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].GetID()] = j
	}
	return nil
}

func (s *Store[T]) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *Store[T]) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.index = make(map[string]int)
	return nil
}

type cloner[T any] interface {
	Clone() T
}

func clone[T any](v T) T {
	if c, ok := any(v).(cloner[T]); ok {
		return c.Clone()
	}
	return v
}

// NewStores returns an empty in-memory store for every resource.
func NewStores() repositories.Stores {
	return repositories.Stores{
		Orders:        NewStore[models.Order]("order"),
		Ratings:       NewStore[models.DriverRating]("rating"),
		Notifications: NewStore[models.Notification]("notification"),
		Templates:     NewStore[models.NotificationTemplate]("template"),
		Rewards:       NewStore[models.Reward]("reward"),
		UserRewards:   NewStore[models.UserReward]("user reward"),
		Users:         NewStore[models.User]("user"),
	}
}
