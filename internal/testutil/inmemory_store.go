package testutil

import (
	"context"
	"sync"

	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
)

// InMemoryStore is a generic keyed store backing the in-memory repositories.
// Entities are stored as given; callers copy on the way in and out.
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{items: make(map[string]T)}
}

func (s *InMemoryStore[T]) Create(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; ok {
		return ierr.NewErrorf("item %s already exists", id).
			WithHint("Item already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	s.items[id] = item
	s.order = append(s.order, id)
	return nil
}

func (s *InMemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, ierr.NewErrorf("item %s not found", id).
			WithHint("Item not found").
			Mark(ierr.ErrNotFound)
	}
	return item, nil
}

func (s *InMemoryStore[T]) Update(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ierr.NewErrorf("item %s not found", id).
			WithHint("Item not found").
			Mark(ierr.ErrNotFound)
	}
	s.items[id] = item
	return nil
}

// List returns the items accepted by filter in insertion order
func (s *InMemoryStore[T]) List(_ context.Context, filter func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.items))
	for _, id := range s.order {
		item := s.items[id]
		if filter == nil || filter(item) {
			result = append(result, item)
		}
	}
	return result
}

// Mutate runs fn on every item under the write lock and stores what fn returns
// for the items it reports as changed
func (s *InMemoryStore[T]) Mutate(fn func(T) (T, bool)) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed int64
	for _, id := range s.order {
		if updated, ok := fn(s.items[id]); ok {
			s.items[id] = updated
			changed++
		}
	}
	return changed
}

// WithLock runs fn holding the write lock, for check-then-write operations
func (s *InMemoryStore[T]) WithLock(fn func(items map[string]T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.items)
}

// insert adds an item while the caller already holds the lock through WithLock
func (s *InMemoryStore[T]) insert(items map[string]T, id string, item T) {
	items[id] = item
	s.order = append(s.order, id)
}

func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
	s.order = nil
}

func (s *InMemoryStore[T]) snapshot() interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make(map[string]T, len(s.items))
	for k, v := range s.items {
		items[k] = v
	}
	return storeSnapshot[T]{items: items, order: append([]string(nil), s.order...)}
}

func (s *InMemoryStore[T]) restore(snap interface{}) {
	state := snap.(storeSnapshot[T])
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = state.items
	s.order = state.order
}

type storeSnapshot[T any] struct {
	items map[string]T
	order []string
}

// snapshotter is implemented by every store the mock transaction can roll back
type snapshotter interface {
	snapshot() interface{}
	restore(snap interface{})
}
