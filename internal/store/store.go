// Package store holds the in-memory resources served by the demo API.
package store

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/nemberjs/nember/internal/contracts"
	"github.com/nemberjs/nember/internal/domain"
	"github.com/nemberjs/nember/internal/errors"
)

var (
	_ contracts.Repository[domain.Post]    = (*Store[domain.Post])(nil)
	_ contracts.Repository[domain.Comment] = (*Store[domain.Comment])(nil)
)

// Store is a concurrency safe, insertion ordered collection of T keyed by minted IDs.
// NewStore should be used to create instances of Store.
type Store[T any] struct {
	logger hclog.Logger
	kind   string

	mu    sync.RWMutex
	items map[string]T
	order []string
}

// NewStore creates an empty Store for resources of the given kind, e.g. "post".
func NewStore[T any](logger hclog.Logger, kind string) (*Store[T], error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return nil, fmt.Errorf("resource kind cannot be empty")
	}

	return &Store[T]{
		logger: logger.Named("store").With("kind", kind),
		kind:   kind,
		items:  make(map[string]T),
	}, nil
}

// Create mints a new ID, builds the resource with it and stores the result.
func (s *Store[T]) Create(build func(id string) T) T {
	id := uuid.NewString()
	item := build(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[id] = item
	s.order = append(s.order, id)

	s.logger.Debug("Created resource", "id", id)
	return item
}

// Get returns the resource stored under id.
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s '%s'", errors.ErrResourceNotFound, s.kind, id)
	}
	return item, nil
}

// Update replaces the resource stored under id with the result of fn.
func (s *Store[T]) Update(id string, fn func(T) T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s '%s'", errors.ErrResourceNotFound, s.kind, id)
	}

	item = fn(item)
	s.items[id] = item
	return item, nil
}

// Delete removes the resource stored under id.
func (s *Store[T]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%w: %s '%s'", errors.ErrResourceNotFound, s.kind, id)
	}

	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })

	s.logger.Debug("Deleted resource", "id", id)
	return nil
}

// List returns every resource in insertion order.
func (s *Store[T]) List() []T {
	return s.Filter(nil)
}

// Filter returns the resources matching keep in insertion order. A nil keep matches everything.
func (s *Store[T]) Filter(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]T, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if keep == nil || keep(item) {
			items = append(items, item)
		}
	}
	return items
}

// Len returns the number of stored resources.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}
