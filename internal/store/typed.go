package store

import (
	"context"
	"fmt"

	"casa/internal/core"
)

func typedCollection[T core.Entity](s *Store) *collection[T] {
	for _, e := range s.byKind {
		if c, ok := e.(*collection[T]); ok {
			return c
		}
	}
	panic(fmt.Sprintf("store: no collection for %T", *new(T)))
}

// GetAs returns a mutable copy of a record of type T.
func GetAs[T core.Entity](s *Store, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := typedCollection[T](s)
	v, ok := c.get(id)
	if !ok {
		return v, fmt.Errorf("%w: %s/%s", ErrNotFound, c.kind, id)
	}
	return v, nil
}

// ListAs returns the records of type T in insertion order. The result is
// read-only; use GetAs before mutating a record.
func ListAs[T core.Entity](s *Store, scope string) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return typedCollection[T](s).list(scope)
}

// PutAs inserts or replaces a record of type T.
func PutAs[T core.Entity](ctx context.Context, s *Store, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLocked(ctx, typedCollection[T](s).kind, v)
}

// KindOf returns the collection kind that stores T.
func KindOf[T core.Entity](s *Store) core.Kind {
	return typedCollection[T](s).kind
}
