// Package store is the in-memory entity repository.
//
// One collection per entity kind, guarded by a single RWMutex. Every write
// bumps a revision counter that read-side caches key on. When a Persister is
// attached, writes go to it first and are only applied in memory once it
// succeeds.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"casa/internal/core"
)

var (
	ErrNotFound    = errors.New("entity not found")
	ErrUnknownKind = errors.New("unknown entity kind")
	ErrMalformed   = errors.New("malformed document")
	ErrMissingID   = errors.New("entity id is required")
)

type Store struct {
	mu        sync.RWMutex
	revision  uint64
	byKind    map[core.Kind]entries
	persister Persister

	households *collection[core.Household]
	properties *collection[core.Property]
	spaces     *collection[core.Space]
	tasks      *collection[core.MaintenanceTask]
	projects   *collection[core.Project]
	tags       *collection[core.Tag]
	inventory  *collection[core.InventoryItem]
	categories *collection[core.InventoryCategory]
	contacts   *collection[core.Contact]
	documents  *collection[core.Document]
	policies   *collection[core.InsurancePolicy]
	utilities  *collection[core.UtilityAccount]
}

type Option func(*Store)

// WithPersister enables write-through persistence.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func New(opts ...Option) *Store {
	s := &Store{
		households: newCollection[core.Household](core.KindHousehold),
		properties: newCollection[core.Property](core.KindProperty),
		spaces:     newCollection[core.Space](core.KindSpace),
		tasks:      newCollection[core.MaintenanceTask](core.KindMaintenanceTask),
		projects:   newCollection[core.Project](core.KindProject),
		tags:       newCollection[core.Tag](core.KindTag),
		inventory:  newCollection[core.InventoryItem](core.KindInventoryItem),
		categories: newCollection[core.InventoryCategory](core.KindInventoryCategory),
		contacts:   newCollection[core.Contact](core.KindContact),
		documents:  newCollection[core.Document](core.KindDocument),
		policies:   newCollection[core.InsurancePolicy](core.KindInsurancePolicy),
		utilities:  newCollection[core.UtilityAccount](core.KindUtilityAccount),
	}
	s.byKind = map[core.Kind]entries{}
	for _, e := range []entries{
		s.households, s.properties, s.spaces, s.tasks, s.projects, s.tags,
		s.inventory, s.categories, s.contacts, s.documents, s.policies, s.utilities,
	} {
		s.byKind[e.Kind()] = e
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Revision changes on every successful write.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Counts returns the number of records per kind.
func (s *Store) Counts() map[core.Kind]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[core.Kind]int, len(s.byKind))
	for k, e := range s.byKind {
		out[k] = e.Len()
	}
	return out
}

func (s *Store) entriesFor(kind core.Kind) (entries, error) {
	e, ok := s.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return e, nil
}

// Decode parses a document of the given kind without storing it.
func (s *Store) Decode(kind core.Kind, body []byte) (core.Stampable, error) {
	e, err := s.entriesFor(kind)
	if err != nil {
		return nil, err
	}
	return e.decode(body)
}

// Get returns a mutable copy of a record.
func (s *Store) Get(kind core.Kind, id string) (core.Stampable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, err := s.entriesFor(kind)
	if err != nil {
		return nil, err
	}
	v, ok := e.getEntity(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, kind, id)
	}
	return v, nil
}

// List returns the records of a kind, filtered by property when scope is set.
func (s *Store) List(kind core.Kind, scope string) ([]core.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, err := s.entriesFor(kind)
	if err != nil {
		return nil, err
	}
	return e.listEntities(scope), nil
}

// Put inserts or replaces a record.
func (s *Store) Put(ctx context.Context, kind core.Kind, v core.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLocked(ctx, kind, v)
}

func (s *Store) putLocked(ctx context.Context, kind core.Kind, v core.Entity) error {
	e, err := s.entriesFor(kind)
	if err != nil {
		return err
	}
	if v.EntityID() == "" {
		return ErrMissingID
	}
	stored, body, err := e.prepare(v)
	if err != nil {
		return err
	}
	if s.persister != nil {
		row := Row{Kind: kind, ID: v.EntityID(), PropertyID: v.ScopeID(), Body: body, UpdatedAt: time.Now().UTC()}
		if err := s.persister.Save(ctx, row); err != nil {
			return fmt.Errorf("persist %s/%s: %w", kind, v.EntityID(), err)
		}
	}
	e.commit(stored)
	s.revision++
	return nil
}

// Merge applies a JSON merge patch to the current record and returns the
// result without storing it. The id is never changed by a patch.
func (s *Store) Merge(kind core.Kind, id string, patch []byte) (core.Stampable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mergeLocked(kind, id, patch)
}

func (s *Store) mergeLocked(kind core.Kind, id string, patch []byte) (core.Stampable, error) {
	e, err := s.entriesFor(kind)
	if err != nil {
		return nil, err
	}
	cur, ok := e.getEntity(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, kind, id)
	}
	doc, err := json.Marshal(cur)
	if err != nil {
		return nil, fmt.Errorf("encode %s/%s: %w", kind, id, err)
	}
	merged, err := mergePatch(doc, patch)
	if err != nil {
		return nil, err
	}
	out, err := e.decode(merged)
	if err != nil {
		return nil, err
	}
	out.Meta().ID = id
	return out, nil
}

// Upsert merges patch onto the record with the given id and stores the
// result in one step. Callers that validate between merge and write use
// Merge followed by Put.
func (s *Store) Upsert(ctx context.Context, kind core.Kind, id string, patch []byte) (core.Stampable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.mergeLocked(kind, id, patch)
	if err != nil {
		return nil, err
	}
	if err := s.putLocked(ctx, kind, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Remove deletes a record. Nothing else is removed with it.
func (s *Store) Remove(ctx context.Context, kind core.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entriesFor(kind)
	if err != nil {
		return err
	}
	if _, ok := e.getEntity(id); !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, kind, id)
	}
	if s.persister != nil {
		if err := s.persister.Delete(ctx, kind, id); err != nil {
			return fmt.Errorf("delete %s/%s: %w", kind, id, err)
		}
	}
	e.remove(id)
	s.revision++
	return nil
}

// Snapshot returns every collection, scoped to a property when scope is set.
// Stored records are replaced on write, never modified in place, so the
// snapshot is not affected by later writes. It must be treated as read-only.
func (s *Store) Snapshot(scope string) core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Snapshot{
		Households: s.households.list(scope),
		Properties: s.properties.list(scope),
		Spaces:     s.spaces.list(scope),
		Tasks:      s.tasks.list(scope),
		Projects:   s.projects.list(scope),
		Tags:       s.tags.list(scope),
		Inventory:  s.inventory.list(scope),
		Categories: s.categories.list(scope),
		Contacts:   s.contacts.list(scope),
		Documents:  s.documents.list(scope),
		Policies:   s.policies.list(scope),
		Utilities:  s.utilities.list(scope),
	}
}

// Load replaces the in-memory state with the persister's rows.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	rows, err := s.persister.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load rows: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		e, err := s.entriesFor(row.Kind)
		if err != nil {
			slog.WarnContext(ctx, "Skipping row of unknown kind", "kind", row.Kind, "id", row.ID)
			continue
		}
		v, err := e.decode(row.Body)
		if err != nil {
			return fmt.Errorf("decode %s/%s: %w", row.Kind, row.ID, err)
		}
		v.Meta().ID = row.ID
		stored, _, err := e.prepare(v)
		if err != nil {
			return err
		}
		e.commit(stored)
	}
	s.revision++
	slog.InfoContext(ctx, "Store loaded from persister", "rows", len(rows))
	return nil
}

// Close releases the persister.
func (s *Store) Close() error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Close()
}
