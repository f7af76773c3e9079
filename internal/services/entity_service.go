package services

import (
	"context"
	"fmt"

	"casa/internal/amqp"
	"casa/internal/core"
	"casa/internal/log"
	"casa/internal/store"
)

// EntityService is the kind-generic CRUD surface.
type EntityService struct {
	env *Env
}

func NewEntityService(env *Env) *EntityService {
	return &EntityService{env: env}
}

// Create decodes a new record, assigns a fresh id and stores it. Any id in
// the body is ignored.
func (s *EntityService) Create(ctx context.Context, kind core.Kind, body []byte) (core.Stampable, error) {
	v, err := s.env.Store.Decode(kind, body)
	if err != nil {
		return nil, err
	}
	s.env.writeMu.Lock()
	defer s.env.writeMu.Unlock()

	v.Meta().ID = s.env.NewID()
	if err := s.env.save(ctx, kind, v, amqp.OpCreated); err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	return v, nil
}

// Update merges a partial JSON document onto the record. The id and the
// creation stamp cannot be changed.
func (s *EntityService) Update(ctx context.Context, kind core.Kind, id string, patch []byte) (core.Stampable, error) {
	s.env.writeMu.Lock()
	defer s.env.writeMu.Unlock()

	cur, err := s.env.Store.Get(kind, id)
	if err != nil {
		return nil, err
	}
	v, err := s.env.Store.Merge(kind, id, patch)
	if err != nil {
		return nil, err
	}
	v.Meta().CreatedAtUTC = cur.Meta().CreatedAtUTC
	if err := s.env.save(ctx, kind, v, amqp.OpUpdated); err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", kind, id, err)
	}
	return v, nil
}

// Delete removes one record. References held by other records are left as
// they are.
func (s *EntityService) Delete(ctx context.Context, kind core.Kind, id string) error {
	s.env.writeMu.Lock()
	defer s.env.writeMu.Unlock()

	cur, err := s.env.Store.Get(kind, id)
	if err != nil {
		return err
	}
	if err := s.env.Store.Remove(ctx, kind, id); err != nil {
		return err
	}
	rev := s.env.Store.Revision()
	log.NewStructuredLogger(s.env.Logger).LogEntityChange(ctx, amqp.OpDeleted, string(kind), id, cur.ScopeID(), rev)
	s.env.publish(ctx, kind, id, cur.ScopeID(), amqp.OpDeleted, rev)
	return nil
}

func (s *EntityService) Get(kind core.Kind, id string) (core.Stampable, error) {
	return s.env.Store.Get(kind, id)
}

// List returns the records of a kind, scoped to a property when propertyID is
// set.
func (s *EntityService) List(kind core.Kind, propertyID string) ([]core.Entity, error) {
	return s.env.Store.List(kind, propertyID)
}

// Counts returns the number of records per kind.
func (s *EntityService) Counts() map[core.Kind]int {
	return s.env.Store.Counts()
}

// Households returns the household records with the given ids, or all of
// them when ids is empty.
func (s *EntityService) Households(ids []string) ([]core.Household, error) {
	if len(ids) == 0 {
		return store.ListAs[core.Household](s.env.Store, ""), nil
	}
	out := make([]core.Household, 0, len(ids))
	for _, id := range ids {
		h, err := store.GetAs[core.Household](s.env.Store, id)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
