// Package services orchestrates writes to the entity store and exposes the
// derived views built by the insights package.
//
// Every write goes through Env.save, which stamps audit times, normalizes
// tags and nested ids, validates, stores and finally announces the change.
// Publishing is best effort: a failed publish is logged and never fails the
// write that triggered it.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"casa/internal/amqp"
	"casa/internal/core"
	"casa/internal/log"
	"casa/internal/store"
)

// EventPublisher announces committed writes.
type EventPublisher interface {
	PublishEntityChanged(ctx context.Context, msg *amqp.EntityChangedMessage) error
}

// Env bundles the collaborators shared by every service.
type Env struct {
	Store     *store.Store
	Publisher EventPublisher
	Logger    *log.Logger
	Now       func() time.Time
	NewID     func() string

	// writeMu makes read-modify-write sequences atomic: one logical writer.
	writeMu sync.Mutex
}

// NewEnv wires defaults: wall clock, UUIDv4 ids, default logger. pub may be nil.
func NewEnv(st *store.Store, pub EventPublisher, logger *log.Logger) *Env {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Env{
		Store:     st,
		Publisher: pub,
		Logger:    logger,
		Now:       func() time.Time { return time.Now().UTC() },
		NewID:     uuid.NewString,
	}
}

func (e *Env) now() time.Time { return e.Now().UTC() }

// save finishes a write. Callers hold writeMu.
func (e *Env) save(ctx context.Context, kind core.Kind, v core.Stampable, op string) error {
	meta := v.Meta()
	meta.Tags = core.NormalizeTags(meta.Tags)
	now := e.now()
	if op == amqp.OpCreated || meta.CreatedAtUTC.IsZero() {
		meta.CreatedAtUTC = now
	}
	meta.UpdatedAtUTC = now
	e.normalize(v)

	if err := core.Validate(v); err != nil {
		return err
	}
	if err := e.Store.Put(ctx, kind, v); err != nil {
		return err
	}
	rev := e.Store.Revision()
	log.NewStructuredLogger(e.Logger).LogEntityChange(ctx, op, string(kind), meta.ID, v.ScopeID(), rev)
	e.publish(ctx, kind, meta.ID, v.ScopeID(), op, rev)
	return nil
}

func (e *Env) publish(ctx context.Context, kind core.Kind, id, propertyID, op string, rev uint64) {
	if e.Publisher == nil {
		return
	}
	msg := amqp.NewEntityChangedMessage(string(kind), id, propertyID, op, rev)
	if err := e.Publisher.PublishEntityChanged(ctx, msg); err != nil {
		e.Logger.ErrorContext(ctx, "Failed to publish entity changed message",
			log.NewFields().WithEntity(string(kind), id, propertyID).WithOperation(log.OpPublish).WithError(err).ToSlice()...)
	}
}

// normalize fills nested ids and restores derived invariants that clients
// may have broken with a raw document write.
func (e *Env) normalize(v core.Stampable) {
	meta := v.Meta()
	for i := range meta.Notes {
		if meta.Notes[i].ID == "" {
			meta.Notes[i].ID = e.NewID()
		}
		if !meta.Notes[i].CreatedAtUTC.Valid() {
			meta.Notes[i].CreatedAtUTC = core.DateOf(e.now())
		}
	}

	switch x := v.(type) {
	case *core.Project:
		e.fillTaskIDs(x.Tasks)
		for i := range x.Expenses {
			if x.Expenses[i].ID == "" {
				x.Expenses[i].ID = e.NewID()
			}
		}
		if len(x.Expenses) > 0 {
			x.RecalculateActualCost()
		}
	case *core.InsurancePolicy:
		for i := range x.Claims {
			c := &x.Claims[i]
			if c.ID == "" {
				c.ID = e.NewID()
			}
			if c.Status == "" {
				c.Status = core.ClaimDraft
			}
			for j := range c.ConversationLog {
				a := &c.ConversationLog[j]
				if a.ID == "" {
					a.ID = e.NewID()
				}
				if a.Timestamp.IsZero() {
					a.Timestamp = e.now()
				}
			}
			c.SortLog()
		}
	case *core.UtilityAccount:
		for i := range x.Invoices {
			if x.Invoices[i].ID == "" {
				x.Invoices[i].ID = e.NewID()
			}
		}
		x.SortInvoices()
	case *core.MaintenanceTask:
		if x.Status == "" {
			x.Status = core.TaskPending
		}
		if x.Recurrence == "" {
			x.Recurrence = core.RecurrenceNone
		}
	}
}

func (e *Env) fillTaskIDs(tasks []core.ProjectTask) {
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = e.NewID()
		}
		e.fillTaskIDs(tasks[i].Subtasks)
	}
}

// mutate loads a record of type T, applies fn and saves it as an update.
func mutate[T core.Entity](ctx context.Context, e *Env, id string, fn func(*T) error) (T, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	v, err := store.GetAs[T](e.Store, id)
	if err != nil {
		return v, err
	}
	if err := fn(&v); err != nil {
		return v, err
	}
	s, _ := any(&v).(core.Stampable)
	if err := e.save(ctx, store.KindOf[T](e.Store), s, amqp.OpUpdated); err != nil {
		return v, err
	}
	return v, nil
}
