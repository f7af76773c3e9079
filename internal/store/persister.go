package store

import (
	"context"
	"time"

	"casa/internal/core"
)

// Row is the persisted form of one entity.
type Row struct {
	Kind       core.Kind
	ID         string
	PropertyID string
	Body       []byte
	UpdatedAt  time.Time
}

// Persister mirrors store writes to durable storage.
type Persister interface {
	LoadAll(ctx context.Context) ([]Row, error)
	Save(ctx context.Context, row Row) error
	Delete(ctx context.Context, kind core.Kind, id string) error
	Close() error
}
