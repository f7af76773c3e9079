// Package storage persists entities to SQLite as JSON documents.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"casa/internal/core"
	"casa/internal/store"

	_ "modernc.org/sqlite"
)

const (
	loadAllSQL = `SELECT kind, id, property_id, body, updated_at FROM entities ORDER BY seq`
	saveSQL    = `INSERT INTO entities (kind, id, property_id, body, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (kind, id) DO UPDATE SET
    property_id = excluded.property_id,
    body        = excluded.body,
    updated_at  = excluded.updated_at`
	deleteSQL = `DELETE FROM entities WHERE kind = ? AND id = ?`
)

// SQLiteRepository implements store.Persister.
type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Persister = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if !isMemoryPath(dbPath) {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection: a single logical writer, and in-memory databases are
	// per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func isMemoryPath(p string) bool {
	return p == ":memory:" || strings.HasPrefix(p, "file::memory:")
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadAll returns every row in insertion order.
func (r *SQLiteRepository) LoadAll(ctx context.Context) ([]store.Row, error) {
	rows, err := r.db.QueryContext(ctx, loadAllSQL)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var out []store.Row
	for rows.Next() {
		var (
			row       store.Row
			kind      string
			body      string
			updatedAt string
		)
		if err := rows.Scan(&kind, &row.ID, &row.PropertyID, &body, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		row.Kind = core.Kind(kind)
		row.Body = []byte(body)
		row.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}
	return out, nil
}

// Save inserts or replaces the row for (kind, id).
func (r *SQLiteRepository) Save(ctx context.Context, row store.Row) error {
	_, err := r.db.ExecContext(ctx, saveSQL,
		string(row.Kind), row.ID, row.PropertyID, string(row.Body), row.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save %s/%s: %w", row.Kind, row.ID, err)
	}
	slog.DebugContext(ctx, "Entity saved to SQLite", "kind", row.Kind, "id", row.ID, "property_id", row.PropertyID)
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, kind core.Kind, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteSQL, string(kind), id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", kind, id, err)
	}
	return nil
}
