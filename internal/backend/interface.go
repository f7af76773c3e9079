package backend

import (
	"context"

	"casa/internal/amqp"
	"casa/internal/sheets"
	"casa/internal/store"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult is the wired data layer of the API process.
type BackendResult struct {
	Store *store.Store
	// AMQP is nil when change events are disabled or the broker was
	// unreachable at startup.
	AMQP    *amqp.Client
	Cleanup CleanupFunc
}

// SnapshotSource yields a store holding the current committed data.
type SnapshotSource func(ctx context.Context) (*store.Store, error)

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend opens the entity store and the optional event publisher.
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	// CreateSource opens a read-only view of the data for the worker process.
	CreateSource(ctx context.Context, config Config) (SnapshotSource, CleanupFunc, error)
	// CreateExporter builds the deadline digest exporter.
	CreateExporter(ctx context.Context, config Config) (sheets.DeadlineExporter, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath string
	SeedFile     string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	Export                   ExportType
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
	GoogleOAuthClientFile    string
	GoogleOAuthTokenFile     string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// ExportType selects where deadline digests go.
type ExportType string

const (
	SheetsExport ExportType = "sheets"
	MemoryExport ExportType = "memory"
)

func (et ExportType) IsValid() bool {
	return et == SheetsExport || et == MemoryExport
}
