package backend

import (
	"context"
	"errors"
	"fmt"

	"casa/internal/amqp"
	"casa/internal/core"
	"casa/internal/log"
	"casa/internal/sheets"
	gsheet "casa/internal/sheets/google"
	"casa/internal/sheets/memory"
	"casa/internal/storage"
	"casa/internal/store"
)

var errReadOnly = errors.New("snapshot source is read-only")

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentStore)}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		st  *store.Store
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		st, err = f.openSQLiteStore(ctx, config)
	case MemoryBackend:
		st = store.New()
		f.logger.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := f.seed(ctx, st, config.SeedFile); err != nil {
		st.Close()
		return nil, err
	}

	// AMQP is optional; a broker that is down at startup only disables events.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	return &BackendResult{
		Store: st,
		AMQP:  amqpClient,
		Cleanup: func() error {
			var errs []error
			if amqpClient != nil {
				errs = append(errs, amqpClient.Close())
			}
			errs = append(errs, st.Close())
			return errors.Join(errs...)
		},
	}, nil
}

func (f *DefaultFactory) openSQLiteStore(ctx context.Context, config Config) (*store.Store, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	st := store.New(store.WithPersister(repo))
	if err := st.Load(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("load store from %s: %w", config.SQLiteDBPath, err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath, "records", total(st))
	return st, nil
}

// seed loads the seed file into an empty store. A store that already holds
// data is left alone so restarts do not duplicate records.
func (f *DefaultFactory) seed(ctx context.Context, st *store.Store, path string) error {
	if path == "" {
		return nil
	}
	if n := total(st); n > 0 {
		f.logger.Info("Store already populated, skipping seed", "seed_file", path, log.FieldCount, n)
		return nil
	}
	n, err := st.SeedFile(ctx, path)
	if err != nil {
		return fmt.Errorf("seed store from %s: %w", path, err)
	}
	f.logger.Info("Store seeded", "seed_file", path, log.FieldCount, n)
	return nil
}

// CreateSource implements Factory.CreateSource. With SQLite every call loads
// a fresh store from the database written by the API process; in memory mode
// the seed data is loaded once.
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (SnapshotSource, CleanupFunc, error) {
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		ro := readOnly{repo}
		source := func(ctx context.Context) (*store.Store, error) {
			st := store.New(store.WithPersister(ro))
			if err := st.Load(ctx); err != nil {
				return nil, err
			}
			return st, nil
		}
		return source, repo.Close, nil

	case MemoryBackend:
		st := store.New()
		if err := f.seed(ctx, st, config.SeedFile); err != nil {
			return nil, nil, err
		}
		f.logger.Warn("Worker is reading a memory store; it only sees seed data")
		source := func(context.Context) (*store.Store, error) { return st, nil }
		return source, st.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported backend type: %s", config.Type)
}

// CreateExporter implements Factory.CreateExporter
func (f *DefaultFactory) CreateExporter(ctx context.Context, config Config) (sheets.DeadlineExporter, error) {
	switch config.Export {
	case SheetsExport:
		cli, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:      config.GoogleSpreadsheetID,
			SheetName:          config.GoogleSheetName,
			ServiceAccountFile: config.GoogleServiceAccountFile,
			ServiceAccountJSON: config.GoogleServiceAccountJSON,
			OAuthClientFile:    config.GoogleOAuthClientFile,
			OAuthTokenFile:     config.GoogleOAuthTokenFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets exporter", "sheet", config.GoogleSheetName)
		return cli, nil
	case MemoryExport, "":
		f.logger.Info("Initialized memory exporter")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unsupported export type: %s", config.Export)
}

func total(st *store.Store) int {
	n := 0
	for _, c := range st.Counts() {
		n += c
	}
	return n
}

// readOnly lets a snapshot store load rows without writing or closing the
// shared repository.
type readOnly struct {
	store.Persister
}

func (readOnly) Save(context.Context, store.Row) error           { return errReadOnly }
func (readOnly) Delete(context.Context, core.Kind, string) error { return errReadOnly }
func (readOnly) Close() error                                    { return nil }
