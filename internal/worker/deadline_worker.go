// Package worker turns entity change events into exported deadline digests.
package worker

import (
	"context"
	"fmt"
	"time"

	"casa/internal/amqp"
	"casa/internal/core"
	"casa/internal/insights"
	"casa/internal/log"
	"casa/internal/sheets"
	"casa/internal/store"
)

// Source returns the store to read from. The SQLite backed source opens a
// fresh store on every call so the worker sees writes made by the API
// process.
type Source func(ctx context.Context) (*store.Store, error)

// StaticSource always returns st.
func StaticSource(st *store.Store) Source {
	return func(context.Context) (*store.Store, error) { return st, nil }
}

// DeadlineWorker recomputes finance digests and exports them.
type DeadlineWorker struct {
	source   Source
	exporter sheets.DeadlineExporter
	logger   *log.Logger
	now      func() time.Time
}

func NewDeadlineWorker(source Source, exporter sheets.DeadlineExporter, logger *log.Logger) *DeadlineWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &DeadlineWorker{
		source:   source,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentWorker),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// HandleEntityChanged exports the digest of the changed property and the
// global digest. Changes to unscoped records only refresh the global digest.
func (w *DeadlineWorker) HandleEntityChanged(ctx context.Context, msg *amqp.EntityChangedMessage) error {
	w.logger.InfoContext(ctx, "Processing entity change",
		log.NewFields().WithEntity(msg.Kind, msg.ID, msg.PropertyID).WithOperation(msg.Op).WithRevision(msg.Revision).ToSlice()...)

	if !affectsFinance(core.Kind(msg.Kind)) {
		w.logger.DebugContext(ctx, "Change does not affect deadlines", log.FieldKind, msg.Kind)
		return nil
	}

	st, err := w.source(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	scopes := []string{""}
	if msg.PropertyID != "" {
		scopes = append(scopes, msg.PropertyID)
	}
	for _, scope := range scopes {
		if err := w.export(ctx, st, scope, msg.Revision); err != nil {
			return err
		}
	}
	return nil
}

// StartupExport refreshes the global digest and every property's digest, to
// recover from events missed while the worker was down.
func (w *DeadlineWorker) StartupExport(ctx context.Context) error {
	st, err := w.source(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	exported, failed := 0, 0
	scopes := []string{""}
	for _, p := range store.ListAs[core.Property](st, "") {
		scopes = append(scopes, p.ID)
	}
	for _, scope := range scopes {
		if err := w.export(ctx, st, scope, st.Revision()); err != nil {
			w.logger.ErrorContext(ctx, "Startup export failed", log.FieldPropertyID, scope, log.FieldError, err.Error())
			failed++
			continue
		}
		exported++
	}

	w.logger.InfoContext(ctx, "Startup export completed", "exported", exported, "errors", failed)
	return nil
}

func (w *DeadlineWorker) export(ctx context.Context, st *store.Store, scope string, rev uint64) error {
	snap := st.Snapshot(scope)
	d := sheets.Digest{
		PropertyID:  scope,
		GeneratedAt: w.now(),
		Revision:    rev,
		Finance:     insights.Finance(snap.Policies, snap.Utilities, w.now()),
	}
	ref, err := w.exporter.ExportDeadlines(ctx, d)
	if err != nil {
		return fmt.Errorf("export deadlines for %q: %w", scope, err)
	}
	w.logger.InfoContext(ctx, "Deadline digest exported",
		log.FieldPropertyID, scope,
		"ref", ref,
		log.FieldCount, len(d.Finance.UpcomingDeadlines))
	return nil
}

func affectsFinance(k core.Kind) bool {
	switch k {
	case core.KindInsurancePolicy, core.KindUtilityAccount, core.KindProperty:
		return true
	}
	return false
}
