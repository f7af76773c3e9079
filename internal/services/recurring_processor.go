package services

import (
	"context"
	"fmt"
	"time"

	"casa/internal/amqp"
	"casa/internal/core"
	"casa/internal/log"
	"casa/internal/store"
)

// MaintenanceService completes tasks and brings recurring ones back.
type MaintenanceService struct {
	env *Env
}

func NewMaintenanceService(env *Env) *MaintenanceService {
	return &MaintenanceService{env: env}
}

// Complete marks a task done. A zero at means now.
func (s *MaintenanceService) Complete(ctx context.Context, taskID string, at core.Date) (core.MaintenanceTask, error) {
	if !at.Valid() {
		at = core.DateOf(s.env.now())
	}
	t, err := mutate(ctx, s.env, taskID, func(t *core.MaintenanceTask) error {
		t.Complete(at)
		return nil
	})
	if err != nil {
		return t, fmt.Errorf("complete task %s: %w", taskID, err)
	}
	return t, nil
}

// ProcessRecurring reopens every completed recurring task whose next
// occurrence is due at now. It returns how many tasks were reopened. A task
// that cannot be saved is logged and skipped.
func (s *MaintenanceService) ProcessRecurring(ctx context.Context, now time.Time) (int, error) {
	if s.env == nil || s.env.Store == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}
	logger := s.env.Logger.WithComponent(log.ComponentMaintenance)

	s.env.writeMu.Lock()
	defer s.env.writeMu.Unlock()

	tasks := store.ListAs[core.MaintenanceTask](s.env.Store, "")
	checked, reopened := 0, 0
	for _, t := range tasks {
		if t.Status != core.TaskCompleted || !t.Recurring() {
			continue
		}
		checked++
		checker, err := GetDuenessChecker(t.Recurrence)
		if err != nil {
			logger.ErrorContext(ctx, "Skipping task with unknown recurrence", "id", t.ID, "error", err)
			continue
		}
		anchor := t.RecurrenceAnchor()
		if !checker.IsDue(t.LastCompletedUTC.Time, now, anchor) {
			continue
		}

		task, err := store.GetAs[core.MaintenanceTask](s.env.Store, t.ID)
		if err != nil {
			continue
		}
		task.Reopen(checker.NextDue(now, anchor))
		if err := s.env.save(ctx, core.KindMaintenanceTask, &task, amqp.OpUpdated); err != nil {
			logger.ErrorContext(ctx, "Failed to reopen recurring task",
				log.NewFields().WithEntity(string(core.KindMaintenanceTask), t.ID, t.PropertyID).WithError(err).ToSlice()...)
			continue
		}
		reopened++
		logger.InfoContext(ctx, "Recurring task reopened",
			"id", t.ID,
			"title", t.Title,
			"recurrence", t.Recurrence,
			"due", task.DueDateUTC.String())
	}

	logger.InfoContext(ctx, "Recurring task processing complete",
		"reopened", reopened,
		"total_checked", checked,
		"processing_date", now.Format(time.DateOnly))
	return reopened, nil
}
