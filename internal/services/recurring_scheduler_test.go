package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casa/internal/core"
	"casa/internal/log"
	"casa/internal/store"
)

func TestRecurringScheduler_RunsOnStartAndStops(t *testing.T) {
	env, _ := newTestEnv(t)
	lastMonth := core.NewDate(2024, 5, 1)
	put(t, env, core.MaintenanceTask{
		Record: core.Record{ID: "filters"}, PropertyID: "p1", Title: "Replace filters",
		Status: core.TaskCompleted, Recurrence: core.RecurrenceMonthly,
		DueDateUTC: lastMonth, LastCompletedUTC: lastMonth,
	})

	s := NewRecurringScheduler(NewMaintenanceService(env), SchedulerConfig{Interval: time.Hour}, log.Discard())
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start(context.Background()), "second start is rejected")

	assert.Eventually(t, func() bool {
		task, err := store.GetAs[core.MaintenanceTask](env.Store, "filters")
		return err == nil && task.Status == core.TaskPending
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop(ctx), "stop is idempotent")
}

func TestRecurringScheduler_DefaultInterval(t *testing.T) {
	s := NewRecurringScheduler(nil, SchedulerConfig{}, nil)
	assert.Equal(t, time.Hour, s.config.Interval)
}
