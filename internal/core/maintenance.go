package core

type (
	TaskStatus string
	Recurrence string
)

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

// Recurring reports whether the task comes back after completion.
func (t MaintenanceTask) Recurring() bool {
	return t.Recurrence != "" && t.Recurrence != RecurrenceNone
}

// Complete marks the task done at the given date.
func (t *MaintenanceTask) Complete(at Date) {
	t.Status = TaskCompleted
	t.LastCompletedUTC = at
}

// Reopen puts a completed recurring task back in the queue with a new due
// date. An invalid due date keeps the previous one.
func (t *MaintenanceTask) Reopen(due Date) {
	t.Status = TaskPending
	if due.Valid() {
		t.DueDateUTC = due
	}
}

// RecurrenceAnchor is the date whose day (and month, for yearly tasks)
// fixes when the task comes back: the due date, or the last completion
// when no due date was ever set.
func (t MaintenanceTask) RecurrenceAnchor() Date {
	if t.DueDateUTC.Valid() {
		return t.DueDateUTC
	}
	return t.LastCompletedUTC
}
