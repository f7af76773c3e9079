package core

import (
	"errors"
	"slices"
)

var (
	ErrExpenseNotFound = errors.New("project expense not found")
	ErrTaskNotFound    = errors.New("project task not found")
)

// RecalculateActualCost keeps ActualCost equal to the sum of the tracked expenses.
func (p *Project) RecalculateActualCost() {
	var total Money
	for _, e := range p.Expenses {
		total = total.Add(e.Amount)
	}
	p.ActualCost = total
}

// AddExpense records an expense and refreshes ActualCost.
func (p *Project) AddExpense(e ProjectExpense) {
	p.Expenses = append(p.Expenses, e)
	p.RecalculateActualCost()
}

// RemoveExpense drops an expense by id and refreshes ActualCost.
func (p *Project) RemoveExpense(expenseID string) error {
	i := slices.IndexFunc(p.Expenses, func(e ProjectExpense) bool { return e.ID == expenseID })
	if i < 0 {
		return ErrExpenseNotFound
	}
	p.Expenses = slices.Delete(p.Expenses, i, i+1)
	p.RecalculateActualCost()
	return nil
}

// ToggleTask flips the completion flag of a phase or subtask.
// Completing a phase does not touch its subtasks.
func (p *Project) ToggleTask(taskID string) (bool, error) {
	for i := range p.Tasks {
		phase := &p.Tasks[i]
		if phase.ID == taskID {
			phase.IsCompleted = !phase.IsCompleted
			return phase.IsCompleted, nil
		}
		for j := range phase.Subtasks {
			sub := &phase.Subtasks[j]
			if sub.ID == taskID {
				sub.IsCompleted = !sub.IsCompleted
				return sub.IsCompleted, nil
			}
		}
	}
	return false, ErrTaskNotFound
}
