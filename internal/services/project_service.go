package services

import (
	"context"
	"fmt"

	"casa/internal/core"
	"casa/internal/insights"
	"casa/internal/store"
)

// ProjectProgress is the project detail view.
type ProjectProgress struct {
	ProjectID  string                   `json:"projectId"`
	Title      string                   `json:"title"`
	PropertyID string                   `json:"propertyId"`
	Percent    float64                  `json:"percent"`
	Phases     []insights.PhaseProgress `json:"phases"`
	Budget     core.Money               `json:"budget"`
	ActualCost core.Money               `json:"actualCost"`
	Remaining  core.Money               `json:"remaining"`
}

type ProjectService struct {
	env *Env
}

func NewProjectService(env *Env) *ProjectService {
	return &ProjectService{env: env}
}

// AddExpense records an expense; ActualCost follows the expense total.
func (s *ProjectService) AddExpense(ctx context.Context, projectID string, e core.ProjectExpense) (core.Project, error) {
	e.ID = s.env.NewID()
	if !e.DateUTC.Valid() {
		e.DateUTC = core.DateOf(s.env.now())
	}
	if err := core.Validate(e); err != nil {
		return core.Project{}, err
	}
	p, err := mutate(ctx, s.env, projectID, func(p *core.Project) error {
		p.AddExpense(e)
		return nil
	})
	if err != nil {
		return p, fmt.Errorf("add expense to project %s: %w", projectID, err)
	}
	return p, nil
}

func (s *ProjectService) RemoveExpense(ctx context.Context, projectID, expenseID string) (core.Project, error) {
	p, err := mutate(ctx, s.env, projectID, func(p *core.Project) error {
		return p.RemoveExpense(expenseID)
	})
	if err != nil {
		return p, fmt.Errorf("remove expense %s from project %s: %w", expenseID, projectID, err)
	}
	return p, nil
}

// ToggleTask flips a phase or subtask and returns its new state.
func (s *ProjectService) ToggleTask(ctx context.Context, projectID, taskID string) (core.Project, bool, error) {
	var done bool
	p, err := mutate(ctx, s.env, projectID, func(p *core.Project) error {
		var err error
		done, err = p.ToggleTask(taskID)
		return err
	})
	if err != nil {
		return p, false, fmt.Errorf("toggle task %s on project %s: %w", taskID, projectID, err)
	}
	return p, done, nil
}

func (s *ProjectService) Progress(projectID string) (ProjectProgress, error) {
	p, err := store.GetAs[core.Project](s.env.Store, projectID)
	if err != nil {
		return ProjectProgress{}, err
	}
	return projectProgress(p), nil
}

func projectProgress(p core.Project) ProjectProgress {
	return ProjectProgress{
		ProjectID:  p.ID,
		Title:      p.Title,
		PropertyID: p.PropertyID,
		Percent:    insights.RoadmapProgress(p.Tasks),
		Phases:     insights.PhaseBreakdown(p.Tasks),
		Budget:     p.Budget,
		ActualCost: p.ActualCost,
		Remaining:  core.Cents(p.Budget.Cents - p.ActualCost.Cents),
	}
}
