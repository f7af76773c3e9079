package http

import (
	"net/http"

	"casa/internal/core"
)

type toggleResponse struct {
	Project   core.Project `json:"project"`
	TaskID    string       `json:"taskId"`
	Completed bool         `json:"completed"`
}

func (s *Server) handleProjectProgress(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.svc.Projects.Progress(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := DecodeJSON[core.ProjectExpense](w, r, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	e.Title = sanitizeInput(e.Title)

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	p, err := s.svc.Projects.AddExpense(ctx, id, e)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	expenseID, err := PathID(r, "expenseId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	p, err := s.svc.Projects.RemoveExpense(ctx, id, expenseID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	taskID, err := PathID(r, "taskId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	p, done, err := s.svc.Projects.ToggleTask(ctx, id, taskID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toggleResponse{Project: p, TaskID: taskID, Completed: done})
}
