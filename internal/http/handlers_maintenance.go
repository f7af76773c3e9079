package http

import (
	"net/http"

	"casa/internal/core"
)

type completeRequest struct {
	CompletedAtUTC core.Date `json:"completedAtUtc"`
}

// handleCompleteTask marks a maintenance task done. The body is optional;
// without a date the task completes today.
func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	req, err := DecodeJSON[completeRequest](w, r, true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	t, err := s.svc.Maintenance.Complete(ctx, id, req.CompletedAtUTC)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, t)
}

// handleRunRecurring triggers one pass of the recurrence processor.
func (s *Server) handleRunRecurring(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	n, err := s.svc.Maintenance.ProcessRecurring(ctx, s.opts.Now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]int{"reopened": n})
}
