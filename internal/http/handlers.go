package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"casa/internal/core"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    uptime(s.started),
	})
}

// handleReady runs every registered dependency check.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]string{}

	names := make([]string, 0, len(s.opts.Checks))
	for name := range s.opts.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.opts.Checks[name](ctx); err != nil {
			checks[name] = "failed: " + err.Error()
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	counts := s.svc.Entities.Counts()
	records := 0
	for _, n := range counts {
		records += n
	}

	respond(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
		"records":   records,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	kind, err := PathKind(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	items, err := s.svc.Entities.List(kind, ScopeParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if items == nil {
		items = []core.Entity{}
	}
	respond(w, http.StatusOK, items)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	kind, err := PathKind(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.svc.Entities.Get(kind, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, v)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	kind, err := PathKind(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body, err := ReadBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	v, err := s.svc.Entities.Create(ctx, kind, body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/"+string(kind)+"/"+v.EntityID()).
		Body(v).
		Write(w)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	kind, err := PathKind(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch, err := ReadBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	v, err := s.svc.Entities.Update(ctx, kind, id, patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, v)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind, err := PathKind(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	if err := s.svc.Entities.Delete(ctx, kind, id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
