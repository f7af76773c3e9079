package http

import (
	"net/http"

	"casa/internal/core"
)

func (s *Server) handleUtilityAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	a, err := s.svc.Utilities.Analysis(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, a)
}

func (s *Server) handleAddInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	inv, err := DecodeJSON[core.UtilityInvoice](w, r, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	inv.Note = sanitizeInput(inv.Note)

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	a, err := s.svc.Utilities.AddInvoice(ctx, id, inv)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, a)
}

func (s *Server) handleRemoveInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	invoiceID, err := PathID(r, "invoiceId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	a, err := s.svc.Utilities.RemoveInvoice(ctx, id, invoiceID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, a)
}
