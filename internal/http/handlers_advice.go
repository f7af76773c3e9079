package http

import (
	"fmt"
	"net/http"
)

// adviceRequest carries free text context or a list of households to
// describe to the advisor. Households win when both are set.
type adviceRequest struct {
	Context      string   `json:"context"`
	HouseholdIDs []string `json:"householdIds"`
}

type adviceResponse struct {
	Advice string `json:"advice"`
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	req, err := DecodeJSON[adviceRequest](w, r, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ids := cleanIDs(req.HouseholdIDs)
	if len(ids) > 0 {
		text, err := s.svc.Advice.AdviseHouseholds(r.Context(), ids)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		respond(w, http.StatusOK, adviceResponse{Advice: text})
		return
	}

	prompt := sanitizeInput(req.Context)
	if prompt == "" {
		s.fail(w, r, fmt.Errorf("%w: context or householdIds is required", errBadRequest))
		return
	}
	respond(w, http.StatusOK, adviceResponse{Advice: s.svc.Advice.Advise(r.Context(), prompt)})
}
