package http

import "net/http"

// handleTagUsage returns live tag usage across every property.
func (s *Server) handleTagUsage(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, s.svc.Dashboard.TagUsage())
}

func (s *Server) handleFinance(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, s.svc.Dashboard.Finance(ScopeParam(r)))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, s.svc.Dashboard.View(ScopeParam(r)))
}
