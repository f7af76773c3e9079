package http

import (
	"net/http"

	"casa/internal/core"
)

type statusRequest struct {
	Status core.ClaimStatus `json:"status"`
	Note   string           `json:"note"`
}

type settleRequest struct {
	PayoutAmount      core.Money `json:"payoutAmount"`
	PayoutDestination string     `json:"payoutDestination"`
	SettlementDateUTC core.Date  `json:"settlementDateUtc"`
}

type reopenRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handlePolicyLedger(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ledger, err := s.svc.Claims.Ledger(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, ledger)
}

func (s *Server) handleFileClaim(w http.ResponseWriter, r *http.Request) {
	policyID, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := DecodeJSON[core.InsuranceClaim](w, r, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c.Title = sanitizeInput(c.Title)

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	claim, err := s.svc.Claims.FileClaim(ctx, policyID, c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, claim)
}

func (s *Server) handleClaimStatus(w http.ResponseWriter, r *http.Request) {
	policyID, claimID, ok := s.claimPath(w, r)
	if !ok {
		return
	}
	req, err := DecodeJSON[statusRequest](w, r, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	claim, err := s.svc.Claims.ChangeStatus(ctx, policyID, claimID, req.Status, sanitizeInput(req.Note))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, claim)
}

func (s *Server) handleSettleClaim(w http.ResponseWriter, r *http.Request) {
	policyID, claimID, ok := s.claimPath(w, r)
	if !ok {
		return
	}
	req, err := DecodeJSON[settleRequest](w, r, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	claim, err := s.svc.Claims.Settle(ctx, policyID, claimID, core.Settlement{
		Payout:      req.PayoutAmount,
		Destination: sanitizeInput(req.PayoutDestination),
		Date:        req.SettlementDateUTC,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, claim)
}

func (s *Server) handleReopenClaim(w http.ResponseWriter, r *http.Request) {
	policyID, claimID, ok := s.claimPath(w, r)
	if !ok {
		return
	}
	req, err := DecodeJSON[reopenRequest](w, r, true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	claim, err := s.svc.Claims.Reopen(ctx, policyID, claimID, sanitizeInput(req.Reason))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, claim)
}

func (s *Server) handleClaimActivity(w http.ResponseWriter, r *http.Request) {
	policyID, claimID, ok := s.claimPath(w, r)
	if !ok {
		return
	}
	a, err := DecodeJSON[core.ClaimActivity](w, r, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	a.Message = sanitizeInput(a.Message)

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	claim, err := s.svc.Claims.AddActivity(ctx, policyID, claimID, a)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, claim)
}

// claimPath extracts the policy and claim ids, writing the error response
// when one is missing.
func (s *Server) claimPath(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	policyID, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return "", "", false
	}
	claimID, err := PathID(r, "claimId")
	if err != nil {
		s.fail(w, r, err)
		return "", "", false
	}
	return policyID, claimID, true
}
