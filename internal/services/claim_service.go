package services

import (
	"context"
	"fmt"

	"casa/internal/core"
	"casa/internal/insights"
	"casa/internal/log"
	"casa/internal/store"
)

// ClaimService drives the claim lifecycle on a policy.
type ClaimService struct {
	env *Env
}

func NewClaimService(env *Env) *ClaimService {
	return &ClaimService{env: env}
}

// FileClaim adds a claim to a policy. New claims start as Draft or Filed.
func (s *ClaimService) FileClaim(ctx context.Context, policyID string, c core.InsuranceClaim) (core.InsuranceClaim, error) {
	c.ID = s.env.NewID()
	if c.Status == "" {
		c.Status = core.ClaimDraft
	}
	if c.Status != core.ClaimDraft && c.Status != core.ClaimFiled {
		return c, fmt.Errorf("%w: new claims start as %s or %s", core.ErrValidation, core.ClaimDraft, core.ClaimFiled)
	}
	if !c.IncidentDateUTC.Valid() {
		c.IncidentDateUTC = core.DateOf(s.env.now())
	}
	c.ConversationLog = nil

	_, err := mutate(ctx, s.env, policyID, func(p *core.InsurancePolicy) error {
		p.Claims = append(p.Claims, c)
		return nil
	})
	if err != nil {
		return c, fmt.Errorf("file claim on policy %s: %w", policyID, err)
	}
	return c, nil
}

// ChangeStatus applies a forward transition.
func (s *ClaimService) ChangeStatus(ctx context.Context, policyID, claimID string, to core.ClaimStatus, note string) (core.InsuranceClaim, error) {
	return s.onClaim(ctx, policyID, claimID, "status", func(c *core.InsuranceClaim) error {
		return c.TransitionTo(to, s.env.NewID(), s.env.now(), note)
	})
}

// Settle performs final settlement.
func (s *ClaimService) Settle(ctx context.Context, policyID, claimID string, st core.Settlement) (core.InsuranceClaim, error) {
	if st.Payout.Cents < 0 {
		return core.InsuranceClaim{}, fmt.Errorf("%w: payout must be >= 0", core.ErrValidation)
	}
	return s.onClaim(ctx, policyID, claimID, log.OpSettle, func(c *core.InsuranceClaim) error {
		return c.Settle(st, [2]string{s.env.NewID(), s.env.NewID()}, s.env.now())
	})
}

// Reopen moves a resolved claim back to review.
func (s *ClaimService) Reopen(ctx context.Context, policyID, claimID, reason string) (core.InsuranceClaim, error) {
	return s.onClaim(ctx, policyID, claimID, log.OpReopen, func(c *core.InsuranceClaim) error {
		return c.Reopen(s.env.NewID(), s.env.now(), reason)
	})
}

// AddActivity appends a Communication or Attachment entry. Status changes and
// payouts are only recorded by the lifecycle operations.
func (s *ClaimService) AddActivity(ctx context.Context, policyID, claimID string, a core.ClaimActivity) (core.InsuranceClaim, error) {
	if a.Kind != core.ActivityCommunication && a.Kind != core.ActivityAttachment {
		return core.InsuranceClaim{}, fmt.Errorf("%w: activity kind must be %s or %s", core.ErrValidation, core.ActivityCommunication, core.ActivityAttachment)
	}
	if a.Kind == core.ActivityAttachment && a.DocumentID == "" {
		return core.InsuranceClaim{}, fmt.Errorf("%w: attachments need a documentId", core.ErrValidation)
	}
	a.ID = s.env.NewID()
	a.Timestamp = s.env.now()
	return s.onClaim(ctx, policyID, claimID, log.OpUpdate, func(c *core.InsuranceClaim) error {
		c.AddActivity(a)
		return nil
	})
}

func (s *ClaimService) onClaim(ctx context.Context, policyID, claimID, op string, fn func(*core.InsuranceClaim) error) (core.InsuranceClaim, error) {
	var out core.InsuranceClaim
	_, err := mutate(ctx, s.env, policyID, func(p *core.InsurancePolicy) error {
		i := p.ClaimIndex(claimID)
		if i < 0 {
			return fmt.Errorf("%w: claim %s", store.ErrNotFound, claimID)
		}
		if err := fn(&p.Claims[i]); err != nil {
			return err
		}
		out = p.Claims[i]
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("%s claim %s on policy %s: %w", op, claimID, policyID, err)
	}
	s.env.Logger.InfoContext(ctx, "Claim updated",
		log.NewFields().WithEntity(string(core.KindInsurancePolicy), policyID, "").WithOperation(op).ToSlice()...)
	return out, nil
}

// Ledger returns the policy's claim ledger as of the service clock.
func (s *ClaimService) Ledger(policyID string) (insights.PolicyLedger, error) {
	p, err := store.GetAs[core.InsurancePolicy](s.env.Store, policyID)
	if err != nil {
		return insights.PolicyLedger{}, err
	}
	return insights.Ledger(p, s.env.now()), nil
}
