package services

import (
	"context"
	"fmt"

	"casa/internal/core"
	"casa/internal/insights"
	"casa/internal/store"
)

type UtilityService struct {
	env *Env
}

func NewUtilityService(env *Env) *UtilityService {
	return &UtilityService{env: env}
}

// AddInvoice records a bill; invoices stay sorted most recent first.
func (s *UtilityService) AddInvoice(ctx context.Context, accountID string, inv core.UtilityInvoice) (core.UtilityAccount, error) {
	inv.ID = s.env.NewID()
	if err := core.Validate(inv); err != nil {
		return core.UtilityAccount{}, err
	}
	a, err := mutate(ctx, s.env, accountID, func(a *core.UtilityAccount) error {
		a.AddInvoice(inv)
		return nil
	})
	if err != nil {
		return a, fmt.Errorf("add invoice to utility %s: %w", accountID, err)
	}
	return a, nil
}

func (s *UtilityService) RemoveInvoice(ctx context.Context, accountID, invoiceID string) (core.UtilityAccount, error) {
	a, err := mutate(ctx, s.env, accountID, func(a *core.UtilityAccount) error {
		return a.RemoveInvoice(invoiceID)
	})
	if err != nil {
		return a, fmt.Errorf("remove invoice %s from utility %s: %w", invoiceID, accountID, err)
	}
	return a, nil
}

func (s *UtilityService) Analysis(accountID string) (insights.UtilityAnalysis, error) {
	a, err := store.GetAs[core.UtilityAccount](s.env.Store, accountID)
	if err != nil {
		return insights.UtilityAnalysis{}, err
	}
	return insights.AnalyzeUtility(a), nil
}
