package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"casa/internal/advice"
	"casa/internal/core"
	"casa/internal/log"
)

// AdviceService asks the advisory collaborator for free text suggestions.
// It never fails: any problem yields advice.UnavailableMessage.
type AdviceService struct {
	env      *Env
	advisor  advice.Advisor
	entities *EntityService
}

func NewAdviceService(env *Env, advisor advice.Advisor) *AdviceService {
	if advisor == nil {
		advisor = advice.Disabled{}
	}
	return &AdviceService{env: env, advisor: advisor, entities: NewEntityService(env)}
}

// Advise sends free text context.
func (s *AdviceService) Advise(ctx context.Context, text string) string {
	return s.ask(ctx, strings.TrimSpace(text))
}

// AdviseHouseholds serializes the selected households (all when ids is empty)
// into the prompt.
func (s *AdviceService) AdviseHouseholds(ctx context.Context, ids []string) (string, error) {
	households, err := s.entities.Households(ids)
	if err != nil {
		return "", err
	}
	prompt, err := householdPrompt(households)
	if err != nil {
		return "", err
	}
	return s.ask(ctx, prompt), nil
}

func householdPrompt(households []core.Household) (string, error) {
	b, err := json.MarshalIndent(households, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode households: %w", err)
	}
	return "Suggest upcoming maintenance and cost savings for these households:\n" + string(b), nil
}

func (s *AdviceService) ask(ctx context.Context, prompt string) string {
	logger := s.env.Logger.WithComponent(log.ComponentAdvice)
	if prompt == "" {
		return advice.UnavailableMessage
	}
	text, err := s.advisor.Advise(ctx, prompt)
	if err != nil {
		logger.WarnContext(ctx, "Advice unavailable", log.FieldError, err.Error())
		return advice.UnavailableMessage
	}
	return text
}
