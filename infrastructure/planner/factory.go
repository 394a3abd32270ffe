package planner

import (
	"fmt"

	"github.com/felixgeelhaar/agent-shell/domain/config"
)

// New returns the planner selected by cfg.Provider.
func New(cfg config.PlannerConfig) (Planner, error) {
	switch cfg.Provider {
	case config.PlannerRule, "":
		return NewRulePlanner(), nil
	case config.PlannerOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("%w: openai planner needs an api key", ErrUnknownProvider)
		}
		provider := NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
			Timeout: cfg.OpenAI.Timeout.Duration(),
		})
		return NewLLMPlanner(LLMPlannerConfig{
			Provider: provider,
			Model:    cfg.OpenAI.Model,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
