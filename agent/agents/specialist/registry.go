package specialist

import (
	marketerx "github.com/sudeep-c/NEXTGENMARKETER/agent/agents/marketer"
	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
	promptx "github.com/sudeep-c/NEXTGENMARKETER/agent/prompt"
)

type registryImpl struct {
	specialists map[contractx.AgentName]contractx.Specialist
	marketer    contractx.Synthesizer
}

func (r *registryImpl) Specialist(name contractx.AgentName) (contractx.Specialist, bool) {
	s, ok := r.specialists[name]
	return s, ok
}

func (r *registryImpl) Marketer() contractx.Synthesizer {
	return r.marketer
}

// NewRegistry builds the three domain specialists and the marketer from one
// shared retriever and completion client. Clients are injected once at
// construction, never re-instantiated per call.
func NewRegistry(retriever contractx.Retriever, completer contractx.Completer) (contractx.Registry, error) {
	prompts := promptx.LoadPromptSet()

	configs := []Config{
		{Name: contractx.AgentSentiment, Namespace: "sentiment", SystemPrompt: prompts.Sentiment},
		{Name: contractx.AgentPurchase, Namespace: "purchase", SystemPrompt: prompts.Purchase},
		{Name: contractx.AgentCampaign, Namespace: "campaign", SystemPrompt: prompts.Campaign},
	}

	specialists := make(map[contractx.AgentName]contractx.Specialist, len(configs))
	for _, cfg := range configs {
		agent, err := New(cfg, retriever, completer)
		if err != nil {
			return nil, err
		}
		specialists[cfg.Name] = agent
	}

	marketer, err := marketerx.New(completer, prompts.Marketer)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		specialists: specialists,
		marketer:    marketer,
	}, nil
}
