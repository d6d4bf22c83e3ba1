package specialist

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
	promptx "github.com/sudeep-c/NEXTGENMARKETER/agent/prompt"
)

const (
	defaultTopK              = 4
	defaultEvidenceCharLimit = 1000
)

// Config parameterizes one specialist instance. The three domain agents are
// the same type with different configs instead of copy-pasted variants.
type Config struct {
	Name              contractx.AgentName
	Namespace         string
	TopK              int
	EvidenceCharLimit int
	SystemPrompt      string
}

type Agent struct {
	cfg       Config
	retriever contractx.Retriever
	completer contractx.Completer
}

var _ contractx.Specialist = (*Agent)(nil)

func New(cfg Config, retriever contractx.Retriever, completer contractx.Completer) (*Agent, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: agent name is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(cfg.Namespace) == "" {
		return nil, fmt.Errorf("%w: namespace is required for agent=%s", contractx.ErrValidation, cfg.Name)
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		return nil, fmt.Errorf("%w: agent=%s", contractx.ErrPromptMissing, cfg.Name)
	}
	if retriever == nil {
		return nil, fmt.Errorf("%w: retriever is required", contractx.ErrValidation)
	}
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is required", contractx.ErrValidation)
	}

	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	if cfg.EvidenceCharLimit <= 0 {
		cfg.EvidenceCharLimit = defaultEvidenceCharLimit
	}

	return &Agent{cfg: cfg, retriever: retriever, completer: completer}, nil
}

// Analyze retrieves evidence for this agent's namespace, asks the model for a
// structured opinion, and normalizes the reply into the common output schema.
// Malformed model output never surfaces as an error; only infrastructure
// failure (retrieval or model transport) propagates.
func (a *Agent) Analyze(ctx context.Context, userPrompt string) (contractx.AgentOutput, error) {
	hits, err := a.retriever.Query(ctx, a.cfg.Namespace, userPrompt, a.cfg.TopK)
	if err != nil {
		return contractx.AgentOutput{}, fmt.Errorf("%w: agent=%s: %v", contractx.ErrRetrievalUnavailable, a.cfg.Name, err)
	}

	evidence := packEvidence(hits, a.cfg.EvidenceCharLimit)
	if evidence == "" {
		evidence = "- (no evidence found)"
	}

	prompt := promptx.Render(a.cfg.SystemPrompt, map[string]string{
		"user_prompt": userPrompt,
		"evidence":    evidence,
	})

	reply, err := a.completer.Complete(ctx, prompt, true)
	if err != nil {
		return contractx.AgentOutput{}, err
	}

	out := Normalize(outputFromReply(reply))
	out.Agent = a.cfg.Name

	log.Debug().
		Str("agent", string(a.cfg.Name)).
		Int("hits", len(hits)).
		Int("insights", len(out.Insights)).
		Int("recommendations", len(out.Recommendations)).
		Msg("specialist analysis complete")

	return out, nil
}

// packEvidence compacts retrieved hits into a short bullet list under a
// character budget. Hits are dropped whole once the budget is hit; a hit is
// never truncated mid-text.
func packEvidence(hits []contractx.EvidenceHit, limit int) string {
	var parts []string
	total := 0
	for _, h := range hits {
		t := strings.TrimSpace(strings.ReplaceAll(h.Text, "\n", " "))
		if t == "" {
			continue
		}
		if total+len(t) > limit {
			break
		}
		parts = append(parts, "- "+t)
		total += len(t)
	}
	return strings.Join(parts, "\n")
}
