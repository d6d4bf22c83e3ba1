package marketer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
	promptx "github.com/sudeep-c/NEXTGENMARKETER/agent/prompt"
)

const notRunSentinel = "No data available (agent not run)"

// Agent is the synthesis step: it reads whatever specialist outputs exist and
// always emits a complete FinalDecision. The model is asked first; the result
// is then deterministically repaired so that the terminal artifact is
// schema-valid even under total upstream failure.
type Agent struct {
	completer    contractx.Completer
	systemPrompt string
}

var _ contractx.Synthesizer = (*Agent)(nil)

func New(completer contractx.Completer, systemPrompt string) (*Agent, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: marketer", contractx.ErrPromptMissing)
	}
	return &Agent{completer: completer, systemPrompt: systemPrompt}, nil
}

// Synthesize never fails on malformed model output; only an infrastructure
// failure of the completion transport propagates.
func (a *Agent) Synthesize(ctx context.Context, userPrompt string, outputs []contractx.AgentOutput) (contractx.FinalDecision, error) {
	present := partitionByAgent(outputs)

	prompt := promptx.Render(a.systemPrompt, map[string]string{
		"user_prompt":    userPrompt,
		"agent_insights": compactEvidence(present),
	})

	reply, err := a.completer.Complete(ctx, prompt, true)
	if err != nil {
		return contractx.FinalDecision{}, err
	}

	decision := repairDecision(reply, present)

	log.Info().
		Int("specialists", len(present)).
		Int("conflicts", len(decision.Conflicts)).
		Msg("final decision synthesized")

	return decision, nil
}

// partitionByAgent keys outputs by identity, keeping the first output per
// specialist. An absent identity means "not run", not an error.
func partitionByAgent(outputs []contractx.AgentOutput) map[contractx.AgentName]contractx.AgentOutput {
	present := make(map[contractx.AgentName]contractx.AgentOutput, len(outputs))
	for _, out := range outputs {
		if out.Agent == "" || out.Agent == contractx.AgentMarketer {
			continue
		}
		if _, seen := present[out.Agent]; !seen {
			present[out.Agent] = out
		}
	}
	return present
}

// compactEvidence summarizes each present agent's summary and insights into a
// small JSON payload. Absent agents are marked explicitly so the model does
// not invent findings for them.
func compactEvidence(present map[contractx.AgentName]contractx.AgentOutput) string {
	type compactInsight struct {
		AudienceSegment string  `json:"audience_segment"`
		ProductFocus    string  `json:"product_focus"`
		Region          string  `json:"region"`
		Signal          string  `json:"signal"`
		Confidence      float64 `json:"confidence"`
	}
	type compactOutput struct {
		Agent           string           `json:"agent"`
		Summary         string           `json:"summary"`
		Insights        []compactInsight `json:"insights,omitempty"`
		Recommendations []string         `json:"recommendations,omitempty"`
		Status          string           `json:"status,omitempty"`
	}

	payload := make([]compactOutput, 0, len(contractx.SpecialistOrder))
	for _, name := range contractx.SpecialistOrder {
		out, ok := present[name]
		if !ok {
			payload = append(payload, compactOutput{
				Agent:  string(name),
				Status: notRunSentinel,
			})
			continue
		}

		entry := compactOutput{
			Agent:   string(name),
			Summary: truncate(out.Summary, 200),
		}
		for _, ins := range out.Insights {
			entry.Insights = append(entry.Insights, compactInsight(ins))
		}
		for _, rec := range out.Recommendations {
			entry.Recommendations = append(entry.Recommendations, rec.Idea)
		}
		payload = append(payload, entry)
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
