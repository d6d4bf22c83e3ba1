package workflownode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
)

// RunSpecialist invokes one specialist and appends its output. An
// infrastructure failure is recorded and the run continues, so the marketer
// still synthesizes from whatever succeeded.
func RunSpecialist(
	ctx context.Context,
	in *GraphState,
	registry contractx.Registry,
	name contractx.AgentName,
) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	agent, ok := registry.Specialist(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown specialist agent=%s", contractx.ErrValidation, name)
	}

	out, err := agent.Analyze(ctx, in.State.UserPrompt)
	if err != nil {
		log.Warn().
			Err(err).
			Str("thread_id", in.State.ThreadID).
			Str("agent", string(name)).
			Msg("specialist failed; continuing with remaining agents")
		if in.State.Failures == nil {
			in.State.Failures = map[contractx.AgentName]string{}
		}
		in.State.Failures[name] = err.Error()
		return in, nil
	}

	in.State.AgentOutputs = append(in.State.AgentOutputs, out)
	return in, nil
}
