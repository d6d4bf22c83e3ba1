package workflownode

import (
	"context"
	"fmt"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
)

// Synthesize folds the specialist outputs into the final decision. Unlike
// specialist nodes the marketer is not allowed to fail: without it the run
// has no result.
func Synthesize(
	ctx context.Context,
	in *GraphState,
	marketer contractx.Synthesizer,
) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	decision, err := marketer.Synthesize(ctx, in.State.UserPrompt, in.State.AgentOutputs)
	if err != nil {
		return nil, fmt.Errorf("marketer synthesis failed: %w", err)
	}

	in.State.FinalDecision = &decision
	return in, nil
}
