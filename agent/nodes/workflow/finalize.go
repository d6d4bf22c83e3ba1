package workflownode

import (
	"fmt"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
)

func Finalize(in *GraphState) (*contractx.WorkflowState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.State.FinalDecision == nil {
		return nil, fmt.Errorf("%w: workflow produced no final decision", contractx.ErrValidation)
	}
	return in.State, nil
}
