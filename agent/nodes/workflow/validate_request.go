package workflownode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
)

var ErrInvalidPrompt = errors.New("user prompt is empty")

type GraphInput struct {
	UserPrompt string
	ThreadID   string
}

type GraphState struct {
	Now   time.Time
	State *contractx.WorkflowState
}

// ValidateRequest trims the incoming prompt and seeds the workflow state.
// A missing thread id is minted here so downstream nodes can assume one.
func ValidateRequest(in GraphInput, nowFn func() time.Time, newID func() string) (*GraphState, error) {
	prompt := strings.TrimSpace(in.UserPrompt)
	if prompt == "" {
		return nil, ErrInvalidPrompt
	}

	threadID := strings.TrimSpace(in.ThreadID)
	if threadID == "" {
		threadID = newID()
	}

	return &GraphState{
		Now: nowFn().UTC(),
		State: &contractx.WorkflowState{
			UserPrompt: prompt,
			ThreadID:   threadID,
			Failures:   map[contractx.AgentName]string{},
		},
	}, nil
}
