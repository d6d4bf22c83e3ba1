package contract

import "context"

// Retriever is the text-embedding & similarity search collaborator. An
// unknown namespace yields an empty slice, not an error.
type Retriever interface {
	Query(ctx context.Context, namespace string, query string, k int) ([]EvidenceHit, error)
}

// Completer wraps the language-model service. Malformed model output is
// reported through the ModelReply variants; the error return is reserved for
// infrastructure failure.
type Completer interface {
	Complete(ctx context.Context, prompt string, structured bool) (ModelReply, error)
}

// Specialist produces one normalized AgentOutput for a user prompt.
type Specialist interface {
	Analyze(ctx context.Context, userPrompt string) (AgentOutput, error)
}

// Synthesizer folds whatever specialist outputs exist into one FinalDecision.
type Synthesizer interface {
	Synthesize(ctx context.Context, userPrompt string, outputs []AgentOutput) (FinalDecision, error)
}

// Registry exposes the constructed agents to the workflow engine.
type Registry interface {
	Specialist(name AgentName) (Specialist, bool)
	Marketer() Synthesizer
}
