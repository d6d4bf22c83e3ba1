package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
	nodex "github.com/sudeep-c/NEXTGENMARKETER/agent/nodes/workflow"
	statex "github.com/sudeep-c/NEXTGENMARKETER/agent/state"
)

var ErrInvalidPrompt = nodex.ErrInvalidPrompt

// Engine runs the full marketing workflow: route the prompt, execute the
// routed specialists in canonical order, synthesize and persist the result.
type Engine struct {
	agents contractx.Registry
	store  statex.Store

	graphRunner compose.Runnable[nodex.GraphInput, *contractx.WorkflowState]

	now   func() time.Time
	newID func() string
}

func New(agents contractx.Registry, store statex.Store) (*Engine, error) {
	if agents == nil {
		return nil, errors.New("agent registry is required")
	}
	if store == nil {
		store = noopStore{}
	}

	e := &Engine{
		agents: agents,
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
	}

	graphRunner, err := e.compileRunGraph(context.Background())
	if err != nil {
		return nil, err
	}
	e.graphRunner = graphRunner

	return e, nil
}

// Run executes one workflow invocation. An empty threadID mints a fresh one;
// the id used is returned inside the state.
func (e *Engine) Run(ctx context.Context, userPrompt string, threadID string) (*contractx.WorkflowState, error) {
	return e.graphRunner.Invoke(ctx, nodex.GraphInput{
		UserPrompt: userPrompt,
		ThreadID:   threadID,
	})
}

// Thread loads a previously persisted run.
func (e *Engine) Thread(ctx context.Context, threadID string) (*contractx.WorkflowState, error) {
	return e.store.Load(ctx, threadID)
}

type noopStore struct{}

func (noopStore) Load(context.Context, string) (*contractx.WorkflowState, error) {
	return nil, statex.ErrThreadNotFound
}

func (noopStore) Save(context.Context, *contractx.WorkflowState) error { return nil }

func (noopStore) Delete(context.Context, string) error { return nil }
