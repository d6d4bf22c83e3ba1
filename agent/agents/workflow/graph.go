package workflow

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
	nodex "github.com/sudeep-c/NEXTGENMARKETER/agent/nodes/workflow"
)

const (
	nodeValidateRequest = "validate_request"
	nodeRoutePrompt     = "route_prompt"
	nodeRunSentiment    = "run_sentiment"
	nodeRunPurchase     = "run_purchase"
	nodeRunCampaign     = "run_campaign"
	nodeSynthesize      = "synthesize"
	nodeSaveThread      = "save_thread"
	nodeFinalize        = "finalize"
)

var specialistNodes = map[contractx.AgentName]string{
	contractx.AgentSentiment: nodeRunSentiment,
	contractx.AgentPurchase:  nodeRunPurchase,
	contractx.AgentCampaign:  nodeRunCampaign,
}

func (e *Engine) compileRunGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, *contractx.WorkflowState], error) {
	graph := compose.NewGraph[nodex.GraphInput, *contractx.WorkflowState]()

	if err := graph.AddLambdaNode(nodeValidateRequest,
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, e.now, e.newID)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeValidateRequest, err)
	}

	if err := graph.AddLambdaNode(nodeRoutePrompt,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RoutePrompt(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeRoutePrompt, err)
	}

	for _, name := range contractx.SpecialistOrder {
		agentName := name
		if err := graph.AddLambdaNode(specialistNodes[agentName],
			compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
				return nodex.RunSpecialist(ctx, in, e.agents, agentName)
			}),
		); err != nil {
			return nil, fmt.Errorf("add node %s: %w", specialistNodes[agentName], err)
		}
	}

	if err := graph.AddLambdaNode(nodeSynthesize,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Synthesize(ctx, in, e.agents.Marketer())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeSynthesize, err)
	}

	if err := graph.AddLambdaNode(nodeSaveThread,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SaveThread(ctx, in, e.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeSaveThread, err)
	}

	if err := graph.AddLambdaNode(nodeFinalize,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*contractx.WorkflowState, error) {
			return nodex.Finalize(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeFinalize, err)
	}

	// The routed specialists run as a chain in canonical order. Each branch
	// forwards to the next routed specialist, or straight to synthesis once
	// none remain.
	branches := []struct {
		from  string
		after contractx.AgentName
		to    map[string]bool
	}{
		{
			from:  nodeRoutePrompt,
			after: "",
			to: map[string]bool{
				nodeRunSentiment: true,
				nodeRunPurchase:  true,
				nodeRunCampaign:  true,
				nodeSynthesize:   true,
			},
		},
		{
			from:  nodeRunSentiment,
			after: contractx.AgentSentiment,
			to: map[string]bool{
				nodeRunPurchase: true,
				nodeRunCampaign: true,
				nodeSynthesize:  true,
			},
		},
		{
			from:  nodeRunPurchase,
			after: contractx.AgentPurchase,
			to: map[string]bool{
				nodeRunCampaign: true,
				nodeSynthesize:  true,
			},
		},
	}

	for _, b := range branches {
		after := b.after
		branch := compose.NewGraphBranch(
			func(ctx context.Context, in *nodex.GraphState) (string, error) {
				if in == nil || in.State == nil {
					return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
				}
				return nextNode(in.State.Route, after), nil
			},
			b.to,
		)
		if err := graph.AddBranch(b.from, branch); err != nil {
			return nil, fmt.Errorf("add branch after %s: %w", b.from, err)
		}
	}

	edges := [][2]string{
		{compose.START, nodeValidateRequest},
		{nodeValidateRequest, nodeRoutePrompt},
		{nodeRunCampaign, nodeSynthesize},
		{nodeSynthesize, nodeSaveThread},
		{nodeSaveThread, nodeFinalize},
		{nodeFinalize, compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	// Synthesis has several possible predecessors but exactly one fires per
	// run, so the graph must trigger on any incoming edge.
	runner, err := graph.Compile(ctx,
		compose.WithGraphName("workflow.run"),
		compose.WithNodeTriggerMode(compose.AnyPredecessor),
	)
	if err != nil {
		return nil, fmt.Errorf("compile workflow graph: %w", err)
	}
	return runner, nil
}

// nextNode returns the graph node for the first routed specialist that comes
// after the given agent in canonical order, or the synthesis node when the
// route holds no further specialists.
func nextNode(route []contractx.AgentName, after contractx.AgentName) string {
	started := after == ""
	for _, name := range contractx.SpecialistOrder {
		if !started {
			if name == after {
				started = true
			}
			continue
		}
		for _, routed := range route {
			if routed == name {
				return specialistNodes[name]
			}
		}
	}
	return nodeSynthesize
}
