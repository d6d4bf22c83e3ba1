package workflownode

import (
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
	routerx "github.com/sudeep-c/NEXTGENMARKETER/agent/router"
)

func RoutePrompt(in *GraphState) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.State.Route = routerx.Route(in.State.UserPrompt)

	log.Debug().
		Str("thread_id", in.State.ThreadID).
		Interface("route", in.State.Route).
		Msg("prompt routed")
	return in, nil
}
