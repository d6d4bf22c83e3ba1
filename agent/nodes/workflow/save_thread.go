package workflownode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
	statex "github.com/sudeep-c/NEXTGENMARKETER/agent/state"
)

// SaveThread persists the completed state. Persistence is best-effort: the
// decision already exists, so a storage outage must not turn a successful
// run into an error.
func SaveThread(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if err := store.Save(ctx, in.State); err != nil {
		log.Warn().
			Err(err).
			Str("thread_id", in.State.ThreadID).
			Msg("failed to persist workflow thread")
		return in, nil
	}

	log.Debug().
		Str("thread_id", in.State.ThreadID).
		Dur("elapsed", time.Since(in.Now)).
		Msg("workflow thread persisted")
	return in, nil
}
