package llm

import (
	"context"
	"errors"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
)

const repairPromptTemplate = `The previous response was supposed to be valid JSON but it is invalid or truncated.
Please extract and return only the corrected, valid JSON object (no explanation, no markdown).
Here is the raw output that needs fixing:

%s

Return just valid JSON (object or array). If fields are truncated, try to complete them reasonably.`

// Client coerces language-model output into a contractx.ModelReply. It is
// stateless and safe for concurrent use from independent agents.
type Client struct {
	model einomodel.BaseChatModel
	cfg   Config
}

var _ contractx.Completer = (*Client)(nil)

func NewClient(chatModel einomodel.BaseChatModel, cfg Config) (*Client, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	return &Client{model: chatModel, cfg: cfg.withDefaults()}, nil
}

// Complete performs one completion call. With structured=false the raw text is
// returned unconditionally. With structured=true the reply goes through the
// parse/repair ladder and is guaranteed to be one of the three ModelReply
// variants; only infrastructure failure produces a non-nil error. A per-call
// deadline expiry degrades to FailedReply{Err:"timeout"} so a hung model call
// cannot stall the whole workflow.
func (c *Client) Complete(ctx context.Context, prompt string, structured bool) (contractx.ModelReply, error) {
	content, err := c.generate(ctx, prompt, nil)
	if err != nil {
		if isTimeout(err) {
			log.Warn().Err(err).Msg("completion timed out, degrading to failure reply")
			return contractx.FailedReply{Raw: "", Err: "timeout"}, nil
		}
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	if !structured {
		return contractx.UnstructuredReply{Text: content}, nil
	}
	return c.parseWithRepair(ctx, content), nil
}

// parseWithRepair walks the fallback ladder in order, stopping at the first
// successful parse:
//  1. whole response as JSON
//  2. substring between the first '{' and last '}'
//  3. up to cfg.RepairAttempts repair re-prompts with a raised token budget,
//     each retrying steps 1-2 on the repaired text
//  4. brace-balancing the original response, then the last candidate
func (c *Client) parseWithRepair(ctx context.Context, content string) contractx.ModelReply {
	if v, ok := decodeJSON(content); ok {
		return contractx.StructuredReply{Value: v}
	}

	candidate := braceSpan(content)
	if candidate != "" {
		if v, ok := decodeJSON(candidate); ok {
			return contractx.StructuredReply{Value: v}
		}
	}

	repairPrompt := fmt.Sprintf(repairPromptTemplate, content)
	opts := []einomodel.Option{einomodel.WithMaxTokens(c.cfg.RepairMaxTokens)}

	for attempt := 1; attempt <= c.cfg.RepairAttempts; attempt++ {
		repaired, err := c.generate(ctx, repairPrompt, opts)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("json repair call failed")
			break
		}

		if v, ok := decodeJSON(repaired); ok {
			return contractx.StructuredReply{Value: v}
		}
		if span := braceSpan(repaired); span != "" {
			candidate = span
			if v, ok := decodeJSON(span); ok {
				return contractx.StructuredReply{Value: v}
			}
		}
	}

	if v, ok := decodeJSON(closeBraces(content)); ok {
		return contractx.StructuredReply{Value: v}
	}
	if candidate != "" {
		if v, ok := decodeJSON(closeBraces(candidate)); ok {
			return contractx.StructuredReply{Value: v}
		}
	}

	log.Debug().Str("raw", truncateForLog(content)).Msg("all json parse attempts failed")
	return contractx.FailedReply{Raw: content, Err: "invalid json"}
}

func (c *Client) generate(ctx context.Context, prompt string, opts []einomodel.Option) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	msg, err := c.model.Generate(callCtx, []*schema.Message{schema.UserMessage(prompt)}, opts...)
	if err != nil {
		return "", err
	}
	if msg == nil {
		return "", errors.New("empty model response")
	}
	return msg.Content, nil
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func truncateForLog(s string) string {
	const limit = 200
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
