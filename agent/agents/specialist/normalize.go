package specialist

import (
	"fmt"
	"strings"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
)

const (
	summaryCharLimit       = 400
	maxInsights            = 3
	maxRecommendations     = 3
	maxFallbackRecommends  = 2
	defaultSummarySentinel = "No summary available"
)

// outputFromReply converts any model reply variant into a candidate output.
// Non-mapping replies degrade to a single low-confidence insight wrapping the
// raw text.
func outputFromReply(reply contractx.ModelReply) contractx.AgentOutput {
	switch r := reply.(type) {
	case contractx.StructuredReply:
		if m, ok := r.Value.(map[string]any); ok {
			return outputFromMapping(m)
		}
		return wrapRawText(fmt.Sprint(r.Value))
	case contractx.UnstructuredReply:
		return wrapRawText(r.Text)
	case contractx.FailedReply:
		return wrapRawText(r.Raw)
	default:
		return wrapRawText("")
	}
}

func wrapRawText(raw string) contractx.AgentOutput {
	raw = strings.TrimSpace(raw)
	signal := raw
	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		signal = strings.TrimSpace(raw[:i])
	}

	out := contractx.AgentOutput{
		Summary: truncate(raw, summaryCharLimit),
	}
	if signal != "" {
		out.Insights = []contractx.Insight{{Signal: signal, Confidence: 0}}
	}
	return out
}

// outputFromMapping extracts the converged schema from a model mapping,
// also folding the older candidates/scores/rationale reply shape into it.
func outputFromMapping(m map[string]any) contractx.AgentOutput {
	out := contractx.AgentOutput{
		Summary:    firstNonEmptyString(m["summary"], m["executive_summary"], m["rationale"]),
		KeyMetrics: asMap(m["key_metrics"]),
	}

	if items, ok := m["insights"].([]any); ok {
		for _, item := range items {
			if len(out.Insights) >= maxInsights {
				break
			}
			if im, ok := item.(map[string]any); ok {
				out.Insights = append(out.Insights, insightFromMapping(im))
			}
		}
	}

	if items, ok := m["recommendations"].([]any); ok {
		for _, item := range items {
			if len(out.Recommendations) >= maxRecommendations {
				break
			}
			if rec, ok := recommendationFromValue(item); ok {
				out.Recommendations = append(out.Recommendations, rec)
			}
		}
	}

	if len(out.Recommendations) == 0 {
		out.Recommendations = recommendationsFromCandidates(m)
	}

	return out
}

func insightFromMapping(m map[string]any) contractx.Insight {
	return contractx.Insight{
		AudienceSegment: asString(m["audience_segment"]),
		ProductFocus:    asString(m["product_focus"]),
		Region:          joinIfList(m["region"]),
		Signal:          asString(m["signal"]),
		Confidence:      asConfidence(m["confidence"]),
	}
}

// recommendationFromValue tolerates the model returning a bare string
// instead of an object; bare strings get confidence 0.
func recommendationFromValue(v any) (contractx.Recommendation, bool) {
	switch rec := v.(type) {
	case string:
		if strings.TrimSpace(rec) == "" {
			return contractx.Recommendation{}, false
		}
		return contractx.Recommendation{Idea: strings.TrimSpace(rec), Confidence: 0}, true
	case map[string]any:
		idea := asString(rec["idea"])
		if idea == "" {
			idea = asString(rec["recommendation"])
		}
		if idea == "" {
			return contractx.Recommendation{}, false
		}
		return contractx.Recommendation{Idea: idea, Confidence: asConfidence(rec["confidence"])}, true
	default:
		return contractx.Recommendation{}, false
	}
}

// recommendationsFromCandidates folds the legacy candidates/scores reply
// shape into recommendations.
func recommendationsFromCandidates(m map[string]any) []contractx.Recommendation {
	items, ok := m["candidates"].([]any)
	if !ok {
		return nil
	}
	scores, _ := m["scores"].([]any)

	var recs []contractx.Recommendation
	for i, item := range items {
		if len(recs) >= maxRecommendations {
			break
		}
		idea := strings.TrimSpace(asString(item))
		if idea == "" {
			continue
		}
		confidence := 0.0
		if i < len(scores) {
			confidence = asConfidence(scores[i])
		}
		recs = append(recs, contractx.Recommendation{Idea: idea, Confidence: confidence})
	}
	return recs
}

// Normalize enforces the output invariants: sentinel defaults on every string
// field, confidence clamped to [0,1], at most 3 insights and recommendations,
// and fallback recommendations derived from the top insights whenever the
// model produced insights but no recommendations. Feeding an already
// normalized output through again is a no-op.
func Normalize(out contractx.AgentOutput) contractx.AgentOutput {
	out.Summary = truncate(strings.TrimSpace(out.Summary), summaryCharLimit)
	if out.Summary == "" {
		out.Summary = defaultSummarySentinel
	}
	if out.KeyMetrics == nil {
		out.KeyMetrics = map[string]any{}
	}

	if len(out.Insights) > maxInsights {
		out.Insights = out.Insights[:maxInsights]
	}
	for i := range out.Insights {
		ins := &out.Insights[i]
		if strings.TrimSpace(ins.AudienceSegment) == "" {
			ins.AudienceSegment = "General"
		}
		if strings.TrimSpace(ins.ProductFocus) == "" {
			ins.ProductFocus = "All"
		}
		if strings.TrimSpace(ins.Region) == "" {
			ins.Region = "All"
		}
		ins.Confidence = clampConfidence(ins.Confidence)
	}

	if len(out.Recommendations) > maxRecommendations {
		out.Recommendations = out.Recommendations[:maxRecommendations]
	}
	for i := range out.Recommendations {
		out.Recommendations[i].Confidence = clampConfidence(out.Recommendations[i].Confidence)
	}

	if len(out.Recommendations) == 0 && len(out.Insights) > 0 {
		out.Recommendations = fallbackRecommendations(out.Insights)
	}

	return out
}

// fallbackRecommendations templates campaign-style ideas from the top
// insights when the model yielded none of its own.
func fallbackRecommendations(insights []contractx.Insight) []contractx.Recommendation {
	n := len(insights)
	if n > maxFallbackRecommends {
		n = maxFallbackRecommends
	}
	recs := make([]contractx.Recommendation, 0, n)
	for _, ins := range insights[:n] {
		recs = append(recs, contractx.Recommendation{
			Idea:       fmt.Sprintf("Target %s with a campaign highlighting %s", ins.AudienceSegment, ins.ProductFocus),
			Confidence: clampConfidence(ins.Confidence),
		})
	}
	return recs
}

func clampConfidence(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

/* ----------------------------- coercion helpers ----------------------------- */

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

// joinIfList flattens a list-valued region into one joined string.
func joinIfList(v any) string {
	items, ok := v.([]any)
	if !ok {
		return asString(v)
	}
	var parts []string
	for _, item := range items {
		if s := asString(item); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// asConfidence coerces any JSON value to a clamped confidence, defaulting to
// 0 on non-numeric input.
func asConfidence(v any) float64 {
	switch n := v.(type) {
	case float64:
		return clampConfidence(n)
	case int:
		return clampConfidence(float64(n))
	case string:
		var parsed float64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%g", &parsed); err == nil {
			return clampConfidence(parsed)
		}
		return 0
	default:
		return 0
	}
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func firstNonEmptyString(values ...any) string {
	for _, v := range values {
		if s, ok := v.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
