package marketer

import (
	"fmt"
	"strings"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
)

const (
	summaryCharLimit    = 600
	summarySentenceCap  = 5
	defaultCampaignName = "New Campaign"
	defaultProduct      = "Generic Product"
	defaultRegion       = "National"
	defaultAudience     = "General Audience"
	defaultConcept      = "Multi-channel engagement campaign"
	defaultBrief        = "Highlight the strongest specialist signals in channel-appropriate creative."
	defaultRationale    = "Derived from the available specialist signals."
)

var (
	defaultChannels = []string{"Email"}
	defaultKPIs     = []string{"CTR", "Conversion Rate"}
)

// repairDecision enforces every FinalDecision invariant after the model call,
// regardless of what the model actually returned. Field priority: the model's
// own value, then a heuristic pick from the specialist outputs, then a
// literal default.
func repairDecision(reply contractx.ModelReply, present map[contractx.AgentName]contractx.AgentOutput) contractx.FinalDecision {
	m, _ := contractx.AsMapping(reply)
	if m == nil {
		m = map[string]any{}
	}

	decision := contractx.FinalDecision{
		ExecutiveSummary: repairSummary(asString(m["executive_summary"]), present),
		KeyFindings:      repairKeyFindings(m["key_findings"], present),
		FinalCampaign:    repairCampaign(asMap(m["final_campaign"]), present),
		SourceAgents:     sourceAgents(present),
		Conflicts:        stringList(m["conflicts"]),
	}
	return decision
}

func sourceAgents(present map[contractx.AgentName]contractx.AgentOutput) []contractx.AgentName {
	agents := make([]contractx.AgentName, 0, len(present))
	for _, name := range contractx.SpecialistOrder {
		if _, ok := present[name]; ok {
			agents = append(agents, name)
		}
	}
	return agents
}

// repairSummary falls back to concatenating the present specialist summaries
// in canonical order when the model omitted its own.
func repairSummary(modelSummary string, present map[contractx.AgentName]contractx.AgentOutput) string {
	summary := strings.TrimSpace(modelSummary)
	if summary == "" {
		var parts []string
		for _, name := range contractx.SpecialistOrder {
			if out, ok := present[name]; ok && strings.TrimSpace(out.Summary) != "" {
				parts = append(parts, strings.TrimSpace(out.Summary))
			}
		}
		summary = strings.Join(parts, " ")
	}
	if summary == "" {
		summary = "No specialist data was available for this request."
	}
	return truncate(capSentences(summary, summarySentenceCap), summaryCharLimit)
}

// repairKeyFindings guarantees exactly the three specialist keys, each a
// non-nil list of strings, with a not-run sentinel for absent agents.
func repairKeyFindings(raw any, present map[contractx.AgentName]contractx.AgentOutput) map[contractx.AgentName][]string {
	model := asMap(raw)

	findings := make(map[contractx.AgentName][]string, len(contractx.SpecialistOrder))
	for _, name := range contractx.SpecialistOrder {
		if list := stringList(model[string(name)]); len(list) > 0 {
			findings[name] = list
			continue
		}
		out, ok := present[name]
		if !ok {
			findings[name] = []string{notRunSentinel}
			continue
		}
		derived := []string{out.Summary}
		for _, ins := range out.Insights {
			if strings.TrimSpace(ins.Signal) != "" {
				derived = append(derived, ins.Signal)
			}
		}
		findings[name] = derived
	}
	return findings
}

func repairCampaign(model map[string]any, present map[contractx.AgentName]contractx.AgentOutput) contractx.FinalCampaign {
	if model == nil {
		model = map[string]any{}
	}

	return contractx.FinalCampaign{
		CampaignName:    pick(asString(model["campaign_name"]), "", defaultCampaignName),
		Product:         pick(asString(model["product"]), productFromSpecialists(present), defaultProduct),
		Region:          pick(asString(model["region"]), regionFromSpecialists(present), defaultRegion),
		AudienceSegment: pick(asString(model["audience_segment"]), audienceFromSpecialists(present), defaultAudience),
		Concept:         pick(asString(model["concept"]), conceptFromSpecialists(present), defaultConcept),
		Channels:        nonEmptyList(channelList(model["channels"]), defaultChannels),
		ContentBrief:    pick(asString(model["content_brief"]), "", defaultBrief),
		KPIs:            nonEmptyList(stringList(model["kpis"]), defaultKPIs),
		Rationale:       pick(asString(model["rationale"]), "", defaultRationale),
	}
}

// productFromSpecialists prefers the purchase agent's top product focus, then
// sentiment's, then campaign's. Sentinel values do not count as data.
func productFromSpecialists(present map[contractx.AgentName]contractx.AgentOutput) string {
	order := []contractx.AgentName{contractx.AgentPurchase, contractx.AgentSentiment, contractx.AgentCampaign}
	for _, name := range order {
		if out, ok := present[name]; ok {
			for _, ins := range out.Insights {
				if ins.ProductFocus != "" && ins.ProductFocus != "All" {
					return ins.ProductFocus
				}
			}
		}
	}
	return ""
}

func regionFromSpecialists(present map[contractx.AgentName]contractx.AgentOutput) string {
	for _, name := range contractx.SpecialistOrder {
		if out, ok := present[name]; ok {
			for _, ins := range out.Insights {
				if ins.Region != "" && ins.Region != "All" {
					return ins.Region
				}
			}
		}
	}
	return ""
}

func audienceFromSpecialists(present map[contractx.AgentName]contractx.AgentOutput) string {
	order := []contractx.AgentName{contractx.AgentPurchase, contractx.AgentSentiment, contractx.AgentCampaign}
	for _, name := range order {
		if out, ok := present[name]; ok {
			for _, ins := range out.Insights {
				if ins.AudienceSegment != "" && ins.AudienceSegment != "General" {
					return ins.AudienceSegment
				}
			}
		}
	}
	return ""
}

// conceptFromSpecialists borrows the strongest recommendation idea, campaign
// agent first since its ideas are already campaign-shaped.
func conceptFromSpecialists(present map[contractx.AgentName]contractx.AgentOutput) string {
	order := []contractx.AgentName{contractx.AgentCampaign, contractx.AgentPurchase, contractx.AgentSentiment}
	for _, name := range order {
		if out, ok := present[name]; ok && len(out.Recommendations) > 0 {
			return out.Recommendations[0].Idea
		}
	}
	return ""
}

/* ----------------------------- value coercion ----------------------------- */

func pick(modelValue, heuristic, fallback string) string {
	if modelValue != "" {
		return modelValue
	}
	if heuristic != "" {
		return heuristic
	}
	return fallback
}

func nonEmptyList(list, fallback []string) []string {
	if len(list) > 0 {
		return list
	}
	return append([]string(nil), fallback...)
}

// stringList coerces a JSON value into a list of non-empty strings, stringifying
// non-string items rather than dropping data.
func stringList(v any) []string {
	switch items := v.(type) {
	case []any:
		var out []string
		for _, item := range items {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if trimmed := strings.TrimSpace(items); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	default:
		return nil
	}
}

// channelList additionally tolerates channel objects like {"name": "Email"}.
func channelList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return stringList(v)
	}
	var out []string
	for _, item := range items {
		switch ch := item.(type) {
		case string:
			if trimmed := strings.TrimSpace(ch); trimmed != "" {
				out = append(out, trimmed)
			}
		case map[string]any:
			for _, key := range []string{"name", "channel", "type"} {
				if s := asString(ch[key]); s != "" {
					out = append(out, s)
					break
				}
			}
		}
	}
	return out
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case map[string]any, []any:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// capSentences truncates text after n sentence terminators.
func capSentences(s string, n int) string {
	count := 0
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count >= n {
				return s[:i+1]
			}
		}
	}
	return s
}
